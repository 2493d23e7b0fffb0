// Package memory implements the database.Storage interface with no
// durability. Used by tests and for running a throwaway canvas.
package memory

import (
	"sync"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

// Memory represents the storage implementation for keeping the pixel ledger
// only in memory. This implements the database.Storage interface.
type Memory struct {
	mu     sync.RWMutex
	pixels map[database.Position]database.Pixel
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{
		pixels: make(map[database.Position]database.Pixel),
	}
}

// SetPixel stores the record for the specified position.
func (mem *Memory) SetPixel(pos database.Position, pix database.Pixel) error {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	mem.pixels[pos] = pix
	return nil
}

// DeletePixel removes the record for the specified position.
func (mem *Memory) DeletePixel(pos database.Position) error {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	delete(mem.pixels, pos)
	return nil
}

// SetSettings in this implementation has nothing durable to do.
func (mem *Memory) SetSettings(settings database.Settings) error {
	return nil
}

// ForEach returns an iterator to walk through the stored pixels.
func (mem *Memory) ForEach() database.Iterator {
	mem.mu.RLock()
	defer mem.mu.RUnlock()

	entries := make([]entry, 0, len(mem.pixels))
	for pos, pix := range mem.pixels {
		entries = append(entries, entry{pos, pix})
	}

	return &iterator{entries: entries}
}

// Close in this implementation has nothing to do.
func (mem *Memory) Close() error {
	return nil
}

// Reset clears the stored pixels.
func (mem *Memory) Reset() error {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	mem.pixels = make(map[database.Position]database.Pixel)
	return nil
}

// =============================================================================

type entry struct {
	pos database.Position
	pix database.Pixel
}

// iterator represents the iteration implementation for walking through the
// in memory pixels. This implements the database.Iterator interface.
type iterator struct {
	entries []entry
	current int
	done    bool
}

// Next retrieves the next stored pixel.
func (it *iterator) Next() (database.Position, database.Pixel, error) {
	if it.current >= len(it.entries) {
		it.done = true
		return database.Position{}, database.Pixel{}, nil
	}

	entry := it.entries[it.current]
	it.current++

	return entry.pos, entry.pix, nil
}

// Done returns the end of ledger value.
func (it *iterator) Done() bool {
	return it.done
}
