// Package disk implements the database.Storage interface by writing each
// pixel record to its own JSON file named after its position.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

// settingsFile holds the global canvas settings next to the pixel files.
const settingsFile = "settings.json"

// Disk represents the storage implementation for reading and storing pixels
// in their own separate files on disk. This implements the database.Storage
// interface.
type Disk struct {
	dbPath string
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a file is written
// for each mutation and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// SetPixel stores the record on disk in a file labeled with the position.
func (d *Disk) SetPixel(pos database.Position, pix database.Pixel) error {

	// Marshal the pixel for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(pix, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(d.getPath(pos), os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// DeletePixel removes the record file for the specified position.
func (d *Disk) DeletePixel(pos database.Position) error {
	if err := os.Remove(d.getPath(pos)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// SetSettings stores the global settings on disk.
func (d *Disk) SetSettings(settings database.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path.Join(d.dbPath, settingsFile), data, 0600)
}

// Settings loads the global settings if a previous run stored them. This
// implements the database.SettingsLoader interface.
func (d *Disk) Settings() (database.Settings, bool, error) {
	data, err := os.ReadFile(path.Join(d.dbPath, settingsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.Settings{}, false, nil
		}
		return database.Settings{}, false, err
	}

	var settings database.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return database.Settings{}, false, err
	}

	return settings, true, nil
}

// ForEach returns an iterator to walk through the pixels on disk.
func (d *Disk) ForEach() database.Iterator {
	entries, err := os.ReadDir(d.dbPath)

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == settingsFile || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}

	return &iterator{disk: d, names: names, err: err}
}

// Reset clears the ledger from disk.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}
	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the file for the specified position.
func (d *Disk) getPath(pos database.Position) string {
	return path.Join(d.dbPath, fmt.Sprintf("%d_%d.json", pos.X, pos.Y))
}

// =============================================================================

// iterator represents the iteration implementation for walking through and
// reading pixel files on disk. This implements the database.Iterator
// interface.
type iterator struct {
	disk    *Disk
	names   []string
	current int
	done    bool
	err     error
}

// Next retrieves the next pixel from disk.
func (it *iterator) Next() (database.Position, database.Pixel, error) {
	if it.err != nil {
		return database.Position{}, database.Pixel{}, it.err
	}

	if it.current >= len(it.names) {
		it.done = true
		return database.Position{}, database.Pixel{}, nil
	}

	name := it.names[it.current]
	it.current++

	var pos database.Position
	if _, err := fmt.Sscanf(strings.TrimSuffix(name, ".json"), "%d_%d", &pos.X, &pos.Y); err != nil {
		return database.Position{}, database.Pixel{}, fmt.Errorf("malformed pixel file %q: %w", name, err)
	}

	data, err := os.ReadFile(path.Join(it.disk.dbPath, name))
	if err != nil {
		return database.Position{}, database.Pixel{}, err
	}

	var pix database.Pixel
	if err := json.Unmarshal(data, &pix); err != nil {
		return database.Position{}, database.Pixel{}, err
	}

	return pos, pix, nil
}

// Done returns the end of ledger value.
func (it *iterator) Done() bool {
	return it.done
}
