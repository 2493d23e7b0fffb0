// Package database handles the lower level support for maintaining the pixel
// ledger: an in memory map of position to ownership record that is mirrored
// to durable storage on every mutation, plus the global canvas settings.
package database

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/canvas/foundation/canvas/genesis"
)

// Storage interface represents the behavior required to be implemented by
// any package providing support for durably storing the pixel ledger.
type Storage interface {
	SetPixel(pos Position, pix Pixel) error
	DeletePixel(pos Position) error
	SetSettings(settings Settings) error
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the stored pixels.
type Iterator interface {
	Next() (Position, Pixel, error)
	Done() bool
}

// =============================================================================

// Database manages the pixel records and global settings for the canvas.
// All access runs through the state layer which serializes operations, but
// reads can arrive concurrently from the web layer so the maps are guarded.
type Database struct {
	mu sync.RWMutex

	genesis  genesis.Genesis
	settings Settings
	pixels   map[Position]Pixel

	storage Storage
}

// New constructs a new database, applies the genesis parameters and loads
// any previously stored pixels from the storage backend.
func New(genesis genesis.Genesis, storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis: genesis,
		settings: Settings{
			MintFee:   genesis.MintFee,
			TaxPerDay: genesis.TaxPerDay,
		},
		pixels:  make(map[Position]Pixel),
		storage: storage,
	}

	iter := storage.ForEach()
	for {
		pos, pix, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if iter.Done() {
			break
		}
		db.pixels[pos] = pix
		evHandler("database: loaded pixel %s owner[%s]", pos, pix.Owner)
	}

	// The settings stored by the backend win over genesis defaults when
	// they exist, so fee changes survive a restart.
	settings, exists, err := loadSettings(storage)
	if err != nil {
		return nil, err
	}
	if exists {
		db.settings = settings
	}

	// The pixel map is the source of truth for the minted count. Capacity
	// can never be observed below the count of live records.
	db.settings.TotalPixels = uint64(len(db.pixels))
	if db.settings.MaxPixels < db.settings.TotalPixels {
		db.settings.MaxPixels = db.settings.TotalPixels
	}

	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() {
	db.storage.Close()
}

// Reset clears the ledger both in memory and in storage and restores the
// genesis settings.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Reset(); err != nil {
		return err
	}

	db.pixels = make(map[Position]Pixel)
	db.settings = Settings{
		MintFee:   db.genesis.MintFee,
		TaxPerDay: db.genesis.TaxPerDay,
	}

	return nil
}

// =============================================================================
// Pixel ledger

// Exists reports whether a record is stored for the specified position.
func (db *Database) Exists(pos Position) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, exists := db.pixels[pos]
	return exists
}

// Query returns the record for the specified position and whether one exists.
func (db *Database) Query(pos Position) (Pixel, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	pix, exists := db.pixels[pos]
	return pix, exists
}

// Upsert writes the record for the specified position to storage first and
// then to the in memory ledger so a storage failure leaves no partial effect.
func (db *Database) Upsert(pos Position, pix Pixel) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.SetPixel(pos, pix); err != nil {
		return fmt.Errorf("storing pixel %s: %w", pos, err)
	}
	db.pixels[pos] = pix

	return nil
}

// UpsertWithSettings writes the record and the settings as one unit. If the
// settings write fails the pixel write is undone, so a storage fault cannot
// leave the minted count out of step with the records.
func (db *Database) UpsertWithSettings(pos Position, pix Pixel, settings Settings) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.SetPixel(pos, pix); err != nil {
		return fmt.Errorf("storing pixel %s: %w", pos, err)
	}

	if err := db.storage.SetSettings(settings); err != nil {
		if prior, exists := db.pixels[pos]; exists {
			db.storage.SetPixel(pos, prior)
		} else {
			db.storage.DeletePixel(pos)
		}
		return fmt.Errorf("storing settings: %w", err)
	}

	db.pixels[pos] = pix
	db.settings = settings

	return nil
}

// Remove deletes the record for the specified position.
func (db *Database) Remove(pos Position) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.DeletePixel(pos); err != nil {
		return fmt.Errorf("deleting pixel %s: %w", pos, err)
	}
	delete(db.pixels, pos)

	return nil
}

// RemoveWithSettings deletes the record and writes the settings as one unit.
// If the settings write fails the deleted record is written back, so a
// storage fault cannot leave the minted count out of step with the records.
func (db *Database) RemoveWithSettings(pos Position, settings Settings) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	prior, exists := db.pixels[pos]

	if err := db.storage.DeletePixel(pos); err != nil {
		return fmt.Errorf("deleting pixel %s: %w", pos, err)
	}

	if err := db.storage.SetSettings(settings); err != nil {
		if exists {
			db.storage.SetPixel(pos, prior)
		}
		return fmt.Errorf("storing settings: %w", err)
	}

	delete(db.pixels, pos)
	db.settings = settings

	return nil
}

// CopyPixels makes a copy of the current ledger.
func (db *Database) CopyPixels() map[Position]Pixel {
	db.mu.RLock()
	defer db.mu.RUnlock()

	pixels := make(map[Position]Pixel, len(db.pixels))
	for pos, pix := range db.pixels {
		pixels[pos] = pix
	}
	return pixels
}

// =============================================================================
// Settings

// QuerySettings returns a copy of the current global settings.
func (db *Database) QuerySettings() Settings {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.settings
}

// UpdateSettings replaces the global settings, writing storage first.
func (db *Database) UpdateSettings(settings Settings) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.SetSettings(settings); err != nil {
		return fmt.Errorf("storing settings: %w", err)
	}
	db.settings = settings

	return nil
}

// =============================================================================

// SettingsLoader is implemented by storage backends that persist the global
// settings between runs. The memory backend doesn't, so it is optional.
type SettingsLoader interface {
	Settings() (Settings, bool, error)
}

func loadSettings(storage Storage) (Settings, bool, error) {
	loader, ok := storage.(SettingsLoader)
	if !ok {
		return Settings{}, false, nil
	}
	return loader.Settings()
}
