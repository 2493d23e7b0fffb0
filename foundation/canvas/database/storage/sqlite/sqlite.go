// Package sqlite implements the database.Storage interface on a local
// SQLite file using the pure Go driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

// SQLite represents the storage implementation for keeping the pixel ledger
// in a SQLite file. This implements the database.Storage interface.
type SQLite struct {
	db *sql.DB
}

// New opens or creates the SQLite file at the specified path.
func New(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL keeps single writer mutations cheap. NORMAL is a reasonable
	// durability/perf tradeoff for a ledger that is mirrored in memory.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS pixels (
			x             INTEGER NOT NULL,
			y             INTEGER NOT NULL,
			owner         TEXT    NOT NULL,
			color_r       INTEGER NOT NULL,
			color_g       INTEGER NOT NULL,
			color_b       INTEGER NOT NULL,
			term_begin_at INTEGER NOT NULL,
			term_days     INTEGER NOT NULL,
			price         INTEGER NOT NULL,
			deposit       INTEGER NOT NULL,
			PRIMARY KEY (x, y)
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			id            INTEGER PRIMARY KEY CHECK (id = 1),
			mint_fee      INTEGER NOT NULL,
			tax_per_day   INTEGER NOT NULL,
			total_pixels  INTEGER NOT NULL,
			max_pixels    INTEGER NOT NULL
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// SetPixel stores the record for the specified position.
func (s *SQLite) SetPixel(pos database.Position, pix database.Pixel) error {
	const q = `INSERT INTO pixels (x, y, owner, color_r, color_g, color_b, term_begin_at, term_days, price, deposit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (x, y) DO UPDATE SET
			owner = excluded.owner,
			color_r = excluded.color_r,
			color_g = excluded.color_g,
			color_b = excluded.color_b,
			term_begin_at = excluded.term_begin_at,
			term_days = excluded.term_days,
			price = excluded.price,
			deposit = excluded.deposit;`

	_, err := s.db.Exec(q, pos.X, pos.Y, string(pix.Owner), pix.Color.R, pix.Color.G, pix.Color.B,
		int64(pix.TermBeginAt), pix.TermDays, int64(pix.Price), int64(pix.Deposit))
	return err
}

// DeletePixel removes the record for the specified position.
func (s *SQLite) DeletePixel(pos database.Position) error {
	_, err := s.db.Exec(`DELETE FROM pixels WHERE x = ? AND y = ?;`, pos.X, pos.Y)
	return err
}

// SetSettings stores the global settings.
func (s *SQLite) SetSettings(settings database.Settings) error {
	const q = `INSERT INTO settings (id, mint_fee, tax_per_day, total_pixels, max_pixels)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			mint_fee = excluded.mint_fee,
			tax_per_day = excluded.tax_per_day,
			total_pixels = excluded.total_pixels,
			max_pixels = excluded.max_pixels;`

	_, err := s.db.Exec(q, int64(settings.MintFee), int64(settings.TaxPerDay),
		int64(settings.TotalPixels), int64(settings.MaxPixels))
	return err
}

// Settings loads the global settings if a previous run stored them. This
// implements the database.SettingsLoader interface.
func (s *SQLite) Settings() (database.Settings, bool, error) {
	const q = `SELECT mint_fee, tax_per_day, total_pixels, max_pixels FROM settings WHERE id = 1;`

	var settings database.Settings
	err := s.db.QueryRow(q).Scan(&settings.MintFee, &settings.TaxPerDay, &settings.TotalPixels, &settings.MaxPixels)
	switch {
	case err == sql.ErrNoRows:
		return database.Settings{}, false, nil
	case err != nil:
		return database.Settings{}, false, err
	}

	return settings, true, nil
}

// ForEach returns an iterator to walk through the stored pixels.
func (s *SQLite) ForEach() database.Iterator {
	const q = `SELECT x, y, owner, color_r, color_g, color_b, term_begin_at, term_days, price, deposit FROM pixels;`

	rows, err := s.db.Query(q)
	return &iterator{rows: rows, err: err}
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Reset clears the stored ledger.
func (s *SQLite) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM pixels;`); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM settings;`)
	return err
}

// =============================================================================

// iterator represents the iteration implementation for walking through the
// pixel rows. This implements the database.Iterator interface.
type iterator struct {
	rows *sql.Rows
	err  error
	done bool
}

// Next retrieves the next stored pixel. The rows handle is released on
// exhaustion and on every error path, since callers stop consuming the
// iterator as soon as it reports an error.
func (it *iterator) Next() (database.Position, database.Pixel, error) {
	if it.err != nil {
		return database.Position{}, database.Pixel{}, it.err
	}

	if !it.rows.Next() {
		it.done = true
		if err := it.rows.Err(); err != nil {
			it.rows.Close()
			return database.Position{}, database.Pixel{}, err
		}
		return database.Position{}, database.Pixel{}, it.rows.Close()
	}

	var pos database.Position
	var pix database.Pixel
	var owner string
	if err := it.rows.Scan(&pos.X, &pos.Y, &owner, &pix.Color.R, &pix.Color.G, &pix.Color.B,
		&pix.TermBeginAt, &pix.TermDays, &pix.Price, &pix.Deposit); err != nil {
		it.rows.Close()
		return database.Position{}, database.Pixel{}, err
	}
	pix.Owner = database.AccountID(owner)

	return pos, pix, nil
}

// Done returns the end of ledger value.
func (it *iterator) Done() bool {
	return it.done
}
