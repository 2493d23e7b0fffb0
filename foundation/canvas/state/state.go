// Package state is the core API for the canvas and implements all the
// business rules and processing for the pixel economy.
package state

import (
	"sync"
	"time"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/genesis"
)

// EventHandler defines a function that is called when events
// occur in the processing of lifecycle operations.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the canvas core.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	EvHandler EventHandler

	// Now reports the current time for term stamping and tax accrual.
	// Defaults to time.Now and is injectable for testing.
	Now func() time.Time
}

// State manages the pixel ledger and implements every lifecycle operation.
// A single mutex serializes all mutating operations, which gives each one
// the read-validate-commit atomicity the economy rules assume.
type State struct {
	mu sync.Mutex

	creator   database.AccountID
	custody   database.AccountID
	evHandler EventHandler
	now       func() time.Time

	genesis genesis.Genesis
	db      *database.Database
}

// New constructs the canvas state for ledger management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	creator, err := database.ToAccountID(cfg.Genesis.Creator)
	if err != nil {
		return nil, err
	}

	custody, err := database.ToAccountID(cfg.Genesis.Custody)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	state := State{
		creator:   creator,
		custody:   custody,
		evHandler: ev,
		now:       now,
		genesis:   cfg.Genesis,
		db:        db,
	}

	return &state, nil
}

// Shutdown cleanly brings the canvas down.
func (s *State) Shutdown() error {
	s.db.Close()
	return nil
}

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Custody returns the account holding the escrowed deposits and fees.
func (s *State) Custody() database.AccountID {
	return s.custody
}

// Creator returns the privileged account fixed at genesis.
func (s *State) Creator() database.AccountID {
	return s.creator
}

// timestamp returns the current time as unix seconds for term stamping.
func (s *State) timestamp() uint64 {
	return uint64(s.now().Unix())
}
