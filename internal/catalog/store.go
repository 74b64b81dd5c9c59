package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"nexus/internal/logging"

	"golang.org/x/sync/singleflight"
)

// ErrLoadFailure marks a catalog that could not be retrieved or parsed.
var ErrLoadFailure = errors.New("catalog load failed")

// Status is the lifecycle of the catalog load.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Store holds the loaded game collection and the load status.
// It is safe for concurrent use; the UI reads it while a load command runs.
type Store struct {
	src Source

	mu       sync.RWMutex
	games    []Game
	status   Status
	revision uint64

	group singleflight.Group
}

// NewStore creates an empty store reading from src.
func NewStore(src Source) *Store {
	return &Store{src: src}
}

// NewStoreWithGames creates a ready store holding games, with no source.
func NewStoreWithGames(games []Game) *Store {
	return &Store{
		games:    slices.Clone(games),
		status:   StatusReady,
		revision: 1,
	}
}

// Load retrieves and decodes the catalog once. On success the collection is replaced.
// On failure the previous collection is kept, the failure is logged, and an error
// wrapping ErrLoadFailure is returned. Concurrent callers share one retrieval.
// A result arriving after ctx is done is discarded.
func (s *Store) Load(ctx context.Context) error {
	_, err, _ := s.group.Do("load", func() (interface{}, error) {
		return nil, s.load(ctx)
	})
	return err
}

func (s *Store) load(ctx context.Context) error {
	log := logging.Get(logging.CategoryCatalog)

	s.mu.Lock()
	s.status = StatusLoading
	s.mu.Unlock()

	if s.src == nil {
		return s.fail(fmt.Errorf("%w: no catalog source configured", ErrLoadFailure))
	}

	log.Info("Loading catalog from %s", s.src.Location())
	data, err := s.src.Fetch(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Debug("Discarding catalog result: %v", ctxErr)
		return s.fail(fmt.Errorf("%w: %v", ErrLoadFailure, ctxErr))
	}
	if err != nil {
		return s.fail(fmt.Errorf("%w: %v", ErrLoadFailure, err))
	}

	games, rejected, err := Decode(data)
	if err != nil {
		return s.fail(fmt.Errorf("%w: %v", ErrLoadFailure, err))
	}
	for _, r := range rejected {
		log.Warn("Skipping catalog record #%d (id=%q): %s", r.Index, r.ID, r.Reason)
	}

	s.mu.Lock()
	s.games = games
	s.status = StatusReady
	s.revision++
	s.mu.Unlock()

	log.Info("Catalog ready: %d games (%d skipped)", len(games), len(rejected))
	return nil
}

func (s *Store) fail(err error) error {
	logging.Get(logging.CategoryCatalog).Error("Error loading game database: %v", err)
	s.mu.Lock()
	s.status = StatusFailed
	s.mu.Unlock()
	return err
}

// Games returns a copy of the collection in load order.
func (s *Store) Games() []Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.games)
}

// Status returns the current lifecycle state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	return s.Status() == StatusLoading
}

// Pending reports whether the catalog has not settled yet (never loaded or loading).
func (s *Store) Pending() bool {
	st := s.Status()
	return st == StatusUninitialized || st == StatusLoading
}

// Revision increments on every successful replace of the collection.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Location describes where the catalog is read from.
func (s *Store) Location() string {
	if s.src == nil {
		return ""
	}
	return s.src.Location()
}
