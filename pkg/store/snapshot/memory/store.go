package memory

import (
	"context"
	"sync"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/store/snapshot"
)

// Store is an in-process snapshot.Store guarded by a RWMutex. It backs
// the CLI and tests; the web server uses the mongodb store.
type Store struct {
	mu      sync.RWMutex
	records []domain.RawRecord
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Replace(_ context.Context, records []domain.RawRecord) error {
	// Copy so later mutation of the caller's slice cannot tear the
	// stored batch.
	batch := make([]domain.RawRecord, len(records))
	copy(batch, records)

	s.mu.Lock()
	s.records = batch
	s.mu.Unlock()
	return nil
}

func (s *Store) Current(_ context.Context) ([]domain.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.records == nil {
		return []domain.RawRecord{}, nil
	}
	return s.records, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	return nil
}

var _ snapshot.Store = (*Store)(nil)
