package ledger

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/ingest"
	"github.com/de-tools/ledger-atlas/pkg/store/snapshot"
)

// Service is the core ingestion and reporting engine. All reports are
// recomputed from the snapshot store on every call; derived views are
// never cached.
type Service interface {
	// Ingest parses the stream and replaces the current snapshot with
	// the result. A parse failure leaves the previous snapshot intact.
	Ingest(ctx context.Context, r io.Reader) error
	AccountReport(ctx context.Context) (domain.AccountBalances, error)
	MalformedReport(ctx context.Context) ([]domain.RawRecord, error)
	CollectionsReport(ctx context.Context) ([]string, error)
	Reset(ctx context.Context) error
}

type service struct {
	store snapshot.Store
}

func NewService(store snapshot.Store) Service {
	return &service{store: store}
}

func (s *service) Ingest(ctx context.Context, r io.Reader) error {
	records, err := ingest.Parse(ctx, r)
	if err != nil {
		return fmt.Errorf("parse upload: %w", err)
	}

	if err := s.store.Replace(ctx, records); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int("records", len(records)).Msg("snapshot replaced")
	return nil
}

func (s *service) AccountReport(ctx context.Context) (domain.AccountBalances, error) {
	records, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	transactions, _ := domain.Partition(records)
	return Aggregate(transactions), nil
}

func (s *service) MalformedReport(ctx context.Context) ([]domain.RawRecord, error) {
	records, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	_, malformed := domain.Partition(records)
	out := make([]domain.RawRecord, len(malformed))
	for i, m := range malformed {
		out[i] = m.Record
	}
	return out, nil
}

func (s *service) CollectionsReport(ctx context.Context) ([]string, error) {
	records, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	transactions, _ := domain.Partition(records)
	return Collections(transactions), nil
}

func (s *service) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	zerolog.Ctx(ctx).Info().Msg("snapshot cleared")
	return nil
}
