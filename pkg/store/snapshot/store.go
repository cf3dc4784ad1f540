package snapshot

import (
	"context"
	"errors"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

// ErrUnavailable is returned when the backing store cannot be reached.
// Callers must not treat it as an empty snapshot.
var ErrUnavailable = errors.New("snapshot store unavailable")

// Store holds the single current batch of raw records. Replace and
// Clear are atomic with respect to Current: a concurrent reader sees
// either the previous batch or the new one in full, never a mix.
type Store interface {
	Replace(ctx context.Context, records []domain.RawRecord) error
	Current(ctx context.Context) ([]domain.RawRecord, error)
	Clear(ctx context.Context) error
}
