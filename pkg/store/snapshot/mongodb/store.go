package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	storemodels "github.com/de-tools/ledger-atlas/pkg/models/store"
	"github.com/de-tools/ledger-atlas/pkg/store/snapshot"
)

const (
	SnapshotCollection = "snapshots"

	// snapshotID is the fixed key the current batch lives under. A
	// single document keeps Replace atomic for concurrent readers.
	snapshotID = "current"
)

// Collection is the slice of *mongo.Collection the store needs. Tests
// substitute a fake.
type Collection interface {
	ReplaceOne(
		ctx context.Context,
		filter interface{},
		replacement interface{},
		opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	FindOne(
		ctx context.Context,
		filter interface{},
		opts ...*options.FindOneOptions) *mongo.SingleResult
	DeleteOne(
		ctx context.Context,
		filter interface{},
		opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// Store implements snapshot.Store on a MongoDB collection holding one
// document. Absence of the document is an empty snapshot.
type Store struct {
	collection Collection
	now        func() time.Time
}

func NewStore(collection Collection) (*Store, error) {
	if collection == nil {
		return nil, fmt.Errorf("collection is nil")
	}
	return &Store{collection: collection, now: time.Now}, nil
}

func (s *Store) Replace(ctx context.Context, records []domain.RawRecord) error {
	doc := storemodels.Snapshot{
		ID:        snapshotID,
		Records:   toStoreRecords(records),
		UpdatedAt: s.now(),
	}

	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"_id": snapshotID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: replace snapshot: %v", snapshot.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Current(ctx context.Context) ([]domain.RawRecord, error) {
	var doc storemodels.Snapshot
	err := s.collection.FindOne(ctx, bson.M{"_id": snapshotID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []domain.RawRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot: %v", snapshot.ErrUnavailable, err)
	}
	return toDomainRecords(doc.Records), nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": snapshotID})
	if err != nil {
		return fmt.Errorf("%w: clear snapshot: %v", snapshot.ErrUnavailable, err)
	}
	return nil
}

func toStoreRecords(records []domain.RawRecord) []map[string]string {
	out := make([]map[string]string, len(records))
	for i, rec := range records {
		out[i] = rec
	}
	return out
}

func toDomainRecords(records []map[string]string) []domain.RawRecord {
	out := make([]domain.RawRecord, len(records))
	for i, rec := range records {
		out[i] = rec
	}
	return out
}

// Connect establishes and pings a MongoDB connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("uri", uri).Msg("connecting to MongoDB")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info().Msg("connected to MongoDB")
	return client, nil
}

var _ snapshot.Store = (*Store)(nil)
