package store

import "time"

// Snapshot is the persisted form of the current transaction set: one
// document under a fixed id, replaced wholesale on each upload.
type Snapshot struct {
	ID        string              `bson:"_id"`
	Records   []map[string]string `bson:"records"`
	UpdatedAt time.Time           `bson:"updated_at"`
}
