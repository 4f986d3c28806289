package db

import (
	"context"
	"time"
)

// Store is the cluster facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	ClusterReader
	IndexManager
	DocumentStore
	Searcher
	BulkWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks cluster connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClusterReader reads cluster metadata.
type ClusterReader interface {
	Info(ctx context.Context) (map[string]any, error)
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, name string, body any) (map[string]any, error)
	DeleteIndex(ctx context.Context, name string) (map[string]any, error)
}

// DocumentStore indexes and fetches single documents.
type DocumentStore interface {
	// Index stores doc under id, or under a server-assigned id when id is empty.
	Index(ctx context.Context, index, id string, doc any) (map[string]any, error)
	Get(ctx context.Context, index, id string) (map[string]any, error)
}

// Searcher runs query DSL searches. Response numbers decode as json.Number.
type Searcher interface {
	Search(ctx context.Context, index string, body any) (map[string]any, error)
}

// BulkWriter indexes many documents through the bulk API.
type BulkWriter interface {
	Bulk(ctx context.Context, index string, docs []map[string]any) (BulkStats, error)
}

// BulkStats summarizes a bulk run.
type BulkStats struct {
	Indexed uint64
	Failed  []BulkFailure
}

// BulkFailure describes one rejected bulk item.
type BulkFailure struct {
	Position int
	Status   int
	Type     string
	Reason   string
}
