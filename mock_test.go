package osconnect

import (
	"context"
	"time"

	"github.com/kailas-cloud/osconnect/internal/db"
)

// --- db.Store mock ---

type mockStore struct {
	pingFn        func(ctx context.Context) error
	infoFn        func(ctx context.Context) (map[string]any, error)
	createIndexFn func(ctx context.Context, name string, body any) (map[string]any, error)
	deleteIndexFn func(ctx context.Context, name string) (map[string]any, error)
	indexFn       func(ctx context.Context, index, id string, doc any) (map[string]any, error)
	getFn         func(ctx context.Context, index, id string) (map[string]any, error)
	searchFn      func(ctx context.Context, index string, body any) (map[string]any, error)
	bulkFn        func(ctx context.Context, index string, docs []map[string]any) (db.BulkStats, error)
	closed        int
}

func (m *mockStore) Ping(ctx context.Context) error { return m.pingFn(ctx) }

func (m *mockStore) Info(ctx context.Context) (map[string]any, error) { return m.infoFn(ctx) }

func (m *mockStore) CreateIndex(ctx context.Context, name string, body any) (map[string]any, error) {
	return m.createIndexFn(ctx, name, body)
}

func (m *mockStore) DeleteIndex(ctx context.Context, name string) (map[string]any, error) {
	return m.deleteIndexFn(ctx, name)
}

func (m *mockStore) Index(ctx context.Context, index, id string, doc any) (map[string]any, error) {
	return m.indexFn(ctx, index, id, doc)
}

func (m *mockStore) Get(ctx context.Context, index, id string) (map[string]any, error) {
	return m.getFn(ctx, index, id)
}

func (m *mockStore) Search(ctx context.Context, index string, body any) (map[string]any, error) {
	return m.searchFn(ctx, index, body)
}

func (m *mockStore) Bulk(ctx context.Context, index string, docs []map[string]any) (db.BulkStats, error) {
	return m.bulkFn(ctx, index, docs)
}

func (m *mockStore) Close() { m.closed++ }

func (m *mockStore) WaitForReady(_ context.Context, _ time.Duration) error { return nil }
