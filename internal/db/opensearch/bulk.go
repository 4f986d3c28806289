package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"

	"github.com/kailas-cloud/osconnect/internal/db"
)

// Bulk indexes docs through a single-worker bulk indexer. Item rejections are
// reported in BulkStats.Failed; request-level failures are returned as errors.
func (s *Store) Bulk(ctx context.Context, index string, docs []map[string]any) (db.BulkStats, error) {
	if s.closed.Load() {
		return db.BulkStats{}, &db.Error{Op: db.OpBulk, Err: db.ErrClosed}
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		failed   []db.BulkFailure
		flushErr error
	)

	bi, err := opensearchutil.NewBulkIndexer(opensearchutil.BulkIndexerConfig{
		Client:     s.client,
		Index:      index,
		NumWorkers: 1,
		FlushBytes: 5e+6,
		OnError: func(_ context.Context, err error) {
			mu.Lock()
			defer mu.Unlock()
			if flushErr == nil {
				flushErr = err
			}
		},
	})
	if err != nil {
		return db.BulkStats{}, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("create bulk indexer: %w", err)}
	}

	for i, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			_ = bi.Close(ctx)
			return db.BulkStats{}, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("marshal document %d: %w", i, err)}
		}

		pos := i
		err = bi.Add(ctx, opensearchutil.BulkIndexerItem{
			Action: "index",
			Body:   bytes.NewReader(data),
			OnFailure: func(
				_ context.Context,
				_ opensearchutil.BulkIndexerItem,
				res opensearchutil.BulkIndexerResponseItem,
				err error,
			) {
				f := db.BulkFailure{Position: pos, Status: res.Status}
				if err != nil {
					f.Reason = err.Error()
				} else {
					f.Type, f.Reason = res.Error.Type, res.Error.Reason
				}
				mu.Lock()
				failed = append(failed, f)
				mu.Unlock()
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return db.BulkStats{}, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("add document %d: %w", i, err)}
		}
	}

	if err := bi.Close(ctx); err != nil {
		return db.BulkStats{}, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("bulk indexer close: %w", err)}
	}
	if flushErr != nil {
		return db.BulkStats{}, &db.Error{Op: db.OpBulk, Err: flushErr}
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i].Position < failed[j].Position })
	return db.BulkStats{Indexed: bi.Stats().NumIndexed, Failed: failed}, nil
}
