package search

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/osconnect/internal/domain"
	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	"github.com/kailas-cloud/osconnect/internal/domain/search/result"
	"github.com/kailas-cloud/osconnect/internal/metrics"
)

const (
	opSearch = "search"
	opCount  = "count"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, index string, body any) (map[string]any, error)
}

// Repo implements usecase/search.Repository and usecase/export.Repository
// against a single index.
type Repo struct {
	store store
	index string
}

// New creates a search repository for index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Index returns the index name the repository queries.
func (r *Repo) Index() string { return r.index }

// Search runs q and returns the total hit count and the _source of each hit.
func (r *Repo) Search(ctx context.Context, q query.Query) (result.Hits, error) {
	resp, err := r.do(ctx, opSearch, q)
	if err != nil {
		return result.Hits{}, err
	}
	hits := parseHits(resp)
	metrics.OpenSearchHitsTotal.WithLabelValues(opSearch).Add(float64(len(hits.Sources)))
	return hits, nil
}

// Count returns the number of documents matching q, ignoring its pagination.
func (r *Repo) Count(ctx context.Context, q query.Query) (int, error) {
	q.From, q.Size = 0, 0
	resp, err := r.do(ctx, opCount, q)
	if err != nil {
		return 0, err
	}
	return parseHits(resp).Total, nil
}

func (r *Repo) do(ctx context.Context, op string, q query.Query) (map[string]any, error) {
	start := time.Now()
	resp, err := r.store.Search(ctx, r.index, q)
	metrics.OpenSearchRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.OpenSearchRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrQuery, op, r.index, err)
	}
	metrics.OpenSearchRequestsTotal.WithLabelValues(op, "ok").Inc()
	return resp, nil
}

// parseHits extracts hits.total and hits.hits[]._source. Malformed sections
// yield zero values rather than errors.
func parseHits(resp map[string]any) result.Hits {
	section, _ := resp["hits"].(map[string]any)
	if section == nil {
		return result.Hits{Sources: []map[string]any{}}
	}

	raw, _ := section["hits"].([]any)
	sources := make([]map[string]any, 0, len(raw))
	for _, h := range raw {
		hit, ok := h.(map[string]any)
		if !ok {
			continue
		}
		src, _ := hit["_source"].(map[string]any)
		if src == nil {
			src = map[string]any{}
		}
		sources = append(sources, src)
	}

	return result.Hits{Total: result.TotalHits(section["total"]), Sources: sources}
}
