package search

import (
	"context"

	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	"github.com/kailas-cloud/osconnect/internal/domain/search/result"
)

// Repository runs built queries against the configured index.
type Repository interface {
	Search(ctx context.Context, q query.Query) (result.Hits, error)
}
