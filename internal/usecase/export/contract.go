package export

import (
	"context"

	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	"github.com/kailas-cloud/osconnect/internal/domain/search/result"
)

// Repository counts and fetches matching documents.
type Repository interface {
	Count(ctx context.Context, q query.Query) (int, error)
	Search(ctx context.Context, q query.Query) (result.Hits, error)
}
