package search

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/kailas-cloud/osconnect/internal/domain/epoch"
	"github.com/kailas-cloud/osconnect/internal/domain/record"
	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
	"github.com/kailas-cloud/osconnect/internal/domain/search/result"
)

// DefaultTimeout bounds one search call.
const DefaultTimeout = 300 * time.Second

// Config controls which fields a result row carries.
type Config struct {
	// Columns are dotted source paths copied into each row, in order.
	Columns []string
	// DateFields are columns rendered as DD-MON-YYYY UTC.
	DateFields []string
	Timeout    time.Duration
}

// DefaultConfig returns the trade-table projection.
func DefaultConfig() Config {
	return Config{
		Columns:    []string{"tradeID", "tradeIdInternal", "primaryAssetClass", "sourceSystemName", "tradeDate"},
		DateFields: []string{"tradeDate"},
		Timeout:    DefaultTimeout,
	}
}

// Service runs paginated searches and shapes rows for the UI table.
type Service struct {
	repo    Repository
	builder *query.Builder
	cfg     Config
}

// New creates a search service. Zero-valued cfg fields take DefaultConfig values.
func New(repo Repository, builder *query.Builder, cfg Config) *Service {
	def := DefaultConfig()
	if len(cfg.Columns) == 0 {
		cfg.Columns = def.Columns
	}
	if cfg.DateFields == nil {
		cfg.DateFields = def.DateFields
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Service{repo: repo, builder: builder, cfg: cfg}
}

// Search returns one page of projected rows for p.
func (s *Service) Search(ctx context.Context, p request.Params) (result.Page, error) {
	q, err := s.builder.Build(p)
	if err != nil {
		return result.Page{}, fmt.Errorf("build query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	hits, err := s.repo.Search(ctx, q)
	if err != nil {
		return result.Page{}, err
	}

	rows := make([]map[string]any, 0, len(hits.Sources))
	for _, src := range hits.Sources {
		rows = append(rows, s.project(src))
	}
	return result.NewPage(hits.Total, rows, p.Page(), p.PageSize()), nil
}

func (s *Service) project(src record.Document) map[string]any {
	row := make(map[string]any, len(s.cfg.Columns))
	for _, col := range s.cfg.Columns {
		v := record.Lookup(src, col)
		if slices.Contains(s.cfg.DateFields, col) && truthy(v) {
			v = epoch.FormatDate(v)
		}
		row[col] = v
	}
	return row
}

// truthy reports whether v is non-empty: zero numbers, empty strings and
// empty containers are not formatted as dates.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
