package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/osconnect/internal/domain/record"
	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
	"github.com/kailas-cloud/osconnect/internal/metrics"
)

const (
	// DefaultMaxRecords is the largest result window OpenSearch serves by default.
	DefaultMaxRecords = request.MaxPageSize
	// DefaultTimeout bounds each of the two search calls of an export.
	DefaultTimeout = 300 * time.Second
)

// Config controls export size.
type Config struct {
	MaxRecords int
	Timeout    time.Duration
}

// Service fetches full documents for a filter set and writes them as CSV.
type Service struct {
	repo    Repository
	builder *query.Builder
	cfg     Config
}

// New creates an export service. MaxRecords is clamped to (0, DefaultMaxRecords].
func New(repo Repository, builder *query.Builder, cfg Config) *Service {
	if cfg.MaxRecords <= 0 || cfg.MaxRecords > DefaultMaxRecords {
		cfg.MaxRecords = DefaultMaxRecords
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Service{repo: repo, builder: builder, cfg: cfg}
}

// MaxRecords returns the effective export cap.
func (s *Service) MaxRecords() int { return s.cfg.MaxRecords }

// Records counts matches, then fetches min(total, MaxRecords) documents and
// flattens each into dotted keys.
func (s *Service) Records(ctx context.Context, f request.Filters) ([]map[string]any, error) {
	p, err := request.New(f, 1, 1)
	if err != nil {
		return nil, err
	}
	q, err := s.builder.Build(p)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	total, err := s.count(ctx, q)
	if err != nil {
		return nil, err
	}
	n := min(total, s.cfg.MaxRecords)
	if n <= 0 {
		return []map[string]any{}, nil
	}

	q, err = s.builder.Build(p.WithPage(1, n))
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	hits, err := s.repo.Search(searchCtx, q)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(hits.Sources))
	for _, src := range hits.Sources {
		rows = append(rows, record.Flatten(src))
	}
	return rows, nil
}

func (s *Service) count(ctx context.Context, q query.Query) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.repo.Count(ctx, q)
}

// Export writes the CSV for f to w and returns the number of data rows.
func (s *Service) Export(ctx context.Context, f request.Filters, w io.Writer) (int, error) {
	rows, err := s.Records(ctx, f)
	if err != nil {
		return 0, err
	}
	if err := WriteCSV(w, rows); err != nil {
		return 0, err
	}
	metrics.ExportRecordsTotal.Add(float64(len(rows)))
	return len(rows), nil
}

// WriteCSV writes rows under a header of their sorted key union. Missing
// cells are empty. Nothing is written for zero rows.
func WriteCSV(w io.Writer, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}

	header := record.Keys(rows)
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	line := make([]string, len(header))
	for i, row := range rows {
		for j, k := range header {
			line[j] = record.Cell(row[k])
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
