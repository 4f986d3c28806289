package osconnect

import (
	"context"
	"io"
	"time"

	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
	searchrepo "github.com/kailas-cloud/osconnect/internal/repository/search"
	exportuc "github.com/kailas-cloud/osconnect/internal/usecase/export"
	healthuc "github.com/kailas-cloud/osconnect/internal/usecase/health"
	searchuc "github.com/kailas-cloud/osconnect/internal/usecase/search"
)

// Filters selects trades the same way the web form does. Region and
// BusinessArea default to "A"; blank optional filters are ignored. A date
// range needs both bounds in YYYY-MM-DD form.
type Filters struct {
	Region       string
	BusinessArea string
	EntityName   string
	DataSource   string
	DateFrom     string
	DateTo       string
}

// Page is one page of projected trade rows.
type Page struct {
	Total      int
	Results    []map[string]any
	Page       int
	PageSize   int
	TotalPages int
}

// HealthStatus represents the aggregated cluster health.
type HealthStatus struct {
	Status string            // "ok", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Trades queries one trade index with the web application's field layout.
type Trades struct {
	client *Client
	search *searchuc.Service
	export *exportuc.Service
}

// Trades returns a query helper bound to index. Search timeouts follow the
// web application (300s per call).
func (c *Client) Trades(index string) *Trades {
	repo := searchrepo.New(c.store, index)
	builder := query.NewBuilder(query.DefaultFields())
	return &Trades{
		client: c,
		search: searchuc.New(repo, builder, searchuc.DefaultConfig()),
		export: exportuc.New(repo, builder, exportuc.Config{}),
	}
}

// Search returns page (1-based) of projected rows. pageSize 0 means 100.
// Bad dates return ErrInvalidDate, other bad input ErrInvalidParams,
// cluster failures ErrQuery.
func (t *Trades) Search(ctx context.Context, f Filters, page, pageSize int) (res Page, err error) {
	start := time.Now()
	defer func() { t.client.obs.observe("trades_search", start, err) }()

	p, err := request.New(request.Filters(f), page, pageSize)
	if err != nil {
		return Page{}, err
	}
	pg, err := t.search.Search(ctx, p)
	if err != nil {
		return Page{}, err
	}
	return Page(pg), nil
}

// ExportCSV writes every matching document, up to 10,000, to w as CSV and
// returns the number of data rows.
func (t *Trades) ExportCSV(ctx context.Context, f Filters, w io.Writer) (n int, err error) {
	start := time.Now()
	defer func() { t.client.obs.observe("trades_export", start, err) }()

	return t.export.Export(ctx, request.Filters(f), w)
}

// Health checks the cluster.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := healthuc.New(c.store).Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
