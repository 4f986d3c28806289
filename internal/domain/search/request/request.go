package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/osconnect/internal/domain"
)

// Search parameter limits.
const (
	DefaultRegion       = "A"
	DefaultBusinessArea = "A"
	DefaultPageSize     = 100
	// MaxPageSize is the largest from+size window OpenSearch serves without deep pagination.
	MaxPageSize = 10000
)

// Filters holds the raw filter values of a search request.
type Filters struct {
	Region       string
	BusinessArea string
	EntityName   string
	DataSource   string
	DateFrom     string
	DateTo       string
}

// DateRange is an inclusive pair of YYYY-MM-DD days.
type DateRange struct {
	From string
	To   string
}

// Params is a validated search request.
type Params struct {
	region       string
	businessArea string
	entityName   string
	dataSource   string
	dateRange    *DateRange
	page         int
	pageSize     int
}

// New validates and normalizes search parameters.
// Region and business area default to "A". Optional filters are trimmed and
// dropped when blank. A date range needs both bounds; their format is checked
// when the query is built.
func New(f Filters, page, pageSize int) (Params, error) {
	if page < 1 {
		return Params{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidParams, page)
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return Params{}, fmt.Errorf("%w: page_size must be <= %d, got %d", domain.ErrInvalidParams, MaxPageSize, pageSize)
	}

	p := Params{
		region:       orDefault(f.Region, DefaultRegion),
		businessArea: orDefault(f.BusinessArea, DefaultBusinessArea),
		entityName:   strings.TrimSpace(f.EntityName),
		dataSource:   strings.TrimSpace(f.DataSource),
		page:         page,
		pageSize:     pageSize,
	}

	from, to := strings.TrimSpace(f.DateFrom), strings.TrimSpace(f.DateTo)
	switch {
	case from == "" && to == "":
	case from == "" || to == "":
		return Params{}, fmt.Errorf("%w: trade_date_from and trade_date_to must be given together", domain.ErrInvalidParams)
	default:
		p.dateRange = &DateRange{From: from, To: to}
	}

	return p, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// WithPage returns a copy with a different page window.
func (p Params) WithPage(page, pageSize int) Params {
	p.page = page
	p.pageSize = pageSize
	return p
}

// Region returns the region filter.
func (p Params) Region() string { return p.region }

// BusinessArea returns the business area filter.
func (p Params) BusinessArea() string { return p.businessArea }

// EntityName returns the optional entity filter.
func (p Params) EntityName() string { return p.entityName }

// DataSource returns the optional data source filter.
func (p Params) DataSource() string { return p.dataSource }

// DateRange returns the optional trade date range.
func (p Params) DateRange() *DateRange { return p.dateRange }

// Page returns the 1-based page number.
func (p Params) Page() int { return p.page }

// PageSize returns the number of hits per page.
func (p Params) PageSize() int { return p.pageSize }

// Offset returns the zero-based offset of the first hit on the page.
func (p Params) Offset() int { return (p.page - 1) * p.pageSize }
