// Package query builds OpenSearch bool-must query documents from search parameters.
package query

import (
	"github.com/kailas-cloud/osconnect/internal/domain/epoch"
	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
)

// Fields maps search filters to document field names.
type Fields struct {
	Region       string `yaml:"region"`
	BusinessArea string `yaml:"business_area"`
	EntityName   string `yaml:"entity_name"`
	DataSource   string `yaml:"data_source"`
	Date         string `yaml:"date"`
}

// DefaultFields returns the field names of the trade index.
func DefaultFields() Fields {
	return Fields{
		Region:       "region",
		BusinessArea: "business_area",
		EntityName:   "entity_name",
		DataSource:   "data_source",
		Date:         "tradeDate",
	}
}

// Query is the request body of a _search call.
type Query struct {
	Query Clause `json:"query"`
	From  int    `json:"from"`
	Size  int    `json:"size"`
}

// Clause is the top-level query clause.
type Clause struct {
	Bool Bool `json:"bool"`
}

// Bool holds conditions that must all match.
type Bool struct {
	Must []Condition `json:"must"`
}

// Condition is either a match or a range clause.
type Condition struct {
	Match map[string]string `json:"match,omitempty"`
	Range map[string]Bounds `json:"range,omitempty"`
}

// Bounds is an inclusive epoch-millisecond range.
type Bounds struct {
	GTE int64 `json:"gte"`
	LTE int64 `json:"lte"`
}

// Builder converts validated parameters to query documents.
type Builder struct {
	fields Fields
}

// NewBuilder creates a Builder. Empty field names fall back to DefaultFields.
func NewBuilder(f Fields) *Builder {
	def := DefaultFields()
	if f.Region == "" {
		f.Region = def.Region
	}
	if f.BusinessArea == "" {
		f.BusinessArea = def.BusinessArea
	}
	if f.EntityName == "" {
		f.EntityName = def.EntityName
	}
	if f.DataSource == "" {
		f.DataSource = def.DataSource
	}
	if f.Date == "" {
		f.Date = def.Date
	}
	return &Builder{fields: f}
}

// Build returns the query for p. It fails with domain.ErrInvalidDate when a
// date bound is not YYYY-MM-DD.
func (b *Builder) Build(p request.Params) (Query, error) {
	must := []Condition{
		match(b.fields.Region, p.Region()),
		match(b.fields.BusinessArea, p.BusinessArea()),
	}
	if p.EntityName() != "" {
		must = append(must, match(b.fields.EntityName, p.EntityName()))
	}
	if p.DataSource() != "" {
		must = append(must, match(b.fields.DataSource, p.DataSource()))
	}

	if dr := p.DateRange(); dr != nil {
		from, err := epoch.DayStart(dr.From)
		if err != nil {
			return Query{}, err
		}
		to, err := epoch.DayEnd(dr.To)
		if err != nil {
			return Query{}, err
		}
		must = append(must, Condition{
			Range: map[string]Bounds{b.fields.Date: {GTE: from, LTE: to}},
		})
	}

	return Query{
		Query: Clause{Bool: Bool{Must: must}},
		From:  p.Offset(),
		Size:  p.PageSize(),
	}, nil
}

func match(field, value string) Condition {
	return Condition{Match: map[string]string{field: value}}
}
