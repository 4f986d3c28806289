package chi

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
)

// FilterParams are the query parameters shared by /search and /export.
type FilterParams struct {
	Region        *string `form:"region,omitempty" json:"region,omitempty"`
	BusinessArea  *string `form:"business_area,omitempty" json:"business_area,omitempty"`
	EntityName    *string `form:"entity_name,omitempty" json:"entity_name,omitempty"`
	DataSource    *string `form:"data_source,omitempty" json:"data_source,omitempty"`
	TradeDateFrom *string `form:"trade_date_from,omitempty" json:"trade_date_from,omitempty"`
	TradeDateTo   *string `form:"trade_date_to,omitempty" json:"trade_date_to,omitempty"`
}

// SearchParams defines parameters for GET /search.
type SearchParams struct {
	FilterParams
	Page     *int `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int `form:"page_size,omitempty" json:"page_size,omitempty"`
}

// ExportParams defines parameters for GET /export.
type ExportParams struct {
	FilterParams
}

// InvalidParamFormatError reports a query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

func bindFilterParams(r *http.Request) (FilterParams, error) {
	var p FilterParams
	q := r.URL.Query()

	bindings := []struct {
		name string
		dest **string
	}{
		{"region", &p.Region},
		{"business_area", &p.BusinessArea},
		{"entity_name", &p.EntityName},
		{"data_source", &p.DataSource},
		{"trade_date_from", &p.TradeDateFrom},
		{"trade_date_to", &p.TradeDateTo},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return FilterParams{}, &InvalidParamFormatError{ParamName: b.name, Err: err}
		}
	}
	return p, nil
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	fp, err := bindFilterParams(r)
	if err != nil {
		return SearchParams{}, err
	}
	p := SearchParams{FilterParams: fp}
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "page", q, &p.Page); err != nil {
		return SearchParams{}, &InvalidParamFormatError{ParamName: "page", Err: err}
	}
	if err := runtime.BindQueryParameter("form", true, false, "page_size", q, &p.PageSize); err != nil {
		return SearchParams{}, &InvalidParamFormatError{ParamName: "page_size", Err: err}
	}
	return p, nil
}

func bindExportParams(r *http.Request) (ExportParams, error) {
	fp, err := bindFilterParams(r)
	if err != nil {
		return ExportParams{}, err
	}
	return ExportParams{FilterParams: fp}, nil
}

func (p FilterParams) filters() request.Filters {
	return request.Filters{
		Region:       deref(p.Region),
		BusinessArea: deref(p.BusinessArea),
		EntityName:   deref(p.EntityName),
		DataSource:   deref(p.DataSource),
		DateFrom:     deref(p.TradeDateFrom),
		DateTo:       deref(p.TradeDateTo),
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
