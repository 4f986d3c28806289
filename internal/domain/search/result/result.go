package result

import (
	"encoding/json"
	"math"
)

// Hits is the decoded hits section of a search response.
type Hits struct {
	Total   int
	Sources []map[string]any
}

// Page is one page of search results.
type Page struct {
	Total      int              `json:"total"`
	Results    []map[string]any `json:"results"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// NewPage computes the page count from total and pageSize.
func NewPage(total int, results []map[string]any, page, pageSize int) Page {
	if results == nil {
		results = []map[string]any{}
	}
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return Page{
		Total:      total,
		Results:    results,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}

// TotalHits reads hits.total, which is a bare integer on older clusters and an
// object {"value": n, "relation": "eq"} on newer ones. Anything else is 0.
func TotalHits(raw any) int {
	switch t := raw.(type) {
	case map[string]any:
		v, ok := t["value"]
		if !ok {
			return 0
		}
		return TotalHits(v)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return 0
			}
			return int(f)
		}
		return int(n)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	default:
		return 0
	}
}
