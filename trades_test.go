package osconnect

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/osconnect/internal/db"
	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
)

func tradeHits(total int, sources ...map[string]any) map[string]any {
	hits := make([]any, 0, len(sources))
	for _, s := range sources {
		hits = append(hits, map[string]any{"_source": s})
	}
	return map[string]any{
		"hits": map[string]any{
			"total": map[string]any{"value": total, "relation": "eq"},
			"hits":  hits,
		},
	}
}

func TestTrades_Search(t *testing.T) {
	var got query.Query
	store := &mockStore{
		searchFn: func(_ context.Context, index string, body any) (map[string]any, error) {
			if index != "trades" {
				t.Errorf("expected index trades, got %q", index)
			}
			got = body.(query.Query)
			return tradeHits(120, map[string]any{
				"tradeID":   "T-1",
				"tradeDate": 1704067200000,
				"extra":     "dropped",
			}), nil
		},
	}
	c := wireClient(store, "h", nil)

	page, err := c.Trades("trades").Search(context.Background(), Filters{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-01",
	}, 2, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.From != 50 || got.Size != 50 {
		t.Errorf("expected from=50 size=50, got from=%d size=%d", got.From, got.Size)
	}
	if page.Total != 120 || page.TotalPages != 3 || page.Page != 2 {
		t.Errorf("unexpected page %+v", page)
	}
	if len(page.Results) != 1 {
		t.Fatalf("expected 1 row, got %d", len(page.Results))
	}
	row := page.Results[0]
	if row["tradeDate"] != "01-JAN-2024 UTC" {
		t.Errorf("expected formatted date, got %v", row["tradeDate"])
	}
	if row["primaryAssetClass"] != "" {
		t.Errorf("expected empty missing column, got %v", row["primaryAssetClass"])
	}
	if _, ok := row["extra"]; ok {
		t.Error("expected non-projected field dropped")
	}
}

func TestTrades_Search_InvalidDate(t *testing.T) {
	c := wireClient(&mockStore{}, "h", nil)

	_, err := c.Trades("trades").Search(context.Background(), Filters{
		DateFrom: "2024-13-01",
		DateTo:   "2024-01-01",
	}, 1, 0)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestTrades_Search_QueryError(t *testing.T) {
	store := &mockStore{
		searchFn: func(context.Context, string, any) (map[string]any, error) {
			return nil, &db.Error{Op: db.OpSearch, Err: errBoom}
		},
	}
	c := wireClient(store, "h", nil)

	_, err := c.Trades("trades").Search(context.Background(), Filters{}, 1, 0)
	if !errors.Is(err, ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
}

func TestTrades_ExportCSV(t *testing.T) {
	var sizes []int
	store := &mockStore{
		searchFn: func(_ context.Context, _ string, body any) (map[string]any, error) {
			q := body.(query.Query)
			sizes = append(sizes, q.Size)
			if q.Size == 0 {
				return tradeHits(2), nil
			}
			return tradeHits(2,
				map[string]any{"a": map[string]any{"b": 1}},
				map[string]any{"c": "x"},
			), nil
		},
	}
	c := wireClient(store, "h", nil)

	var buf bytes.Buffer
	n, err := c.Trades("trades").ExportCSV(context.Background(), Filters{}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
	if len(sizes) != 2 || sizes[0] != 0 || sizes[1] != 2 {
		t.Errorf("expected count then fetch of 2, got sizes %v", sizes)
	}
	want := "a.b,c\r\n1,\r\n,x\r\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestClient_Health(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
		check  string
	}{
		{"healthy", nil, "ok", "ok"},
		{"unreachable", errBoom, "error", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := wireClient(&mockStore{pingFn: func(context.Context) error { return tt.err }}, "h", nil)

			h := c.Health(context.Background())
			if h.Status != tt.status {
				t.Errorf("expected status %q, got %q", tt.status, h.Status)
			}
			if h.Checks["opensearch"] != tt.check {
				t.Errorf("expected check %q, got %q", tt.check, h.Checks["opensearch"])
			}
		})
	}
}
