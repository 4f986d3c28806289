package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/osconnect/internal/domain"
	"github.com/kailas-cloud/osconnect/internal/domain/search/query"
	"github.com/kailas-cloud/osconnect/internal/metrics"
)

func testQuery() query.Query {
	return query.Query{
		Query: query.Clause{Bool: query.Bool{Must: []query.Condition{
			{Match: map[string]string{"region": "A"}},
		}}},
		From: 100,
		Size: 50,
	}
}

func TestSearch_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchFn = func(_ context.Context, index string, body any) (map[string]any, error) {
		if index != "trades" {
			t.Errorf("unexpected index: %s", index)
		}
		q, ok := body.(query.Query)
		if !ok {
			t.Fatalf("expected query.Query body, got %T", body)
		}
		if q.From != 100 || q.Size != 50 {
			t.Errorf("unexpected pagination: from=%d size=%d", q.From, q.Size)
		}
		return map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": json.Number("2"), "relation": "eq"},
				"hits": []any{
					map[string]any{"_id": "1", "_source": map[string]any{"tradeID": "T1"}},
					map[string]any{"_id": "2", "_source": map[string]any{"tradeID": "T2"}},
				},
			},
		}, nil
	}

	hits, err := repo.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Total != 2 {
		t.Errorf("expected total 2, got %d", hits.Total)
	}
	if len(hits.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(hits.Sources))
	}
	if hits.Sources[1]["tradeID"] != "T2" {
		t.Errorf("expected T2, got %v", hits.Sources[1]["tradeID"])
	}
}

func TestSearch_TotalShapes(t *testing.T) {
	tests := []struct {
		name  string
		total any
		want  int
	}{
		{"bare integer", json.Number("7"), 7},
		{"object with value", map[string]any{"value": json.Number("12")}, 12},
		{"object without value", map[string]any{"relation": "eq"}, 0},
		{"missing", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, ms := newTestRepo(t)
			ms.searchFn = func(context.Context, string, any) (map[string]any, error) {
				return map[string]any{"hits": map[string]any{"total": tc.total, "hits": []any{}}}, nil
			}
			hits, err := repo.Search(context.Background(), testQuery())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hits.Total != tc.want {
				t.Errorf("expected %d, got %d", tc.want, hits.Total)
			}
		})
	}
}

func TestSearch_MalformedHits(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(context.Context, string, any) (map[string]any, error) {
		return map[string]any{"hits": map[string]any{
			"total": json.Number("3"),
			"hits":  []any{"junk", map[string]any{"_id": "no-source"}, map[string]any{"_source": map[string]any{"a": 1}}},
		}}, nil
	}

	hits, err := repo.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(hits.Sources))
	}
	if len(hits.Sources[0]) != 0 {
		t.Errorf("expected empty source for hit without _source, got %v", hits.Sources[0])
	}
}

func TestSearch_NoHitsSection(t *testing.T) {
	repo, _ := newTestRepo(t)
	hits, err := repo.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Total != 0 || hits.Sources == nil || len(hits.Sources) != 0 {
		t.Errorf("expected empty non-nil hits, got %+v", hits)
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	cause := errors.New("connection reset")
	ms.searchFn = func(context.Context, string, any) (map[string]any, error) {
		return nil, cause
	}

	before := testutil.ToFloat64(metrics.OpenSearchRequestsTotal.WithLabelValues("search", "error"))
	_, err := repo.Search(context.Background(), testQuery())
	if !errors.Is(err, domain.ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause preserved, got %v", err)
	}
	after := testutil.ToFloat64(metrics.OpenSearchRequestsTotal.WithLabelValues("search", "error"))
	if after-before != 1 {
		t.Errorf("expected error counter +1, got %f", after-before)
	}
}

func TestCount_ZeroesPagination(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ string, body any) (map[string]any, error) {
		q := body.(query.Query)
		if q.From != 0 || q.Size != 0 {
			t.Errorf("expected from=0 size=0, got from=%d size=%d", q.From, q.Size)
		}
		return map[string]any{"hits": map[string]any{"total": json.Number("4200")}}, nil
	}

	n, err := repo.Count(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4200 {
		t.Errorf("expected 4200, got %d", n)
	}
}
