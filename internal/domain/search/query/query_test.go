package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/osconnect/internal/domain"
	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
)

func mustParams(t *testing.T, f request.Filters, page, size int) request.Params {
	t.Helper()
	p, err := request.New(f, page, size)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return p
}

func TestBuild_RequiredFiltersOnly(t *testing.T) {
	b := NewBuilder(Fields{})
	q, err := b.Build(mustParams(t, request.Filters{Region: "E", BusinessArea: "O"}, 1, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := json.Marshal(q)
	want := `{"query":{"bool":{"must":[{"match":{"region":"E"}},{"match":{"business_area":"O"}}]}},"from":0,"size":100}`
	if string(got) != want {
		t.Errorf("query mismatch:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestBuild_AllFilters(t *testing.T) {
	b := NewBuilder(DefaultFields())
	p := mustParams(t, request.Filters{
		Region:       "A",
		BusinessArea: "E",
		EntityName:   "ACME",
		DataSource:   "U",
		DateFrom:     "2024-01-01",
		DateTo:       "2024-01-01",
	}, 3, 50)

	q, err := b.Build(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Query.Bool.Must) != 5 {
		t.Fatalf("must clauses = %d, want 5", len(q.Query.Bool.Must))
	}
	if q.From != 100 || q.Size != 50 {
		t.Errorf("from/size = %d/%d, want 100/50", q.From, q.Size)
	}

	rng := q.Query.Bool.Must[4].Range["tradeDate"]
	if rng.GTE != 1704067200000 || rng.LTE != 1704153599999 {
		t.Errorf("range = [%d, %d], want [1704067200000, 1704153599999]", rng.GTE, rng.LTE)
	}
	if q.Query.Bool.Must[2].Match["entity_name"] != "ACME" {
		t.Errorf("entity clause = %+v", q.Query.Bool.Must[2])
	}
	if q.Query.Bool.Must[3].Match["data_source"] != "U" {
		t.Errorf("data source clause = %+v", q.Query.Bool.Must[3])
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder(DefaultFields())
	f := request.Filters{Region: "I", BusinessArea: "U", EntityName: "X", DateFrom: "2023-05-01", DateTo: "2023-05-31"}

	first, err := b.Build(mustParams(t, f, 2, 25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := json.Marshal(first)

	for i := 0; i < 20; i++ {
		q, _ := b.Build(mustParams(t, f, 2, 25))
		got, _ := json.Marshal(q)
		if !bytes.Equal(got, want) {
			t.Fatalf("iteration %d differs:\n%s\n%s", i, got, want)
		}
	}
}

func TestBuild_InvalidDate(t *testing.T) {
	b := NewBuilder(DefaultFields())
	for _, f := range []request.Filters{
		{DateFrom: "2024-02-30", DateTo: "2024-03-01"},
		{DateFrom: "2024-01-01", DateTo: "31/01/2024"},
	} {
		_, err := b.Build(mustParams(t, f, 1, 10))
		if !errors.Is(err, domain.ErrInvalidDate) {
			t.Errorf("Build(%+v): expected ErrInvalidDate, got %v", f, err)
		}
	}
}

func TestNewBuilder_CustomFields(t *testing.T) {
	b := NewBuilder(Fields{Date: "executionDate"})
	q, err := b.Build(mustParams(t, request.Filters{DateFrom: "2024-01-01", DateTo: "2024-01-02"}, 1, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := q.Query.Bool.Must[len(q.Query.Bool.Must)-1]
	if _, ok := last.Range["executionDate"]; !ok {
		t.Errorf("expected range on executionDate, got %+v", last)
	}
	if q.Query.Bool.Must[0].Match["region"] != "A" {
		t.Errorf("region field should default, got %+v", q.Query.Bool.Must[0])
	}
}
