package record

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func decode(t *testing.T, s string) Document {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}

func TestFlatten_NestedAndList(t *testing.T) {
	got := Flatten(decode(t, `{"a": {"b": 1}, "c": [1, 2]}`))
	want := map[string]any{
		"a.b": json.Number("1"),
		"c":   "[1, 2]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %#v, want %#v", got, want)
	}
}

func TestFlatten_DeepNesting(t *testing.T) {
	got := Flatten(decode(t, `{"x": {"y": {"z": "deep"}, "w": null}, "top": true}`))
	want := map[string]any{
		"x.y.z": "deep",
		"x.w":   nil,
		"top":   true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %#v, want %#v", got, want)
	}
}

func TestFlatten_EmptyObjectProducesNoKey(t *testing.T) {
	got := Flatten(decode(t, `{"empty": {}, "k": "v"}`))
	if _, ok := got["empty"]; ok {
		t.Error("empty object should not produce a key")
	}
	if got["k"] != "v" {
		t.Errorf("k = %v", got["k"])
	}
}

func TestRender_Lists(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`[1, 2]`, `[1, 2]`},
		{`["a", "b"]`, `["a", "b"]`},
		{`[]`, `[]`},
		{`[{"k": 1, "a": [true, null]}]`, `[{"a": [true, null], "k": 1}]`},
	}
	for _, tc := range tests {
		var v any
		dec := json.NewDecoder(strings.NewReader(tc.input))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			t.Fatalf("decode %s: %v", tc.input, err)
		}
		if got := Render(v); got != tc.want {
			t.Errorf("Render(%s) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLookup(t *testing.T) {
	doc := decode(t, `{"tradeID": "T1", "parent": {"child": 7, "nil": null}, "scalar": 3}`)

	tests := []struct {
		path string
		want any
	}{
		{"tradeID", "T1"},
		{"parent.child", json.Number("7")},
		{"parent.nil", ""},
		{"parent.missing", ""},
		{"missing", ""},
		{"missing.deeper", ""},
		{"scalar.child", ""},
	}
	for _, tc := range tests {
		if got := Lookup(doc, tc.path); got != tc.want {
			t.Errorf("Lookup(%q) = %#v, want %#v", tc.path, got, tc.want)
		}
	}
}

func TestKeys_SortedUnion(t *testing.T) {
	rows := []map[string]any{
		{"b": 1, "a": 2},
		{"c": 3},
		{"a": 4, "d": 5},
	}
	got := Keys(rows)
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{nil, ""},
		{"text", "text"},
		{json.Number("1704067200000"), "1704067200000"},
		{true, "true"},
		{1.5, "1.5"},
	}
	for _, tc := range tests {
		if got := Cell(tc.input); got != tc.want {
			t.Errorf("Cell(%#v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
