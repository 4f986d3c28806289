// Package record handles schemaless OpenSearch source documents: dotted-path
// lookup, flattening for tabular output, and cell rendering.
package record

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Separator joins nested keys.
const Separator = "."

// Document is a decoded _source object. Numbers are json.Number.
type Document = map[string]any

// Lookup resolves a dotted path such as "parent.child".
// Missing keys, non-object intermediates and null values resolve to "".
func Lookup(doc Document, path string) any {
	var v any = doc
	for _, k := range strings.Split(path, Separator) {
		m, ok := v.(map[string]any)
		if !ok {
			return ""
		}
		v, ok = m[k]
		if !ok {
			v = ""
		}
	}
	if v == nil {
		return ""
	}
	return v
}

// Flatten converts nested objects into dotted keys.
// Arrays are kept as a single string value, e.g. "[1, 2]".
func Flatten(doc Document) map[string]any {
	out := make(map[string]any, len(doc))
	flattenInto(out, "", doc)
	return out
}

func flattenInto(out map[string]any, prefix string, doc map[string]any) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + Separator + k
		}
		switch t := v.(type) {
		case map[string]any:
			flattenInto(out, key, t)
		case []any:
			out[key] = Render(t)
		default:
			out[key] = v
		}
	}
}

// Keys returns the sorted union of keys across rows.
func Keys(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Cell renders a flattened value for a CSV cell. Null and absent values are empty.
func Cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return Render(t)
	}
}

// Render writes v in JSON notation with ", " and ": " separators.
func Render(v any) string {
	var sb strings.Builder
	render(&sb, v)
	return sb.String()
}

func render(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case string:
		sb.WriteString(strconv.Quote(t))
	case json.Number:
		sb.WriteString(t.String())
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case float64:
		sb.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case int:
		sb.WriteString(strconv.Itoa(t))
	case int64:
		sb.WriteString(strconv.FormatInt(t, 10))
	case []any:
		sb.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			render(sb, e)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			render(sb, t[k])
		}
		sb.WriteByte('}')
	default:
		b, err := json.Marshal(t)
		if err != nil {
			sb.WriteString("null")
			return
		}
		sb.Write(b)
	}
}
