package queryir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for a Request.
//
// The encoding is used only for fingerprinting:
//  1. Object keys sorted by UTF-16 code units (RFC 8785)
//  2. No HTML escaping
//  3. Strings are NFC normalized
//  4. Values are tagged by type ({"int":"20"} vs {"string":"20"})
//  5. nil and empty slices encode identically
func MarshalCanonical(req Request) ([]byte, error) {
	return marshalCanonical(requestObject(req))
}

// requestObject converts a Request into the generic tree understood by
// marshalCanonical. Only strings, []any and map[string]any appear in it.
func requestObject(req Request) map[string]any {
	groups := make([]any, len(req.Conditions))
	for i, group := range req.Conditions {
		conds := make([]any, len(group))
		for j, c := range group {
			conds[j] = map[string]any{
				"field":      c.Field,
				"comparator": string(c.Comparator),
				"value":      valueObject(c.Value),
			}
		}
		groups[i] = conds
	}

	directives := make([]any, len(req.GroupBy))
	for i, d := range req.GroupBy {
		directives[i] = string(d)
	}

	return map[string]any{
		"measurements": stringList(req.Measurements),
		"fields":       stringList(req.Fields),
		"conditions":   groups,
		"from":         req.From,
		"to":           req.To,
		"group_by":     directives,
	}
}

func valueObject(v Value) map[string]any {
	switch v.(type) {
	case String:
		return map[string]any{"string": Text(v)}
	case Raw:
		return map[string]any{"raw": Text(v)}
	case Int:
		return map[string]any{"int": Text(v)}
	case Float:
		return map[string]any{"float": Text(v)}
	case Bool:
		return map[string]any{"bool": Text(v)}
	default:
		return map[string]any{"null": ""}
	}
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString encodes s as a JSON string after NFC normalization.
// <, > and & are NOT escaped.
func marshalCanonicalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// compareKeysUTF16 orders keys by UTF-16 code units as RFC 8785 requires.
// Go's native string order is UTF-8 and differs for supplementary planes.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
