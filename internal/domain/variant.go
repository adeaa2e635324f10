package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// Variant is a concrete variant selection: axis name -> chosen option,
// e.g. {"color": "red", "size": "M"}.
type Variant map[string]string

// Canonical renders the selection as compact JSON with sorted keys. Two
// selections with the same pairs always canonicalize to the same string,
// regardless of map insertion order; this string is the cart line-item
// identity and is what gets persisted in variant_key.
func (v Variant) Canonical() string {
	if len(v) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(v[k])
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.String()
}

// ParseVariant decodes a stored variant JSON blob. Empty or null input
// yields an empty selection.
func ParseVariant(raw string) (Variant, error) {
	if raw == "" || raw == "null" {
		return Variant{}, nil
	}
	var v Variant
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = Variant{}
	}
	return v, nil
}

// VariantSchema describes the variants a product offers: axis name ->
// ordered list of allowed options.
type VariantSchema map[string][]string

func ParseVariantSchema(raw string) (VariantSchema, error) {
	if raw == "" || raw == "null" {
		return VariantSchema{}, nil
	}
	var s VariantSchema
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	if s == nil {
		s = VariantSchema{}
	}
	return s, nil
}
