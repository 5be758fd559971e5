package variants

import "testing"

// Every real variant must resolve back to itself from its own options map.
func TestMatchRoundTrip(t *testing.T) {
	t.Parallel()

	p := teeProduct()
	dims := ExtractDimensions(p.Variants)

	for _, v := range p.Variants {
		sel := Selection{}
		for k, val := range v.Options {
			sel[k] = val
		}
		match, dup := Match(p.Variants, dims, sel)
		if match == nil || match.ID != v.ID {
			t.Fatalf("variant %d did not round-trip, got %+v", v.ID, match)
		}
		if dup {
			t.Fatalf("variant %d flagged duplicate on clean data", v.ID)
		}
	}
}

func TestMatchIncompleteSelection(t *testing.T) {
	t.Parallel()

	p := teeProduct()
	dims := ExtractDimensions(p.Variants)

	cases := []Selection{
		{},
		{"size": "M"},
		{"color": "Blue"},
		{"size": "M", "color": ""},
	}
	for _, sel := range cases {
		if match, _ := Match(p.Variants, dims, sel); match != nil {
			t.Fatalf("incomplete selection %v must not match, got %+v", sel, match)
		}
	}
}

func TestMatchUnknownCombination(t *testing.T) {
	t.Parallel()

	p := teeProduct()
	dims := ExtractDimensions(p.Variants)

	match, _ := Match(p.Variants, dims, Selection{"size": "XL", "color": "Red"})
	if match != nil {
		t.Fatalf("expected no match, got %+v", match)
	}
}

func TestMatchExtraVariantKeysIgnored(t *testing.T) {
	t.Parallel()

	vs := []Variant{
		{ID: 1, Options: map[string]string{"size": "S", "internal": "x"}},
		{ID: 2, Options: map[string]string{"size": "M", "internal": "y"}},
	}
	dims := Dimensions{{Name: "size", Values: []string{"S", "M"}}}

	match, _ := Match(vs, dims, Selection{"size": "M"})
	if match == nil || match.ID != 2 {
		t.Fatalf("extra option keys must not break matching, got %+v", match)
	}
}

func TestMatchDuplicateTieBreak(t *testing.T) {
	t.Parallel()

	vs := []Variant{
		{ID: 1, Options: map[string]string{"size": "S"}},
		{ID: 2, Options: map[string]string{"size": "S"}},
	}
	dims := ExtractDimensions(vs)

	match, dup := Match(vs, dims, Selection{"size": "S"})
	if match == nil || match.ID != 1 {
		t.Fatalf("first variant in input order must win, got %+v", match)
	}
	if !dup {
		t.Fatal("duplicate options maps must be flagged")
	}
}

func TestFindVariantForOption(t *testing.T) {
	t.Parallel()

	p := teeProduct()
	dims := ExtractDimensions(p.Variants)

	sel := Selection{"size": "M", "color": "Red"}
	got := FindVariantForOption(p.Variants, dims, sel, "color", "Blue")
	if got == nil || got.SKU != "TEE-M-BLU" {
		t.Fatalf("expected hypothetical M/Blue variant, got %+v", got)
	}

	// The current selection must be untouched by the hypothetical lookup.
	if sel["color"] != "Red" {
		t.Fatalf("selection mutated: %v", sel)
	}

	if got := FindVariantForOption(p.Variants, dims, Selection{}, "color", "Blue"); got != nil {
		t.Fatalf("incomplete hypothetical state must return nil, got %+v", got)
	}
}
