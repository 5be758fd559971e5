package variants

import "sort"

// Dimension is a named axis of variation together with its observed values,
// both in first-seen order.
type Dimension struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Dimensions is the ordered set of option dimensions derived from a product's
// variant list. An empty set means the product uses legacy flat variants.
type Dimensions []Dimension

// Names returns the dimension names in order.
func (d Dimensions) Names() []string {
	names := make([]string, len(d))
	for i, dim := range d {
		names[i] = dim.Name
	}
	return names
}

// Has reports whether a dimension with the given name exists.
func (d Dimensions) Has(name string) bool {
	for _, dim := range d {
		if dim.Name == name {
			return true
		}
	}
	return false
}

// HasValue reports whether the named dimension carries the given value.
func (d Dimensions) HasValue(name, value string) bool {
	for _, dim := range d {
		if dim.Name != name {
			continue
		}
		for _, v := range dim.Values {
			if v == value {
				return true
			}
		}
	}
	return false
}

// ExtractDimensions derives the option dimensions from the union of keys
// across all variants' option maps. Dimension order and per-dimension value
// order follow first-seen order across the variant list, so two calls with
// the same input produce identical output. Pure; no side effects.
func ExtractDimensions(vs []Variant) Dimensions {
	var dims Dimensions
	index := map[string]int{}

	for _, v := range vs {
		if !v.HasOptions() {
			continue
		}
		for _, name := range orderedOptionKeys(v.Options, index) {
			pos, seen := index[name]
			if !seen {
				index[name] = len(dims)
				dims = append(dims, Dimension{Name: name})
				pos = len(dims) - 1
			}
			value := v.Options[name]
			if !containsValue(dims[pos].Values, value) {
				dims[pos].Values = append(dims[pos].Values, value)
			}
		}
	}
	return dims
}

// orderedOptionKeys yields a variant's option keys deterministically. Go map
// iteration is randomized, so already-registered dimensions keep their
// registered order and keys new to this pass are visited lexicographically.
func orderedOptionKeys(options map[string]string, index map[string]int) []string {
	known := make([]string, 0, len(options))
	unseen := make([]string, 0, len(options))
	for name := range options {
		if _, ok := index[name]; ok {
			known = append(known, name)
		} else {
			unseen = append(unseen, name)
		}
	}
	sort.Slice(known, func(i, j int) bool { return index[known[i]] < index[known[j]] })
	sort.Strings(unseen)
	return append(known, unseen...)
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
