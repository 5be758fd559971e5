package variants

// Match resolves a complete selection to its backing variant. It returns nil
// unless the selection carries a non-empty entry for every dimension. A
// variant matches when its options map equals the selection on every dimension
// key; extra keys in a variant's options beyond the known dimensions are
// ignored. The backend is expected to keep options maps unique across a
// product's variants; if that invariant is violated the first variant in input
// order wins and duplicate reports true so callers can flag the data-integrity
// concern instead of failing.
func Match(vs []Variant, dims Dimensions, sel Selection) (match *Variant, duplicate bool) {
	if !sel.Complete(dims) {
		return nil, false
	}
	for i := range vs {
		if !matchesSelection(vs[i], dims, sel) {
			continue
		}
		if match == nil {
			match = &vs[i]
			continue
		}
		duplicate = true
		break
	}
	return match, duplicate
}

// FindVariantForOption answers: if only the given dimension changed to the
// given value, keeping all other current picks, which variant would result?
// Returns nil when the hypothetical selection is still incomplete.
func FindVariantForOption(vs []Variant, dims Dimensions, sel Selection, dim, value string) *Variant {
	match, _ := Match(vs, dims, sel.With(dim, value))
	return match
}

func matchesSelection(v Variant, dims Dimensions, sel Selection) bool {
	if !v.HasOptions() {
		return false
	}
	for _, dim := range dims {
		if v.Options[dim.Name] != sel[dim.Name] {
			return false
		}
	}
	return true
}
