package variants

// ValueState describes one candidate value of a dimension under the current
// selection. Selectable means some real variant carries the value consistently
// with the user's other picks; InStock additionally requires at least one such
// variant to be actually available. A value can be selectable with InStock
// false, which the UI renders as selectable-but-struck-through.
type ValueState struct {
	Selectable bool `json:"selectable"`
	InStock    bool `json:"in_stock"`
}

// Availability maps dimension name to the state of each of its values.
type Availability map[string]map[string]ValueState

// AvailableValues computes, for every dimension, which values remain choosable
// given the other currently selected dimensions. For a target dimension the
// selection's own entry is ignored, so an already-picked value never filters
// its own dimension. With no other picks every observed value is selectable.
// Recomputed on demand; no caching.
func AvailableValues(vs []Variant, dims Dimensions, sel Selection) Availability {
	out := make(Availability, len(dims))
	for _, dim := range dims {
		others := sel.Without(dim.Name)
		states := make(map[string]ValueState, len(dim.Values))
		for _, value := range dim.Values {
			var state ValueState
			for i := range vs {
				if !vs[i].HasOptions() || vs[i].Options[dim.Name] != value {
					continue
				}
				if !agreesWith(vs[i], others) {
					continue
				}
				state.Selectable = true
				if vs[i].ActuallyAvailable() {
					state.InStock = true
					break
				}
			}
			states[value] = state
		}
		out[dim.Name] = states
	}
	return out
}

// agreesWith reports whether the variant's options carry every entry of the
// given partial selection with an equal value.
func agreesWith(v Variant, sel Selection) bool {
	for dim, value := range sel {
		if v.Options[dim] != value {
			return false
		}
	}
	return true
}
