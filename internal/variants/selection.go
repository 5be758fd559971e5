package variants

// Selection is the user's in-progress choice of one value per dimension.
// It is never persisted; the controller owns the only mutable copy.
type Selection map[string]string

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	if s == nil {
		return Selection{}
	}
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Complete reports whether the selection carries a non-empty entry for every
// dimension. Only a complete selection may resolve to a variant.
func (s Selection) Complete(dims Dimensions) bool {
	if len(dims) == 0 {
		return false
	}
	for _, dim := range dims {
		if s[dim.Name] == "" {
			return false
		}
	}
	return true
}

// With returns a copy of the selection with the given dimension overwritten.
func (s Selection) With(dim, value string) Selection {
	out := s.Clone()
	out[dim] = value
	return out
}

// Without returns a copy of the selection with the given dimension removed.
func (s Selection) Without(dim string) Selection {
	out := s.Clone()
	delete(out, dim)
	return out
}
