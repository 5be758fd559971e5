package variants

import (
	"strings"
	"unicode/utf8"
)

// Swatch is the presentation hint for a free-text color value. Hex is empty
// when no palette entry matched; Badge always carries the deterministic
// first-letter fallback.
type Swatch struct {
	Name  string `json:"name"`
	Hex   string `json:"hex,omitempty"`
	Badge string `json:"badge"`
}

// palette pairs a lowercase needle with its hex value. Slice order is the
// match precedence, so substring lookup stays deterministic.
var palette = []struct {
	needle string
	hex    string
}{
	{"black", "#1a1a1a"},
	{"white", "#fafafa"},
	{"navy", "#1f2a44"},
	{"blue", "#2563eb"},
	{"red", "#dc2626"},
	{"green", "#16a34a"},
	{"yellow", "#eab308"},
	{"orange", "#ea580c"},
	{"purple", "#7c3aed"},
	{"pink", "#ec4899"},
	{"brown", "#92400e"},
	{"gray", "#6b7280"},
	{"grey", "#6b7280"},
	{"beige", "#d6c7a1"},
	{"cream", "#f5ecd7"},
	{"maroon", "#7f1d1d"},
	{"teal", "#0d9488"},
	{"gold", "#ca8a04"},
	{"silver", "#9ca3af"},
}

// SwatchFor maps a free-text color value to the fixed palette via substring
// search. This is a best-effort presentation heuristic, not part of variant
// matching.
func SwatchFor(color string) Swatch {
	s := Swatch{Name: color, Badge: badge(color)}
	lowered := strings.ToLower(color)
	for _, entry := range palette {
		if strings.Contains(lowered, entry.needle) {
			s.Hex = entry.hex
			break
		}
	}
	return s
}

func badge(color string) string {
	trimmed := strings.TrimSpace(color)
	if trimmed == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return strings.ToUpper(string(r))
}
