package validators

import (
	"regexp"
	"strings"

	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeSlug normalizes a path slug and rejects anything that could not be
// a catalog slug before it reaches the upstream client.
func SanitizeSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if slug == "" || len(slug) > 128 || !slugRe.MatchString(slug) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid slug")
	}
	return slug, nil
}
