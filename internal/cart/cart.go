package cart

import (
	"regexp"
	"strings"
	"time"
)

// ScopeStore is the main storefront cart. Fundraiser carts live in parallel
// scopes so a fundraiser order never mixes with regular store items.
const ScopeStore = "store"

const fundraiserScopePrefix = "fundraiser:"

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// FundraiserScope builds the cart scope for a fundraiser slug.
func FundraiserScope(slug string) string {
	return fundraiserScopePrefix + slug
}

// ValidScope reports whether the scope is the store cart or a well-formed
// fundraiser scope.
func ValidScope(scope string) bool {
	if scope == ScopeStore {
		return true
	}
	slug, ok := strings.CutPrefix(scope, fundraiserScopePrefix)
	return ok && slugRe.MatchString(slug)
}

// FundraiserSlug extracts the slug from a fundraiser scope, or "" for the
// store scope.
func FundraiserSlug(scope string) string {
	slug, _ := strings.CutPrefix(scope, fundraiserScopePrefix)
	if slug == scope {
		return ""
	}
	return slug
}

// LineItem is one resolved variant held in a cart. ProductSlug is kept so
// quantity updates can re-validate against the live catalog.
type LineItem struct {
	ProductSlug    string `json:"product_slug"`
	VariantID      int64  `json:"variant_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
	Title          string `json:"title"`
	SKU            string `json:"sku,omitempty"`
}

// Cart is the per-scope snapshot persisted as a single JSON document. The
// embedded scope is checked against the requested scope on load before the
// snapshot is trusted.
type Cart struct {
	Scope     string     `json:"scope"`
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SubtotalCents sums unit price times quantity across all lines.
func (c Cart) SubtotalCents() int {
	total := 0
	for _, item := range c.Items {
		total += item.UnitPriceCents * item.Quantity
	}
	return total
}

// ItemCount sums quantities across all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Find returns the index of the line holding variantID, or -1.
func (c Cart) Find(variantID int64) int {
	for i, item := range c.Items {
		if item.VariantID == variantID {
			return i
		}
	}
	return -1
}

func emptyCart(scope string) Cart {
	return Cart{Scope: scope, Items: []LineItem{}}
}
