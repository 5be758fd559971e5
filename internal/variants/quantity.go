package variants

// UnboundedQuantity is the sentinel ceiling used when a product does not track
// inventory at all.
const UnboundedQuantity = 999_999

// MaxQuantity computes the maximum orderable quantity for the product given
// the currently matched variant (nil when no complete match exists).
//
//	none    -> UnboundedQuantity
//	product -> the product's own stock quantity
//	variant -> the matched variant's stock quantity, 0 without a match
func MaxQuantity(p Product, matched *Variant) int {
	switch p.InventoryLevel {
	case InventoryLevelNone:
		return UnboundedQuantity
	case InventoryLevelProduct:
		return p.StockQuantity
	case InventoryLevelVariant:
		if matched == nil {
			return 0
		}
		return matched.StockQuantity
	default:
		return UnboundedQuantity
	}
}

// ClampQuantity forces qty into [1, max]. A non-positive max leaves no valid
// quantity, so 1 is returned and the add-to-cart gate rejects the order.
func ClampQuantity(qty, max int) int {
	if max < 1 {
		return 1
	}
	if qty < 1 {
		return 1
	}
	if qty > max {
		return max
	}
	return qty
}

// CanAddToCart validates the add-to-cart precondition: the product is
// available, a variant is matched and available whenever variants exist, and
// the chosen quantity is within [1, MaxQuantity].
func CanAddToCart(p Product, matched *Variant, qty int) bool {
	if !p.Available {
		return false
	}
	if len(p.Variants) > 0 {
		if matched == nil || !matched.ActuallyAvailable() {
			return false
		}
	}
	max := MaxQuantity(p, matched)
	return qty >= 1 && qty <= max
}
