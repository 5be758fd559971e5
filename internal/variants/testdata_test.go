package variants

func boolPtr(v bool) *bool { return &v }

// teeProduct is the canonical fixture: two dimensions, six variants covering
// every size/color combination, five units each.
func teeProduct() Product {
	return Product{
		ID:             101,
		Slug:           "classic-tee",
		Title:          "Classic Tee",
		BasePriceCents: 2500,
		InventoryLevel: InventoryLevelVariant,
		Available:      true,
		Variants: []Variant{
			{ID: 1, SKU: "TEE-S-RED", Options: map[string]string{"size": "S", "color": "Red"}, PriceCents: 2500, StockQuantity: 5},
			{ID: 2, SKU: "TEE-S-BLU", Options: map[string]string{"size": "S", "color": "Blue"}, PriceCents: 2500, StockQuantity: 5},
			{ID: 3, SKU: "TEE-M-RED", Options: map[string]string{"size": "M", "color": "Red"}, PriceCents: 2500, StockQuantity: 5},
			{ID: 4, SKU: "TEE-M-BLU", Options: map[string]string{"size": "M", "color": "Blue"}, PriceCents: 2600, StockQuantity: 5},
			{ID: 5, SKU: "TEE-L-RED", Options: map[string]string{"size": "L", "color": "Red"}, PriceCents: 2700, StockQuantity: 5},
			{ID: 6, SKU: "TEE-L-BLU", Options: map[string]string{"size": "L", "color": "Blue"}, PriceCents: 2700, StockQuantity: 5},
		},
	}
}

// legacyProduct has flat size/color variants and no options maps.
func legacyProduct() Product {
	return Product{
		ID:             102,
		Slug:           "legacy-hoodie",
		Title:          "Legacy Hoodie",
		BasePriceCents: 4500,
		InventoryLevel: InventoryLevelVariant,
		Available:      true,
		Variants: []Variant{
			{ID: 11, SKU: "HOOD-S", Size: "S", PriceCents: 4500, StockQuantity: 3},
			{ID: 12, SKU: "HOOD-M", Size: "M", PriceCents: 4500, StockQuantity: 0, Available: boolPtr(false)},
			{ID: 13, SKU: "HOOD-L", Size: "L", PriceCents: 4500, StockQuantity: 2},
		},
	}
}
