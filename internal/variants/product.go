package variants

// InventoryLevel determines where stock quantity is tracked for a product.
type InventoryLevel string

const (
	InventoryLevelNone    InventoryLevel = "none"
	InventoryLevelProduct InventoryLevel = "product"
	InventoryLevelVariant InventoryLevel = "variant"
)

// Valid reports whether the level is one of the known values.
func (l InventoryLevel) Valid() bool {
	switch l {
	case InventoryLevelNone, InventoryLevelProduct, InventoryLevelVariant:
		return true
	}
	return false
}

// Variant is one purchasable SKU of a product. Options is the flexible
// dimension map; legacy variants carry flat Size/Color fields instead.
type Variant struct {
	ID            int64             `json:"id"`
	SKU           string            `json:"sku"`
	Options       map[string]string `json:"options,omitempty"`
	Size          string            `json:"size,omitempty"`
	Color         string            `json:"color,omitempty"`
	PriceCents    int               `json:"price_cents"`
	StockQuantity int               `json:"stock_quantity"`
	WeightGrams   int               `json:"weight_grams"`
	Available     *bool             `json:"actually_available,omitempty"`
}

// ActuallyAvailable treats an absent availability flag as available.
func (v Variant) ActuallyAvailable() bool {
	return v.Available == nil || *v.Available
}

// HasOptions reports whether the variant participates in flexible
// option-dimension selection.
func (v Variant) HasOptions() bool {
	return len(v.Options) > 0
}

// Product owns an ordered list of variants. Variants have no lifecycle of
// their own outside the product.
type Product struct {
	ID             int64          `json:"id"`
	Slug           string         `json:"slug"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	BasePriceCents int            `json:"base_price_cents"`
	InventoryLevel InventoryLevel `json:"inventory_level"`
	StockQuantity  int            `json:"product_stock_quantity"`
	Available      bool           `json:"available"`
	Tags           []string       `json:"tags,omitempty"`
	Variants       []Variant      `json:"variants"`
}

// VariantByID returns the variant with the given id, or nil.
func (p Product) VariantByID(id int64) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
