package catalog

import (
	"time"

	"github.com/berrythread/storefront-api/internal/variants"
)

// productPayload mirrors the upstream catalog product response.
type productPayload struct {
	ID             int64            `json:"id"`
	Slug           string           `json:"slug"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	BasePriceCents int              `json:"base_price_cents"`
	InventoryLevel string           `json:"inventory_level"`
	StockQuantity  int              `json:"product_stock_quantity"`
	Available      *bool            `json:"available"`
	Tags           []string         `json:"tags"`
	Variants       []variantPayload `json:"variants"`
}

type variantPayload struct {
	ID            int64             `json:"id"`
	SKU           string            `json:"sku"`
	Options       map[string]string `json:"options"`
	Size          string            `json:"size"`
	Color         string            `json:"color"`
	PriceCents    int               `json:"price_cents"`
	StockQuantity int               `json:"stock_quantity"`
	WeightGrams   int               `json:"weight_grams"`
	Available     *bool             `json:"actually_available"`
}

type listProductsPayload struct {
	Products []productPayload `json:"products"`
}

// Fundraiser is the upstream fundraiser campaign record, proxied as-is.
type Fundraiser struct {
	ID           int64      `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	GoalCents    int        `json:"goal_cents"`
	RaisedCents  int        `json:"raised_cents"`
	Active       bool       `json:"active"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	ProductSlugs []string   `json:"product_slugs"`
}

// StorefrontConfig carries the store-wide settings the frontend renders from.
type StorefrontConfig struct {
	StoreName          string   `json:"store_name"`
	CurrencyCode       string   `json:"currency_code"`
	AnnouncementHTML   string   `json:"announcement_html,omitempty"`
	HeroProductSlugs   []string `json:"hero_product_slugs"`
	FundraisersEnabled bool     `json:"fundraisers_enabled"`
	PreordersEnabled   bool     `json:"preorders_enabled"`
}

// OrderLineItem is one resolved variant line in an order submission.
type OrderLineItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is the payload posted to the upstream order endpoint. The
// client token makes retries idempotent on the upstream side.
type OrderRequest struct {
	ClientToken    string          `json:"client_token"`
	FundraiserSlug string          `json:"fundraiser_slug,omitempty"`
	Items          []OrderLineItem `json:"items"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
}

// OrderResponse is the upstream acknowledgement of a created order.
type OrderResponse struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	TotalCents   int    `json:"total_cents"`
	CurrencyCode string `json:"currency_code"`
}

// PaymentIntent is the upstream payment handle the frontend hands to its
// payment widget. No payment logic lives in this service.
type PaymentIntent struct {
	OrderID      int64  `json:"order_id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int    `json:"amount_cents"`
	CurrencyCode string `json:"currency_code"`
}

func (p productPayload) toDomain() variants.Product {
	product := variants.Product{
		ID:             p.ID,
		Slug:           p.Slug,
		Title:          p.Title,
		Description:    p.Description,
		BasePriceCents: p.BasePriceCents,
		InventoryLevel: variants.InventoryLevel(p.InventoryLevel),
		StockQuantity:  p.StockQuantity,
		Available:      p.Available == nil || *p.Available,
		Tags:           p.Tags,
	}
	if product.InventoryLevel == "" {
		product.InventoryLevel = variants.InventoryLevelNone
	}
	for _, v := range p.Variants {
		product.Variants = append(product.Variants, variants.Variant{
			ID:            v.ID,
			SKU:           v.SKU,
			Options:       v.Options,
			Size:          v.Size,
			Color:         v.Color,
			PriceCents:    v.PriceCents,
			StockQuantity: v.StockQuantity,
			WeightGrams:   v.WeightGrams,
			Available:     v.Available,
		})
	}
	return product
}
