package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/berrythread/storefront-api/pkg/db/types"
)

// CachedProduct is the locally persisted copy of an upstream catalog product.
// The remote API stays the source of truth; rows here only serve reads when
// the upstream is unreachable and are refreshed on every successful fetch.
type CachedProduct struct {
	ID             int64           `gorm:"column:id;primaryKey"`
	Slug           string          `gorm:"column:slug;uniqueIndex;not null"`
	Title          string          `gorm:"column:title;not null"`
	Description    string          `gorm:"column:description"`
	BasePriceCents int             `gorm:"column:base_price_cents;not null"`
	InventoryLevel string          `gorm:"column:inventory_level;not null;default:none"`
	StockQuantity  int             `gorm:"column:product_stock_quantity;not null;default:0"`
	Available      bool            `gorm:"column:available;not null;default:true"`
	Tags           pq.StringArray  `gorm:"column:tags;type:text[]"`
	Variants       []CachedVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	FetchedAt      time.Time       `gorm:"column:fetched_at;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// CachedVariant mirrors one upstream variant row. Options is NULL for legacy
// flat variants.
type CachedVariant struct {
	ID            int64           `gorm:"column:id;primaryKey"`
	ProductID     int64           `gorm:"column:product_id;index;not null"`
	SKU           string          `gorm:"column:sku"`
	Options       types.OptionMap `gorm:"column:options;type:text"`
	Size          string          `gorm:"column:size"`
	Color         string          `gorm:"column:color"`
	PriceCents    int             `gorm:"column:price_cents;not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	WeightGrams   int             `gorm:"column:weight_grams;not null;default:0"`
	Available     *bool           `gorm:"column:actually_available"`
	Position      int             `gorm:"column:position;not null;default:0"`
}
