package catalog

import (
	"context"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/berrythread/storefront-api/internal/variants"
	"github.com/berrythread/storefront-api/pkg/db/models"
	"github.com/berrythread/storefront-api/pkg/db/types"
)

// Repository persists the local catalog read-model cache.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// UpsertProduct replaces the cached row and its variants with a fresh fetch.
func (r *Repository) UpsertProduct(ctx context.Context, product variants.Product, fetchedAt time.Time) error {
	tx := r.db.WithContext(ctx)

	row := toCachedProduct(product, fetchedAt)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Omit("Variants").Create(&row).Error; err != nil {
		return err
	}

	if err := tx.Where("product_id = ?", product.ID).Delete(&models.CachedVariant{}).Error; err != nil {
		return err
	}
	if len(row.Variants) == 0 {
		return nil
	}
	return tx.Create(&row.Variants).Error
}

// FindBySlug loads a cached product with its variants in stored order.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*variants.Product, error) {
	var row models.CachedProduct
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&row, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	product := fromCachedProduct(row)
	return &product, nil
}

// List returns every cached product ordered by slug.
func (r *Repository) List(ctx context.Context) ([]variants.Product, error) {
	var rows []models.CachedProduct
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("slug ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	products := make([]variants.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, fromCachedProduct(row))
	}
	return products, nil
}

// Count reports how many products the cache currently holds.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.CachedProduct{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func toCachedProduct(product variants.Product, fetchedAt time.Time) models.CachedProduct {
	row := models.CachedProduct{
		ID:             product.ID,
		Slug:           product.Slug,
		Title:          product.Title,
		Description:    product.Description,
		BasePriceCents: product.BasePriceCents,
		InventoryLevel: string(product.InventoryLevel),
		StockQuantity:  product.StockQuantity,
		Available:      product.Available,
		Tags:           pq.StringArray(product.Tags),
		FetchedAt:      fetchedAt,
	}
	for i, v := range product.Variants {
		row.Variants = append(row.Variants, models.CachedVariant{
			ID:            v.ID,
			ProductID:     product.ID,
			SKU:           v.SKU,
			Options:       types.OptionMap(v.Options),
			Size:          v.Size,
			Color:         v.Color,
			PriceCents:    v.PriceCents,
			StockQuantity: v.StockQuantity,
			WeightGrams:   v.WeightGrams,
			Available:     v.Available,
			Position:      i,
		})
	}
	return row
}

func fromCachedProduct(row models.CachedProduct) variants.Product {
	product := variants.Product{
		ID:             row.ID,
		Slug:           row.Slug,
		Title:          row.Title,
		Description:    row.Description,
		BasePriceCents: row.BasePriceCents,
		InventoryLevel: variants.InventoryLevel(row.InventoryLevel),
		StockQuantity:  row.StockQuantity,
		Available:      row.Available,
		Tags:           []string(row.Tags),
	}
	for _, v := range row.Variants {
		product.Variants = append(product.Variants, variants.Variant{
			ID:            v.ID,
			SKU:           v.SKU,
			Options:       map[string]string(v.Options),
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
