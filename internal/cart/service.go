package cart

import (
	"context"
	"fmt"

	"github.com/berrythread/storefront-api/internal/variants"
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
	"github.com/berrythread/storefront-api/pkg/logger"
)

type productGetter interface {
	GetProduct(ctx context.Context, slug string) (*variants.Product, error)
}

// Service applies cart mutations with catalog validation. Every mutation runs
// under the per-scope lock and rejections leave the stored cart untouched.
type Service struct {
	store    *Store
	catalog  productGetter
	logg     *logger.Logger
	maxLines int
}

// NewService wires the cart service.
func NewService(store *Store, catalog productGetter, logg *logger.Logger, maxLines int) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if maxLines < 1 {
		maxLines = 1
	}
	return &Service{store: store, catalog: catalog, logg: logg, maxLines: maxLines}, nil
}

// Get returns the current cart for a scope.
func (s *Service) Get(ctx context.Context, scope string) (Cart, error) {
	return s.store.Load(ctx, scope)
}

// AddItem validates the variant against the live catalog and merges it into
// the cart. Quantities accumulate across repeated adds of the same variant and
// the combined quantity must stay within stock bounds.
func (s *Service) AddItem(ctx context.Context, scope, productSlug string, variantID int64, qty int) (Cart, error) {
	if qty < 1 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, variant, err := s.resolveVariant(ctx, productSlug, variantID)
	if err != nil {
		return Cart{}, err
	}

	var result Cart
	err = s.store.WithLock(ctx, scope, func(ctx context.Context) error {
		cart, err := s.store.Load(ctx, scope)
		if err != nil {
			return err
		}

		existing := 0
		idx := cart.Find(variantID)
		if idx >= 0 {
			existing = cart.Items[idx].Quantity
		} else if len(cart.Items) >= s.maxLines {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart line item limit reached")
		}

		total := existing + qty
		if !variants.CanAddToCart(*product, variant, total) {
			return addRejection(*product, variant, total)
		}

		line := LineItem{
			ProductSlug:    product.Slug,
			VariantID:      variantID,
			Quantity:       total,
			UnitPriceCents: linePrice(*product, variant),
			Title:          product.Title,
		}
		if variant != nil {
			line.SKU = variant.SKU
		}
		if idx >= 0 {
			cart.Items[idx] = line
		} else {
			cart.Items = append(cart.Items, line)
		}

		if err := s.store.Save(ctx, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return Cart{}, err
	}
	return result, nil
}

// UpdateQuantity sets the quantity of an existing line, re-validated against
// the live catalog. A quantity of zero removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, scope string, variantID int64, qty int) (Cart, error) {
	if qty < 0 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if qty == 0 {
		return s.RemoveItem(ctx, scope, variantID)
	}

	var result Cart
	err := s.store.WithLock(ctx, scope, func(ctx context.Context) error {
		cart, err := s.store.Load(ctx, scope)
		if err != nil {
			return err
		}
		idx := cart.Find(variantID)
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not in cart")
		}

		product, variant, err := s.resolveVariant(ctx, cart.Items[idx].ProductSlug, variantID)
		if err != nil {
			return err
		}
		if !variants.CanAddToCart(*product, variant, qty) {
			return addRejection(*product, variant, qty)
		}

		cart.Items[idx].Quantity = qty
		cart.Items[idx].UnitPriceCents = linePrice(*product, variant)
		if err := s.store.Save(ctx, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return Cart{}, err
	}
	return result, nil
}

// RemoveItem drops a line from the cart. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, scope string, variantID int64) (Cart, error) {
	var result Cart
	err := s.store.WithLock(ctx, scope, func(ctx context.Context) error {
		cart, err := s.store.Load(ctx, scope)
		if err != nil {
			return err
		}
		if idx := cart.Find(variantID); idx >= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			if err := s.store.Save(ctx, cart); err != nil {
				return err
			}
		}
		result = cart
		return nil
	})
	if err != nil {
		return Cart{}, err
	}
	return result, nil
}

// Clear empties a scope's cart.
func (s *Service) Clear(ctx context.Context, scope string) error {
	return s.store.WithLock(ctx, scope, func(ctx context.Context) error {
		return s.store.Clear(ctx, scope)
	})
}

// resolveVariant loads the product and picks the requested variant. Products
// without variants are addressed with variantID zero.
func (s *Service) resolveVariant(ctx context.Context, productSlug string, variantID int64) (*variants.Product, *variants.Variant, error) {
	if productSlug == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	product, err := s.catalog.GetProduct(ctx, productSlug)
	if err != nil {
		return nil, nil, err
	}

	if len(product.Variants) == 0 {
		if variantID != 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no variants")
		}
		return product, nil, nil
	}

	variant := product.VariantByID(variantID)
	if variant == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return product, variant, nil
}

func linePrice(product variants.Product, variant *variants.Variant) int {
	if variant != nil {
		return variant.PriceCents
	}
	return product.BasePriceCents
}

func addRejection(product variants.Product, variant *variants.Variant, qty int) error {
	if !product.Available || (variant != nil && !variant.ActuallyAvailable()) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item is currently unavailable")
	}
	max := variants.MaxQuantity(product, variant)
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock").
		WithDetails(map[string]int{"requested": qty, "max": max})
}
