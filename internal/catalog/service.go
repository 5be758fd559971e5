package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/berrythread/storefront-api/internal/variants"
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
	"github.com/berrythread/storefront-api/pkg/logger"
	"github.com/berrythread/storefront-api/pkg/redis"
)

type upstreamAPI interface {
	GetProduct(ctx context.Context, slug string) (*variants.Product, error)
	ListProducts(ctx context.Context) ([]variants.Product, error)
	GetFundraiser(ctx context.Context, slug string) (*Fundraiser, error)
	GetStorefrontConfig(ctx context.Context) (*StorefrontConfig, error)
}

type cacheRepo interface {
	UpsertProduct(ctx context.Context, product variants.Product, fetchedAt time.Time) error
	FindBySlug(ctx context.Context, slug string) (*variants.Product, error)
	List(ctx context.Context) ([]variants.Product, error)
	Count(ctx context.Context) (int64, error)
}

type configStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	ConfigKey() string
}

// Service exposes catalog reads with a read-through local cache. The upstream
// is always preferred; the cache only serves reads when the upstream fails.
type Service struct {
	upstream  upstreamAPI
	repo      cacheRepo
	store     configStore
	logg      *logger.Logger
	configTTL time.Duration
	now       func() time.Time
}

// NewService wires the catalog service.
func NewService(upstream upstreamAPI, repo cacheRepo, store configStore, logg *logger.Logger, configTTL time.Duration) (*Service, error) {
	if upstream == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("cache repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		upstream:  upstream,
		repo:      repo,
		store:     store,
		logg:      logg,
		configTTL: configTTL,
		now:       time.Now,
	}, nil
}

// GetProduct returns the product by slug, refreshing the cache on a
// successful fetch and falling back to the cache when the upstream is down.
// Not-found and validation errors pass through untouched.
func (s *Service) GetProduct(ctx context.Context, slug string) (*variants.Product, error) {
	ctx = s.logg.WithProductSlug(ctx, slug)

	product, err := s.upstream.GetProduct(ctx, slug)
	if err == nil {
		if cacheErr := s.repo.UpsertProduct(ctx, *product, s.now()); cacheErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", cacheErr.Error()), "catalog cache refresh failed")
		}
		return product, nil
	}

	if !isFallbackEligible(err) {
		return nil, err
	}

	cached, cacheErr := s.repo.FindBySlug(ctx, slug)
	if cacheErr != nil {
		if cacheErr == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, multierr.Append(err, cacheErr), "catalog unavailable")
	}
	s.logg.Warn(ctx, "serving product from local catalog cache")
	return cached, nil
}

// ListProducts returns the published product list, served from the cache when
// the upstream is unreachable.
func (s *Service) ListProducts(ctx context.Context) ([]variants.Product, error) {
	products, err := s.upstream.ListProducts(ctx)
	if err == nil {
		return products, nil
	}

	if !isFallbackEligible(err) {
		return nil, err
	}
	cached, cacheErr := s.repo.List(ctx)
	if cacheErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, multierr.Append(err, cacheErr), "catalog unavailable")
	}
	s.logg.Warn(ctx, "serving product list from local catalog cache")
	return cached, nil
}

// GetFundraiser proxies fundraiser lookups; campaigns are not cached locally.
func (s *Service) GetFundraiser(ctx context.Context, slug string) (*Fundraiser, error) {
	return s.upstream.GetFundraiser(ctx, slug)
}

// StorefrontConfig returns the store settings, cached in Redis with a TTL so
// every page render does not hit the upstream.
func (s *Service) StorefrontConfig(ctx context.Context) (*StorefrontConfig, error) {
	if s.store != nil {
		if raw, err := s.store.Get(ctx, s.store.ConfigKey()); err == nil {
			var cfg StorefrontConfig
			if unmarshalErr := json.Unmarshal([]byte(raw), &cfg); unmarshalErr == nil {
				return &cfg, nil
			}
		} else if err != redis.Nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "storefront config cache read failed")
		}
	}

	cfg, err := s.upstream.GetStorefrontConfig(ctx)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if raw, marshalErr := json.Marshal(cfg); marshalErr == nil {
			if setErr := s.store.Set(ctx, s.store.ConfigKey(), string(raw), s.configTTL); setErr != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", setErr.Error()), "storefront config cache write failed")
			}
		}
	}
	return cfg, nil
}

// RefreshAll pulls the full product list and rewrites the cache. Per-product
// failures are aggregated so one bad row does not abort the sweep.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	products, err := s.upstream.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	var errs error
	refreshed := 0
	fetchedAt := s.now()
	for _, product := range products {
		if ctx.Err() != nil {
			return refreshed, multierr.Append(errs, ctx.Err())
		}
		if err := s.repo.UpsertProduct(ctx, product, fetchedAt); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("refresh %s: %w", product.Slug, err))
			continue
		}
		refreshed++
	}
	return refreshed, errs
}

// CachedProductCount reports the current cache size for metrics.
func (s *Service) CachedProductCount(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// isFallbackEligible reports whether the upstream failure should be masked by
// the local cache. Caller mistakes (validation, not found) never are.
func isFallbackEligible(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil {
		return true
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation, pkgerrors.CodeNotFound, pkgerrors.CodeConflict:
		return false
	default:
		return true
	}
}
