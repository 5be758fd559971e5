package sync

import (
	"context"
	"fmt"

	"github.com/berrythread/storefront-api/pkg/logger"
	"github.com/berrythread/storefront-api/pkg/metrics"
)

type catalogRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
	CachedProductCount(ctx context.Context) (int64, error)
}

// CatalogRefreshJobParams configure the catalog refresh job.
type CatalogRefreshJobParams struct {
	Logger  *logger.Logger
	Catalog catalogRefresher
	Metrics *metrics.SyncJobMetrics
}

// NewCatalogRefreshJob constructs the job that sweeps the upstream product
// list into the local cache.
func NewCatalogRefreshJob(params CatalogRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &catalogRefreshJob{
		logg:    params.Logger,
		catalog: params.Catalog,
		metrics: params.Metrics,
	}, nil
}

type catalogRefreshJob struct {
	logg    *logger.Logger
	catalog catalogRefresher
	metrics *metrics.SyncJobMetrics
}

func (j *catalogRefreshJob) Name() string { return "catalog-refresh" }

// Run refreshes every product. Partial failures are returned aggregated; the
// successfully refreshed rows stay refreshed.
func (j *catalogRefreshJob) Run(ctx context.Context) error {
	refreshed, err := j.catalog.RefreshAll(ctx)
	ctx = j.logg.WithField(ctx, "refreshed", refreshed)

	if count, countErr := j.catalog.CachedProductCount(ctx); countErr == nil {
		if j.metrics != nil {
			j.metrics.SetCachedProducts(int(count))
		}
	} else {
		j.logg.Warn(ctx, "failed to count cached products")
	}

	if err != nil {
		return fmt.Errorf("catalog refresh: %w", err)
	}
	j.logg.Info(ctx, "catalog cache refreshed")
	return nil
}
