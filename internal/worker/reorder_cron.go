package worker

// reorder_cron.go
// Background goroutine that periodically scans the catalogue for products at
// or below their reorder point and for stock about to expire, and logs a
// purchasing worklist.

import (
	"context"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/dto"

	"github.com/rs/zerolog/log"
)

// StockScanner is the slice of the inventory service the cron needs.
type StockScanner interface {
	ProductsNeedingReorder(ctx context.Context) ([]dto.StockAlertResponse, error)
	ExpiringStock(ctx context.Context, days int) ([]dto.ExpiringStockResponse, error)
}

// ReorderCronConfig holds all dependencies for the scan goroutine.
type ReorderCronConfig struct {
	Inventory         StockScanner
	Interval          time.Duration
	ExpiryWarningDays int
}

// ScanResult summarises one tick.
type ScanResult struct {
	Reorder  []dto.StockAlertResponse
	Expiring []dto.ExpiringStockResponse
}

// StartReorderCron launches a goroutine that runs one scan per Interval.
// It respects the context for graceful shutdown.
func StartReorderCron(ctx context.Context, cfg ReorderCronConfig) {
	if cfg.Interval <= 0 {
		log.Warn().Msg("reorder_cron: non-positive interval, not started")
		return
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("reorder_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reorder_cron: shutting down")
				return
			case <-ticker.C:
				if _, err := RunScan(ctx, cfg); err != nil {
					log.Error().Err(err).Msg("reorder_cron: scan failed")
				}
			}
		}
	}()
}

// RunScan performs a single scan and logs every finding.
func RunScan(ctx context.Context, cfg ReorderCronConfig) (ScanResult, error) {
	var res ScanResult

	reorder, err := cfg.Inventory.ProductsNeedingReorder(ctx)
	if err != nil {
		return res, err
	}
	res.Reorder = reorder
	for _, p := range reorder {
		log.Warn().
			Str("sku", p.SKU).
			Str("name", p.Name).
			Int("total_stock", p.TotalStock).
			Int("reorder_point", p.ReorderPoint).
			Int("suggested_quantity", p.SuggestedQuantity).
			Msg("reorder_cron: product needs reorder")
	}

	expiring, err := cfg.Inventory.ExpiringStock(ctx, cfg.ExpiryWarningDays)
	if err != nil {
		return res, err
	}
	res.Expiring = expiring
	for _, e := range expiring {
		ev := log.Warn()
		if e.DaysUntilExpiration < 0 {
			ev = log.Error()
		}
		ev.Str("sku", e.SKU).
			Str("location", e.LocationName).
			Int("quantity", e.Quantity).
			Str("expiration_date", e.ExpirationDate).
			Int("days_until_expiration", e.DaysUntilExpiration).
			Msg("reorder_cron: stock expiring")
	}

	log.Info().Int("reorder", len(reorder)).Int("expiring", len(expiring)).Msg("reorder_cron: scan done")
	return res, nil
}
