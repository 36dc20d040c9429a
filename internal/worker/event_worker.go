package worker

// event_worker.go
// Processes domain events from QueueEvents. Catalogue and stock events keep
// the product cache fresh, low stock events feed the alert list and sale
// events are logged as an audit trail.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danieln3m0/POSLas4as/internal/model"
	"github.com/danieln3m0/POSLas4as/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// maxStoredAlerts caps the low stock alert list.
const maxStoredAlerts = 100

// CacheInvalidator drops cached catalogue entries for a SKU.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context, sku string) error
}

// AlertStore keeps the most recent low stock alerts.
type AlertStore interface {
	PushLowStock(ctx context.Context, alert model.LowStockAlert) error
}

// RedisAlertStore keeps alerts in a capped Redis list, newest first.
type RedisAlertStore struct {
	rdb *redis.Client
}

func NewRedisAlertStore(rdb *redis.Client) *RedisAlertStore {
	return &RedisAlertStore{rdb: rdb}
}

func (s *RedisAlertStore) PushLowStock(ctx context.Context, alert model.LowStockAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, service.LowStockAlertsKey, data)
	pipe.LTrim(ctx, service.LowStockAlertsKey, 0, maxStoredAlerts-1)
	_, err = pipe.Exec(ctx)
	return err
}

// EventHandler routes each job to the handler for its event type.
type EventHandler struct {
	cache  CacheInvalidator
	alerts AlertStore
}

func NewEventHandler(cache CacheInvalidator, alerts AlertStore) *EventHandler {
	return &EventHandler{cache: cache, alerts: alerts}
}

// Handle returns an error only when the job is worth retrying. Malformed
// payloads and unknown types are logged and dropped.
func (h *EventHandler) Handle(ctx context.Context, job Job) error {
	switch job.Type {
	case model.EventProductCreated:
		var ev model.ProductCreated
		if !decode(job, &ev) {
			return nil
		}
		log.Info().
			Str("product_id", ev.ProductID.String()).
			Str("sku", ev.SKU).
			Str("sale_price", ev.SalePrice.String()).
			Msg("event_worker: product registered")
		return h.invalidate(ctx, ev.SKU)
	case model.EventStockUpdated:
		var ev model.StockUpdated
		if !decode(job, &ev) {
			return nil
		}
		return h.stockUpdated(ctx, ev)
	case model.EventLowStockAlert:
		var ev model.LowStockAlert
		if !decode(job, &ev) {
			return nil
		}
		return h.lowStock(ctx, ev)
	case model.EventSaleCompleted:
		var ev model.SaleCompleted
		if !decode(job, &ev) {
			return nil
		}
		log.Info().
			Str("sale_id", ev.SaleID.String()).
			Str("sale_number", ev.SaleNumber).
			Str("total", ev.Total.String()).
			Int("lines", len(ev.Lines)).
			Msg("event_worker: sale completed")
		return nil
	case model.EventSaleCancelled, model.EventSaleRefunded:
		log.Info().Str("type", job.Type).RawJSON("payload", job.Payload).Msg("event_worker: sale closed")
		return nil
	default:
		log.Warn().Str("type", job.Type).Msg("event_worker: unknown event type, skipping")
		return nil
	}
}

func decode(job Job, into any) bool {
	if err := json.Unmarshal(job.Payload, into); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("event_worker: invalid payload")
		return false
	}
	return true
}

func (h *EventHandler) stockUpdated(ctx context.Context, ev model.StockUpdated) error {
	log.Debug().
		Str("sku", ev.SKU).
		Int("previous_stock", ev.PreviousStock).
		Int("new_stock", ev.NewStock).
		Str("location", ev.LocationName).
		Msg("event_worker: stock updated")
	return h.invalidate(ctx, ev.SKU)
}

func (h *EventHandler) invalidate(ctx context.Context, sku string) error {
	if h.cache == nil {
		return nil
	}
	if err := h.cache.InvalidateCache(ctx, sku); err != nil {
		return fmt.Errorf("invalidate cache for %s: %w", sku, err)
	}
	return nil
}

func (h *EventHandler) lowStock(ctx context.Context, ev model.LowStockAlert) error {
	log.Warn().
		Str("sku", ev.SKU).
		Str("name", ev.Name).
		Int("current_stock", ev.CurrentStock).
		Int("minimum_stock", ev.MinimumStock).
		Str("location", ev.LocationName).
		Msg("event_worker: low stock")
	if h.alerts == nil {
		return nil
	}
	if err := h.alerts.PushLowStock(ctx, ev); err != nil {
		return fmt.Errorf("store low stock alert for %s: %w", ev.SKU, err)
	}
	return nil
}
