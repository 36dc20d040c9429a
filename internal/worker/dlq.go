package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Dead events are kept newest first in DeadEventsKey for manual replay.
// DeadEventsByTypeKey is a hash counting them per event type.
const (
	DeadEventsKey       = "dlq:" + QueueEvents
	DeadEventsByTypeKey = DeadEventsKey + ":by_type"
)

// unknownEventType marks a job whose envelope could not be decoded.
const unknownEventType = "unknown"

// DeadEvent is a domain event the worker pool gave up on.
type DeadEvent struct {
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	Reason      string          `json:"reason"`
	Attempts    int             `json:"attempts"`
	FailedAt    time.Time       `json:"failed_at"`
}

func newDeadEvent(job Job, reason string, now time.Time) DeadEvent {
	payload := job.Payload
	if !json.Valid(payload) {
		payload, _ = json.Marshal(string(job.Payload))
	}
	return DeadEvent{
		EventType:   job.Type,
		AggregateID: aggregateOf(job),
		Payload:     payload,
		Reason:      reason,
		Attempts:    job.Attempts,
		FailedAt:    now.UTC(),
	}
}

// aggregateOf falls back to the payload for jobs queued without an aggregate id.
func aggregateOf(job Job) string {
	if job.AggregateID != "" {
		return job.AggregateID
	}
	var ids struct {
		ProductID string `json:"product_id"`
		SaleID    string `json:"sale_id"`
	}
	if json.Unmarshal(job.Payload, &ids) != nil {
		return ""
	}
	if ids.SaleID != "" {
		return ids.SaleID
	}
	return ids.ProductID
}

// SendToDLQ parks job in the dead event list and bumps its per-type counter.
func SendToDLQ(ctx context.Context, rdb *redis.Client, job Job, reason string) {
	dead := newDeadEvent(job, reason, time.Now())
	data, err := json.Marshal(dead)
	if err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("dlq: failed to marshal dead event")
		return
	}

	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, DeadEventsKey, data)
	pipe.HIncrBy(ctx, DeadEventsByTypeKey, dead.EventType, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("dlq: failed to park dead event")
		return
	}

	log.Warn().
		Str("type", dead.EventType).
		Str("aggregate_id", dead.AggregateID).
		Str("reason", reason).
		Int("attempts", dead.Attempts).
		Msg("dlq: event moved to dead letter queue")
}

// DLQLength is the number of parked events.
func DLQLength(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, DeadEventsKey).Result()
}

// DeadEventsByType reports how many events of each type were parked.
func DeadEventsByType(ctx context.Context, rdb *redis.Client) (map[string]int64, error) {
	raw, err := rdb.HGetAll(ctx, DeadEventsByTypeKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}
