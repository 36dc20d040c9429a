package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// QueueEvents holds domain events waiting for the worker pool.
const QueueEvents = "events:domain"

// MaxJobAttempts is how often a failing job is retried before it goes to the DLQ.
const MaxJobAttempts = 3

// Job carries one domain event through the queue.
type Job struct {
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int             `json:"attempts,omitempty"`
}

// Dispatcher enqueues domain events into a Redis list.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Publish pushes one job per event. It satisfies service.EventPublisher.
func (d *Dispatcher) Publish(ctx context.Context, events ...model.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	encoded := make([]any, 0, len(events))
	for _, ev := range events {
		job, err := NewJob(ev)
		if err != nil {
			return err
		}
		data, err := json.Marshal(job)
		if err != nil {
			return err
		}
		encoded = append(encoded, data)
	}
	// the request may be finished by now; the events must still go out
	return d.rdb.LPush(context.WithoutCancel(ctx), QueueEvents, encoded...).Err()
}

// NewJob wraps a domain event.
func NewJob(ev model.DomainEvent) (Job, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Job{}, fmt.Errorf("marshal %s: %w", ev.EventType(), err)
	}
	return Job{Type: ev.EventType(), AggregateID: ev.AggregateID().String(), Payload: data}, nil
}

// StartWorkerPool launches numWorkers goroutines consuming the event queue.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, h *EventHandler) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, h)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, h *EventHandler) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEvents).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, h, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, h *EventHandler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, Job{Type: unknownEventType, Payload: json.RawMessage(raw)}, err.Error())
		return
	}

	err := h.Handle(ctx, job)
	if err == nil {
		return
	}

	job.Attempts++
	if !shouldRetry(job) {
		SendToDLQ(ctx, rdb, job, fmt.Sprintf("max attempts (%d) exceeded: %s", MaxJobAttempts, err))
		return
	}

	log.Warn().Err(err).Str("type", job.Type).Str("aggregate_id", job.AggregateID).Int("attempt", job.Attempts).Msg("job failed, requeueing")
	data, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Str("type", job.Type).Msg("failed to re-encode job")
		return
	}
	// back of the queue so one poisoned job does not starve the rest
	if pErr := rdb.LPush(ctx, queue, data).Err(); pErr != nil {
		log.Error().Err(pErr).Str("type", job.Type).Msg("failed to requeue job")
	}
}

func shouldRetry(job Job) bool { return job.Attempts < MaxJobAttempts }
