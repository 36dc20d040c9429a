package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// EventPublisher delivers domain events to whoever listens (audit, alerting,
// analytics). Publishing is fire-and-forget: it happens after commit and a
// failure never undoes the operation that produced the events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...model.DomainEvent) error
}

// Publishers fans events out to every publisher and joins their errors.
type Publishers []EventPublisher

func (ps Publishers) Publish(ctx context.Context, events ...model.DomainEvent) error {
	var errs []error
	for _, p := range ps {
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func publish(ctx context.Context, pub EventPublisher, events []model.DomainEvent) {
	if pub == nil || len(events) == 0 {
		return
	}
	if err := pub.Publish(ctx, events...); err != nil {
		log.Error().Err(err).Int("events", len(events)).Msg("failed to publish domain events")
	}
}

// Locker serialises writers of one aggregate across replicas. The returned
// release func must always be called.
type Locker interface {
	Lock(ctx context.Context, id uuid.UUID) (release func(), err error)
}

func lock(ctx context.Context, l Locker, id uuid.UUID) (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	return l.Lock(ctx, id)
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", model.ErrValidation, field)
	}
	return id, nil
}

func parseDate(field, raw string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", model.ErrValidation, field)
	}
	return d, nil
}
