// Package notifier keeps the Redis read cache honest: it consumes lifecycle
// events and drops the affected cache entries, so a tracker UI polling the
// API never sees a status older than the last published event.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/dapurlink/go-resto-orders/internal/bookings"
	kafkax "github.com/dapurlink/go-resto-orders/internal/kafka"
	"github.com/dapurlink/go-resto-orders/internal/orders"
	"github.com/dapurlink/go-resto-orders/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderEvent is wired as the consumer handler for order topics.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env kafkax.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil // ignore
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyOrder, p.OrderID)
	return s.Redis.Del(ctx, key).Err()
}

// HandleBookingEvent invalidates both the reservation entry and the date's
// availability snapshot: a cancel frees a seat, a confirm pins a table.
func (s *Service) HandleBookingEvent(ctx context.Context, m kafkago.Message) error {
	var env kafkax.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	switch env.EventType {
	case bookings.EventBookingRequested:
		p, err := kafkax.UnwrapPayload[bookings.BookingRequestedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyAvailability, p.Date)).Err()
	case bookings.EventBookingConfirmed, bookings.EventBookingCancelled, bookings.EventBookingCompleted:
		p, err := kafkax.UnwrapPayload[bookings.BookingChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyBooking, p.ReservationID)).Err()
	}
	return nil
}

// seen dedups by event_id so redeliveries don't hammer Redis.
func (s *Service) seen(ctx context.Context, eventID string) bool {
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, eventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return true
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return false
}
