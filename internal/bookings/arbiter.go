package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dapurlink/go-resto-orders/internal/clock"
)

const maxIDRetries = 3

// Arbiter admits reservation requests against slot capacity. The mutex
// covers the availability re-check plus the save: two requests racing for
// the last seat serialize here, so both can never succeed. A database-backed
// store re-checks again inside its insert transaction (see repo_pg.go).
type Arbiter struct {
	store Store
	clock clock.Clock
	mu    sync.Mutex
}

func NewArbiter(store Store, clk clock.Clock) *Arbiter {
	return &Arbiter{store: store, clock: clk}
}

// RequestBooking validates in order: slot membership, party size, capacity.
// Capacity is recomputed here, at admission time; a caller-supplied
// availability snapshot is never trusted.
func (a *Arbiter) RequestBooking(ctx context.Context, customerID, date string, slot Slot, partySize int, note string) (Reservation, error) {
	if !slot.Valid() {
		return Reservation{}, &InvalidSlotError{Slot: slot}
	}
	if partySize < MinPartySize || partySize > MaxPartySize {
		return Reservation{}, &InvalidPartySizeError{PartySize: partySize}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	existing, err := a.store.FindReservations(ctx, date, slot)
	if err != nil {
		return Reservation{}, err
	}
	if countActive(date, slot, existing) >= SlotCapacity {
		return Reservation{}, &SlotUnavailableError{Date: date, Slot: slot, Capacity: SlotCapacity}
	}

	r := Reservation{
		CustomerID: customerID,
		Date:       date,
		Slot:       slot,
		PartySize:  partySize,
		Status:     StatusPending,
		Note:       note,
		CreatedAt:  a.clock.Now(),
	}
	for attempt := 0; attempt < maxIDRetries; attempt++ {
		r.ID = uuid.NewString()
		saved, err := a.store.SaveReservation(ctx, r)
		if errors.Is(err, ErrDuplicateID) {
			continue
		}
		if err != nil {
			return Reservation{}, err
		}
		return saved, nil
	}
	return Reservation{}, fmt.Errorf("reservation id collision persisted after %d attempts", maxIDRetries)
}

// AvailabilityFor fetches the date's reservations and reports per-slot
// open/full in stable slot order.
func (a *Arbiter) AvailabilityFor(ctx context.Context, date string) ([]SlotAvailability, error) {
	existing, err := a.store.FindReservations(ctx, date, "")
	if err != nil {
		return nil, err
	}
	return Availability(date, existing), nil
}
