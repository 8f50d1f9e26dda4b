package bookings

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when a reservation id is unknown.
	ErrNotFound = errors.New("reservation not found")

	// ErrDuplicateID is returned by stores on an id collision.
	ErrDuplicateID = errors.New("reservation id already exists")
)

type InvalidSlotError struct {
	Slot Slot
}

func (e *InvalidSlotError) Error() string {
	return fmt.Sprintf("slot %q is not a service window", e.Slot)
}

type InvalidPartySizeError struct {
	PartySize int
}

func (e *InvalidPartySizeError) Error() string {
	return fmt.Sprintf("party size %d out of range [%d,%d]", e.PartySize, MinPartySize, MaxPartySize)
}

type InvalidTableError struct {
	Table int
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("table %d out of range [1,%d]", e.Table, MaxTableNumber)
}

// SlotUnavailableError means the slot was legal but full at admission time.
// The caller should re-fetch availability and offer another slot.
type SlotUnavailableError struct {
	Date     string
	Slot     Slot
	Capacity int
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot %s on %s is full (capacity %d)", e.Slot, e.Date, e.Capacity)
}

type InvalidTransitionError struct {
	ReservationID string
	From          Status
	To            Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("reservation %s: cannot transition %s -> %s", e.ReservationID, e.From, e.To)
}
