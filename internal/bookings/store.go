package bookings

import "context"

// Store is the persistence collaborator. FindReservations with slot == ""
// returns the whole date. Results must include PENDING and CONFIRMED rows;
// the capacity check depends on it.
type Store interface {
	SaveReservation(ctx context.Context, r Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservation(ctx context.Context, r Reservation) (Reservation, error)
	FindReservations(ctx context.Context, date string, slot Slot) ([]Reservation, error)
}
