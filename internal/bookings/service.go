package bookings

import "context"

// Manager governs reservation status after admission. All mutation goes
// through these three calls; nothing edits a stored reservation directly.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) GetReservation(ctx context.Context, id string) (Reservation, error) {
	return m.store.GetReservation(ctx, id)
}

// Confirm moves PENDING -> CONFIRMED and assigns the table. A confirmed
// reservation always has a table; a pending one never does.
func (m *Manager) Confirm(ctx context.Context, reservationID string, tableNumber int) (Reservation, error) {
	if tableNumber < 1 || tableNumber > MaxTableNumber {
		return Reservation{}, &InvalidTableError{Table: tableNumber}
	}
	r, err := m.store.GetReservation(ctx, reservationID)
	if err != nil {
		return Reservation{}, err
	}
	if r.Status != StatusPending {
		return Reservation{}, &InvalidTransitionError{ReservationID: r.ID, From: r.Status, To: StatusConfirmed}
	}
	r.Status = StatusConfirmed
	r.TableNumber = tableNumber
	return m.store.UpdateReservation(ctx, r)
}

// Cancel frees the seat from PENDING or CONFIRMED. Terminal states report
// false, not an error; the booking is already settled either way.
func (m *Manager) Cancel(ctx context.Context, reservationID string) (bool, error) {
	r, err := m.store.GetReservation(ctx, reservationID)
	if err != nil {
		return false, err
	}
	if r.Status.IsTerminal() {
		return false, nil
	}
	r.Status = StatusCancelled
	if _, err := m.store.UpdateReservation(ctx, r); err != nil {
		return false, err
	}
	return true, nil
}

// Complete closes out a CONFIRMED reservation after service. A booking that
// never got a table cannot be completed.
func (m *Manager) Complete(ctx context.Context, reservationID string) (Reservation, error) {
	r, err := m.store.GetReservation(ctx, reservationID)
	if err != nil {
		return Reservation{}, err
	}
	if r.Status != StatusConfirmed {
		return Reservation{}, &InvalidTransitionError{ReservationID: r.ID, From: r.Status, To: StatusCompleted}
	}
	r.Status = StatusCompleted
	return m.store.UpdateReservation(ctx, r)
}
