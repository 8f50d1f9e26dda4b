// Package store provides the in-memory implementation of both persistence
// collaborators. It is an explicit instance, not a package-level map:
// construct one per process (or per test case) and pass it in.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dapurlink/go-resto-orders/internal/bookings"
	"github.com/dapurlink/go-resto-orders/internal/orders"
)

// Memory holds orders and reservations in maps behind one mutex, so every
// store call is atomic with respect to every other. Records are copied on
// the way in and out; callers never share memory with the store.
type Memory struct {
	mu           sync.Mutex
	orders       map[string]orders.Order
	reservations map[string]bookings.Reservation
}

func NewMemory() *Memory {
	return &Memory{
		orders:       make(map[string]orders.Order),
		reservations: make(map[string]bookings.Reservation),
	}
}

func (m *Memory) SaveOrder(_ context.Context, o orders.Order) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[o.ID]; exists {
		return orders.Order{}, orders.ErrDuplicateID
	}
	m.orders[o.ID] = copyOrder(o)
	return o, nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return copyOrder(o), nil
}

func (m *Memory) UpdateOrder(_ context.Context, o orders.Order) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	m.orders[o.ID] = copyOrder(o)
	return o, nil
}

func (m *Memory) FindOrdersByCustomer(_ context.Context, customerID string) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []orders.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) SaveReservation(_ context.Context, r bookings.Reservation) (bookings.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.reservations[r.ID]; exists {
		return bookings.Reservation{}, bookings.ErrDuplicateID
	}
	m.reservations[r.ID] = r
	return r, nil
}

func (m *Memory) GetReservation(_ context.Context, id string) (bookings.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return bookings.Reservation{}, bookings.ErrNotFound
	}
	return r, nil
}

func (m *Memory) UpdateReservation(_ context.Context, r bookings.Reservation) (bookings.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[r.ID]; !ok {
		return bookings.Reservation{}, bookings.ErrNotFound
	}
	m.reservations[r.ID] = r
	return r, nil
}

func (m *Memory) FindReservations(_ context.Context, date string, slot bookings.Slot) ([]bookings.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []bookings.Reservation
	for _, r := range m.reservations {
		if r.Date != date {
			continue
		}
		if slot != "" && r.Slot != slot {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func copyOrder(o orders.Order) orders.Order {
	items := make([]orders.LineItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
