package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dapurlink/go-resto-orders/internal/clock"
	"github.com/dapurlink/go-resto-orders/internal/money"
)

const (
	// Kitchen estimate window, minutes. The value is picked once at creation
	// and frozen on the order; re-reads must never re-roll it.
	minPrepMinutes = 20
	maxPrepMinutes = 45

	// How many times we re-roll a colliding uuid before giving up. With v4
	// ids this should never trigger; hitting the bound is a hard failure.
	maxIDRetries = 3
)

// Manager owns order creation and status transitions. Status is only ever
// mutated through Transition; nothing else writes to an order after save.
// Safe for concurrent use: the store serializes its own calls and the
// estimate roll goes through the locked top-level rand source.
type Manager struct {
	store Store
	clock clock.Clock
}

func NewManager(store Store, clk clock.Clock) *Manager {
	return &Manager{store: store, clock: clk}
}

// CreateOrder checks out a cart: totals are computed once (see money pkg),
// the items are copied, and the result is saved with status PENDING.
func (m *Manager) CreateOrder(ctx context.Context, customerID string, cart []LineItem, taxRate decimal.Decimal, deliveryAddress, note string) (Order, error) {
	if len(cart) == 0 {
		return Order{}, ErrEmptyCart
	}

	lines := make([]money.Line, len(cart))
	for i, it := range cart {
		lines[i] = money.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	totals, err := money.ComputeTotals(lines, taxRate)
	if err != nil {
		return Order{}, err
	}

	now := m.clock.Now()
	items := make([]LineItem, len(cart))
	copy(items, cart)

	o := Order{
		CustomerID:       customerID,
		Items:            items,
		Status:           StatusPending,
		Subtotal:         totals.Subtotal,
		Tax:              totals.Tax,
		Total:            totals.Total,
		CreatedAt:        now,
		EstimatedReadyAt: now.Add(m.prepEstimate()),
		DeliveryAddress:  deliveryAddress,
		Note:             note,
	}

	for attempt := 0; attempt < maxIDRetries; attempt++ {
		o.ID = uuid.NewString()
		saved, err := m.store.SaveOrder(ctx, o)
		if errors.Is(err, ErrDuplicateID) {
			continue
		}
		if err != nil {
			return Order{}, err
		}
		return saved, nil
	}
	return Order{}, fmt.Errorf("order id collision persisted after %d attempts", maxIDRetries)
}

func (m *Manager) prepEstimate() time.Duration {
	spread := maxPrepMinutes - minPrepMinutes + 1
	return time.Duration(minPrepMinutes+rand.Intn(spread)) * time.Minute
}

func (m *Manager) GetOrder(ctx context.Context, id string) (Order, error) {
	return m.store.GetOrder(ctx, id)
}

// History lists a customer's orders, terminal ones included.
func (m *Manager) History(ctx context.Context, customerID string) ([]Order, error) {
	return m.store.FindOrdersByCustomer(ctx, customerID)
}

// Transition moves an order along the status chain. Totals and items are
// carried over untouched; only Status changes.
func (m *Manager) Transition(ctx context.Context, orderID string, target Status) (Order, error) {
	o, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, target) {
		return Order{}, &InvalidTransitionError{OrderID: o.ID, From: o.Status, To: target}
	}
	o.Status = target
	return m.store.UpdateOrder(ctx, o)
}

// Cancel is a wrapper over Transition to CANCELLED. A terminal order reports
// false rather than an error: cancelling something already finished is a
// no-op outcome, not caller misuse.
func (m *Manager) Cancel(ctx context.Context, orderID string) (bool, error) {
	o, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if o.Status.IsTerminal() {
		return false, nil
	}
	if _, err := m.Transition(ctx, orderID, StatusCancelled); err != nil {
		return false, err
	}
	return true, nil
}
