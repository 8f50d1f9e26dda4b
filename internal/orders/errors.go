package orders

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects checkout with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotFound is returned by stores when an order id is unknown.
	ErrNotFound = errors.New("order not found")

	// ErrDuplicateID is returned by stores on an id collision; the manager
	// regenerates and retries.
	ErrDuplicateID = errors.New("order id already exists")
)

// InvalidTransitionError carries both ends of the rejected move so callers
// can tell the user what state the order is actually in.
type InvalidTransitionError struct {
	OrderID string
	From    Status
	To      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s: cannot transition %s -> %s", e.OrderID, e.From, e.To)
}
