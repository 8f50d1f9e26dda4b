package orders

import "context"

// Store is the persistence collaborator. Implementations must make each call
// atomic: a save either fully lands or fully fails, never partial state.
// Transient failures come back as-is; retry policy belongs to the caller.
type Store interface {
	SaveOrder(ctx context.Context, o Order) (Order, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	UpdateOrder(ctx context.Context, o Order) (Order, error)
	FindOrdersByCustomer(ctx context.Context, customerID string) ([]Order, error)
}
