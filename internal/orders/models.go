package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is immutable once attached to an Order: CreateOrder copies the
// cart slice so later cart edits can't reach into a placed order.
type LineItem struct {
	ProductID string          `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
}

type Order struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customer_id"`
	Items      []LineItem `json:"items"`
	Status     Status     `json:"status"` // lihat status.go

	// Frozen at creation. Transitions never touch these, even if tax rules
	// change afterwards.
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`

	CreatedAt        time.Time `json:"created_at"`
	EstimatedReadyAt time.Time `json:"estimated_ready_at"`
	DeliveryAddress  string    `json:"delivery_address,omitempty"`
	Note             string    `json:"note,omitempty"`
}
