package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type OrderCreatedPayload struct {
	OrderID          string          `json:"order_id"`
	CustomerID       string          `json:"customer_id"`
	Total            decimal.Decimal `json:"total"`
	ItemCount        int             `json:"item_count"`
	EstimatedReadyAt time.Time       `json:"estimated_ready_at"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}
