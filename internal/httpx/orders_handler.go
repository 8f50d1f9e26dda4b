package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	kafkax "github.com/dapurlink/go-resto-orders/internal/kafka"
	"github.com/dapurlink/go-resto-orders/internal/orders"
	"github.com/dapurlink/go-resto-orders/internal/redisx"
)

// Publisher is what the handlers need from a Kafka producer; tests plug in
// a recorder.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Manager *orders.Manager
	Redis   *redis.Client // optional; nil disables caching
	Created Publisher     // optional; nil disables events
	Changed Publisher
	Service string
	TaxRate decimal.Decimal
}

type CreateOrderReq struct {
	CustomerID      string            `json:"customer_id"`
	Items           []orders.LineItem `json:"items"`
	DeliveryAddress string            `json:"delivery_address,omitempty"`
	Note            string            `json:"note,omitempty"`
}

type TransitionReq struct {
	Status orders.Status `json:"status"`
}

type CancelResp struct {
	Cancelled bool `json:"cancelled"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/status", h.transition)
	r.Post("/orders/{id}/cancel", h.cancel)
	r.Get("/customers/{id}/orders", h.history)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CustomerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing customer_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Manager.CreateOrder(ctx, req.CustomerID, req.Items, h.TaxRate, req.DeliveryAddress, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheOrder(ctx, o)
	h.publish(h.Created, orders.EventOrderCreated, o.ID, r, orders.OrderCreatedPayload{
		OrderID:          o.ID,
		CustomerID:       o.CustomerID,
		Total:            o.Total,
		ItemCount:        len(o.Items),
		EstimatedReadyAt: o.EstimatedReadyAt,
	})

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrder, orderID)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	// 2) fallback store
	o, err := h.Manager.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheOrder(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req TransitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !req.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Manager.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	from := o.Status

	o, err = h.Manager.Transition(ctx, orderID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheOrder(ctx, o)
	h.publish(h.Changed, orders.EventOrderStatusChanged, o.ID, r, orders.OrderStatusChangedPayload{
		OrderID: o.ID, From: from, To: o.Status,
	})
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	before, err := h.Manager.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	ok, err := h.Manager.Cancel(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if ok {
		if o, err := h.Manager.GetOrder(ctx, orderID); err == nil {
			h.cacheOrder(ctx, o)
			h.publish(h.Changed, orders.EventOrderStatusChanged, o.ID, r, orders.OrderStatusChangedPayload{
				OrderID: o.ID, From: before.Status, To: o.Status,
			})
		}
	}
	writeJSON(w, http.StatusOK, CancelResp{Cancelled: ok})
}

func (h *OrdersHandler) history(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Manager.History(ctx, customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) cacheOrder(ctx context.Context, o orders.Order) {
	if h.Redis == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrder, o.ID)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderCache).Err()
}

func (h *OrdersHandler) publish(p Publisher, eventType, correlationID string, r *http.Request, payload any) {
	if p == nil {
		return
	}
	ev := kafkax.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(correlationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
