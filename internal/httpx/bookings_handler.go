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

	"github.com/dapurlink/go-resto-orders/internal/bookings"
	kafkax "github.com/dapurlink/go-resto-orders/internal/kafka"
	"github.com/dapurlink/go-resto-orders/internal/redisx"
)

type BookingsHandler struct {
	Arbiter   *bookings.Arbiter
	Manager   *bookings.Manager
	Redis     *redis.Client // optional
	Requested Publisher     // optional
	Changed   Publisher
	Service   string
}

type RequestBookingReq struct {
	CustomerID string        `json:"customer_id"`
	Date       string        `json:"date"`
	Slot       bookings.Slot `json:"slot"`
	PartySize  int           `json:"party_size"`
	Note       string        `json:"note,omitempty"`
}

type ConfirmReq struct {
	TableNumber int `json:"table_number"`
}

func (h *BookingsHandler) Register(r *chi.Mux) {
	r.Get("/availability", h.availability)
	r.Post("/bookings", h.requestBooking)
	r.Get("/bookings/{id}", h.getBooking)
	r.Post("/bookings/{id}/confirm", h.confirm)
	r.Post("/bookings/{id}/cancel", h.cancel)
	r.Post("/bookings/{id}/complete", h.complete)
}

func (h *BookingsHandler) availability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing date"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyAvailability, date)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	avail, err := h.Arbiter.AvailabilityFor(ctx, date)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(avail); err == nil {
			key := fmt.Sprintf(redisx.KeyAvailability, date)
			_ = h.Redis.Set(ctx, key, b, redisx.TTLAvailabilityCache).Err()
		}
	}
	writeJSON(w, http.StatusOK, avail)
}

func (h *BookingsHandler) requestBooking(w http.ResponseWriter, r *http.Request) {
	var req RequestBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CustomerID == "" || req.Date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Arbiter.RequestBooking(ctx, req.CustomerID, req.Date, req.Slot, req.PartySize, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	// Snapshot for this date just changed; drop it so the next read recounts.
	h.invalidateAvailability(ctx, res.Date)
	h.cacheBooking(ctx, res)
	h.publish(h.Requested, bookings.EventBookingRequested, res.ID, r, bookings.BookingRequestedPayload{
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		Date:          res.Date,
		Slot:          res.Slot,
		PartySize:     res.PartySize,
	})

	writeJSON(w, http.StatusCreated, res)
}

func (h *BookingsHandler) getBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyBooking, id)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	res, err := h.Manager.GetReservation(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheBooking(ctx, res)
	writeJSON(w, http.StatusOK, res)
}

func (h *BookingsHandler) confirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ConfirmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Manager.Confirm(ctx, id, req.TableNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheBooking(ctx, res)
	h.publish(h.Changed, bookings.EventBookingConfirmed, res.ID, r, bookings.BookingChangedPayload{
		ReservationID: res.ID, Status: res.Status, TableNumber: res.TableNumber,
	})
	writeJSON(w, http.StatusOK, res)
}

func (h *BookingsHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Manager.Cancel(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if ok {
		if res, err := h.Manager.GetReservation(ctx, id); err == nil {
			h.invalidateAvailability(ctx, res.Date)
			h.cacheBooking(ctx, res)
			h.publish(h.Changed, bookings.EventBookingCancelled, res.ID, r, bookings.BookingChangedPayload{
				ReservationID: res.ID, Status: res.Status,
			})
		}
	}
	writeJSON(w, http.StatusOK, CancelResp{Cancelled: ok})
}

func (h *BookingsHandler) complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Manager.Complete(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidateAvailability(ctx, res.Date)
	h.cacheBooking(ctx, res)
	h.publish(h.Changed, bookings.EventBookingCompleted, res.ID, r, bookings.BookingChangedPayload{
		ReservationID: res.ID, Status: res.Status, TableNumber: res.TableNumber,
	})
	writeJSON(w, http.StatusOK, res)
}

func (h *BookingsHandler) cacheBooking(ctx context.Context, res bookings.Reservation) {
	if h.Redis == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyBooking, res.ID)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLBookingCache).Err()
}

func (h *BookingsHandler) invalidateAvailability(ctx context.Context, date string) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyAvailability, date)
	_ = h.Redis.Del(ctx, key).Err()
}

func (h *BookingsHandler) publish(p Publisher, eventType, correlationID string, r *http.Request, payload any) {
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
	p.Publish(bookings.PartitionKey(correlationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
