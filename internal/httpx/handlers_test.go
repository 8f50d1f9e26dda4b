package httpx_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapurlink/go-resto-orders/internal/bookings"
	"github.com/dapurlink/go-resto-orders/internal/clock"
	"github.com/dapurlink/go-resto-orders/internal/httpx"
	kafkax "github.com/dapurlink/go-resto-orders/internal/kafka"
	"github.com/dapurlink/go-resto-orders/internal/orders"
	"github.com/dapurlink/go-resto-orders/internal/store"
)

type fakePublisher struct {
	values [][]byte
}

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	f.values = append(f.values, value)
}

func newServer(t *testing.T) (*httptest.Server, *fakePublisher) {
	t.Helper()
	mem := store.NewMemory()
	clk := clock.Fixed{T: time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)}
	pub := &fakePublisher{}

	r := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Manager: orders.NewManager(mem, clk),
		Created: pub,
		Changed: pub,
		Service: "test-api",
		TaxRate: decimal.RequireFromString("0.08"),
	}
	oh.Register(r)
	bh := &httpx.BookingsHandler{
		Arbiter:   bookings.NewArbiter(mem, clk),
		Manager:   bookings.NewManager(mem),
		Requested: pub,
		Changed:   pub,
		Service:   "test-api",
	}
	bh.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, pub
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateOrderEndpoint(t *testing.T) {
	srv, pub := newServer(t)

	resp := postJSON(t, srv.URL+"/orders", httpx.CreateOrderReq{
		CustomerID: "cust-1",
		Items: []orders.LineItem{
			{ProductID: "classic-burger", UnitPrice: decimal.RequireFromString("12.99"), Quantity: 1},
			{ProductID: "fries", UnitPrice: decimal.RequireFromString("4.99"), Quantity: 2},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	o := decode[orders.Order](t, resp)

	assert.Equal(t, orders.StatusPending, o.Status)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("24.81")), "total = %s", o.Total)

	require.Len(t, pub.values, 1)
	var env kafkax.Envelope
	require.NoError(t, json.Unmarshal(pub.values[0], &env))
	assert.Equal(t, orders.EventOrderCreated, env.EventType)
	assert.Equal(t, o.ID, env.CorrelationID)
}

func TestCreateOrderEndpointEmptyCart(t *testing.T) {
	srv, _ := newServer(t)

	resp := postJSON(t, srv.URL+"/orders", httpx.CreateOrderReq{CustomerID: "cust-1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransitionEndpointConflict(t *testing.T) {
	srv, _ := newServer(t)

	resp := postJSON(t, srv.URL+"/orders", httpx.CreateOrderReq{
		CustomerID: "cust-1",
		Items:      []orders.LineItem{{ProductID: "p", UnitPrice: decimal.New(5, 0), Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	o := decode[orders.Order](t, resp)

	// skipping straight to DELIVERED is a conflict
	resp = postJSON(t, srv.URL+"/orders/"+o.ID+"/status", httpx.TransitionReq{Status: orders.StatusDelivered})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCancelEndpointPublishesPriorStatus(t *testing.T) {
	srv, pub := newServer(t)

	resp := postJSON(t, srv.URL+"/orders", httpx.CreateOrderReq{
		CustomerID: "cust-1",
		Items:      []orders.LineItem{{ProductID: "p", UnitPrice: decimal.New(5, 0), Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	o := decode[orders.Order](t, resp)

	resp = postJSON(t, srv.URL+"/orders/"+o.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[httpx.CancelResp](t, resp)
	assert.True(t, out.Cancelled)

	require.Len(t, pub.values, 2) // OrderCreated + OrderStatusChanged
	var env kafkax.Envelope
	require.NoError(t, json.Unmarshal(pub.values[1], &env))
	assert.Equal(t, orders.EventOrderStatusChanged, env.EventType)

	var p orders.OrderStatusChangedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, orders.StatusPending, p.From, "event carries the pre-cancel status")
	assert.Equal(t, orders.StatusCancelled, p.To)
}

func TestOrderNotFound(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/orders/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBookingEndpoints(t *testing.T) {
	srv, _ := newServer(t)

	resp := postJSON(t, srv.URL+"/bookings", httpx.RequestBookingReq{
		CustomerID: "cust-1", Date: "2025-06-20", Slot: "19:00", PartySize: 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	r := decode[bookings.Reservation](t, resp)
	assert.Equal(t, bookings.StatusPending, r.Status)

	resp = postJSON(t, srv.URL+"/bookings/"+r.ID+"/confirm", httpx.ConfirmReq{TableNumber: 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	r = decode[bookings.Reservation](t, resp)
	assert.Equal(t, bookings.StatusConfirmed, r.Status)
	assert.Equal(t, 7, r.TableNumber)

	resp = postJSON(t, srv.URL+"/bookings/"+r.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	r = decode[bookings.Reservation](t, resp)
	assert.Equal(t, bookings.StatusCompleted, r.Status)
}

func TestBookingCapacityConflict(t *testing.T) {
	srv, _ := newServer(t)

	for i := 0; i < bookings.SlotCapacity; i++ {
		resp := postJSON(t, srv.URL+"/bookings", httpx.RequestBookingReq{
			CustomerID: fmt.Sprintf("cust-%d", i), Date: "2025-06-20", Slot: "19:00", PartySize: 2,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := postJSON(t, srv.URL+"/bookings", httpx.RequestBookingReq{
		CustomerID: "late", Date: "2025-06-20", Slot: "19:00", PartySize: 2,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/availability?date=2025-06-20")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	avail := decode[[]bookings.SlotAvailability](t, resp)
	assert.Len(t, avail, len(bookings.Slots))
}
