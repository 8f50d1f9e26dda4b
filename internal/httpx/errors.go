package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dapurlink/go-resto-orders/internal/bookings"
	"github.com/dapurlink/go-resto-orders/internal/money"
	"github.com/dapurlink/go-resto-orders/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy to HTTP: validation -> 400,
// conflict -> 409, unknown id -> 404, everything else (store failures) -> 500.
// The domain message goes through as-is; every type carries which field or
// which status pair went wrong.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, bookings.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrEmptyCart):
		return http.StatusBadRequest
	}

	var (
		negPrice   *money.NegativePriceError
		badQty     *money.InvalidQuantityError
		negTax     *money.NegativeTaxRateError
		badSlot    *bookings.InvalidSlotError
		badParty   *bookings.InvalidPartySizeError
		badTable   *bookings.InvalidTableError
		slotFull   *bookings.SlotUnavailableError
		badOrderTx *orders.InvalidTransitionError
		badBookTx  *bookings.InvalidTransitionError
	)
	switch {
	case errors.As(err, &negPrice), errors.As(err, &badQty), errors.As(err, &negTax),
		errors.As(err, &badSlot), errors.As(err, &badParty), errors.As(err, &badTable):
		return http.StatusBadRequest
	case errors.As(err, &slotFull), errors.As(err, &badOrderTx), errors.As(err, &badBookTx):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
