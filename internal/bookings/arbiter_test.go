package bookings_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapurlink/go-resto-orders/internal/bookings"
	"github.com/dapurlink/go-resto-orders/internal/clock"
	"github.com/dapurlink/go-resto-orders/internal/store"
)

var testNow = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

func newArbiter(t *testing.T) (*bookings.Arbiter, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return bookings.NewArbiter(mem, clock.Fixed{T: testNow}), mem
}

func TestRequestBooking(t *testing.T) {
	a, _ := newArbiter(t)

	r, err := a.RequestBooking(context.Background(), "cust-1", "2025-06-20", "19:00", 4, "window seat")
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, bookings.StatusPending, r.Status)
	assert.Zero(t, r.TableNumber, "pending reservations never carry a table")
	assert.Equal(t, testNow, r.CreatedAt)
}

func TestRequestBookingInvalidSlot(t *testing.T) {
	a, _ := newArbiter(t)

	_, err := a.RequestBooking(context.Background(), "cust-1", "2025-06-20", "15:00", 4, "")
	var bad *bookings.InvalidSlotError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, bookings.Slot("15:00"), bad.Slot)
}

func TestRequestBookingInvalidPartySize(t *testing.T) {
	a, _ := newArbiter(t)

	for _, size := range []int{0, -1, 21} {
		_, err := a.RequestBooking(context.Background(), "cust-1", "2025-06-20", "19:00", size, "")
		var bad *bookings.InvalidPartySizeError
		require.ErrorAs(t, err, &bad, "party size %d", size)
		assert.Equal(t, size, bad.PartySize)
	}
}

// Validation order: a bogus slot must fail as InvalidSlot even when the
// party size is bogus too.
func TestRequestBookingValidationOrder(t *testing.T) {
	a, _ := newArbiter(t)

	_, err := a.RequestBooking(context.Background(), "cust-1", "2025-06-20", "05:00", 0, "")
	var bad *bookings.InvalidSlotError
	assert.ErrorAs(t, err, &bad)
}

func TestRequestBookingCapacity(t *testing.T) {
	a, mem := newArbiter(t)
	ctx := context.Background()

	var last bookings.Reservation
	for i := 0; i < bookings.SlotCapacity; i++ {
		r, err := a.RequestBooking(ctx, "cust-1", "2025-06-20", "19:00", 2, "")
		require.NoError(t, err)
		last = r
	}

	// 11th is rejected and nothing is persisted
	_, err := a.RequestBooking(ctx, "cust-1", "2025-06-20", "19:00", 2, "")
	var full *bookings.SlotUnavailableError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, "2025-06-20", full.Date)
	assert.Equal(t, bookings.Slot("19:00"), full.Slot)

	avail, err := a.AvailabilityFor(ctx, "2025-06-20")
	require.NoError(t, err)
	for _, sa := range avail {
		if sa.Slot == "19:00" {
			assert.False(t, sa.IsOpen)
		}
	}

	// cancelling one frees the seat; the next request succeeds
	mgr := bookings.NewManager(mem)
	ok, err := mgr.Cancel(ctx, last.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = a.RequestBooking(ctx, "cust-2", "2025-06-20", "19:00", 2, "")
	assert.NoError(t, err)

	// and now the slot is exactly full again
	_, err = a.RequestBooking(ctx, "cust-3", "2025-06-20", "19:00", 2, "")
	assert.ErrorAs(t, err, &full)
}

func TestRequestBookingOtherSlotUnaffected(t *testing.T) {
	a, _ := newArbiter(t)
	ctx := context.Background()

	for i := 0; i < bookings.SlotCapacity; i++ {
		_, err := a.RequestBooking(ctx, "cust-1", "2025-06-20", "19:00", 2, "")
		require.NoError(t, err)
	}
	_, err := a.RequestBooking(ctx, "cust-1", "2025-06-20", "19:30", 2, "")
	assert.NoError(t, err)
	_, err = a.RequestBooking(ctx, "cust-1", "2025-06-21", "19:00", 2, "")
	assert.NoError(t, err)
}

// collidingBookingStore reports a duplicate id for the first N saves, then
// hands off to the real store.
type collidingBookingStore struct {
	*store.Memory
	collisions int
	saves      int
}

func (s *collidingBookingStore) SaveReservation(ctx context.Context, r bookings.Reservation) (bookings.Reservation, error) {
	s.saves++
	if s.saves <= s.collisions {
		return bookings.Reservation{}, bookings.ErrDuplicateID
	}
	return s.Memory.SaveReservation(ctx, r)
}

func TestRequestBookingRegeneratesCollidingID(t *testing.T) {
	st := &collidingBookingStore{Memory: store.NewMemory(), collisions: 2}
	a := bookings.NewArbiter(st, clock.Fixed{T: testNow})

	r, err := a.RequestBooking(context.Background(), "cust-1", "2025-06-20", "19:00", 2, "")
	require.NoError(t, err)
	assert.Equal(t, 3, st.saves, "two collisions then a fresh id")
	assert.NotEmpty(t, r.ID)
}

func TestRequestBookingGivesUpAfterRepeatedCollisions(t *testing.T) {
	st := &collidingBookingStore{Memory: store.NewMemory(), collisions: 100}
	a := bookings.NewArbiter(st, clock.Fixed{T: testNow})

	_, err := a.RequestBooking(context.Background(), "cust-1", "2025-06-20", "19:00", 2, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, bookings.ErrDuplicateID, "bounded retries end in a hard failure, not the store sentinel")
	assert.Equal(t, 3, st.saves)
}

// Two goroutines race for the last seat; exactly one may win.
func TestRequestBookingConcurrentLastSeat(t *testing.T) {
	a, _ := newArbiter(t)
	ctx := context.Background()

	for i := 0; i < bookings.SlotCapacity-1; i++ {
		_, err := a.RequestBooking(ctx, "cust-1", "2025-06-20", "20:00", 2, "")
		require.NoError(t, err)
	}

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.RequestBooking(ctx, "racer", "2025-06-20", "20:00", 2, "")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			var full *bookings.SlotUnavailableError
			assert.ErrorAs(t, err, &full)
		}
	}
	assert.Equal(t, 1, wins, "exactly one racer gets the last seat")
}
