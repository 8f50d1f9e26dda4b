package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func res(date string, slot Slot, status Status) Reservation {
	return Reservation{Date: date, Slot: slot, Status: status}
}

func TestAvailabilityEmptyDateAllOpen(t *testing.T) {
	out := Availability("2025-06-14", nil)
	assert.Len(t, out, len(Slots))
	for i, sa := range out {
		assert.Equal(t, Slots[i], sa.Slot, "stable slot order")
		assert.True(t, sa.IsOpen)
	}
}

func TestAvailabilityFullSlot(t *testing.T) {
	var rs []Reservation
	for i := 0; i < SlotCapacity; i++ {
		rs = append(rs, res("2025-06-14", "19:00", StatusPending))
	}
	out := Availability("2025-06-14", rs)
	for _, sa := range out {
		if sa.Slot == "19:00" {
			assert.False(t, sa.IsOpen)
		} else {
			assert.True(t, sa.IsOpen)
		}
	}
}

func TestAvailabilityIgnoresFreedStatuses(t *testing.T) {
	var rs []Reservation
	for i := 0; i < SlotCapacity-1; i++ {
		rs = append(rs, res("2025-06-14", "19:00", StatusConfirmed))
	}
	// cancelled and completed don't hold seats
	rs = append(rs,
		res("2025-06-14", "19:00", StatusCancelled),
		res("2025-06-14", "19:00", StatusCompleted),
	)
	out := Availability("2025-06-14", rs)
	for _, sa := range out {
		if sa.Slot == "19:00" {
			assert.True(t, sa.IsOpen, "9 active of %d should leave the slot open", SlotCapacity)
		}
	}
}

func TestAvailabilityIgnoresOtherDates(t *testing.T) {
	var rs []Reservation
	for i := 0; i < SlotCapacity; i++ {
		rs = append(rs, res("2025-06-15", "19:00", StatusPending))
	}
	out := Availability("2025-06-14", rs)
	for _, sa := range out {
		assert.True(t, sa.IsOpen)
	}
}

func TestSlotValid(t *testing.T) {
	assert.True(t, Slot("19:00").Valid())
	assert.True(t, Slot("11:30").Valid())
	assert.False(t, Slot("3:00").Valid())
	assert.False(t, Slot("15:00").Valid())
	assert.False(t, Slot("").Valid())
}
