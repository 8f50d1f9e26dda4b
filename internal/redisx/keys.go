package redisx

import "time"

const (
	// Full order JSON: order:{order_id}
	KeyOrder = "order:%s"

	// Reservation status JSON: booking:{reservation_id}
	KeyBooking = "booking:%s"

	// Availability snapshot per date: availability:{date}
	// Deleted on every successful admission so reads never show a stale
	// "open" for a slot that just filled.
	KeyAvailability = "availability:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache        = 5 * time.Minute
	TTLBookingCache      = 5 * time.Minute
	TTLAvailabilityCache = 30 * time.Second
	TTLDedup             = 48 * time.Hour
)
