package bookings

const (
	EventBookingRequested = "BookingRequested"
	EventBookingConfirmed = "BookingConfirmed"
	EventBookingCancelled = "BookingCancelled"
	EventBookingCompleted = "BookingCompleted"
)

const (
	TopicBookingRequested = "booking.requested"
	TopicBookingChanged   = "booking.changed"
)

func PartitionKey(reservationID string) []byte { return []byte(reservationID) }

type BookingRequestedPayload struct {
	ReservationID string `json:"reservation_id"`
	CustomerID    string `json:"customer_id"`
	Date          string `json:"date"`
	Slot          Slot   `json:"slot"`
	PartySize     int    `json:"party_size"`
}

type BookingChangedPayload struct {
	ReservationID string `json:"reservation_id"`
	Status        Status `json:"status"`
	TableNumber   int    `json:"table_number,omitempty"`
}
