package bookings

import "time"

const (
	DateFormat = "2006-01-02"
	SlotFormat = "15:04"
)

type Reservation struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Date       string `json:"date"` // calendar date, DateFormat
	Slot       Slot   `json:"slot"`
	PartySize  int    `json:"party_size"`
	Status     Status `json:"status"`

	// Assigned on confirmation only; 0 while PENDING.
	TableNumber int `json:"table_number,omitempty"`

	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
