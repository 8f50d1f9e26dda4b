package bookings

// Slot is a fixed service window (HH:MM). The enumeration is closed: the
// dining room runs a lunch block and a dinner block, nothing in between.
type Slot string

const (
	// SlotCapacity is the max reservations holding capacity (PENDING or
	// CONFIRMED) per (date, slot).
	SlotCapacity = 10

	// MaxTableNumber bounds the table assigned at confirmation.
	MaxTableNumber = 24

	MinPartySize = 1
	MaxPartySize = 20
)

// Slots in stable service order. Availability output follows this order.
var Slots = []Slot{
	"11:30", "12:00", "12:30", "13:00", "13:30",
	"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00",
}

var slotSet = func() map[Slot]bool {
	m := make(map[Slot]bool, len(Slots))
	for _, s := range Slots {
		m[s] = true
	}
	return m
}()

func (s Slot) Valid() bool { return slotSet[s] }
