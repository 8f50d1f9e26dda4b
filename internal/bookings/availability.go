package bookings

// SlotAvailability is one row of the per-date availability report.
type SlotAvailability struct {
	Slot   Slot `json:"slot"`
	IsOpen bool `json:"is_open"`
}

// Availability reports open/full for every slot on date, counting only
// reservations that still consume capacity. Pure: same inputs, same output.
func Availability(date string, reservations []Reservation) []SlotAvailability {
	counts := make(map[Slot]int, len(Slots))
	for _, r := range reservations {
		if r.Date == date && r.Status.ConsumesCapacity() {
			counts[r.Slot]++
		}
	}
	out := make([]SlotAvailability, 0, len(Slots))
	for _, s := range Slots {
		out = append(out, SlotAvailability{Slot: s, IsOpen: counts[s] < SlotCapacity})
	}
	return out
}

func countActive(date string, slot Slot, reservations []Reservation) int {
	n := 0
	for _, r := range reservations {
		if r.Date == date && r.Slot == slot && r.Status.ConsumesCapacity() {
			n++
		}
	}
	return n
}
