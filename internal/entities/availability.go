package entities

// Availability is the capacity picture of one (date, time) slot.
type Availability struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Capacity int    `json:"capacity"`
	Booked   int    `json:"booked"`
}

// Remaining never goes below zero, even if the slot is already overbooked.
func (a Availability) Remaining() int {
	if r := a.Capacity - a.Booked; r > 0 {
		return r
	}
	return 0
}

func (a Availability) Fits(people int) bool {
	return a.Booked+people <= a.Capacity
}
