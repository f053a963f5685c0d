package entities

import "fmt"

// ReservationNotice feeds the SMS and email sent after a booking.
type ReservationNotice struct {
	RestaurantName  string
	ReservationCode string
	Name            string
	Phone           string
	People          int
	Date            string
	Time            string
	Notes           string
}

// Covers spells a party size in French, "1 personne" or "4 personnes".
func Covers(people int) string {
	if people == 1 {
		return "1 personne"
	}
	return fmt.Sprintf("%d personnes", people)
}
