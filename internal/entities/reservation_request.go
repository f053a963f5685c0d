package entities

// ReservationRequest is what the dialogue hands over once a draft is complete.
type ReservationRequest struct {
	CallID       string `json:"call_id"`
	CallerNumber string `json:"caller_number"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	People       int    `json:"people"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Notes        string `json:"notes"`
}

// NewReservationRequest copies a complete draft. Fields still nil stay empty.
func NewReservationRequest(callID, from string, d Draft) ReservationRequest {
	req := ReservationRequest{CallID: callID, CallerNumber: from, Notes: d.Notes}
	if d.People != nil {
		req.People = *d.People
	}
	if d.Date != nil {
		req.Date = *d.Date
	}
	if d.Time != nil {
		req.Time = *d.Time
	}
	if d.Name != nil {
		req.Name = *d.Name
	}
	if d.Phone != nil {
		req.Phone = *d.Phone
	}
	return req
}
