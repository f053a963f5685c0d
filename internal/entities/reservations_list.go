package entities

import "time"

type ReservationResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	People    int       `json:"people"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ReservationsList struct {
	Total        int                   `json:"total"`
	Date         string                `json:"date"`
	Reservations []ReservationResponse `json:"reservations"`
}

type CapacityRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Capacity int    `json:"capacity"`
}

type CapacityList struct {
	Date            string            `json:"date"`
	DefaultCapacity int               `json:"default_capacity"`
	Slots           []CapacityRequest `json:"slots"`
}
