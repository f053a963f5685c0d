package db

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
	StatusFinished  = "finished"
)

type Reservation struct {
	ID        int
	Code      string
	CallID    string
	Name      string
	Phone     string
	People    int
	Date      string
	Time      string
	Notes     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CapacitySlot struct {
	Date     string
	Time     string
	Capacity int
}

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}
