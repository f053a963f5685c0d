package entities

// Step is the reservation slot a question is waiting on.
type Step int

const (
	StepNone Step = iota
	StepPeople
	StepDate
	StepTime
	StepName
	StepPhone
	StepNotes
	StepComplete
)

var stepNames = map[Step]string{
	StepNone:     "none",
	StepPeople:   "people",
	StepDate:     "date",
	StepTime:     "time",
	StepName:     "name",
	StepPhone:    "phone",
	StepNotes:    "notes",
	StepComplete: "complete",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Mode is the part of the call a session is in.
type Mode string

const (
	ModeMenu        Mode = "menu"
	ModeQuestion    Mode = "question"
	ModeReservation Mode = "reservation"
)
