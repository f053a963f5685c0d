package entities

// Draft is the partially filled reservation of one ongoing call.
type Draft struct {
	People        *int    `json:"people,omitempty"`
	Date          *string `json:"date,omitempty"`
	Time          *string `json:"time,omitempty"`
	Name          *string `json:"name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Notes         string  `json:"notes"`
	NotesAnswered bool    `json:"notes_answered"`
}

// Clone returns a deep copy so callers can mutate it freely.
func (d Draft) Clone() Draft {
	c := d
	if d.People != nil {
		v := *d.People
		c.People = &v
	}
	c.Date = cloneString(d.Date)
	c.Time = cloneString(d.Time)
	c.Name = cloneString(d.Name)
	c.Phone = cloneString(d.Phone)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
