package domain

import "time"

// Subject is a study topic with a daily time block. Times are HH:MM strings
// as the backend stores them; either may be empty and ordering is not
// checked.
type Subject struct {
	ID        string
	Name      string
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// Catalog is the client-side cache of subjects in backend order.
type Catalog struct {
	subjects []Subject
}

func NewCatalog(subjects []Subject) Catalog {
	return Catalog{subjects: append([]Subject(nil), subjects...)}
}

// WithSchedule returns a copy of the catalog where the subject id carries
// the given block. Unknown ids leave the catalog unchanged.
func (c Catalog) WithSchedule(id, start, end string) Catalog {
	next := make([]Subject, len(c.subjects))
	copy(next, c.subjects)
	for i := range next {
		if next[i].ID == id {
			next[i].StartTime = start
			next[i].EndTime = end
		}
	}
	return Catalog{subjects: next}
}

func (c Catalog) Find(id string) (Subject, bool) {
	for _, s := range c.subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

func (c Catalog) All() []Subject {
	return append([]Subject(nil), c.subjects...)
}

func (c Catalog) Len() int { return len(c.subjects) }
