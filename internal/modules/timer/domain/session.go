package domain

import "time"

const SchemaVersion = 1

// Session is the backend's record of a started stopwatch.
type Session struct {
	ID        string
	SubjectID string
	StartedAt time.Time
	Active    bool
}

type StopResult struct {
	DurationSeconds   int64
	FormattedDuration string
}

type SummaryEntry struct {
	SubjectID    string
	SubjectName  string
	TotalSeconds int64
}

// Summary is the weekly aggregate as last fetched. WeekStart is the client's
// Monday for the fetch time; the backend decides which sessions count.
type Summary struct {
	WeekStart time.Time
	FetchedAt time.Time
	Entries   []SummaryEntry
}

func (s Summary) TotalSeconds() int64 {
	var total int64
	for _, e := range s.Entries {
		total += e.TotalSeconds
	}
	return total
}
