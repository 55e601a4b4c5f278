package dto

import "time"

type StartInput struct {
	SubjectID string
}

type StopInput struct {
	SubjectID string
}

type TimerOutput struct {
	SubjectID      string
	Active         bool
	ElapsedSeconds int64
	Elapsed        string
	StartedAt      *time.Time
}

type BoardOutput struct {
	Timers      []TimerOutput
	ActiveCount int
}

// Timer returns the slot for subjectID, or an idle timer when the board has
// never seen it.
func (b BoardOutput) Timer(subjectID string) TimerOutput {
	for _, t := range b.Timers {
		if t.SubjectID == subjectID {
			return t
		}
	}
	return TimerOutput{SubjectID: subjectID, Elapsed: "00:00:00"}
}

type StopOutput struct {
	SubjectID         string
	DurationSeconds   int64
	FormattedDuration string
	Summary           SummaryOutput
	SummaryRefreshed  bool
}

type SummaryEntryOutput struct {
	SubjectID    string
	SubjectName  string
	TotalSeconds int64
	Total        string
}

type SummaryOutput struct {
	WeekStart    time.Time
	FetchedAt    time.Time
	Entries      []SummaryEntryOutput
	TotalSeconds int64
	Total        string
}

type ExportInput struct {
	Dir string
}

type ExportOutput struct {
	Path      string
	WeekStart time.Time
}
