package dto

import "time"

type TaskOutput struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type DayOutput struct {
	Key   string       `json:"key"`
	Label string       `json:"label"`
	Tasks []TaskOutput `json:"tasks"`
}

// WeekOutput lists the seven days Monday first. Draft is set when the week
// carries local edits not yet saved to the backend.
type WeekOutput struct {
	ID        string      `json:"id"`
	WeekStart string      `json:"week_start"`
	Days      []DayOutput `json:"days"`
	Draft     bool        `json:"draft"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

func (w WeekOutput) Day(key string) (DayOutput, bool) {
	for _, d := range w.Days {
		if d.Key == key {
			return d, true
		}
	}
	return DayOutput{}, false
}

// Date is a YYYY-MM-DD string. Empty means the current week.
type LoadWeekInput struct {
	Date string
}

type AddTaskInput struct {
	Date string
	Day  string
}

type UpdateTaskInput struct {
	Date   string
	Day    string
	TaskID string
	Field  string
	Value  string
}

type ToggleTaskInput struct {
	Date   string
	Day    string
	TaskID string
}

type TaskChangeOutput struct {
	Week WeekOutput `json:"week"`
	Day  string     `json:"day"`
	Task TaskOutput `json:"task"`
}

type SaveWeekOutput struct {
	WeekStart string `json:"week_start"`
	Message   string `json:"message"`
}
