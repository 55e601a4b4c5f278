package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/weekdate"
)

const (
	DefaultTaskTime        = "09:00"
	DefaultTaskDescription = "New task"
)

type Day string

const (
	Monday    Day = "segunda"
	Tuesday   Day = "terca"
	Wednesday Day = "quarta"
	Thursday  Day = "quinta"
	Friday    Day = "sexta"
	Saturday  Day = "sabado"
	Sunday    Day = "domingo"
)

// Days lists the week in display order, Monday first.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayLabels = map[Day]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// ParseDay accepts the backend keys and English day names, case-insensitive.
func ParseDay(value string) (Day, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, d := range Days {
		if v == string(d) || v == strings.ToLower(dayLabels[d]) || v == strings.ToLower(dayLabels[d][:3]) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown day %q", apperrors.ErrInvalidInput, value)
}

func (d Day) Label() string {
	if l, ok := dayLabels[d]; ok {
		return l
	}
	return string(d)
}

func (d Day) Valid() bool {
	_, ok := dayLabels[d]
	return ok
}

type Task struct {
	ID          string `json:"id"`
	Time        string `json:"horario"`
	Description string `json:"descricao"`
	Completed   bool   `json:"concluida"`
}

type Field string

const (
	FieldTime        Field = "time"
	FieldDescription Field = "description"
	FieldCompleted   Field = "completed"
)

// ParseField accepts the English field names and the backend's JSON keys.
func ParseField(value string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "time", "horario":
		return FieldTime, nil
	case "description", "descricao":
		return FieldDescription, nil
	case "completed", "concluida":
		return FieldCompleted, nil
	}
	return "", fmt.Errorf("%w: unknown task field %q", apperrors.ErrInvalidInput, value)
}

// Week is one Weekly Performance record. Start is always a Monday at
// midnight. Every method returns a new Week and leaves the receiver as it
// was.
type Week struct {
	ID    string
	Start time.Time
	Tasks map[Day][]Task
}

// WeekStart returns the Monday that opens the week containing date.
func WeekStart(date time.Time) time.Time {
	return weekdate.Monday(date)
}

func NewWeek(id string, date time.Time) Week {
	w := Week{ID: id, Start: WeekStart(date), Tasks: make(map[Day][]Task, len(Days))}
	for _, d := range Days {
		w.Tasks[d] = []Task{}
	}
	return w
}

func (w Week) Key() string {
	return weekdate.Format(w.Start)
}

func (w Week) Day(day Day) []Task {
	return w.Tasks[day]
}

func (w Week) TaskCount() int {
	n := 0
	for _, tasks := range w.Tasks {
		n += len(tasks)
	}
	return n
}

func (w Week) clone() Week {
	next := Week{ID: w.ID, Start: w.Start, Tasks: make(map[Day][]Task, len(Days))}
	for _, d := range Days {
		next.Tasks[d] = append([]Task{}, w.Tasks[d]...)
	}
	return next
}

// AddTask appends a task with the default time and description to day.
// Existing tasks keep their order.
func (w Week) AddTask(day Day, id string) (Week, Task, error) {
	if !day.Valid() {
		return w, Task{}, fmt.Errorf("%w: unknown day %q", apperrors.ErrInvalidInput, day)
	}
	if strings.TrimSpace(id) == "" {
		return w, Task{}, fmt.Errorf("%w: task id is required", apperrors.ErrInvalidInput)
	}
	task := Task{ID: id, Time: DefaultTaskTime, Description: DefaultTaskDescription}
	next := w.clone()
	next.Tasks[day] = append(next.Tasks[day], task)
	return next, task, nil
}

// UpdateTask replaces one field of the task with taskID on day. The time
// string is stored as given.
func (w Week) UpdateTask(day Day, taskID string, field Field, value string) (Week, Task, error) {
	if !day.Valid() {
		return w, Task{}, fmt.Errorf("%w: unknown day %q", apperrors.ErrInvalidInput, day)
	}
	idx := -1
	for i, t := range w.Tasks[day] {
		if t.ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return w, Task{}, fmt.Errorf("%w: task %q on %s", apperrors.ErrNotFound, taskID, day)
	}

	next := w.clone()
	task := next.Tasks[day][idx]
	switch field {
	case FieldTime:
		task.Time = value
	case FieldDescription:
		task.Description = value
	case FieldCompleted:
		done, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return w, Task{}, fmt.Errorf("%w: completed must be true or false, got %q", apperrors.ErrInvalidInput, value)
		}
		task.Completed = done
	default:
		return w, Task{}, fmt.Errorf("%w: unknown task field %q", apperrors.ErrInvalidInput, field)
	}
	next.Tasks[day][idx] = task
	return next, task, nil
}

// ToggleTask flips the completed flag of a task.
func (w Week) ToggleTask(day Day, taskID string) (Week, Task, error) {
	for _, t := range w.Tasks[day] {
		if t.ID == taskID {
			return w.UpdateTask(day, taskID, FieldCompleted, strconv.FormatBool(!t.Completed))
		}
	}
	return w, Task{}, fmt.Errorf("%w: task %q on %s", apperrors.ErrNotFound, taskID, day)
}

// Draft is a locally persisted week that may hold edits not yet saved to
// the backend.
type Draft struct {
	Week      Week
	Dirty     bool
	UpdatedAt time.Time
}
