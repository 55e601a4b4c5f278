package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "studyplan/internal/platform/errors"
)

func TestWeekStartNormalizesToMonday(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"across month", time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC), time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := WeekStart(tc.in)
		if !got.Equal(tc.want) {
			t.Fatalf("%s: WeekStart(%s) = %s, want %s", tc.name, tc.in, got, tc.want)
		}
		if got.After(tc.in) || tc.in.Sub(got) >= 7*24*time.Hour {
			t.Fatalf("%s: result outside the week", tc.name)
		}
	}
}

func TestAddTaskToMondayAppendsDefaults(t *testing.T) {
	t.Parallel()
	week := NewWeek("w1", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	week.Tasks[Monday] = []Task{{ID: "t0", Time: "18:00", Description: "Read"}}

	next, task, err := week.AddTask(Monday, "t1")
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if task.Time != DefaultTaskTime || task.Description != DefaultTaskDescription || task.Completed {
		t.Fatalf("unexpected defaults: %+v", task)
	}
	tasks := next.Day(Monday)
	if len(tasks) != 2 || tasks[0].ID != "t0" || tasks[1].ID != "t1" {
		t.Fatalf("task must be appended without reordering: %+v", tasks)
	}
	if len(week.Day(Monday)) != 1 {
		t.Fatalf("receiver must not change")
	}
	if next.TaskCount() != 2 {
		t.Fatalf("unexpected count %d", next.TaskCount())
	}
}

func TestUpdateTaskFields(t *testing.T) {
	t.Parallel()
	week := NewWeek("w1", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	week, _, _ = week.AddTask(Friday, "t1")

	week, task, err := week.UpdateTask(Friday, "t1", FieldTime, "7h")
	if err != nil || task.Time != "7h" {
		t.Fatalf("time must be stored verbatim: %+v %v", task, err)
	}
	week, task, err = week.UpdateTask(Friday, "t1", FieldDescription, "Revise Penal")
	if err != nil || task.Description != "Revise Penal" {
		t.Fatalf("description update failed: %+v %v", task, err)
	}
	week, task, err = week.ToggleTask(Friday, "t1")
	if err != nil || !task.Completed {
		t.Fatalf("toggle failed: %+v %v", task, err)
	}
	if got := week.Day(Friday)[0]; !got.Completed || got.Time != "7h" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestUpdateTaskErrorsLeaveWeekUnchanged(t *testing.T) {
	t.Parallel()
	week := NewWeek("w1", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	week, _, _ = week.AddTask(Monday, "t1")

	cases := []struct {
		name  string
		day   Day
		id    string
		field Field
		value string
		want  error
	}{
		{"unknown day", Day("someday"), "t1", FieldTime, "10:00", apperrors.ErrInvalidInput},
		{"unknown task", Monday, "nope", FieldTime, "10:00", apperrors.ErrNotFound},
		{"unknown field", Monday, "t1", Field("color"), "red", apperrors.ErrInvalidInput},
		{"bad bool", Monday, "t1", FieldCompleted, "maybe", apperrors.ErrInvalidInput},
	}
	for _, tc := range cases {
		next, _, err := week.UpdateTask(tc.day, tc.id, tc.field, tc.value)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if got := next.Day(Monday)[0]; got.Time != DefaultTaskTime {
			t.Fatalf("%s: week changed: %+v", tc.name, got)
		}
	}
}

func TestParseDayAndField(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Day{"segunda": Monday, "Tuesday": Tuesday, "sun": Sunday, " SABADO ": Saturday} {
		got, err := ParseDay(in)
		if err != nil || got != want {
			t.Fatalf("ParseDay(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDay("funday"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if f, err := ParseField("descricao"); err != nil || f != FieldDescription {
		t.Fatalf("ParseField alias failed: %q %v", f, err)
	}
	if Wednesday.Label() != "Wednesday" {
		t.Fatalf("unexpected label %q", Wednesday.Label())
	}
}
