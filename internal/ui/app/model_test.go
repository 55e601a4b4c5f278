package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	plandto "studyplan/internal/modules/plan/dto"
	plannerdto "studyplan/internal/modules/planner/dto"
	subjectdto "studyplan/internal/modules/subject/dto"
	timerdto "studyplan/internal/modules/timer/dto"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/ui/components"
	subjectsview "studyplan/internal/ui/views/subjects"
)

type fakeSubjects struct{}

func (fakeSubjects) ListSubjects(context.Context) ([]subjectdto.SubjectOutput, error) {
	return testSubjects, nil
}

func (fakeSubjects) UpdateSchedule(_ context.Context, id, start, end string) (subjectdto.SubjectOutput, error) {
	return subjectdto.SubjectOutput{ID: id, Name: "Math", StartTime: start, EndTime: end}, nil
}

var testSubjects = []subjectdto.SubjectOutput{
	{ID: "s1", Name: "Math", StartTime: "08:00", EndTime: "09:00"},
	{ID: "s2", Name: "History"},
}

type fakeTimer struct {
	board    timerdto.BoardOutput
	startErr error
	stopOut  timerdto.StopOutput
	ticks    int
	starts   []string
	stops    []string
}

func (f *fakeTimer) Sync(context.Context, []string) (timerdto.BoardOutput, error) {
	return f.board, nil
}

func (f *fakeTimer) Tick() timerdto.BoardOutput {
	f.ticks++
	return f.board
}

func (f *fakeTimer) Start(_ context.Context, subjectID string) (timerdto.TimerOutput, error) {
	f.starts = append(f.starts, subjectID)
	if f.startErr != nil {
		return timerdto.TimerOutput{}, f.startErr
	}
	return timerdto.TimerOutput{SubjectID: subjectID, Active: true, Elapsed: "00:00:00"}, nil
}

func (f *fakeTimer) Stop(_ context.Context, subjectID string) (timerdto.StopOutput, error) {
	f.stops = append(f.stops, subjectID)
	return f.stopOut, nil
}

func (f *fakeTimer) Snapshot() timerdto.BoardOutput { return f.board }

func (f *fakeTimer) Summary(context.Context) (timerdto.SummaryOutput, error) {
	return timerdto.SummaryOutput{Total: "00:00:00"}, nil
}

func (f *fakeTimer) ExportSummary(_ context.Context, dir string) (timerdto.ExportOutput, error) {
	return timerdto.ExportOutput{Path: dir + "/summaries/2026-03-02.md"}, nil
}

type fakeWeek struct {
	shown []string
}

func (f *fakeWeek) Show(_ context.Context, date string) (plannerdto.WeekOutput, error) {
	f.shown = append(f.shown, date)
	return plannerdto.WeekOutput{WeekStart: "2026-03-02"}, nil
}

func (f *fakeWeek) AddTask(context.Context, string, string) (plannerdto.TaskChangeOutput, error) {
	return plannerdto.TaskChangeOutput{}, nil
}

func (f *fakeWeek) UpdateTask(context.Context, plannerdto.UpdateTaskInput) (plannerdto.TaskChangeOutput, error) {
	return plannerdto.TaskChangeOutput{}, nil
}

func (f *fakeWeek) ToggleTask(context.Context, string, string, string) (plannerdto.TaskChangeOutput, error) {
	return plannerdto.TaskChangeOutput{}, nil
}

func (f *fakeWeek) Save(context.Context, string) (plannerdto.SaveWeekOutput, error) {
	return plannerdto.SaveWeekOutput{}, nil
}

func (f *fakeWeek) Discard(context.Context, string) (plannerdto.WeekOutput, error) {
	return plannerdto.WeekOutput{}, nil
}

type fakePlans struct{}

func (fakePlans) List(context.Context) ([]plandto.PlanOutput, error) { return nil, nil }

func newTestModel(t *testing.T, timer *fakeTimer, week *fakeWeek) Model {
	t.Helper()
	m := NewModel(Ports{
		Subjects: fakeSubjects{},
		Timer:    timer,
		Week:     week,
		Plans:    fakePlans{},
	}, Options{TickInterval: time.Second, Today: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return update(t, m, subjectsview.LoadedMsg{Subjects: testSubjects})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs the returned command once, feeding its message
// back into the model.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	m = next.(Model)
	if cmd == nil {
		return m
	}
	return update(t, m, cmd())
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func paletteSubmit(input string) tea.Msg {
	return components.PaletteSubmitMsg{Input: input}
}

func TestFailedStartRaisesAlertWhileTicksContinue(t *testing.T) {
	t.Parallel()
	timer := &fakeTimer{startErr: apperrors.ErrRejected}
	m := newTestModel(t, timer, &fakeWeek{})

	m = press(t, m, "s")
	if len(timer.starts) != 1 || timer.starts[0] != "s1" {
		t.Fatalf("start calls = %v", timer.starts)
	}
	if !m.alert.Visible() || !strings.Contains(m.alert.Message(), "Math") {
		t.Fatalf("failed start must raise an alert naming the subject")
	}

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if timer.ticks != 1 || cmd == nil {
		t.Fatalf("tick must advance the board and re-arm, ticks=%d", timer.ticks)
	}

	next, cmd = m.Update(keyMsg("q"))
	m = next.(Model)
	if cmd != nil || !m.alert.Visible() {
		t.Fatalf("alert must swallow keys other than dismiss")
	}
	m = press(t, m, "esc")
	if m.alert.Visible() {
		t.Fatalf("esc must dismiss the alert")
	}
}

func TestStartIsRefusedForRunningSubject(t *testing.T) {
	t.Parallel()
	timer := &fakeTimer{board: timerdto.BoardOutput{
		Timers:      []timerdto.TimerOutput{{SubjectID: "s1", Active: true, Elapsed: "00:05:00"}},
		ActiveCount: 1,
	}}
	m := newTestModel(t, timer, &fakeWeek{})
	m = update(t, m, boardSyncedMsg{board: timer.board})

	m = press(t, m, "s")
	if len(timer.starts) != 0 {
		t.Fatalf("start must not reach the backend for a running timer")
	}
	if !strings.Contains(m.status, "already running") {
		t.Fatalf("status = %q", m.status)
	}
	if !strings.Contains(m.renderStatusBar(), "1 running") {
		t.Fatalf("status bar must count running timers")
	}
}

func TestStopReportsDurationAndRefreshedSummary(t *testing.T) {
	t.Parallel()
	timer := &fakeTimer{stopOut: timerdto.StopOutput{
		SubjectID:         "s1",
		DurationSeconds:   600,
		FormattedDuration: "00:10:00",
		SummaryRefreshed:  true,
		Summary:           timerdto.SummaryOutput{Total: "00:10:00", TotalSeconds: 600},
	}}
	m := newTestModel(t, timer, &fakeWeek{})

	m = press(t, m, "x")
	if len(timer.stops) != 1 || timer.stops[0] != "s1" {
		t.Fatalf("stop calls = %v", timer.stops)
	}
	if m.alert.Visible() {
		t.Fatalf("successful stop must not alert")
	}
	if !strings.Contains(m.status, "00:10:00") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestPaletteOwnsKeysAndRunsCommands(t *testing.T) {
	t.Parallel()
	week := &fakeWeek{}
	m := newTestModel(t, &fakeTimer{}, week)

	next, _ := m.Update(keyMsg(":"))
	m = next.(Model)
	if !m.palette.Visible() {
		t.Fatalf("palette must open on ':'")
	}
	next, _ = m.Update(keyMsg("q"))
	m = next.(Model)
	if !m.palette.Visible() {
		t.Fatalf("typing in the palette must not reach global bindings")
	}

	next, cmd := m.Update(paletteSubmit("week:goto 2026-03-11"))
	m = next.(Model)
	if m.activeTab != tabWeek || cmd == nil {
		t.Fatalf("week:goto must switch to the week tab and load")
	}
	cmd()
	if len(week.shown) != 1 || week.shown[0] != "2026-03-09" {
		t.Fatalf("week loads = %v", week.shown)
	}

	next, _ = m.Update(paletteSubmit("bogus"))
	m = next.(Model)
	if !strings.Contains(m.status, "unknown command") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestQuitAndTabCycling(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, &fakeTimer{}, &fakeWeek{})
	for want := tabWeek; want < tabCount; want++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.activeTab != want {
			t.Fatalf("activeTab = %d, want %d", m.activeTab, want)
		}
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabSubjects {
		t.Fatalf("tab must wrap around")
	}

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatalf("q must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q must return tea.Quit")
	}
}

func TestSyncFailureOnlySetsStatus(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, &fakeTimer{}, &fakeWeek{})
	m = update(t, m, boardSyncedMsg{err: errors.New("backend down")})
	if m.alert.Visible() {
		t.Fatalf("read failures must not alert")
	}
	if !strings.Contains(m.status, "backend down") {
		t.Fatalf("status = %q", m.status)
	}
}
