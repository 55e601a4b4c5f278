package usecase_test

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	timerout "studyplan/internal/modules/timer/adapter/out"
	"studyplan/internal/modules/timer/domain"
	"studyplan/internal/modules/timer/dto"
	"studyplan/internal/modules/timer/service"
	"studyplan/internal/modules/timer/usecase"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/logging"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type fakeGateway struct {
	mu          sync.Mutex
	statuses    map[string]domain.Status
	statusErr   map[string]error
	statusCalls map[string]int
	startErr    error
	stopErr     error
	startedAt   time.Time
	summary     []domain.SummaryEntry
	summaryErr  error
	summaryHits int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		statuses:    map[string]domain.Status{},
		statusErr:   map[string]error{},
		statusCalls: map[string]int{},
	}
}

func (f *fakeGateway) Status(_ context.Context, subjectID string) (domain.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls[subjectID]++
	if err := f.statusErr[subjectID]; err != nil {
		return domain.Status{}, err
	}
	return f.statuses[subjectID], nil
}

func (f *fakeGateway) Start(_ context.Context, subjectID string) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return domain.Session{}, f.startErr
	}
	return domain.Session{ID: "sess-1", SubjectID: subjectID, StartedAt: f.startedAt, Active: true}, nil
}

func (f *fakeGateway) Stop(_ context.Context, subjectID string) (domain.StopResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopErr != nil {
		return domain.StopResult{}, f.stopErr
	}
	return domain.StopResult{DurationSeconds: 125}, nil
}

func (f *fakeGateway) WeeklySummary(context.Context) ([]domain.SummaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryHits++
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return append([]domain.SummaryEntry(nil), f.summary...), nil
}

func (f *fakeGateway) calls(subjectID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls[subjectID]
}

var base = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func newInteractor(clk *fakeClock, gw *fakeGateway) *usecase.Interactor {
	svc := service.NewTimerService(clk, gw, timerout.NewMarkdownSummaryStore())
	return usecase.NewInteractor(svc, logging.Nop(), usecase.Options{TickInterval: 5 * time.Millisecond}).(*usecase.Interactor)
}

func TestSyncFillsBoardAndSkipsFailedSubjects(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	started := base.Add(-90 * time.Second)
	gw.statuses["d1"] = domain.Status{Active: true, ElapsedSeconds: 80, StartedAt: &started}
	gw.statuses["d2"] = domain.Status{}
	gw.statusErr["d3"] = apperrors.ErrBackend
	uc := newInteractor(clk, gw)

	board, err := uc.Sync(context.Background(), []string{"d1", "d2", "d3"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if board.ActiveCount != 1 {
		t.Fatalf("expected one active timer, got %d", board.ActiveCount)
	}
	if got := board.Timer("d1"); got.ElapsedSeconds != 90 || got.Elapsed != "00:01:30" {
		t.Fatalf("elapsed must come from the start timestamp: %+v", got)
	}
	if got := board.Timer("d3"); got.Active || got.Elapsed != "00:00:00" {
		t.Fatalf("failed subject must stay idle: %+v", got)
	}
}

func TestStartThenThreeTicks(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	gw.startedAt = base
	uc := newInteractor(clk, gw)

	timer, err := uc.Start(context.Background(), dto.StartInput{SubjectID: "d1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !timer.Active || timer.ElapsedSeconds != 0 {
		t.Fatalf("unexpected timer after start: %+v", timer)
	}
	var board dto.BoardOutput
	for i := 0; i < 3; i++ {
		clk.Advance(time.Second)
		board = uc.Tick()
	}
	if got := board.Timer("d1").Elapsed; got != "00:00:03" {
		t.Fatalf("expected 00:00:03, got %s", got)
	}

	if _, err := uc.Start(context.Background(), dto.StartInput{SubjectID: "d1"}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected active session error, got %v", err)
	}
}

func TestFailedStartLeavesBoardUntouched(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	started := base.Add(-45 * time.Second)
	gw.statuses["d1"] = domain.Status{Active: true, ElapsedSeconds: 40, StartedAt: &started}
	gw.statuses["d2"] = domain.Status{}
	gw.startErr = apperrors.ErrRejected
	uc := newInteractor(clk, gw)
	ctx := context.Background()

	before, err := uc.Sync(ctx, []string{"d1", "d2"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !before.Timer("d1").Active || before.Timer("d1").ElapsedSeconds != 45 {
		t.Fatalf("seeded slot not active: %+v", before.Timer("d1"))
	}

	cases := []struct {
		subject string
		want    error
	}{
		{"d2", apperrors.ErrRejected},
		{"d1", apperrors.ErrActiveSessionExists},
	}
	for _, tc := range cases {
		if _, err := uc.Start(ctx, dto.StartInput{SubjectID: tc.subject}); !errors.Is(err, tc.want) {
			t.Fatalf("start %s: expected %v, got %v", tc.subject, tc.want, err)
		}
		after := uc.Snapshot()
		for _, id := range []string{"d1", "d2"} {
			if !reflect.DeepEqual(before.Timer(id), after.Timer(id)) {
				t.Fatalf("start %s changed %s: before %+v, after %+v", tc.subject, id, before.Timer(id), after.Timer(id))
			}
		}
		if after.ActiveCount != before.ActiveCount {
			t.Fatalf("active count changed: %d -> %d", before.ActiveCount, after.ActiveCount)
		}
	}
}

func TestRepeatedSyncIsIdempotent(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	started := base.Add(-10 * time.Second)
	gw.statuses["d1"] = domain.Status{Active: true, ElapsedSeconds: 10, StartedAt: &started}
	gw.statuses["d2"] = domain.Status{}
	uc := newInteractor(clk, gw)
	ctx := context.Background()
	ids := []string{"d1", "d2"}

	first, err := uc.Sync(ctx, ids)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	second, err := uc.Sync(ctx, ids)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	for _, id := range ids {
		a, b := first.Timer(id), second.Timer(id)
		if a.Active != b.Active || a.ElapsedSeconds != b.ElapsedSeconds {
			t.Fatalf("%s changed without backend change: %+v -> %+v", id, a, b)
		}
	}

	clk.Advance(5 * time.Second)
	third, err := uc.Sync(ctx, ids)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if got := third.Timer("d1"); !got.Active || got.ElapsedSeconds != first.Timer("d1").ElapsedSeconds+5 {
		t.Fatalf("active elapsed must follow the clock: %+v", got)
	}
	if got := third.Timer("d2"); got.Active || got.ElapsedSeconds != 0 {
		t.Fatalf("idle slot must stay idle: %+v", got)
	}
}

func TestStopRefreshesSummary(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	gw.startedAt = base
	gw.summary = []domain.SummaryEntry{{SubjectID: "d1", SubjectName: "Direito Civil", TotalSeconds: 125}}
	uc := newInteractor(clk, gw)

	if _, err := uc.Start(context.Background(), dto.StartInput{SubjectID: "d1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := uc.Stop(context.Background(), dto.StopInput{SubjectID: "d1"})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if out.FormattedDuration != "00:02:05" {
		t.Fatalf("expected formatted fallback, got %q", out.FormattedDuration)
	}
	if !out.SummaryRefreshed || out.Summary.Total != "00:02:05" {
		t.Fatalf("summary not refreshed: %+v", out)
	}
	if uc.Snapshot().Timer("d1").Active {
		t.Fatalf("slot must be cleared after stop")
	}
	if last, ok := uc.LastSummary(); !ok || len(last.Entries) != 1 {
		t.Fatalf("summary must be cached: %+v", last)
	}
}

func TestStopSucceedsWhenSummaryRefreshFails(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	gw.summaryErr = apperrors.ErrBackend
	uc := newInteractor(clk, gw)

	out, err := uc.Stop(context.Background(), dto.StopInput{SubjectID: "d1"})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if out.SummaryRefreshed {
		t.Fatalf("summary must not be marked refreshed")
	}
}

func TestFailedStopResyncsOnceAndKeepsSlot(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	gw.startedAt = base
	uc := newInteractor(clk, gw)
	if _, err := uc.Start(context.Background(), dto.StartInput{SubjectID: "d1"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	started := base
	gw.mu.Lock()
	gw.stopErr = apperrors.ErrBackend
	gw.statuses["d1"] = domain.Status{Active: true, StartedAt: &started}
	gw.mu.Unlock()
	clk.Advance(10 * time.Second)

	if _, err := uc.Stop(context.Background(), dto.StopInput{SubjectID: "d1"}); !errors.Is(err, apperrors.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if gw.calls("d1") != 1 {
		t.Fatalf("expected exactly one resync, got %d", gw.calls("d1"))
	}
	got := uc.Snapshot().Timer("d1")
	if !got.Active || got.ElapsedSeconds != 10 {
		t.Fatalf("slot must follow backend status after failed stop: %+v", got)
	}
	if gw.summaryHits != 0 {
		t.Fatalf("summary must not be fetched on a failed stop")
	}
}

func TestRunTicksUntilCancelled(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	gw.startedAt = base
	uc := newInteractor(clk, gw)
	if _, err := uc.Start(context.Background(), dto.StartInput{SubjectID: "d1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(42 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan dto.BoardOutput, 16)
	done := make(chan error, 1)
	go func() {
		done <- uc.Run(ctx, func(b dto.BoardOutput) {
			select {
			case ticks <- b:
			default:
			}
		})
	}()

	select {
	case b := <-ticks:
		if b.Timer("d1").ElapsedSeconds != 42 {
			t.Fatalf("unexpected tick: %+v", b.Timer("d1"))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no tick received")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExportSummaryFetchesWhenNothingCached(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	gw := newFakeGateway()
	gw.summary = []domain.SummaryEntry{{SubjectID: "d1", SubjectName: "Direito Penal", TotalSeconds: 3600}}
	uc := newInteractor(clk, gw)
	dir := t.TempDir()

	out, err := uc.ExportSummary(context.Background(), dto.ExportInput{Dir: dir})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasSuffix(out.Path, "2026-03-02.md") {
		t.Fatalf("note must be named after the week's Monday: %s", out.Path)
	}
	raw, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(string(raw), "| Direito Penal | 01:00:00 |") {
		t.Fatalf("table missing from note:\n%s", raw)
	}
	if gw.summaryHits != 1 {
		t.Fatalf("expected one summary fetch, got %d", gw.summaryHits)
	}

	if _, err := uc.ExportSummary(context.Background(), dto.ExportInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty dir, got %v", err)
	}
}
