package domain

import (
	"testing"
	"time"
)

func TestTickRecomputesElapsedFromStart(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	board := NewBoard().ApplyStarted("d1", start).ApplyStopped("d2")

	for i := 1; i <= 3; i++ {
		board = board.Tick(start.Add(time.Duration(i) * time.Second))
	}
	slot, ok := board.Slot("d1")
	if !ok || !slot.Active || slot.ElapsedSeconds != 3 {
		t.Fatalf("unexpected active slot after three ticks: %+v", slot)
	}
	idle, _ := board.Slot("d2")
	if idle.Active || idle.ElapsedSeconds != 0 {
		t.Fatalf("idle slot must not move: %+v", idle)
	}
}

func TestTickIsIdempotentForSameInstant(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := start.Add(90*time.Second + 700*time.Millisecond)
	once := NewBoard().ApplyStarted("d1", start).Tick(now)
	twice := once.Tick(now)
	a, _ := once.Slot("d1")
	b, _ := twice.Slot("d1")
	if a.ElapsedSeconds != 90 || b.ElapsedSeconds != 90 {
		t.Fatalf("expected 90s on both ticks, got %d and %d", a.ElapsedSeconds, b.ElapsedSeconds)
	}
}

func TestApplyStatusDropsStartForInactiveSession(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	board := NewBoard().ApplyStatus("d1", Status{Active: false, ElapsedSeconds: 12, StartedAt: &start})
	slot, _ := board.Slot("d1")
	if slot.StartedAt != nil || slot.Active {
		t.Fatalf("inactive status must not keep a start: %+v", slot)
	}
	if board.Tick(start.Add(time.Hour)).ActiveCount() != 0 {
		t.Fatalf("no slot should be active")
	}
}

func TestBoardMethodsLeaveReceiverUntouched(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	base := NewBoard().ApplyStarted("d1", start)
	_ = base.ApplyStopped("d1")
	_ = base.Tick(start.Add(time.Minute))
	slot, _ := base.Slot("d1")
	if !slot.Active || slot.ElapsedSeconds != 0 {
		t.Fatalf("receiver mutated: %+v", slot)
	}
}

func TestSnapshotIsSortedAndCountsActive(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	board := NewBoard().ApplyStarted("c", start).ApplyStopped("a").ApplyStarted("b", start)
	snap := board.Snapshot()
	if len(snap) != 3 || snap[0].SubjectID != "a" || snap[2].SubjectID != "c" {
		t.Fatalf("unexpected snapshot order: %+v", snap)
	}
	if board.ActiveCount() != 2 {
		t.Fatalf("expected 2 active, got %d", board.ActiveCount())
	}
}

func TestElapsedAndFormat(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if got := Elapsed(start, start.Add(-time.Second)); got != 0 {
		t.Fatalf("clock skew must clamp to 0, got %d", got)
	}
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3661, "01:01:01"},
		{-5, "00:00:00"},
		{100 * 3600, "100:00:00"},
	}
	for _, tc := range cases {
		if got := FormatElapsed(tc.seconds); got != tc.want {
			t.Fatalf("FormatElapsed(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestSummaryTotal(t *testing.T) {
	t.Parallel()
	s := Summary{Entries: []SummaryEntry{{SubjectID: "a", TotalSeconds: 60}, {SubjectID: "b", TotalSeconds: 3600}}}
	if s.TotalSeconds() != 3660 {
		t.Fatalf("unexpected total %d", s.TotalSeconds())
	}
}
