package domain

import (
	"fmt"
	"sort"
	"time"
)

// Slot is the client's view of one subject's stopwatch. It is derived from
// backend status and never authoritative.
type Slot struct {
	SubjectID      string
	Active         bool
	ElapsedSeconds int64
	StartedAt      *time.Time
}

// Status is what the backend reports for a subject's current session.
type Status struct {
	Active         bool
	ElapsedSeconds int64
	StartedAt      *time.Time
}

// Board maps subject ids to slots. Every method returns a new Board and
// leaves the receiver untouched, so a board value can be handed to a view
// without copying.
type Board struct {
	slots map[string]Slot
}

func NewBoard() Board {
	return Board{slots: map[string]Slot{}}
}

func (b Board) with(slot Slot) Board {
	next := make(map[string]Slot, len(b.slots)+1)
	for k, v := range b.slots {
		next[k] = v
	}
	next[slot.SubjectID] = slot
	return Board{slots: next}
}

func (b Board) ApplyStatus(subjectID string, status Status) Board {
	slot := Slot{SubjectID: subjectID, Active: status.Active, ElapsedSeconds: status.ElapsedSeconds}
	if status.Active && status.StartedAt != nil {
		started := *status.StartedAt
		slot.StartedAt = &started
	}
	return b.with(slot)
}

func (b Board) ApplyStarted(subjectID string, startedAt time.Time) Board {
	return b.with(Slot{SubjectID: subjectID, Active: true, ElapsedSeconds: 0, StartedAt: &startedAt})
}

func (b Board) ApplyStopped(subjectID string) Board {
	return b.with(Slot{SubjectID: subjectID})
}

// Tick recomputes elapsed seconds from the start timestamp of every active
// slot. Inactive slots and slots without a start are left as they are.
func (b Board) Tick(now time.Time) Board {
	next := make(map[string]Slot, len(b.slots))
	for k, v := range b.slots {
		if v.Active && v.StartedAt != nil {
			v.ElapsedSeconds = Elapsed(*v.StartedAt, now)
		}
		next[k] = v
	}
	return Board{slots: next}
}

func (b Board) Slot(subjectID string) (Slot, bool) {
	s, ok := b.slots[subjectID]
	return s, ok
}

func (b Board) IsActive(subjectID string) bool {
	return b.slots[subjectID].Active
}

func (b Board) ActiveCount() int {
	n := 0
	for _, s := range b.slots {
		if s.Active {
			n++
		}
	}
	return n
}

// Snapshot lists slots ordered by subject id.
func (b Board) Snapshot() []Slot {
	out := make([]Slot, 0, len(b.slots))
	for _, s := range b.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out
}

// Elapsed is whole seconds from start to now, floored and never negative.
func Elapsed(start, now time.Time) int64 {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
