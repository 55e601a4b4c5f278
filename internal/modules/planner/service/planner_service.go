package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"studyplan/internal/modules/planner/domain"
	plannerout "studyplan/internal/modules/planner/port/out"
	"studyplan/internal/platform/clock"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/id"
	"studyplan/internal/platform/weekdate"
)

// Edit is a reducer over a week that also reports the task it touched.
type Edit func(domain.Week) (domain.Week, domain.Task, error)

// PlannerService serializes draft writes: mu is held from reading the
// current week until the edited draft is stored, so overlapping edits apply
// one after the other.
type PlannerService struct {
	clock   clock.Clock
	ids     id.Generator
	gateway plannerout.WeekGateway
	drafts  plannerout.DraftStore

	mu sync.Mutex
}

func NewPlannerService(clock clock.Clock, ids id.Generator, gateway plannerout.WeekGateway, drafts plannerout.DraftStore) *PlannerService {
	return &PlannerService{clock: clock, ids: ids, gateway: gateway, drafts: drafts}
}

func (s *PlannerService) NewTaskID() string {
	return s.ids.New()
}

// ResolveWeek turns a YYYY-MM-DD date (or today when empty) into the Monday
// that starts its week.
func (s *PlannerService) ResolveWeek(date string) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return domain.WeekStart(s.clock.Now()), nil
	}
	t, err := weekdate.Parse(strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, err
	}
	return domain.WeekStart(t), nil
}

func (s *PlannerService) Fetch(ctx context.Context, start time.Time) (domain.Week, error) {
	week, err := s.gateway.Fetch(ctx, start)
	if err != nil {
		return domain.Week{}, fmt.Errorf("fetch week %s: %w", weekdate.Format(start), err)
	}
	return normalize(week, start), nil
}

// Current returns the dirty draft for the week when there is one, otherwise
// the backend's copy.
func (s *PlannerService) Current(ctx context.Context, start time.Time) (domain.Draft, error) {
	draft, err := s.drafts.Load(ctx, start)
	switch {
	case err == nil && draft.Dirty:
		draft.Week = normalize(draft.Week, start)
		return draft, nil
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return domain.Draft{}, fmt.Errorf("load draft %s: %w", weekdate.Format(start), err)
	}
	week, err := s.Fetch(ctx, start)
	if err != nil {
		return domain.Draft{}, err
	}
	return domain.Draft{Week: week}, nil
}

// Apply runs edit against the current week and stores the result as a dirty
// draft. Nothing is sent to the backend.
func (s *PlannerService) Apply(ctx context.Context, start time.Time, edit Edit) (domain.Draft, domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.Current(ctx, start)
	if err != nil {
		return domain.Draft{}, domain.Task{}, err
	}
	week, task, err := edit(current.Week)
	if err != nil {
		return domain.Draft{}, domain.Task{}, err
	}
	draft := domain.Draft{Week: week, Dirty: true, UpdatedAt: s.clock.Now()}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return domain.Draft{}, domain.Task{}, fmt.Errorf("save draft %s: %w", week.Key(), err)
	}
	return draft, task, nil
}

// Save writes the dirty draft to the backend and drops it. It reports false
// when there was nothing to write.
func (s *PlannerService) Save(ctx context.Context, start time.Time) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.drafts.Load(ctx, start)
	if errors.Is(err, apperrors.ErrNotFound) || (err == nil && !draft.Dirty) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load draft %s: %w", weekdate.Format(start), err)
	}
	week := normalize(draft.Week, start)
	message, err := s.gateway.Save(ctx, week)
	if err != nil {
		return "", false, fmt.Errorf("save week %s: %w", week.Key(), err)
	}
	if err := s.drafts.Delete(ctx, start); err != nil {
		return message, true, fmt.Errorf("clear draft %s: %w", week.Key(), err)
	}
	return message, true, nil
}

func (s *PlannerService) Discard(ctx context.Context, start time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.drafts.Delete(ctx, start); err != nil {
		return fmt.Errorf("discard draft %s: %w", weekdate.Format(start), err)
	}
	return nil
}

func normalize(week domain.Week, start time.Time) domain.Week {
	if week.Start.IsZero() {
		week.Start = start
	}
	week.Start = domain.WeekStart(week.Start)
	if week.Tasks == nil {
		week.Tasks = map[domain.Day][]domain.Task{}
	}
	for _, d := range domain.Days {
		if week.Tasks[d] == nil {
			week.Tasks[d] = []domain.Task{}
		}
	}
	return week
}
