package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyplan/internal/modules/timer/domain"
	timerout "studyplan/internal/modules/timer/port/out"
	"studyplan/internal/platform/clock"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/weekdate"
)

type TimerService struct {
	clock   clock.Clock
	gateway timerout.TimerGateway
	notes   timerout.SummaryNoteStore
}

func NewTimerService(clock clock.Clock, gateway timerout.TimerGateway, notes timerout.SummaryNoteStore) *TimerService {
	return &TimerService{clock: clock, gateway: gateway, notes: notes}
}

func (s *TimerService) Now() time.Time {
	return s.clock.Now()
}

func (s *TimerService) Status(ctx context.Context, subjectID string) (domain.Status, error) {
	status, err := s.gateway.Status(ctx, subjectID)
	if err != nil {
		return domain.Status{}, fmt.Errorf("timer status %s: %w", subjectID, err)
	}
	return status, nil
}

func (s *TimerService) Start(ctx context.Context, subjectID string) (domain.Session, error) {
	if strings.TrimSpace(subjectID) == "" {
		return domain.Session{}, fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}
	session, err := s.gateway.Start(ctx, subjectID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("start timer %s: %w", subjectID, err)
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = s.clock.Now()
	}
	return session, nil
}

func (s *TimerService) Stop(ctx context.Context, subjectID string) (domain.StopResult, error) {
	if strings.TrimSpace(subjectID) == "" {
		return domain.StopResult{}, fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}
	result, err := s.gateway.Stop(ctx, subjectID)
	if err != nil {
		return domain.StopResult{}, fmt.Errorf("stop timer %s: %w", subjectID, err)
	}
	if result.FormattedDuration == "" {
		result.FormattedDuration = domain.FormatElapsed(result.DurationSeconds)
	}
	return result, nil
}

func (s *TimerService) Summary(ctx context.Context) (domain.Summary, error) {
	entries, err := s.gateway.WeeklySummary(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("weekly summary: %w", err)
	}
	now := s.clock.Now()
	return domain.Summary{WeekStart: weekdate.Monday(now), FetchedAt: now, Entries: entries}, nil
}

func (s *TimerService) Export(ctx context.Context, dir string, summary domain.Summary) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("%w: export dir is required", apperrors.ErrInvalidInput)
	}
	if s.notes == nil {
		return "", fmt.Errorf("summary note store is not configured")
	}
	return s.notes.Save(ctx, dir, summary)
}
