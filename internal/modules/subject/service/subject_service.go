package service

import (
	"context"
	"fmt"
	"strings"

	"studyplan/internal/modules/subject/domain"
	subjectout "studyplan/internal/modules/subject/port/out"
	apperrors "studyplan/internal/platform/errors"
)

type SubjectService struct {
	gateway subjectout.SubjectGateway
}

func NewSubjectService(gateway subjectout.SubjectGateway) *SubjectService {
	return &SubjectService{gateway: gateway}
}

func (s *SubjectService) List(ctx context.Context) ([]domain.Subject, error) {
	subjects, err := s.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func (s *SubjectService) Get(ctx context.Context, id string) (domain.Subject, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Subject{}, fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}
	subject, err := s.gateway.Get(ctx, id)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("get subject %s: %w", id, err)
	}
	return subject, nil
}

// UpdateSchedule writes the block as given; the backend owns any range
// checks.
func (s *SubjectService) UpdateSchedule(ctx context.Context, id, start, end string) (domain.Subject, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Subject{}, fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}
	updated, err := s.gateway.UpdateSchedule(ctx, id, start, end)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("update subject %s: %w", id, err)
	}
	if updated.ID == "" {
		updated = domain.Subject{ID: id, StartTime: start, EndTime: end}
	}
	return updated, nil
}
