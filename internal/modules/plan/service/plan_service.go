package service

import (
	"context"
	"fmt"
	"strings"

	"studyplan/internal/modules/plan/domain"
	"studyplan/internal/modules/plan/dto"
	planout "studyplan/internal/modules/plan/port/out"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/validate"
)

type PlanService struct {
	gateway planout.PlanGateway
}

func NewPlanService(gateway planout.PlanGateway) *PlanService {
	return &PlanService{gateway: gateway}
}

func (s *PlanService) List(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (s *PlanService) Get(ctx context.Context, id string) (domain.Plan, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Plan{}, fmt.Errorf("%w: plan id is required", apperrors.ErrInvalidInput)
	}
	plan, err := s.gateway.Get(ctx, id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("get plan %s: %w", id, err)
	}
	return plan, nil
}

func (s *PlanService) Create(ctx context.Context, input dto.CreatePlanInput) (domain.Plan, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return domain.Plan{}, err
	}
	ids := input.SubjectIDs
	if ids == nil {
		ids = []string{}
	}
	plan, err := s.gateway.Create(ctx, input.Name, ids)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("create plan %q: %w", input.Name, err)
	}
	return plan, nil
}
