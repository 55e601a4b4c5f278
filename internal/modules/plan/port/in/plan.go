package in

import (
	"context"

	"studyplan/internal/modules/plan/dto"
)

type Usecase interface {
	ListPlans(ctx context.Context) ([]dto.PlanOutput, error)
	GetPlan(ctx context.Context, id string) (dto.PlanOutput, error)
	CreatePlan(ctx context.Context, input dto.CreatePlanInput) (dto.PlanOutput, error)
}
