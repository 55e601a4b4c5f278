package out

import (
	"context"

	"studyplan/internal/modules/plan/domain"
)

type PlanGateway interface {
	List(ctx context.Context) ([]domain.Plan, error)
	Get(ctx context.Context, id string) (domain.Plan, error)
	Create(ctx context.Context, name string, subjectIDs []string) (domain.Plan, error)
}
