package in

import (
	"context"

	"studyplan/internal/modules/plan/dto"
	planin "studyplan/internal/modules/plan/port/in"
)

type CLIHandler struct {
	usecase planin.Usecase
}

func NewCLIHandler(usecase planin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.PlanOutput, error) {
	return h.usecase.ListPlans(ctx)
}

func (h CLIHandler) Show(ctx context.Context, id string) (dto.PlanOutput, error) {
	return h.usecase.GetPlan(ctx, id)
}

func (h CLIHandler) Create(ctx context.Context, name string, subjectIDs []string) (dto.PlanOutput, error) {
	return h.usecase.CreatePlan(ctx, dto.CreatePlanInput{Name: name, SubjectIDs: subjectIDs})
}
