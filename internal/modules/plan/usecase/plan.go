package usecase

import (
	"context"

	"go.uber.org/zap"

	"studyplan/internal/modules/plan/domain"
	"studyplan/internal/modules/plan/dto"
	planin "studyplan/internal/modules/plan/port/in"
	"studyplan/internal/modules/plan/service"
)

type Interactor struct {
	svc *service.PlanService
	log *zap.SugaredLogger
}

func NewInteractor(svc *service.PlanService, log *zap.SugaredLogger) planin.Usecase {
	return &Interactor{svc: svc, log: log}
}

func (i *Interactor) ListPlans(ctx context.Context) ([]dto.PlanOutput, error) {
	plans, err := i.svc.List(ctx)
	if err != nil {
		i.log.Warnw("load plans failed", "error", err)
		return nil, err
	}
	out := make([]dto.PlanOutput, 0, len(plans))
	for _, p := range plans {
		out = append(out, toOutput(p))
	}
	return out, nil
}

func (i *Interactor) GetPlan(ctx context.Context, id string) (dto.PlanOutput, error) {
	plan, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.PlanOutput{}, err
	}
	return toOutput(plan), nil
}

func (i *Interactor) CreatePlan(ctx context.Context, input dto.CreatePlanInput) (dto.PlanOutput, error) {
	plan, err := i.svc.Create(ctx, input)
	if err != nil {
		return dto.PlanOutput{}, err
	}
	i.log.Infow("plan created", "plan_id", plan.ID, "subjects", len(plan.SubjectIDs))
	return toOutput(plan), nil
}

func toOutput(p domain.Plan) dto.PlanOutput {
	ids := append([]string{}, p.SubjectIDs...)
	return dto.PlanOutput{ID: p.ID, Name: p.Name, SubjectIDs: ids, CreatedAt: p.CreatedAt}
}
