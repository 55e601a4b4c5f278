package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyplan/internal/modules/plan/domain"
	"studyplan/internal/modules/plan/dto"
	"studyplan/internal/modules/plan/service"
	"studyplan/internal/modules/plan/usecase"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/logging"
)

type fakePlans struct {
	plans   []domain.Plan
	creates int
}

func (f *fakePlans) List(context.Context) ([]domain.Plan, error) { return f.plans, nil }

func (f *fakePlans) Get(_ context.Context, id string) (domain.Plan, error) {
	for _, p := range f.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Plan{}, apperrors.ErrNotFound
}

func (f *fakePlans) Create(_ context.Context, name string, ids []string) (domain.Plan, error) {
	f.creates++
	p := domain.Plan{ID: "plan-1", Name: name, SubjectIDs: ids, CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	f.plans = append(f.plans, p)
	return p, nil
}

func TestCreateThenListPlans(t *testing.T) {
	t.Parallel()
	gw := &fakePlans{}
	uc := usecase.NewInteractor(service.NewPlanService(gw), logging.Nop())

	created, err := uc.CreatePlan(context.Background(), dto.CreatePlanInput{Name: "  OAB 1a fase ", SubjectIDs: []string{"d1", "d2"}})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if created.Name != "OAB 1a fase" || len(created.SubjectIDs) != 2 {
		t.Fatalf("unexpected plan: %+v", created)
	}
	plans, err := uc.ListPlans(context.Background())
	if err != nil || len(plans) != 1 {
		t.Fatalf("list plans: %+v %v", plans, err)
	}
	got, err := uc.GetPlan(context.Background(), "plan-1")
	if err != nil || got.ID != "plan-1" {
		t.Fatalf("get plan: %+v %v", got, err)
	}
}

func TestCreatePlanValidation(t *testing.T) {
	t.Parallel()
	gw := &fakePlans{}
	uc := usecase.NewInteractor(service.NewPlanService(gw), logging.Nop())

	cases := []dto.CreatePlanInput{
		{Name: ""},
		{Name: "   "},
		{Name: "ok", SubjectIDs: []string{"d1", ""}},
	}
	for _, in := range cases {
		if _, err := uc.CreatePlan(context.Background(), in); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", in, err)
		}
	}
	if gw.creates != 0 {
		t.Fatalf("invalid plans must not reach the gateway")
	}
	if _, err := uc.GetPlan(context.Background(), "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
