package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"studyplan/internal/modules/subject/domain"
	"studyplan/internal/modules/subject/dto"
	subjectin "studyplan/internal/modules/subject/port/in"
	"studyplan/internal/modules/subject/service"
)

type Interactor struct {
	svc *service.SubjectService
	log *zap.SugaredLogger

	mu      sync.Mutex
	catalog domain.Catalog
}

func NewInteractor(svc *service.SubjectService, log *zap.SugaredLogger) subjectin.Usecase {
	return &Interactor{svc: svc, log: log}
}

// ListSubjects replaces the cache on success. On failure the cache keeps
// whatever was last loaded.
func (i *Interactor) ListSubjects(ctx context.Context) ([]dto.SubjectOutput, error) {
	subjects, err := i.svc.List(ctx)
	if err != nil {
		i.log.Warnw("load subjects failed", "error", err)
		return nil, err
	}
	i.mu.Lock()
	i.catalog = domain.NewCatalog(subjects)
	i.mu.Unlock()
	return toOutputs(subjects), nil
}

func (i *Interactor) GetSubject(ctx context.Context, id string) (dto.SubjectOutput, error) {
	subject, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.SubjectOutput{}, err
	}
	return toOutput(subject), nil
}

func (i *Interactor) UpdateSchedule(ctx context.Context, input dto.UpdateScheduleInput) (dto.SubjectOutput, error) {
	updated, err := i.svc.UpdateSchedule(ctx, input.ID, input.StartTime, input.EndTime)
	if err != nil {
		i.log.Warnw("update subject schedule failed", "subject_id", input.ID, "error", err)
		return dto.SubjectOutput{}, err
	}
	i.mu.Lock()
	i.catalog = i.catalog.WithSchedule(input.ID, input.StartTime, input.EndTime)
	cached, ok := i.catalog.Find(input.ID)
	i.mu.Unlock()
	if ok {
		return toOutput(cached), nil
	}
	return toOutput(updated), nil
}

func (i *Interactor) Cached() []dto.SubjectOutput {
	i.mu.Lock()
	defer i.mu.Unlock()
	return toOutputs(i.catalog.All())
}

func toOutputs(subjects []domain.Subject) []dto.SubjectOutput {
	out := make([]dto.SubjectOutput, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, toOutput(s))
	}
	return out
}

func toOutput(s domain.Subject) dto.SubjectOutput {
	return dto.SubjectOutput{ID: s.ID, Name: s.Name, StartTime: s.StartTime, EndTime: s.EndTime}
}
