package in

import (
	"context"

	"studyplan/internal/modules/subject/dto"
	subjectin "studyplan/internal/modules/subject/port/in"
)

type CLIHandler struct {
	usecase subjectin.Usecase
}

func NewCLIHandler(usecase subjectin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListSubjects(ctx context.Context) ([]dto.SubjectOutput, error) {
	return h.usecase.ListSubjects(ctx)
}

func (h CLIHandler) GetSubject(ctx context.Context, id string) (dto.SubjectOutput, error) {
	return h.usecase.GetSubject(ctx, id)
}

func (h CLIHandler) UpdateSchedule(ctx context.Context, id, start, end string) (dto.SubjectOutput, error) {
	return h.usecase.UpdateSchedule(ctx, dto.UpdateScheduleInput{ID: id, StartTime: start, EndTime: end})
}

func (h CLIHandler) Cached() []dto.SubjectOutput {
	return h.usecase.Cached()
}
