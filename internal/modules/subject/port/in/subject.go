package in

import (
	"context"

	"studyplan/internal/modules/subject/dto"
)

type Usecase interface {
	ListSubjects(ctx context.Context) ([]dto.SubjectOutput, error)
	GetSubject(ctx context.Context, id string) (dto.SubjectOutput, error)
	UpdateSchedule(ctx context.Context, input dto.UpdateScheduleInput) (dto.SubjectOutput, error)
	Cached() []dto.SubjectOutput
}
