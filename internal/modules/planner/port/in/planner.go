package in

import (
	"context"

	"studyplan/internal/modules/planner/dto"
)

type Usecase interface {
	LoadWeek(ctx context.Context, input dto.LoadWeekInput) (dto.WeekOutput, error)
	AddTask(ctx context.Context, input dto.AddTaskInput) (dto.TaskChangeOutput, error)
	UpdateTask(ctx context.Context, input dto.UpdateTaskInput) (dto.TaskChangeOutput, error)
	ToggleTask(ctx context.Context, input dto.ToggleTaskInput) (dto.TaskChangeOutput, error)
	SaveWeek(ctx context.Context, input dto.LoadWeekInput) (dto.SaveWeekOutput, error)
	DiscardDraft(ctx context.Context, input dto.LoadWeekInput) (dto.WeekOutput, error)
}
