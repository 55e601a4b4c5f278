package in

import (
	"context"

	"studyplan/internal/modules/planner/dto"
	plannerin "studyplan/internal/modules/planner/port/in"
)

type CLIHandler struct {
	usecase plannerin.Usecase
}

func NewCLIHandler(usecase plannerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, date string) (dto.WeekOutput, error) {
	return h.usecase.LoadWeek(ctx, dto.LoadWeekInput{Date: date})
}

func (h CLIHandler) AddTask(ctx context.Context, date, day string) (dto.TaskChangeOutput, error) {
	return h.usecase.AddTask(ctx, dto.AddTaskInput{Date: date, Day: day})
}

func (h CLIHandler) UpdateTask(ctx context.Context, input dto.UpdateTaskInput) (dto.TaskChangeOutput, error) {
	return h.usecase.UpdateTask(ctx, input)
}

func (h CLIHandler) ToggleTask(ctx context.Context, date, day, taskID string) (dto.TaskChangeOutput, error) {
	return h.usecase.ToggleTask(ctx, dto.ToggleTaskInput{Date: date, Day: day, TaskID: taskID})
}

func (h CLIHandler) Save(ctx context.Context, date string) (dto.SaveWeekOutput, error) {
	return h.usecase.SaveWeek(ctx, dto.LoadWeekInput{Date: date})
}

func (h CLIHandler) Discard(ctx context.Context, date string) (dto.WeekOutput, error) {
	return h.usecase.DiscardDraft(ctx, dto.LoadWeekInput{Date: date})
}
