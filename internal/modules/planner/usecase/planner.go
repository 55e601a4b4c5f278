package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"studyplan/internal/modules/planner/domain"
	"studyplan/internal/modules/planner/dto"
	plannerin "studyplan/internal/modules/planner/port/in"
	"studyplan/internal/modules/planner/service"
	"studyplan/internal/platform/weekdate"
)

type Interactor struct {
	svc *service.PlannerService
	log *zap.SugaredLogger
}

func NewInteractor(svc *service.PlannerService, log *zap.SugaredLogger) plannerin.Usecase {
	return &Interactor{svc: svc, log: log}
}

func (i *Interactor) LoadWeek(ctx context.Context, input dto.LoadWeekInput) (dto.WeekOutput, error) {
	start, err := i.svc.ResolveWeek(input.Date)
	if err != nil {
		return dto.WeekOutput{}, err
	}
	current, err := i.svc.Current(ctx, start)
	if err != nil {
		i.log.Warnw("weekly performance load failed", "week_start", weekdate.Format(start), "error", err)
		return dto.WeekOutput{}, err
	}
	return toWeekOutput(current), nil
}

func (i *Interactor) AddTask(ctx context.Context, input dto.AddTaskInput) (dto.TaskChangeOutput, error) {
	day, err := domain.ParseDay(input.Day)
	if err != nil {
		return dto.TaskChangeOutput{}, err
	}
	taskID := i.svc.NewTaskID()
	return i.edit(ctx, input.Date, day, func(w domain.Week) (domain.Week, domain.Task, error) {
		return w.AddTask(day, taskID)
	})
}

func (i *Interactor) UpdateTask(ctx context.Context, input dto.UpdateTaskInput) (dto.TaskChangeOutput, error) {
	day, err := domain.ParseDay(input.Day)
	if err != nil {
		return dto.TaskChangeOutput{}, err
	}
	field, err := domain.ParseField(input.Field)
	if err != nil {
		return dto.TaskChangeOutput{}, err
	}
	return i.edit(ctx, input.Date, day, func(w domain.Week) (domain.Week, domain.Task, error) {
		return w.UpdateTask(day, input.TaskID, field, input.Value)
	})
}

func (i *Interactor) ToggleTask(ctx context.Context, input dto.ToggleTaskInput) (dto.TaskChangeOutput, error) {
	day, err := domain.ParseDay(input.Day)
	if err != nil {
		return dto.TaskChangeOutput{}, err
	}
	return i.edit(ctx, input.Date, day, func(w domain.Week) (domain.Week, domain.Task, error) {
		return w.ToggleTask(day, input.TaskID)
	})
}

func (i *Interactor) edit(ctx context.Context, date string, day domain.Day, edit service.Edit) (dto.TaskChangeOutput, error) {
	start, err := i.svc.ResolveWeek(date)
	if err != nil {
		return dto.TaskChangeOutput{}, err
	}
	draft, task, err := i.svc.Apply(ctx, start, edit)
	if err != nil {
		return dto.TaskChangeOutput{}, err
	}
	i.log.Debugw("week draft updated", "week_start", draft.Week.Key(), "day", string(day), "task_id", task.ID)
	return dto.TaskChangeOutput{Week: toWeekOutput(draft), Day: string(day), Task: toTaskOutput(task)}, nil
}

func (i *Interactor) SaveWeek(ctx context.Context, input dto.LoadWeekInput) (dto.SaveWeekOutput, error) {
	start, err := i.svc.ResolveWeek(input.Date)
	if err != nil {
		return dto.SaveWeekOutput{}, err
	}
	message, saved, err := i.svc.Save(ctx, start)
	if err != nil {
		i.log.Warnw("weekly performance save failed", "week_start", weekdate.Format(start), "error", err)
		return dto.SaveWeekOutput{}, err
	}
	if !saved {
		message = "no unsaved changes"
	} else {
		i.log.Infow("weekly performance saved", "week_start", weekdate.Format(start))
	}
	return dto.SaveWeekOutput{WeekStart: weekdate.Format(start), Message: message}, nil
}

// DiscardDraft drops local edits and returns the backend's copy of the week.
func (i *Interactor) DiscardDraft(ctx context.Context, input dto.LoadWeekInput) (dto.WeekOutput, error) {
	start, err := i.svc.ResolveWeek(input.Date)
	if err != nil {
		return dto.WeekOutput{}, err
	}
	if err := i.svc.Discard(ctx, start); err != nil {
		return dto.WeekOutput{}, err
	}
	return i.LoadWeek(ctx, dto.LoadWeekInput{Date: weekdate.Format(start)})
}

func toWeekOutput(draft domain.Draft) dto.WeekOutput {
	out := dto.WeekOutput{
		ID:        draft.Week.ID,
		WeekStart: draft.Week.Key(),
		Days:      make([]dto.DayOutput, 0, len(domain.Days)),
		Draft:     draft.Dirty,
	}
	if draft.Dirty && !draft.UpdatedAt.IsZero() {
		updated := draft.UpdatedAt.In(time.Local)
		out.UpdatedAt = &updated
	}
	for _, d := range domain.Days {
		tasks := draft.Week.Day(d)
		day := dto.DayOutput{Key: string(d), Label: d.Label(), Tasks: make([]dto.TaskOutput, 0, len(tasks))}
		for _, t := range tasks {
			day.Tasks = append(day.Tasks, toTaskOutput(t))
		}
		out.Days = append(out.Days, day)
	}
	return out
}

func toTaskOutput(t domain.Task) dto.TaskOutput {
	return dto.TaskOutput{ID: t.ID, Time: t.Time, Description: t.Description, Completed: t.Completed}
}
