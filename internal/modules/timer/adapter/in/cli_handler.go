package in

import (
	"context"

	"studyplan/internal/modules/timer/dto"
	timerin "studyplan/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Sync(ctx context.Context, subjectIDs []string) (dto.BoardOutput, error) {
	return h.usecase.Sync(ctx, subjectIDs)
}

func (h CLIHandler) Tick() dto.BoardOutput {
	return h.usecase.Tick()
}

func (h CLIHandler) Start(ctx context.Context, subjectID string) (dto.TimerOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{SubjectID: subjectID})
}

func (h CLIHandler) Stop(ctx context.Context, subjectID string) (dto.StopOutput, error) {
	return h.usecase.Stop(ctx, dto.StopInput{SubjectID: subjectID})
}

func (h CLIHandler) Snapshot() dto.BoardOutput {
	return h.usecase.Snapshot()
}

func (h CLIHandler) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h CLIHandler) LastSummary() (dto.SummaryOutput, bool) {
	return h.usecase.LastSummary()
}

func (h CLIHandler) ExportSummary(ctx context.Context, dir string) (dto.ExportOutput, error) {
	return h.usecase.ExportSummary(ctx, dto.ExportInput{Dir: dir})
}

func (h CLIHandler) Watch(ctx context.Context, onTick func(dto.BoardOutput)) error {
	return h.usecase.Run(ctx, onTick)
}
