package in

import (
	"context"

	"studyplan/internal/modules/timer/dto"
)

type Usecase interface {
	Sync(ctx context.Context, subjectIDs []string) (dto.BoardOutput, error)
	Tick() dto.BoardOutput
	Start(ctx context.Context, input dto.StartInput) (dto.TimerOutput, error)
	Stop(ctx context.Context, input dto.StopInput) (dto.StopOutput, error)
	Snapshot() dto.BoardOutput
	Summary(ctx context.Context) (dto.SummaryOutput, error)
	LastSummary() (dto.SummaryOutput, bool)
	ExportSummary(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Run(ctx context.Context, onTick func(dto.BoardOutput)) error
}
