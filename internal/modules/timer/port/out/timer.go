package out

import (
	"context"

	"studyplan/internal/modules/timer/domain"
)

type TimerGateway interface {
	Status(ctx context.Context, subjectID string) (domain.Status, error)
	Start(ctx context.Context, subjectID string) (domain.Session, error)
	Stop(ctx context.Context, subjectID string) (domain.StopResult, error)
	WeeklySummary(ctx context.Context) ([]domain.SummaryEntry, error)
}

type SummaryNoteStore interface {
	Save(ctx context.Context, dir string, summary domain.Summary) (string, error)
}
