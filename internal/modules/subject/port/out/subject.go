package out

import (
	"context"

	"studyplan/internal/modules/subject/domain"
)

type SubjectGateway interface {
	List(ctx context.Context) ([]domain.Subject, error)
	Get(ctx context.Context, id string) (domain.Subject, error)
	UpdateSchedule(ctx context.Context, id, start, end string) (domain.Subject, error)
}
