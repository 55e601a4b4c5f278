package out

import (
	"context"
	"time"

	"studyplan/internal/modules/planner/domain"
)

type WeekGateway interface {
	Fetch(ctx context.Context, weekStart time.Time) (domain.Week, error)
	// Save writes the whole week and returns the backend's confirmation text.
	Save(ctx context.Context, week domain.Week) (string, error)
}

// DraftStore persists edited weeks by week start. Load returns
// apperrors.ErrNotFound when no draft exists.
type DraftStore interface {
	Load(ctx context.Context, weekStart time.Time) (domain.Draft, error)
	Save(ctx context.Context, draft domain.Draft) error
	Delete(ctx context.Context, weekStart time.Time) error
}
