package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"studyplan/internal/modules/planner/domain"
	plannerout "studyplan/internal/modules/planner/port/out"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/weekdate"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteDraftStore struct {
	db *sql.DB
}

func NewSQLiteDraftStore(dbPath string) (*SQLiteDraftStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Writers queue on one connection.
	db.SetMaxOpenConns(1)
	store := &SQLiteDraftStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

var _ plannerout.DraftStore = (*SQLiteDraftStore)(nil)

func (s *SQLiteDraftStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS week_drafts (
  week_start TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  dirty INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create week_drafts table: %w", err)
	}
	return nil
}

func (s *SQLiteDraftStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteDraftStore) Load(ctx context.Context, weekStart time.Time) (domain.Draft, error) {
	const query = `SELECT payload, dirty, updated_at FROM week_drafts WHERE week_start = ?`
	var (
		payload, updatedAt string
		dirty              int
	)
	err := s.db.QueryRowContext(ctx, query, weekdate.Key(weekStart)).Scan(&payload, &dirty, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Draft{}, fmt.Errorf("%w: no draft for week %s", apperrors.ErrNotFound, weekdate.Key(weekStart))
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("query draft: %w", err)
	}

	var wp WeekPayload
	if err := json.Unmarshal([]byte(payload), &wp); err != nil {
		return domain.Draft{}, fmt.Errorf("decode draft payload: %w", err)
	}
	week, err := wp.ToWeek()
	if err != nil {
		return domain.Draft{}, err
	}
	updated, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("decode draft timestamp: %w", err)
	}
	return domain.Draft{Week: week, Dirty: dirty != 0, UpdatedAt: updated}, nil
}

func (s *SQLiteDraftStore) Save(ctx context.Context, draft domain.Draft) error {
	raw, err := json.Marshal(PayloadFromWeek(draft.Week))
	if err != nil {
		return fmt.Errorf("encode draft payload: %w", err)
	}
	dirty := 0
	if draft.Dirty {
		dirty = 1
	}
	const stmt = `
INSERT INTO week_drafts (week_start, payload, dirty, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(week_start) DO UPDATE SET
  payload=excluded.payload,
  dirty=excluded.dirty,
  updated_at=excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, draft.Week.Key(), string(raw), dirty, draft.UpdatedAt.Format(timeLayout)); err != nil {
		return fmt.Errorf("upsert draft: %w", err)
	}
	return nil
}

// Delete is a no-op when the week has no draft.
func (s *SQLiteDraftStore) Delete(ctx context.Context, weekStart time.Time) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM week_drafts WHERE week_start = ?`, weekdate.Key(weekStart)); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
