package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"studyplan/internal/modules/timer/domain"
	"studyplan/internal/modules/timer/dto"
	timerin "studyplan/internal/modules/timer/port/in"
	"studyplan/internal/modules/timer/service"
	apperrors "studyplan/internal/platform/errors"
)

type Options struct {
	TickInterval    time.Duration
	SyncConcurrency int
}

// Interactor owns the timer board and the last fetched weekly summary. The
// board is only replaced under mu, so the status fan-out, the ticker and
// start/stop results never interleave a write.
type Interactor struct {
	svc  *service.TimerService
	log  *zap.SugaredLogger
	opts Options

	mu         sync.Mutex
	board      domain.Board
	summary    domain.Summary
	hasSummary bool
}

func NewInteractor(svc *service.TimerService, log *zap.SugaredLogger, opts Options) timerin.Usecase {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.SyncConcurrency <= 0 {
		opts.SyncConcurrency = 8
	}
	return &Interactor{svc: svc, log: log, opts: opts, board: domain.NewBoard()}
}

// Sync queries the status of every subject concurrently. A failed query is
// logged and leaves that subject's slot as it was.
func (i *Interactor) Sync(ctx context.Context, subjectIDs []string) (dto.BoardOutput, error) {
	var g errgroup.Group
	g.SetLimit(i.opts.SyncConcurrency)
	for _, subjectID := range subjectIDs {
		g.Go(func() error {
			status, err := i.svc.Status(ctx, subjectID)
			if err != nil {
				i.log.Warnw("timer status poll failed", "subject_id", subjectID, "error", err)
				return nil
			}
			i.apply(func(b domain.Board) domain.Board { return b.ApplyStatus(subjectID, status) })
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return i.Snapshot(), err
	}
	return i.Tick(), nil
}

func (i *Interactor) Tick() dto.BoardOutput {
	now := i.svc.Now()
	return i.apply(func(b domain.Board) domain.Board { return b.Tick(now) })
}

// Start refuses locally active subjects without a request. A failed request
// leaves the board exactly as it was.
func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.TimerOutput, error) {
	i.mu.Lock()
	active := i.board.IsActive(input.SubjectID)
	i.mu.Unlock()
	if active {
		return dto.TimerOutput{}, fmt.Errorf("start timer %s: %w", input.SubjectID, apperrors.ErrActiveSessionExists)
	}

	session, err := i.svc.Start(ctx, input.SubjectID)
	if err != nil {
		i.log.Warnw("timer start failed", "subject_id", input.SubjectID, "error", err)
		return dto.TimerOutput{}, err
	}
	board := i.apply(func(b domain.Board) domain.Board { return b.ApplyStarted(input.SubjectID, session.StartedAt) })
	i.log.Infow("timer started", "subject_id", input.SubjectID, "started_at", session.StartedAt)
	return board.Timer(input.SubjectID), nil
}

// Stop clears the slot and refreshes the weekly summary once the backend
// confirms. When the stop request fails the slot is not touched locally;
// instead the subject's status is re-read so the board follows whatever the
// backend actually holds.
func (i *Interactor) Stop(ctx context.Context, input dto.StopInput) (dto.StopOutput, error) {
	result, err := i.svc.Stop(ctx, input.SubjectID)
	if err != nil {
		i.log.Warnw("timer stop failed", "subject_id", input.SubjectID, "error", err)
		i.resync(ctx, input.SubjectID)
		return dto.StopOutput{}, err
	}
	i.apply(func(b domain.Board) domain.Board { return b.ApplyStopped(input.SubjectID) })
	i.log.Infow("timer stopped", "subject_id", input.SubjectID, "duration_seconds", result.DurationSeconds)

	out := dto.StopOutput{
		SubjectID:         input.SubjectID,
		DurationSeconds:   result.DurationSeconds,
		FormattedDuration: result.FormattedDuration,
	}
	summary, err := i.Summary(ctx)
	if err == nil {
		out.Summary = summary
		out.SummaryRefreshed = true
	}
	return out, nil
}

func (i *Interactor) resync(ctx context.Context, subjectID string) {
	status, err := i.svc.Status(ctx, subjectID)
	if err != nil {
		i.log.Warnw("timer resync failed", "subject_id", subjectID, "error", err)
		return
	}
	now := i.svc.Now()
	i.apply(func(b domain.Board) domain.Board { return b.ApplyStatus(subjectID, status).Tick(now) })
}

func (i *Interactor) Snapshot() dto.BoardOutput {
	i.mu.Lock()
	defer i.mu.Unlock()
	return toBoardOutput(i.board)
}

func (i *Interactor) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	summary, err := i.svc.Summary(ctx)
	if err != nil {
		i.log.Warnw("weekly summary fetch failed", "error", err)
		return dto.SummaryOutput{}, err
	}
	i.mu.Lock()
	i.summary = summary
	i.hasSummary = true
	i.mu.Unlock()
	return toSummaryOutput(summary), nil
}

func (i *Interactor) LastSummary() (dto.SummaryOutput, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.hasSummary {
		return dto.SummaryOutput{}, false
	}
	return toSummaryOutput(i.summary), true
}

// ExportSummary writes the cached summary, fetching it first when nothing
// has been loaded yet.
func (i *Interactor) ExportSummary(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	i.mu.Lock()
	summary, ok := i.summary, i.hasSummary
	i.mu.Unlock()
	if !ok {
		if _, err := i.Summary(ctx); err != nil {
			return dto.ExportOutput{}, err
		}
		i.mu.Lock()
		summary = i.summary
		i.mu.Unlock()
	}
	path, err := i.svc.Export(ctx, input.Dir, summary)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, WeekStart: summary.WeekStart}, nil
}

// Run ticks the board every TickInterval until ctx is done. The ticker is
// released on return.
func (i *Interactor) Run(ctx context.Context, onTick func(dto.BoardOutput)) error {
	ticker := time.NewTicker(i.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			board := i.Tick()
			if onTick != nil {
				onTick(board)
			}
		}
	}
}

func (i *Interactor) apply(reduce func(domain.Board) domain.Board) dto.BoardOutput {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.board = reduce(i.board)
	return toBoardOutput(i.board)
}

func toBoardOutput(board domain.Board) dto.BoardOutput {
	slots := board.Snapshot()
	out := dto.BoardOutput{Timers: make([]dto.TimerOutput, 0, len(slots)), ActiveCount: board.ActiveCount()}
	for _, s := range slots {
		out.Timers = append(out.Timers, dto.TimerOutput{
			SubjectID:      s.SubjectID,
			Active:         s.Active,
			ElapsedSeconds: s.ElapsedSeconds,
			Elapsed:        domain.FormatElapsed(s.ElapsedSeconds),
			StartedAt:      s.StartedAt,
		})
	}
	return out
}

func toSummaryOutput(summary domain.Summary) dto.SummaryOutput {
	out := dto.SummaryOutput{
		WeekStart:    summary.WeekStart,
		FetchedAt:    summary.FetchedAt,
		Entries:      make([]dto.SummaryEntryOutput, 0, len(summary.Entries)),
		TotalSeconds: summary.TotalSeconds(),
		Total:        domain.FormatElapsed(summary.TotalSeconds()),
	}
	for _, e := range summary.Entries {
		out.Entries = append(out.Entries, dto.SummaryEntryOutput{
			SubjectID:    e.SubjectID,
			SubjectName:  e.SubjectName,
			TotalSeconds: e.TotalSeconds,
			Total:        domain.FormatElapsed(e.TotalSeconds),
		})
	}
	return out
}
