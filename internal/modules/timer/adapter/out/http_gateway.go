package out

import (
	"context"
	"errors"
	"fmt"

	"studyplan/internal/modules/timer/domain"
	timerout "studyplan/internal/modules/timer/port/out"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/httpapi"
)

type sessionPayload struct {
	ID        string            `json:"id"`
	SubjectID string            `json:"disciplina_id"`
	StartedAt httpapi.Timestamp `json:"inicio"`
	Active    bool              `json:"ativa"`
}

type statusPayload struct {
	Active         bool            `json:"ativo"`
	ElapsedSeconds float64         `json:"tempo_decorrido"`
	Session        *sessionPayload `json:"sessao"`
}

type startPayload struct {
	SubjectID string `json:"disciplina_id"`
}

type stopPayload struct {
	DurationSeconds   float64 `json:"duracao_segundos"`
	FormattedDuration string  `json:"duracao_formatada"`
}

type summaryEntryPayload struct {
	SubjectID    string  `json:"disciplina_id"`
	SubjectName  string  `json:"nome_disciplina"`
	TotalSeconds float64 `json:"total_segundos"`
}

type HTTPTimerGateway struct {
	client *httpapi.Client
}

func NewHTTPTimerGateway(client *httpapi.Client) timerout.TimerGateway {
	return &HTTPTimerGateway{client: client}
}

func (g *HTTPTimerGateway) Status(ctx context.Context, subjectID string) (domain.Status, error) {
	payload := statusPayload{}
	if err := g.client.Get(ctx, "/timer/status/{id}", &payload, subjectID); err != nil {
		return domain.Status{}, err
	}
	status := domain.Status{Active: payload.Active, ElapsedSeconds: int64(payload.ElapsedSeconds)}
	if payload.Session != nil && !payload.Session.StartedAt.IsZero() {
		started := payload.Session.StartedAt.Time
		status.StartedAt = &started
	}
	return status, nil
}

func (g *HTTPTimerGateway) Start(ctx context.Context, subjectID string) (domain.Session, error) {
	payload := sessionPayload{}
	if err := g.client.Post(ctx, "/timer/iniciar", startPayload{SubjectID: subjectID}, &payload); err != nil {
		return domain.Session{}, err
	}
	session := domain.Session{
		ID:        payload.ID,
		SubjectID: payload.SubjectID,
		StartedAt: payload.StartedAt.Time,
		Active:    payload.Active,
	}
	if session.SubjectID == "" {
		session.SubjectID = subjectID
	}
	return session, nil
}

func (g *HTTPTimerGateway) Stop(ctx context.Context, subjectID string) (domain.StopResult, error) {
	payload := stopPayload{}
	if err := g.client.Put(ctx, "/timer/parar/{id}", nil, &payload, subjectID); err != nil {
		// The backend answers 404 when the subject has no running session.
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.StopResult{}, fmt.Errorf("%w: %w", apperrors.ErrNoActiveSession, err)
		}
		return domain.StopResult{}, err
	}
	return domain.StopResult{
		DurationSeconds:   int64(payload.DurationSeconds),
		FormattedDuration: payload.FormattedDuration,
	}, nil
}

func (g *HTTPTimerGateway) WeeklySummary(ctx context.Context) ([]domain.SummaryEntry, error) {
	var payload []summaryEntryPayload
	if err := g.client.Get(ctx, "/timer/resumo-semanal", &payload); err != nil {
		return nil, err
	}
	out := make([]domain.SummaryEntry, 0, len(payload))
	for _, p := range payload {
		out = append(out, domain.SummaryEntry{
			SubjectID:    p.SubjectID,
			SubjectName:  p.SubjectName,
			TotalSeconds: int64(p.TotalSeconds),
		})
	}
	return out, nil
}

