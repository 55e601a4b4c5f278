package out

import (
	"context"

	"studyplan/internal/modules/subject/domain"
	subjectout "studyplan/internal/modules/subject/port/out"
	"studyplan/internal/platform/httpapi"
)

type subjectPayload struct {
	ID        string            `json:"id"`
	Name      string            `json:"nome"`
	StartTime *string           `json:"horario_inicio"`
	EndTime   *string           `json:"horario_fim"`
	CreatedAt httpapi.Timestamp `json:"criado_em"`
}

type schedulePayload struct {
	StartTime string `json:"horario_inicio"`
	EndTime   string `json:"horario_fim"`
}

type HTTPSubjectGateway struct {
	client *httpapi.Client
}

func NewHTTPSubjectGateway(client *httpapi.Client) subjectout.SubjectGateway {
	return &HTTPSubjectGateway{client: client}
}

func (g *HTTPSubjectGateway) List(ctx context.Context) ([]domain.Subject, error) {
	var payload []subjectPayload
	if err := g.client.Get(ctx, "/disciplinas", &payload); err != nil {
		return nil, err
	}
	out := make([]domain.Subject, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toDomain())
	}
	return out, nil
}

func (g *HTTPSubjectGateway) Get(ctx context.Context, id string) (domain.Subject, error) {
	payload := subjectPayload{}
	if err := g.client.Get(ctx, "/disciplinas/{id}", &payload, id); err != nil {
		return domain.Subject{}, err
	}
	return payload.toDomain(), nil
}

func (g *HTTPSubjectGateway) UpdateSchedule(ctx context.Context, id, start, end string) (domain.Subject, error) {
	payload := subjectPayload{}
	body := schedulePayload{StartTime: start, EndTime: end}
	if err := g.client.Put(ctx, "/disciplinas/{id}", body, &payload, id); err != nil {
		return domain.Subject{}, err
	}
	return payload.toDomain(), nil
}

func (p subjectPayload) toDomain() domain.Subject {
	s := domain.Subject{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt.Time}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	return s
}
