package out

import (
	"context"

	"studyplan/internal/modules/plan/domain"
	planout "studyplan/internal/modules/plan/port/out"
	"studyplan/internal/platform/httpapi"
)

type planPayload struct {
	ID         string            `json:"id"`
	Name       string            `json:"nome"`
	SubjectIDs []string          `json:"disciplinas_ids"`
	CreatedAt  httpapi.Timestamp `json:"criado_em"`
}

type createPayload struct {
	Name       string   `json:"nome"`
	SubjectIDs []string `json:"disciplinas_ids"`
}

type HTTPPlanGateway struct {
	client *httpapi.Client
}

func NewHTTPPlanGateway(client *httpapi.Client) planout.PlanGateway {
	return &HTTPPlanGateway{client: client}
}

func (g *HTTPPlanGateway) List(ctx context.Context) ([]domain.Plan, error) {
	var payload []planPayload
	if err := g.client.Get(ctx, "/planos", &payload); err != nil {
		return nil, err
	}
	out := make([]domain.Plan, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toDomain())
	}
	return out, nil
}

func (g *HTTPPlanGateway) Get(ctx context.Context, id string) (domain.Plan, error) {
	payload := planPayload{}
	if err := g.client.Get(ctx, "/planos/{id}", &payload, id); err != nil {
		return domain.Plan{}, err
	}
	return payload.toDomain(), nil
}

func (g *HTTPPlanGateway) Create(ctx context.Context, name string, subjectIDs []string) (domain.Plan, error) {
	payload := planPayload{}
	if err := g.client.Post(ctx, "/planos", createPayload{Name: name, SubjectIDs: subjectIDs}, &payload); err != nil {
		return domain.Plan{}, err
	}
	return payload.toDomain(), nil
}

func (p planPayload) toDomain() domain.Plan {
	ids := p.SubjectIDs
	if ids == nil {
		ids = []string{}
	}
	return domain.Plan{ID: p.ID, Name: p.Name, SubjectIDs: ids, CreatedAt: p.CreatedAt.Time}
}
