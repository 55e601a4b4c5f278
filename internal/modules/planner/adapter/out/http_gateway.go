package out

import (
	"context"
	"fmt"
	"time"

	"studyplan/internal/modules/planner/domain"
	plannerout "studyplan/internal/modules/planner/port/out"
	"studyplan/internal/platform/httpapi"
	"studyplan/internal/platform/weekdate"
)

// WeekPayload is the backend's Weekly Performance document.
type WeekPayload struct {
	ID        string        `json:"id,omitempty"`
	WeekStart string        `json:"semana_inicio"`
	Monday    []domain.Task `json:"segunda"`
	Tuesday   []domain.Task `json:"terca"`
	Wednesday []domain.Task `json:"quarta"`
	Thursday  []domain.Task `json:"quinta"`
	Friday    []domain.Task `json:"sexta"`
	Saturday  []domain.Task `json:"sabado"`
	Sunday    []domain.Task `json:"domingo"`
}

func (p *WeekPayload) slots() map[domain.Day]*[]domain.Task {
	return map[domain.Day]*[]domain.Task{
		domain.Monday:    &p.Monday,
		domain.Tuesday:   &p.Tuesday,
		domain.Wednesday: &p.Wednesday,
		domain.Thursday:  &p.Thursday,
		domain.Friday:    &p.Friday,
		domain.Saturday:  &p.Saturday,
		domain.Sunday:    &p.Sunday,
	}
}

func PayloadFromWeek(week domain.Week) WeekPayload {
	p := WeekPayload{ID: week.ID, WeekStart: week.Key()}
	for day, slot := range p.slots() {
		*slot = append([]domain.Task{}, week.Tasks[day]...)
	}
	return p
}

func (p WeekPayload) ToWeek() (domain.Week, error) {
	start, err := weekdate.Parse(p.WeekStart)
	if err != nil {
		return domain.Week{}, fmt.Errorf("decode week: %w", err)
	}
	week := domain.NewWeek(p.ID, start)
	for day, slot := range p.slots() {
		if *slot != nil {
			week.Tasks[day] = append([]domain.Task{}, (*slot)...)
		}
	}
	return week, nil
}

type messagePayload struct {
	Message string `json:"message"`
}

type HTTPWeekGateway struct {
	client *httpapi.Client
}

func NewHTTPWeekGateway(client *httpapi.Client) plannerout.WeekGateway {
	return &HTTPWeekGateway{client: client}
}

func (g *HTTPWeekGateway) Fetch(ctx context.Context, weekStart time.Time) (domain.Week, error) {
	payload := WeekPayload{}
	if err := g.client.Get(ctx, "/desempenho/{week}", &payload, weekdate.Key(weekStart)); err != nil {
		return domain.Week{}, err
	}
	if payload.WeekStart == "" {
		payload.WeekStart = weekdate.Key(weekStart)
	}
	return payload.ToWeek()
}

func (g *HTTPWeekGateway) Save(ctx context.Context, week domain.Week) (string, error) {
	out := messagePayload{}
	if err := g.client.Post(ctx, "/desempenho", PayloadFromWeek(week), &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
