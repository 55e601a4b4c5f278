package devserver

import (
	"sort"
	"sync"
	"time"

	"studyplan/internal/platform/clock"
	"studyplan/internal/platform/id"
	"studyplan/internal/platform/weekdate"
)

// SeedSubjects is the catalog a fresh backend starts with.
var SeedSubjects = []string{
	"Direito Constitucional",
	"Direito Civil",
	"Direito Penal",
	"Direito Processual Civil",
	"Direito Processual Penal",
	"Direito Administrativo",
	"Direito Tributário",
	"Direito Trabalhista",
	"Direito Processual Trabalhista",
	"Direito Empresarial",
	"Direito do Consumidor",
	"Direito Ambiental",
	"Direito Internacional",
	"Direito Previdenciário",
	"Direito Eleitoral",
	"Direito da Criança e Adolescente",
	"Direito de Família",
	"Direito das Sucessões",
	"Filosofia do Direito",
}

var weekDays = []string{"segunda", "terca", "quarta", "quinta", "sexta", "sabado", "domingo"}

type subject struct {
	ID        string
	Name      string
	StartTime *string
	EndTime   *string
	CreatedAt time.Time
}

type session struct {
	ID        string
	SubjectID string
	Start     time.Time
	End       *time.Time
	Seconds   int64
}

type task struct {
	ID          string `json:"id"`
	Time        string `json:"horario"`
	Description string `json:"descricao"`
	Completed   bool   `json:"concluida"`
}

type week struct {
	ID    string
	Start string
	Days  map[string][]task
}

type plan struct {
	ID         string
	Name       string
	SubjectIDs []string
	CreatedAt  time.Time
}

// store is the backend's state. All access goes through mu.
type store struct {
	clock clock.Clock
	ids   id.Generator

	mu       sync.Mutex
	subjects []*subject
	sessions []*session
	weeks    map[string]*week
	plans    []*plan
}

func newStore(clk clock.Clock, ids id.Generator) *store {
	s := &store{clock: clk, ids: ids, weeks: map[string]*week{}}
	now := clk.Now().UTC()
	for _, name := range SeedSubjects {
		s.subjects = append(s.subjects, &subject{ID: ids.New(), Name: name, CreatedAt: now})
	}
	return s
}

func (s *store) subject(id string) *subject {
	for _, sub := range s.subjects {
		if sub.ID == id {
			return sub
		}
	}
	return nil
}

func (s *store) activeSession(subjectID string) *session {
	for _, sess := range s.sessions {
		if sess.SubjectID == subjectID && sess.End == nil {
			return sess
		}
	}
	return nil
}

func (s *store) weekFor(start string) *week {
	w, ok := s.weeks[start]
	if !ok {
		w = &week{ID: s.ids.New(), Start: start, Days: map[string][]task{}}
		for _, d := range weekDays {
			w.Days[d] = []task{}
		}
		s.weeks[start] = w
	}
	return w
}

type summaryRow struct {
	SubjectID    string
	SubjectName  string
	TotalSeconds int64
}

// weeklySummary totals finished sessions started on or after this week's
// Monday, one row per subject in catalog order.
func (s *store) weeklySummary() []summaryRow {
	monday := weekdate.Monday(s.clock.Now())
	totals := map[string]int64{}
	for _, sess := range s.sessions {
		if sess.End == nil || sess.Start.Before(monday) {
			continue
		}
		totals[sess.SubjectID] += sess.Seconds
	}
	rows := make([]summaryRow, 0, len(s.subjects))
	for _, sub := range s.subjects {
		rows = append(rows, summaryRow{SubjectID: sub.ID, SubjectName: sub.Name, TotalSeconds: totals[sub.ID]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalSeconds > rows[j].TotalSeconds })
	return rows
}
