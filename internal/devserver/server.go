// Package devserver is an in-memory implementation of the study planning
// backend API. It backs `studyplan devserver` and the gateway tests.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"studyplan/internal/platform/clock"
	"studyplan/internal/platform/id"
	"studyplan/internal/platform/logging"
	"studyplan/internal/platform/weekdate"
)

const isoLayout = "2006-01-02T15:04:05.000000"

type Options struct {
	Clock    clock.Clock
	IDs      id.Generator
	Logger   *zap.SugaredLogger
	Registry *prometheus.Registry
}

type Server struct {
	store    *store
	log      *zap.SugaredLogger
	registry *prometheus.Registry
	metrics  *metrics
	engine   *gin.Engine
}

func New(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = id.UUID{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	s := &Server{
		store:    newStore(opts.Clock, opts.IDs),
		log:      opts.Logger,
		registry: opts.Registry,
		metrics:  newMetrics(opts.Registry),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("devserver listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown devserver: %w", err)
		}
		return nil
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), s.metrics.middleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Sistema de Planejamento de Estudos - API"})
		})

		api.GET("/disciplinas", s.listSubjects)
		api.GET("/disciplinas/:id", s.getSubject)
		api.PUT("/disciplinas/:id", s.updateSubject)

		api.GET("/desempenho/:week", s.getWeek)
		api.POST("/desempenho", s.saveWeek)

		timer := api.Group("/timer")
		timer.GET("/status/:id", s.timerStatus)
		timer.POST("/iniciar", s.startTimer)
		timer.PUT("/parar/:id", s.stopTimer)
		timer.GET("/resumo-semanal", s.weeklySummary)

		api.GET("/planos", s.listPlans)
		api.POST("/planos", s.createPlan)
		api.GET("/planos/:id", s.getPlan)
	}
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debugw("devserver request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func iso(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func subjectJSON(sub *subject) gin.H {
	return gin.H{
		"id":             sub.ID,
		"nome":           sub.Name,
		"horario_inicio": sub.StartTime,
		"horario_fim":    sub.EndTime,
		"criado_em":      iso(sub.CreatedAt),
	}
}

func sessionJSON(sess *session) gin.H {
	return gin.H{
		"id":            sess.ID,
		"disciplina_id": sess.SubjectID,
		"inicio":        iso(sess.Start),
		"ativa":         sess.End == nil,
	}
}

func weekJSON(w *week) gin.H {
	out := gin.H{"id": w.ID, "semana_inicio": w.Start}
	for _, d := range weekDays {
		out[d] = w.Days[d]
	}
	return out
}

func planJSON(p *plan) gin.H {
	return gin.H{"id": p.ID, "nome": p.Name, "disciplinas_ids": p.SubjectIDs, "criado_em": iso(p.CreatedAt)}
}

func (s *Server) listSubjects(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]gin.H, 0, len(s.store.subjects))
	for _, sub := range s.store.subjects {
		out = append(out, subjectJSON(sub))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getSubject(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sub := s.store.subject(c.Param("id"))
	if sub == nil {
		detail(c, http.StatusNotFound, "Disciplina não encontrada")
		return
	}
	c.JSON(http.StatusOK, subjectJSON(sub))
}

type scheduleBody struct {
	StartTime *string `json:"horario_inicio"`
	EndTime   *string `json:"horario_fim"`
}

// updateSubject only overwrites fields present and non-null in the body.
func (s *Server) updateSubject(c *gin.Context) {
	var body scheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sub := s.store.subject(c.Param("id"))
	if sub == nil {
		detail(c, http.StatusNotFound, "Disciplina não encontrada")
		return
	}
	if body.StartTime != nil {
		sub.StartTime = body.StartTime
	}
	if body.EndTime != nil {
		sub.EndTime = body.EndTime
	}
	c.JSON(http.StatusOK, subjectJSON(sub))
}

func (s *Server) getWeek(c *gin.Context) {
	start, err := weekdate.Parse(c.Param("week"))
	if err != nil {
		detail(c, http.StatusBadRequest, "Formato de data inválido. Use YYYY-MM-DD")
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c.JSON(http.StatusOK, weekJSON(s.store.weekFor(weekdate.Format(start))))
}

type weekBody struct {
	ID        string `json:"id"`
	WeekStart string `json:"semana_inicio" binding:"required"`
	Segunda   []task `json:"segunda"`
	Terca     []task `json:"terca"`
	Quarta    []task `json:"quarta"`
	Quinta    []task `json:"quinta"`
	Sexta     []task `json:"sexta"`
	Sabado    []task `json:"sabado"`
	Domingo   []task `json:"domingo"`
}

func (b weekBody) days() map[string][]task {
	days := map[string][]task{
		"segunda": b.Segunda, "terca": b.Terca, "quarta": b.Quarta, "quinta": b.Quinta,
		"sexta": b.Sexta, "sabado": b.Sabado, "domingo": b.Domingo,
	}
	for k, v := range days {
		if v == nil {
			days[k] = []task{}
		}
	}
	return days
}

// saveWeek replaces the stored week keyed by semana_inicio.
func (s *Server) saveWeek(c *gin.Context) {
	var body weekBody
	if err := c.ShouldBindJSON(&body); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	start, err := weekdate.Parse(body.WeekStart)
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	key := weekdate.Format(start)
	w := s.store.weekFor(key)
	if body.ID != "" {
		w.ID = body.ID
	}
	w.Days = body.days()
	c.JSON(http.StatusOK, gin.H{"message": "Desempenho semanal salvo com sucesso"})
}

func (s *Server) timerStatus(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sess := s.store.activeSession(c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"ativo": false, "tempo_decorrido": 0, "sessao": nil})
		return
	}
	elapsed := s.store.clock.Now().Sub(sess.Start).Seconds()
	c.JSON(http.StatusOK, gin.H{"ativo": true, "tempo_decorrido": elapsed, "sessao": sessionJSON(sess)})
}

type startBody struct {
	SubjectID string `json:"disciplina_id" binding:"required"`
}

func (s *Server) startTimer(c *gin.Context) {
	var body startBody
	if err := c.ShouldBindJSON(&body); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if s.store.subject(body.SubjectID) == nil {
		detail(c, http.StatusNotFound, "Disciplina não encontrada")
		return
	}
	if s.store.activeSession(body.SubjectID) != nil {
		detail(c, http.StatusBadRequest, "Já existe uma sessão ativa para esta disciplina")
		return
	}
	sess := &session{ID: s.store.ids.New(), SubjectID: body.SubjectID, Start: s.store.clock.Now()}
	s.store.sessions = append(s.store.sessions, sess)
	s.metrics.activeSessions.Inc()
	c.JSON(http.StatusOK, sessionJSON(sess))
}

func (s *Server) stopTimer(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sess := s.store.activeSession(c.Param("id"))
	if sess == nil {
		detail(c, http.StatusNotFound, "Nenhuma sessão ativa encontrada")
		return
	}
	end := s.store.clock.Now()
	sess.End = &end
	sess.Seconds = int64(end.Sub(sess.Start) / time.Second)
	if sess.Seconds < 0 {
		sess.Seconds = 0
	}
	s.metrics.activeSessions.Dec()
	c.JSON(http.StatusOK, gin.H{
		"duracao_segundos":  sess.Seconds,
		"duracao_formatada": formatDuration(sess.Seconds),
	})
}

func formatDuration(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func (s *Server) weeklySummary(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	rows := s.store.weeklySummary()
	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		out = append(out, gin.H{
			"disciplina_id":   r.SubjectID,
			"nome_disciplina": r.SubjectName,
			"total_segundos":  r.TotalSeconds,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listPlans(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]gin.H, 0, len(s.store.plans))
	for _, p := range s.store.plans {
		out = append(out, planJSON(p))
	}
	c.JSON(http.StatusOK, out)
}

type planBody struct {
	Name       string   `json:"nome" binding:"required"`
	SubjectIDs []string `json:"disciplinas_ids"`
}

func (s *Server) createPlan(c *gin.Context) {
	var body planBody
	if err := c.ShouldBindJSON(&body); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if body.SubjectIDs == nil {
		body.SubjectIDs = []string{}
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p := &plan{ID: s.store.ids.New(), Name: body.Name, SubjectIDs: body.SubjectIDs, CreatedAt: s.store.clock.Now()}
	s.store.plans = append(s.store.plans, p)
	c.JSON(http.StatusOK, planJSON(p))
}

func (s *Server) getPlan(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, p := range s.store.plans {
		if p.ID == c.Param("id") {
			c.JSON(http.StatusOK, planJSON(p))
			return
		}
	}
	detail(c, http.StatusNotFound, "Plano de estudos não encontrado")
}

// SubjectIDs lists the seeded subject ids in catalog order.
func (s *Server) SubjectIDs() []string {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]string, 0, len(s.store.subjects))
	for _, sub := range s.store.subjects {
		out = append(out, sub.ID)
	}
	return out
}
