package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	planinadapter "studyplan/internal/modules/plan/adapter/in"
	planoutadapter "studyplan/internal/modules/plan/adapter/out"
	planservice "studyplan/internal/modules/plan/service"
	planusecase "studyplan/internal/modules/plan/usecase"
	plannerinadapter "studyplan/internal/modules/planner/adapter/in"
	planneroutadapter "studyplan/internal/modules/planner/adapter/out"
	plannerservice "studyplan/internal/modules/planner/service"
	plannerusecase "studyplan/internal/modules/planner/usecase"
	subjectinadapter "studyplan/internal/modules/subject/adapter/in"
	subjectoutadapter "studyplan/internal/modules/subject/adapter/out"
	subjectservice "studyplan/internal/modules/subject/service"
	subjectusecase "studyplan/internal/modules/subject/usecase"
	timerinadapter "studyplan/internal/modules/timer/adapter/in"
	timeroutadapter "studyplan/internal/modules/timer/adapter/out"
	timerservice "studyplan/internal/modules/timer/service"
	timerusecase "studyplan/internal/modules/timer/usecase"
	"studyplan/internal/platform/clock"
	"studyplan/internal/platform/config"
	"studyplan/internal/platform/httpapi"
	"studyplan/internal/platform/id"
	"studyplan/internal/platform/logging"
	uiapp "studyplan/internal/ui/app"
)

// Options tweaks process-level wiring. Console must stay nil for the TUI.
type Options struct {
	Console io.Writer
}

type App struct {
	Config   config.Config
	Log      *zap.SugaredLogger
	Registry *prometheus.Registry

	SubjectCLI subjectinadapter.CLIHandler
	TimerCLI   timerinadapter.CLIHandler
	PlannerCLI plannerinadapter.CLIHandler
	PlanCLI    planinadapter.CLIHandler

	drafts *planneroutadapter.SQLiteDraftStore
}

func New(cfg config.Config, opts Options) (*App, error) {
	log, err := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		FilePath: cfg.LogPath(),
		Console:  opts.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	fail := func(err error) (*App, error) {
		log.Errorw("startup failed", "error", err)
		_ = log.Sync()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	client, err := httpapi.New(cfg.Backend.URL, cfg.Backend.Timeout,
		httpapi.WithLogger(log.Named("http")),
		httpapi.WithRegisterer(registry),
	)
	if err != nil {
		return fail(fmt.Errorf("new backend client: %w", err))
	}

	drafts, err := planneroutadapter.NewSQLiteDraftStore(cfg.DraftDBPath())
	if err != nil {
		return fail(fmt.Errorf("new draft store: %w", err))
	}

	clk := clock.SystemClock{}
	ids := id.UUID{}

	subjectUC := subjectusecase.NewInteractor(
		subjectservice.NewSubjectService(subjectoutadapter.NewHTTPSubjectGateway(client)),
		log.Named("subject"),
	)
	timerUC := timerusecase.NewInteractor(
		timerservice.NewTimerService(clk, timeroutadapter.NewHTTPTimerGateway(client), timeroutadapter.NewMarkdownSummaryStore()),
		log.Named("timer"),
		timerusecase.Options{
			TickInterval:    cfg.Timer.TickInterval,
			SyncConcurrency: cfg.Timer.SyncConcurrency,
		},
	)
	plannerUC := plannerusecase.NewInteractor(
		plannerservice.NewPlannerService(clk, ids, planneroutadapter.NewHTTPWeekGateway(client), drafts),
		log.Named("planner"),
	)
	planUC := planusecase.NewInteractor(
		planservice.NewPlanService(planoutadapter.NewHTTPPlanGateway(client)),
		log.Named("plan"),
	)

	return &App{
		Config:     cfg,
		Log:        log,
		Registry:   registry,
		SubjectCLI: subjectinadapter.NewCLIHandler(subjectUC),
		TimerCLI:   timerinadapter.NewCLIHandler(timerUC),
		PlannerCLI: plannerinadapter.NewCLIHandler(plannerUC),
		PlanCLI:    planinadapter.NewCLIHandler(planUC),
		drafts:     drafts,
	}, nil
}

// Close flushes the logger and releases the draft database.
func (a *App) Close() error {
	_ = a.Log.Sync()
	return a.drafts.Close()
}

// RunTUI runs the terminal UI until the user quits. When metricsAddr is set
// the client registry is served there for the lifetime of the program.
func (a *App) RunTUI(metricsAddr string) error {
	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.Log.Warnw("metrics server stopped", "addr", metricsAddr, "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	model := uiapp.NewModel(uiapp.Ports{
		Subjects: a.SubjectCLI,
		Timer:    a.TimerCLI,
		Week:     a.PlannerCLI,
		Plans:    a.PlanCLI,
	}, uiapp.Options{
		TickInterval: a.Config.Timer.TickInterval,
		Today:        time.Now(),
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
