package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"studyplan/internal/bootstrap"
	"studyplan/internal/devserver"
	plannerdto "studyplan/internal/modules/planner/dto"
	timerdto "studyplan/internal/modules/timer/dto"
	"studyplan/internal/platform/config"
	"studyplan/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagKeys binds persistent flags onto config keys.
var flagKeys = map[string]string{
	"backend.url": "backend-url",
	"data_dir":    "data-dir",
	"log.level":   "log-level",
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Study planner: subjects, timers, weekly tasks and plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default <config-dir>/studyplan/config.yaml)")
	flags.String("backend-url", "", "backend base URL, e.g. http://localhost:8001")
	flags.String("data-dir", "", "directory for drafts and logs")
	flags.String("log-level", "", "debug|info|warn|error")

	load := func(cmd *cobra.Command, console io.Writer) (*bootstrap.App, error) {
		cfg, err := config.Load(config.Options{
			ConfigFile: configFile,
			Flags:      cmd.Flags(),
			FlagKeys:   flagKeys,
		})
		if err != nil {
			return nil, err
		}
		return bootstrap.New(cfg, bootstrap.Options{Console: console})
	}

	root.AddCommand(newTUICmd(load))
	root.AddCommand(newSubjectsCmd(load))
	root.AddCommand(newWeekCmd(load))
	root.AddCommand(newTimerCmd(load))
	root.AddCommand(newSummaryCmd(load))
	root.AddCommand(newPlansCmd(load))
	root.AddCommand(newDevserverCmd())
	return root
}

type loader func(cmd *cobra.Command, console io.Writer) (*bootstrap.App, error)

// withApp loads the app with a stderr console logger and closes it after run.
func withApp(load loader, run func(cmd *cobra.Command, app *bootstrap.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := load(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		return run(cmd, app, args)
	}
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}

func newTUICmd(load loader) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the studyplan terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := load(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if metricsAddr == "" {
				metricsAddr = app.Config.Metrics.Addr
			}
			return app.RunTUI(metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve client metrics on this address")
	return cmd
}

// ─── subjects ────────────────────────────────────────────────────────────────

func newSubjectsCmd(load loader) *cobra.Command {
	subjects := &cobra.Command{Use: "subjects", Short: "Subject catalog"}

	subjects.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects with their time blocks",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			list, err := app.SubjectCLI.ListSubjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no subjects")
				return nil
			}
			for _, s := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", s.ID, s.Name, dash(s.StartTime), dash(s.EndTime))
			}
			return nil
		}),
	})

	var subjectID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show one subject",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			if err := required("id", subjectID); err != nil {
				return err
			}
			s, err := app.SubjectCLI.GetSubject(cmd.Context(), subjectID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nname: %s\nstart: %s\nend: %s\n", s.ID, s.Name, dash(s.StartTime), dash(s.EndTime))
			return nil
		}),
	}
	show.Flags().StringVar(&subjectID, "id", "", "subject id")

	var setID, start, end string
	setTime := &cobra.Command{
		Use:   "set-time --id <id> [--start HH:MM] [--end HH:MM]",
		Short: "Change a subject's daily time block",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			if err := required("id", setID); err != nil {
				return err
			}
			s, err := app.SubjectCLI.UpdateSchedule(cmd.Context(), setID, start, end)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s: %s - %s\n", s.Name, dash(s.StartTime), dash(s.EndTime))
			return nil
		}),
	}
	setTime.Flags().StringVar(&setID, "id", "", "subject id")
	setTime.Flags().StringVar(&start, "start", "", "start time HH:MM (empty keeps current)")
	setTime.Flags().StringVar(&end, "end", "", "end time HH:MM (empty keeps current)")

	subjects.AddCommand(show, setTime)
	return subjects
}

// ─── week ────────────────────────────────────────────────────────────────────

func newWeekCmd(load loader) *cobra.Command {
	week := &cobra.Command{Use: "week", Short: "Weekly task planner"}

	var date string
	week.PersistentFlags().StringVar(&date, "date", "", "any day of the week, YYYY-MM-DD (default today)")

	week.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the week's tasks (local draft if any)",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			out, err := app.PlannerCLI.Show(cmd.Context(), date)
			if err != nil {
				return err
			}
			printWeek(cmd.OutOrStdout(), out)
			return nil
		}),
	})

	var addDay string
	addTask := &cobra.Command{
		Use:   "add-task --day <day>",
		Short: "Append a default task to a day of the draft",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			if err := required("day", addDay); err != nil {
				return err
			}
			out, err := app.PlannerCLI.AddTask(cmd.Context(), date, addDay)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s (unsaved)\n", out.Task.ID, out.Day)
			return nil
		}),
	}
	addTask.Flags().StringVar(&addDay, "day", "", "day: segunda..domingo or mon..sun")

	var input plannerdto.UpdateTaskInput
	updateTask := &cobra.Command{
		Use:   "update-task --day <day> --task-id <id> --field <time|description|completed> --value <v>",
		Short: "Edit one field of a task in the draft",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			for name, value := range map[string]string{"day": input.Day, "task-id": input.TaskID, "field": input.Field} {
				if err := required(name, value); err != nil {
					return err
				}
			}
			input.Date = date
			out, err := app.PlannerCLI.UpdateTask(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s on %s: %s %q done=%t (unsaved)\n", out.Task.ID, out.Day, out.Task.Time, out.Task.Description, out.Task.Completed)
			return nil
		}),
	}
	updateTask.Flags().StringVar(&input.Day, "day", "", "day of the task")
	updateTask.Flags().StringVar(&input.TaskID, "task-id", "", "task id")
	updateTask.Flags().StringVar(&input.Field, "field", "", "time|description|completed")
	updateTask.Flags().StringVar(&input.Value, "value", "", "new value")

	save := &cobra.Command{
		Use:   "save",
		Short: "Send the local draft to the backend",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			out, err := app.PlannerCLI.Save(cmd.Context(), date)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", out.WeekStart, out.Message)
			return nil
		}),
	}

	discard := &cobra.Command{
		Use:   "discard",
		Short: "Drop the local draft and reload from the backend",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			out, err := app.PlannerCLI.Discard(cmd.Context(), date)
			if err != nil {
				return err
			}
			printWeek(cmd.OutOrStdout(), out)
			return nil
		}),
	}

	week.AddCommand(addTask, updateTask, save, discard)
	return week
}

func printWeek(w io.Writer, week plannerdto.WeekOutput) {
	header := "week of " + week.WeekStart
	if week.Draft {
		header += " (unsaved draft)"
	}
	_, _ = fmt.Fprintln(w, header)
	for _, day := range week.Days {
		_, _ = fmt.Fprintf(w, "%s:\n", day.Label)
		if len(day.Tasks) == 0 {
			_, _ = fmt.Fprintln(w, "  -")
			continue
		}
		for _, t := range day.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			_, _ = fmt.Fprintf(w, "  [%s] %s %s\t%s\n", mark, t.Time, t.Description, t.ID)
		}
	}
}

// ─── timer ───────────────────────────────────────────────────────────────────

func newTimerCmd(load loader) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Per-subject stopwatches"}

	timer.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the timer of every subject",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			board, names, err := syncBoard(cmd.Context(), app)
			if err != nil {
				return err
			}
			printBoard(cmd.OutOrStdout(), board, names)
			return nil
		}),
	})

	var startID string
	start := &cobra.Command{
		Use:   "start --subject-id <id>",
		Short: "Start a study session",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			if err := required("subject-id", startID); err != nil {
				return err
			}
			out, err := app.TimerCLI.Start(cmd.Context(), startID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timer started: %s\n", out.SubjectID)
			return nil
		}),
	}
	start.Flags().StringVar(&startID, "subject-id", "", "subject id")

	var stopID string
	stop := &cobra.Command{
		Use:   "stop --subject-id <id>",
		Short: "Stop the active session of a subject",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			if err := required("subject-id", stopID); err != nil {
				return err
			}
			out, err := app.TimerCLI.Stop(cmd.Context(), stopID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timer stopped: %s duration=%s\n", out.SubjectID, out.FormattedDuration)
			if out.SummaryRefreshed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "week total: %s\n", out.Summary.Total)
			}
			return nil
		}),
	}
	stop.Flags().StringVar(&stopID, "subject-id", "", "subject id")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print running timers every tick until interrupted",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			ctx, stopSignals := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stopSignals()
			_, names, err := syncBoard(ctx, app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			err = app.TimerCLI.Watch(ctx, func(board timerdto.BoardOutput) {
				var running []string
				for _, t := range board.Timers {
					if t.Active {
						running = append(running, fmt.Sprintf("%s %s", nameOr(names, t.SubjectID), t.Elapsed))
					}
				}
				if len(running) == 0 {
					_, _ = fmt.Fprintln(out, "no timers running")
					return
				}
				_, _ = fmt.Fprintln(out, strings.Join(running, " | "))
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		}),
	}

	timer.AddCommand(start, stop, watch)
	return timer
}

func syncBoard(ctx context.Context, app *bootstrap.App) (timerdto.BoardOutput, map[string]string, error) {
	subjects, err := app.SubjectCLI.ListSubjects(ctx)
	if err != nil {
		return timerdto.BoardOutput{}, nil, err
	}
	names := make(map[string]string, len(subjects))
	ids := make([]string, 0, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
		ids = append(ids, s.ID)
	}
	board, err := app.TimerCLI.Sync(ctx, ids)
	return board, names, err
}

func printBoard(w io.Writer, board timerdto.BoardOutput, names map[string]string) {
	for _, t := range board.Timers {
		state := "idle"
		if t.Active {
			state = "running"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.SubjectID, nameOr(names, t.SubjectID), state, t.Elapsed)
	}
	_, _ = fmt.Fprintf(w, "%d running\n", board.ActiveCount)
}

func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}

// ─── summary ─────────────────────────────────────────────────────────────────

func newSummaryCmd(load loader) *cobra.Command {
	summary := &cobra.Command{Use: "summary", Short: "Weekly study totals"}

	summary.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show time studied per subject this week",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			out, err := app.TimerCLI.Summary(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "week of %s\n", out.WeekStart.Format("2006-01-02"))
			for _, e := range out.Entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", e.SubjectName, e.Total)
			}
			_, _ = fmt.Fprintf(w, "total\t%s\n", out.Total)
			return nil
		}),
	})

	var dir string
	export := &cobra.Command{
		Use:   "export --dir <dir>",
		Short: "Write the weekly summary as a Markdown note",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			if err := required("dir", dir); err != nil {
				return err
			}
			out, err := app.TimerCLI.ExportSummary(cmd.Context(), dir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "summary written: %s\n", out.Path)
			return nil
		}),
	}
	export.Flags().StringVar(&dir, "dir", "", "notes directory")

	summary.AddCommand(export)
	return summary
}

// ─── plans ───────────────────────────────────────────────────────────────────

func newPlansCmd(load loader) *cobra.Command {
	plans := &cobra.Command{Use: "plans", Short: "Study plans"}

	plans.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List study plans",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			list, err := app.PlanCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plans")
				return nil
			}
			for _, p := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d subjects\n", p.ID, p.Name, len(p.SubjectIDs))
			}
			return nil
		}),
	})

	var planID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show one study plan",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			if err := required("id", planID); err != nil {
				return err
			}
			p, err := app.PlanCLI.Show(cmd.Context(), planID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nname: %s\ncreated: %s\nsubjects: %s\n", p.ID, p.Name, p.CreatedAt.Format("2006-01-02 15:04"), strings.Join(p.SubjectIDs, ", "))
			return nil
		}),
	}
	show.Flags().StringVar(&planID, "id", "", "plan id")

	var name string
	var subjectIDs []string
	create := &cobra.Command{
		Use:   "create --name <name> [--subject-ids a,b]",
		Short: "Create a study plan",
		RunE: withApp(load, func(cmd *cobra.Command, app *bootstrap.App, _ []string) error {
			p, err := app.PlanCLI.Create(cmd.Context(), name, subjectIDs)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plan created: %s (%s)\n", p.Name, p.ID)
			return nil
		}),
	}
	create.Flags().StringVar(&name, "name", "", "plan name")
	create.Flags().StringSliceVar(&subjectIDs, "subject-ids", nil, "subject ids")

	plans.AddCommand(show, create)
	return plans
}

// ─── devserver ───────────────────────────────────────────────────────────────

func newDevserverCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory backend for local use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			log, err := logging.New(logging.Options{Level: level, Console: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			gin.SetMode(gin.ReleaseMode)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := devserver.New(devserver.Options{
				Logger:   log.Named("devserver"),
				Registry: prometheus.NewRegistry(),
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8001", "listen address")
	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
