package bootstrap_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studyplan/internal/bootstrap"
	"studyplan/internal/platform/config"
)

func testConfig(dataDir, backendURL string) config.Config {
	return config.Config{
		Backend: config.BackendConfig{URL: backendURL, Timeout: time.Second},
		DataDir: dataDir,
		Log:     config.LogConfig{Level: "info"},
		Timer:   config.TimerConfig{TickInterval: time.Second, SyncConcurrency: 2},
	}
}

func TestNewWiresAndCloses(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t.TempDir(), "http://localhost:8001")
	app, err := bootstrap.New(cfg, bootstrap.Options{})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if app.Registry == nil || app.Log == nil {
		t.Fatalf("app not fully wired: %+v", app)
	}
	if _, err := os.Stat(cfg.DraftDBPath()); err != nil {
		t.Fatalf("draft database not created: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestStartupFailuresAreFlushedToTheLog(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		url     string
		prepare func(cfg config.Config) error
		want    string
	}{
		{
			name: "relative backend url",
			url:  "localhost",
			want: "new backend client",
		},
		{
			name: "draft path is a directory",
			url:  "http://localhost:8001",
			prepare: func(cfg config.Config) error {
				return os.MkdirAll(cfg.DraftDBPath(), 0o755)
			},
			want: "new draft store",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(filepath.Join(t.TempDir(), "data"), tc.url)
			if tc.prepare != nil {
				if err := tc.prepare(cfg); err != nil {
					t.Fatalf("prepare: %v", err)
				}
			}
			app, err := bootstrap.New(cfg, bootstrap.Options{})
			if err == nil || app != nil {
				t.Fatalf("expected startup error, got app=%v err=%v", app, err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q must mention %q", err, tc.want)
			}
			raw, readErr := os.ReadFile(cfg.LogPath())
			if readErr != nil {
				t.Fatalf("read log: %v", readErr)
			}
			if !strings.Contains(string(raw), "startup failed") || !strings.Contains(string(raw), tc.want) {
				t.Fatalf("startup failure missing from log:\n%s", raw)
			}
		})
	}
}
