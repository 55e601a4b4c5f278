package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"studyplan/internal/platform/validate"
)

const envPrefix = "STUDYPLAN"

type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	DataDir string        `mapstructure:"data_dir" validate:"required"`
	Log     LogConfig     `mapstructure:"log"`
	Timer   TimerConfig   `mapstructure:"timer"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type BackendConfig struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type TimerConfig struct {
	TickInterval    time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
	SyncConcurrency int           `mapstructure:"sync_concurrency" validate:"min=1"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Options selects where configuration comes from. Flags maps viper keys to
// flag names; unknown or nil flag sets are skipped.
type Options struct {
	ConfigFile string
	EnvFile    string
	Flags      *pflag.FlagSet
	FlagKeys   map[string]string
}

func (c Config) DraftDBPath() string {
	return filepath.Join(c.DataDir, "drafts.db")
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "logs", "studyplan.log")
}

func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range opts.FlagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return Config{}, err
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Backend.URL = strings.TrimRight(strings.TrimSpace(cfg.Backend.URL), "/")
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("timer.tick_interval", time.Second)
	v.SetDefault("timer.sync_concurrency", 8)
	v.SetDefault("metrics.addr", "")
}

// readConfigFile reads an explicit file strictly, and the default location
// only when it exists.
func readConfigFile(v *viper.Viper, explicit string) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", explicit, err)
		}
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(dir, "studyplan", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "studyplan")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".studyplan")
	}
	return filepath.Join(home, ".local", "share", "studyplan")
}
