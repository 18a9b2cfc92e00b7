package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const EnvPrefix = "INTERVIEW"

// Loader owns the viper instance and the current configuration.
type Loader struct {
	v    *viper.Viper
	mu   sync.RWMutex
	conf *Config
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeConsole)

	v.SetDefault("sessions.dir", "sessions")
	v.SetDefault("sessions.api_base_url", "")
	v.SetDefault("sessions.api_token", "")
	v.SetDefault("sessions.timeout", "30s")
	v.SetDefault("sessions.default_id", "")

	v.SetDefault("results.dir", "results")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true)

	v.SetDefault("runtime.auto_save_delay", "1500ms")
	v.SetDefault("runtime.saved_indicator_duration", "500ms")
	v.SetDefault("runtime.tick_interval", "1s")
	v.SetDefault("runtime.score_multiplier", 0.8)
	v.SetDefault("runtime.accumulate_time_spent", false)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.rate_limit", 30)
	v.SetDefault("telegram.rate_window", "1m")
	v.SetDefault("telegram.session_ttl", "24h")
	v.SetDefault("telegram.cleanup_interval", "1h")
}

// Load reads {projectRoot}/config/config.yaml if present, then applies
// INTERVIEW_* environment overrides on top of the defaults.
func Load(projectRoot string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix) // e.g., INTERVIEW_SESSIONS_DIR
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file is fine; defaults and env vars are used.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}

	return &Loader{v: v, conf: conf}, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := validateConfig(&conf); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &conf, nil
}

// Config returns the current configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.conf
}

// File returns the config file in use, or "" when running on defaults.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads the configuration when the file changes. An invalid
// reload is logged and the previous configuration stays active.
func (l *Loader) Watch(log *zap.Logger, onChange func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading", zap.String("file", e.Name))
		l.reload(log, onChange)
	})
	l.v.WatchConfig()
}

func (l *Loader) reload(log *zap.Logger, onChange func(*Config)) {
	conf, err := decode(l.v)
	if err != nil {
		log.Error("Error reloading configuration", zap.Error(err))
		return
	}

	l.mu.Lock()
	l.conf = conf
	l.mu.Unlock()

	if onChange != nil {
		onChange(conf)
	}
}

// validateConfig checks the configuration for values the app cannot run with.
func validateConfig(conf *Config) error {
	switch conf.Mode {
	case ModeConsole, ModeTelegram:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeConsole, ModeTelegram, conf.Mode)
	}

	if conf.Sessions.APIBaseURL == "" && conf.Sessions.Dir == "" {
		return fmt.Errorf("sessions.dir or sessions.api_base_url is required")
	}
	if conf.Sessions.Timeout < 0 {
		return fmt.Errorf("sessions.timeout cannot be negative")
	}

	if conf.Results.Dir == "" {
		return fmt.Errorf("results.dir is required")
	}

	if conf.Runtime.AutoSaveDelay < 0 || conf.Runtime.SavedIndicatorDuration < 0 || conf.Runtime.TickInterval < 0 {
		return fmt.Errorf("runtime durations cannot be negative")
	}
	if conf.Runtime.ScoreMultiplier < 0 {
		return fmt.Errorf("runtime.score_multiplier cannot be negative")
	}

	if conf.Mode == ModeTelegram {
		if conf.Telegram.Token == "" {
			return fmt.Errorf("telegram.token is required in telegram mode")
		}
		if conf.Telegram.RateLimit <= 0 {
			return fmt.Errorf("telegram.rate_limit must be greater than 0")
		}
	}

	return nil
}
