package config

import "time"

const (
	ModeConsole  = "console"
	ModeTelegram = "telegram"
)

// Config is the top-level configuration structure.
type Config struct {
	Mode     string         `mapstructure:"mode"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Results  ResultsConfig  `mapstructure:"results"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Runtime  RuntimeConfig  `mapstructure:"runtime"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// SessionsConfig selects where session definitions come from. When
// APIBaseURL is set the HTTP API is used, otherwise Dir.
type SessionsConfig struct {
	Dir        string        `mapstructure:"dir"`
	APIBaseURL string        `mapstructure:"api_base_url"`
	APIToken   string        `mapstructure:"api_token"`
	Timeout    time.Duration `mapstructure:"timeout"`
	DefaultID  string        `mapstructure:"default_id"`
}

type ResultsConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// RuntimeConfig tunes the interview runtime timers.
type RuntimeConfig struct {
	AutoSaveDelay          time.Duration `mapstructure:"auto_save_delay"`
	SavedIndicatorDuration time.Duration `mapstructure:"saved_indicator_duration"`
	TickInterval           time.Duration `mapstructure:"tick_interval"`
	ScoreMultiplier        float64       `mapstructure:"score_multiplier"`
	AccumulateTimeSpent    bool          `mapstructure:"accumulate_time_spent"`
}

type TelegramConfig struct {
	Token           string        `mapstructure:"token"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// UsesAPI reports whether sessions are fetched over HTTP.
func (c *Config) UsesAPI() bool {
	return c.Sessions.APIBaseURL != ""
}
