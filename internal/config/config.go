package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "RATING_TRACKER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	logLevelEnv       = "LOG_LEVEL"
	httpAddrEnv       = "HTTP_ADDR"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	HTTP          HTTPConfig         `yaml:"http"`
	Notifications NotificationConfig `yaml:"notifications"`
	Agencies      []AgencyConfig     `yaml:"agencies"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig points at the SQLite history file. Empty disables storage.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often feeds are polled and how long a snapshot
// stays fresh.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	CacheTTL time.Duration  `yaml:"cacheTtl"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// HTTPConfig covers both the outbound fetch client and the dashboard server.
type HTTPConfig struct {
	Addr      string        `yaml:"addr"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	Retries   int           `yaml:"retries"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// AgencyConfig describes a single rating agency with its scanner strategy.
type AgencyConfig struct {
	Name     string            `yaml:"name"`
	Scanner  string            `yaml:"scanner"`
	URL      string            `yaml:"url"`
	Limit    int               `yaml:"limit"`
	Disabled bool              `yaml:"disabled"`
	Options  map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if fileCfg, err := readFile(path); err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Agencies) == 0 {
		cfg.Agencies = defaultConfig().Agencies
	}

	return cfg
}

func readFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

// Validate rejects agency entries that cannot be scanned.
func (c Config) Validate() error {
	seen := map[string]bool{}
	for i, agency := range c.Agencies {
		switch {
		case agency.Name == "":
			return fmt.Errorf("agency #%d: name is required", i)
		case seen[agency.Name]:
			return fmt.Errorf("agency %s: duplicate name", agency.Name)
		case agency.Scanner == "":
			return fmt.Errorf("agency %s: scanner is required", agency.Name)
		case agency.URL == "":
			return fmt.Errorf("agency %s: url is required", agency.Name)
		case agency.Limit < 0:
			return fmt.Errorf("agency %s: limit must not be negative", agency.Name)
		}
		seen[agency.Name] = true
	}
	if c.Scheduler.Interval < 0 || c.Scheduler.CacheTTL < 0 {
		return fmt.Errorf("scheduler durations must not be negative")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.Interval != 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.CacheTTL != 0 {
		base.Scheduler.CacheTTL = override.Scheduler.CacheTTL
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}
	if override.HTTP.Timeout != 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.Retries != 0 {
		base.HTTP.Retries = override.HTTP.Retries
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Agencies) > 0 {
		base.Agencies = override.Agencies
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Database:  DatabaseConfig{DSN: "rating-actions.db"},
		Scheduler: SchedulerConfig{Interval: 15 * time.Minute, CacheTTL: 15 * time.Minute, Timezone: defaultTimezone, location: tz},
		HTTP: HTTPConfig{
			Addr:    ":8080",
			Timeout: 20 * time.Second,
			Retries: 2,
		},
		Agencies: []AgencyConfig{
			{Name: "CRISIL", Scanner: "rss", URL: "https://www.crisil.com/en/home/rss/press-releases.rss", Limit: 30},
			{Name: "CARE", Scanner: "rss", URL: "https://www.careratings.com/rss-feed-rationale.aspx", Limit: 30},
			{
				Name:     "ICRA",
				Scanner:  "html",
				URL:      "https://www.icra.in/Rationale/Index",
				Limit:    30,
				Disabled: true,
				Options: map[string]string{
					"item":  "table tbody tr",
					"title": "td a",
					"date":  "td:first-child",
				},
			},
			{
				Name:     "India Ratings",
				Scanner:  "html",
				URL:      "https://www.indiaratings.co.in/pressReleases",
				Limit:    30,
				Disabled: true,
				Options: map[string]string{
					"item":    ".press-release",
					"title":   "a",
					"summary": ".description",
					"date":    ".date",
				},
			},
		},
	}
}
