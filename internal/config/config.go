package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/wodboard/internal/generator"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// AuthConfig holds the admin API key required for creating WODs.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// SchedulerConfig controls the daily WOD job.
type SchedulerConfig struct {
	Enabled   bool            `yaml:"enabled"`
	Spec      string          `yaml:"spec"`
	Timezone  string          `yaml:"timezone"`
	Generator GeneratorConfig `yaml:"generator"`
}

// GeneratorConfig is the workout shape the scheduler asks for.
type GeneratorConfig struct {
	Type            string   `yaml:"type"`
	DurationMinutes int      `yaml:"duration_minutes"`
	Categories      []string `yaml:"categories"`
	MovementCount   int      `yaml:"movement_count"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix WODBOARD_ and underscore-separated paths:
//
//	WODBOARD_SERVER_HOST, WODBOARD_SERVER_PORT,
//	WODBOARD_DB_HOST, WODBOARD_DB_PORT, WODBOARD_DB_NAME,
//	WODBOARD_DB_USER, WODBOARD_DB_PASSWORD, WODBOARD_DB_SSLMODE,
//	WODBOARD_AUTH_API_KEY,
//	WODBOARD_TAILSCALE_ENABLED, WODBOARD_TAILSCALE_HOSTNAME,
//	WODBOARD_SCHEDULER_ENABLED, WODBOARD_SCHEDULER_SPEC, WODBOARD_SCHEDULER_TIMEZONE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WODBOARD_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WODBOARD_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WODBOARD_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("WODBOARD_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("WODBOARD_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("WODBOARD_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("WODBOARD_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("WODBOARD_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("WODBOARD_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("WODBOARD_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("WODBOARD_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("WODBOARD_SCHEDULER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scheduler.Enabled = b
		}
	}
	if v := os.Getenv("WODBOARD_SCHEDULER_SPEC"); v != "" {
		cfg.Scheduler.Spec = v
	}
	if v := os.Getenv("WODBOARD_SCHEDULER_TIMEZONE"); v != "" {
		cfg.Scheduler.Timezone = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "wodboard"
	}
	s := &cfg.Scheduler
	if s.Spec == "" {
		s.Spec = "0 5 0 * * *"
	}
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
	g := &s.Generator
	if g.Type == "" {
		g.Type = "FOR_TIME"
	}
	if g.DurationMinutes == 0 {
		g.DurationMinutes = 20
	}
	if len(g.Categories) == 0 {
		g.Categories = []string{string(generator.Weightlifting), string(generator.Gymnastics)}
	}
	if g.MovementCount == 0 {
		g.MovementCount = 3
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Scheduler.Enabled {
		g := c.Scheduler.Generator
		switch g.Type {
		case "FOR_TIME", "AMRAP", "EMOM":
		default:
			return fmt.Errorf("scheduler.generator.type %q must be FOR_TIME, AMRAP or EMOM", g.Type)
		}
		if g.DurationMinutes < 1 || g.MovementCount < 1 {
			return fmt.Errorf("scheduler.generator duration_minutes and movement_count must be positive")
		}
		if len(g.Categories) == 0 {
			return fmt.Errorf("scheduler.generator.categories must name at least one category")
		}
		for _, c := range g.Categories {
			if !generator.Category(c).Valid() {
				return fmt.Errorf("scheduler.generator.categories: unknown category %q", c)
			}
		}
	}
	return nil
}
