package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/simulator"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	User       string `yaml:"user"`
	Password   string `yaml:"-"` // Loaded from environment
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"ssl_mode"`
	Migrations string `yaml:"migrations"`
}

type SimulatorConfig struct {
	simulator.Config `yaml:",inline"`
	// Seed fixes the random source. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type Config struct {
	App struct {
		Name         string `yaml:"name"`
		Environment  string `yaml:"environment"`
		Port         int    `yaml:"port"`
		PlayoffTeams int    `yaml:"playoff_teams"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Simulator SimulatorConfig `yaml:"simulator"`
}

func defaults() Config {
	var cfg Config
	cfg.App.Name = "volleyball-league"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.PlayoffTeams = 4
	cfg.Database.Port = 5432
	cfg.Database.SSLMode = "disable"
	cfg.Database.Migrations = "migrations"
	cfg.Simulator.Config = simulator.DefaultConfig()
	return cfg
}

// Load reads the yaml file at configPath, then lets the .env file next to
// it and the process environment override the database settings.
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("USER_NAME"); v != "" {
		c.Database.User = v
	}
	c.Database.Password = os.Getenv("DB_PASSWORD")
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT must be a number: %w", err)
		}
		c.Database.Port = port
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("SSL_MODE"); v != "" {
		c.Database.SSLMode = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port <= 0 {
		return fmt.Errorf("app port is required")
	}
	switch c.App.PlayoffTeams {
	case 2, 4, 8, 16:
	default:
		return fmt.Errorf("playoff teams must be one of 2, 4, 8, 16, got %d", c.App.PlayoffTeams)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if err := c.Simulator.Validate(); err != nil {
		return fmt.Errorf("simulator: %w", err)
	}
	return nil
}

// IsDevelopment reports whether logs should go to a human readable console.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// DSN builds the postgres connection string lib/pq expects.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}
