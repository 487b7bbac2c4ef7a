package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds Fixture configuration.
type Config struct {
	ComposeCommand []string
	ComposeFile    string
	ProjectName    string
	SetupArgs      string
	CleanupArgs    string
	WaitTimeout    time.Duration
	Pause          time.Duration
	Logger         *slog.Logger
}

func defaultConfig() Config {
	return Config{
		ComposeCommand: []string{"docker", "compose"},
		ProjectName:    "composetest",
		SetupArgs:      "up --build -d",
		CleanupArgs:    "down -v",
		WaitTimeout:    60 * time.Second,
		Pause:          100 * time.Millisecond,
	}
}

// Option configures a Fixture.
type Option func(*Config)

// WithComposeFile sets the path to the compose file. Required.
func WithComposeFile(path string) Option {
	return func(c *Config) {
		c.ComposeFile = path
	}
}

// WithProjectName sets the compose project name used to prefix containers.
// Pin a static name so a cleanup run can find containers left over from a
// previous, abruptly killed session.
func WithProjectName(name string) Option {
	return func(c *Config) {
		c.ProjectName = name
	}
}

// WithComposeCommand overrides the compose invocation, e.g.
// []string{"docker-compose"} for the legacy standalone binary.
func WithComposeCommand(command ...string) Option {
	return func(c *Config) {
		c.ComposeCommand = command
	}
}

// WithSetupArgs overrides the compose arguments run on Start.
func WithSetupArgs(args string) Option {
	return func(c *Config) {
		c.SetupArgs = args
	}
}

// WithCleanupArgs overrides the compose arguments run on Stop and before Start.
func WithCleanupArgs(args string) Option {
	return func(c *Config) {
		c.CleanupArgs = args
	}
}

// WithWaitTimeout sets how long readiness polling may take per service.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WaitTimeout = d
	}
}

// WithPause sets the fixed delay between readiness attempts.
func WithPause(d time.Duration) Option {
	return func(c *Config) {
		c.Pause = d
	}
}

// WithLogger sets the logger used for compose commands and readiness
// progress. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// ApplyOptions returns a Config with all opts applied, or an error if validation fails.
func ApplyOptions(opts []Option) (Config, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.ComposeFile == "" {
		return Config{}, fmt.Errorf("compose file is required: use WithComposeFile")
	}
	if cfg.ProjectName == "" {
		return Config{}, fmt.Errorf("project name must not be empty")
	}
	if len(cfg.ComposeCommand) == 0 {
		return Config{}, fmt.Errorf("compose command must not be empty")
	}
	if cfg.WaitTimeout < 0 {
		return Config{}, fmt.Errorf("invalid WaitTimeout %v: must be non-negative", cfg.WaitTimeout)
	}
	if cfg.Pause < 0 {
		return Config{}, fmt.Errorf("invalid Pause %v: must be non-negative", cfg.Pause)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg, nil
}
