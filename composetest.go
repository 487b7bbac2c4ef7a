// Package composetest boots docker-compose-managed dependencies for an
// integration-test session, waits until each service is responsive, hands
// out service URIs, and tears everything down afterward.
package composetest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync/atomic"

	"github.com/fixturelab/composetest/internal/check"
	"github.com/fixturelab/composetest/internal/compose"
	"github.com/fixturelab/composetest/internal/config"
)

// Re-export config and check types and options for consumers.
type (
	Checker = check.Checker
	Option  = config.Option
)

var (
	WithComposeFile    = config.WithComposeFile
	WithProjectName    = config.WithProjectName
	WithComposeCommand = config.WithComposeCommand
	WithSetupArgs      = config.WithSetupArgs
	WithCleanupArgs    = config.WithCleanupArgs
	WithWaitTimeout    = config.WithWaitTimeout
	WithPause          = config.WithPause
	WithLogger         = config.WithLogger

	RedisCheck      = check.Redis
	TCPCheck        = check.TCP
	HTTPCheck       = check.HTTP
	GRPCHealthCheck = check.GRPCHealth
)

// Fixture manages one compose project for the duration of a test session.
// Create it in TestMain (or a suite setup), Start it once, and pass it by
// reference to the tests that need service addresses.
type Fixture struct {
	cfg     config.Config
	compose *compose.Executor
	log     *slog.Logger
	started atomic.Bool
}

// New creates a Fixture with the given options.
func New(opts ...Option) (*Fixture, error) {
	cfg, err := config.ApplyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Fixture{
		cfg:     cfg,
		compose: compose.NewExecutor(cfg.ComposeCommand, cfg.ComposeFile, cfg.ProjectName, cfg.Logger),
		log:     cfg.Logger,
	}, nil
}

// Started reports whether the compose project is up.
func (f *Fixture) Started() bool { return f.started.Load() }

// Start brings the compose project up. The cleanup command runs first so
// that containers left over from a previous, abruptly killed session are
// removed before the new ones start.
func (f *Fixture) Start(ctx context.Context) error {
	if _, err := f.compose.Execute(ctx, f.cfg.CleanupArgs); err != nil {
		return fmt.Errorf("pre-start cleanup: %w", err)
	}
	if _, err := f.compose.Execute(ctx, f.cfg.SetupArgs); err != nil {
		return err
	}
	f.started.Store(true)
	f.log.Info("compose project up",
		"project", f.cfg.ProjectName,
		"file", f.cfg.ComposeFile,
	)
	return nil
}

// Stop tears the compose project down. Safe to call even when Start never
// ran or failed partway.
func (f *Fixture) Stop(ctx context.Context) error {
	f.started.Store(false)
	if _, err := f.compose.Execute(ctx, f.cfg.CleanupArgs); err != nil {
		return err
	}
	f.log.Info("compose project down", "project", f.cfg.ProjectName)
	return nil
}

// Host returns the IP the compose-published ports are reachable on.
func (f *Fixture) Host() string {
	return compose.DockerHost()
}

// PortFor returns the host port published for service's containerPort.
func (f *Fixture) PortFor(ctx context.Context, service string, containerPort int) (int, error) {
	return f.compose.Port(ctx, service, containerPort)
}

// AddrFor returns host:port for service's published containerPort.
func (f *Fixture) AddrFor(ctx context.Context, service string, containerPort int) (string, error) {
	port, err := f.PortFor(ctx, service, containerPort)
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(f.Host(), strconv.Itoa(port)), nil
}

// WaitFor polls ready with the fixture's wait timeout and pause.
func (f *Fixture) WaitFor(ctx context.Context, ready CheckFunc) error {
	return WaitUntilReady(ctx, ready, f.cfg.WaitTimeout, f.cfg.Pause)
}

// RedisURI resolves the published address of a redis-compatible service,
// waits until it answers PING, and returns its redis:// URI. It works the
// same for redis itself and for protocol-compatible servers such as keydb.
func (f *Fixture) RedisURI(ctx context.Context, service string, containerPort int) (string, error) {
	addr, err := f.AddrFor(ctx, service, containerPort)
	if err != nil {
		return "", err
	}
	uri := "redis://" + addr
	if err := f.WaitFor(ctx, Probe(check.Redis(uri), f.log)); err != nil {
		return "", fmt.Errorf("service %q at %s: %w", service, uri, err)
	}
	return uri, nil
}
