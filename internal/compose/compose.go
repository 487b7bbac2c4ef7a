// Package compose drives the docker compose CLI for a single project:
// one compose file, one project name, subcommands executed against both.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type cliRunner struct{}

func (cliRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Executor runs compose subcommands scoped to a compose file and project name.
type Executor struct {
	command []string
	file    string
	project string
	runner  Runner
	log     *slog.Logger
}

// NewExecutor returns an Executor invoking command (e.g. "docker compose")
// with -f file and -p project prepended to every subcommand.
func NewExecutor(command []string, file, project string, log *slog.Logger) *Executor {
	return &Executor{
		command: command,
		file:    file,
		project: project,
		runner:  cliRunner{},
		log:     log,
	}
}

// WithRunner replaces the command runner. Tests use it to stub the CLI.
func (e *Executor) WithRunner(r Runner) *Executor {
	e.runner = r
	return e
}

// Execute runs one compose subcommand, e.g. "up --build -d". args is split
// on whitespace the way a shell would split an unquoted command line.
func (e *Executor) Execute(ctx context.Context, args string) ([]byte, error) {
	argv := append([]string{}, e.command...)
	argv = append(argv, "-f", e.file, "-p", e.project)
	argv = append(argv, strings.Fields(args)...)

	e.log.Debug("running compose command", "argv", strings.Join(argv, " "))
	out, err := e.runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return out, fmt.Errorf("compose %s: %w: %s", args, err, bytes.TrimSpace(out))
	}
	return out, nil
}

// Port returns the host port published for service's containerPort, as
// reported by the compose "port" subcommand (output like "0.0.0.0:49153").
func (e *Executor) Port(ctx context.Context, service string, containerPort int) (int, error) {
	out, err := e.Execute(ctx, fmt.Sprintf("port %s %d", service, containerPort))
	if err != nil {
		return 0, err
	}
	// With both IPv4 and IPv6 bindings the first line is the IPv4 one.
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return 0, fmt.Errorf("no published port for %s:%d (output %q)", service, containerPort, line)
	}
	port, err := strconv.Atoi(strings.TrimSpace(line[idx+1:]))
	if err != nil {
		return 0, fmt.Errorf("parse published port for %s:%d from %q: %w", service, containerPort, line, err)
	}
	return port, nil
}

// DockerHost returns the IP tests should connect to: the host part of
// DOCKER_HOST when it points at a remote tcp daemon, 127.0.0.1 otherwise.
func DockerHost() string {
	raw := os.Getenv("DOCKER_HOST")
	if raw == "" {
		return "127.0.0.1"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "tcp" || u.Hostname() == "" {
		return "127.0.0.1"
	}
	return u.Hostname()
}
