// Package demoapp is the minimal application exercised by the integration
// suite: it connects to a redis-compatible server and reports the output of
// the INFO command.
package demoapp

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// App talks to the redis-compatible server at StorageURI.
type App struct {
	StorageURI string
}

// Info opens a connection, issues INFO, and returns the reply as key/value
// pairs. The connection is closed before returning.
func (a App) Info(ctx context.Context) (map[string]string, error) {
	opts, err := redis.ParseURL(a.StorageURI)
	if err != nil {
		return nil, fmt.Errorf("parse storage uri %q: %w", a.StorageURI, err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	raw, err := client.Info(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("INFO on %s: %w", a.StorageURI, err)
	}
	return parseInfo(raw), nil
}

// parseInfo splits an INFO bulk reply into fields, skipping section headers
// ("# Server") and blank lines. Values keep any colons of their own.
func parseInfo(raw string) map[string]string {
	fields := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[key] = value
	}
	return fields
}
