package check

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisCheck struct {
	url string
}

// Redis returns a Checker that opens a short-lived connection to the
// redis-compatible server at url (redis://host:port) and issues PING.
// A fresh client is dialed on every attempt so a restarting server is
// observed as soon as it accepts connections again.
func Redis(url string) Checker {
	return redisCheck{url: url}
}

func (r redisCheck) Check(ctx context.Context) error {
	opts, err := redis.ParseURL(r.url)
	if err != nil {
		return fmt.Errorf("parse redis url %q: %w", r.url, err)
	}
	client := redis.NewClient(opts)
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping %s: %w", r.url, err)
	}
	return nil
}
