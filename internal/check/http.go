package check

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

type httpCheck struct {
	url    string
	client *http.Client
}

// HTTP returns a Checker that issues GET url and treats any 2xx status
// as ready. Use it against health endpoints such as /ready or /live.
func HTTP(url string) Checker {
	return httpCheck{url: url, client: http.DefaultClient}
}

func (h httpCheck) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", h.url, err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", h.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s: status %d", h.url, resp.StatusCode)
	}
	return nil
}
