package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"landlord_rep/internal/adapters/observability"
	"landlord_rep/internal/domain"
)

const (
	service     = "reports"
	maxAttempts = 4
	maxBody     = 1 << 20
)

// Client talks to the public-records open-data API.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("reports base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrNotFound     = fmt.Errorf("reports: %w", domain.ErrNotFound)
	ErrUnauthorized = fmt.Errorf("reports: unauthorized: %w", domain.ErrForbidden)
	ErrForbidden    = fmt.Errorf("reports: %w", domain.ErrForbidden)
)

// GetReport returns the raw report payload for a landlord. Datasets that
// wrap the record as {"data": {...}} are unwrapped.
func (c *Client) GetReport(ctx context.Context, landlordID string) (map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/landlords/%s/report", c.base, url.PathEscape(landlordID))

	var last error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		r, err := c.fetch(ctx, u)
		if err == nil && r.status == http.StatusOK {
			return decodeReport(r.body)
		}
		retry := err != nil
		if err == nil {
			retry, err = statusError(r.status, r.body)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retry {
			return nil, err
		}
		last = err
		if attempt == maxAttempts-1 {
			break
		}
		delay := r.retryAfter
		if delay == 0 {
			delay = backoff(attempt)
		}
		if !pause(ctx, delay) {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("reports: %d attempts: %w", maxAttempts, last)
}

// response is one drained reply from the report endpoint.
type response struct {
	status     int
	body       []byte
	retryAfter time.Duration
}

// fetch issues a single GET and drains the body.
func (c *Client) fetch(ctx context.Context, u string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return response{}, err
	}
	if c.key != "" {
		req.Header.Set("X-App-Token", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "landlord-rep/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, "report", 0, time.Since(start))
		return response{}, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	observability.ObserveExternal(service, "report", resp.StatusCode, time.Since(start))
	if err != nil {
		return response{}, err
	}
	return response{
		status:     resp.StatusCode,
		body:       b,
		retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}, nil
}

func decodeReport(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if inner, ok := out["data"].(map[string]any); ok {
		return inner, nil
	}
	return out, nil
}

// statusError maps a non-200 status to an error and reports whether another
// attempt may succeed.
func statusError(status int, body []byte) (bool, error) {
	switch status {
	case http.StatusNoContent, http.StatusNotFound:
		return false, ErrNotFound
	case http.StatusUnauthorized:
		return false, ErrUnauthorized
	case http.StatusForbidden:
		return false, ErrForbidden
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, fmt.Errorf("reports: remote %d", status)
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return false, fmt.Errorf("reports: bad status %d: %s", status, msg)
}

func pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// parseRetryAfter accepts delay-seconds or an HTTP-date; anything else is 0.
func parseRetryAfter(h string, now time.Time) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}

// backoff doubles from 200ms with up to 50% jitter.
func backoff(attempt int) time.Duration {
	base := (200 * time.Millisecond) << attempt
	return base + rand.N(base/2+1)
}
