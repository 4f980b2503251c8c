// Package currency serves exchange rates for the property price converter.
package currency

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"zawamu/observability"
)

// Table is an exchange-rate table keyed by ISO currency code, relative to Base.
type Table struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	Fallback  bool               `json:"fallback"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

var ErrNoRates = errors.New("currency: response carried no rates")

type Client struct {
	url string
	hc  *http.Client
	rl  *rate.Limiter
}

func NewClient(url string, rps int) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		url: url,
		hc:  &http.Client{Timeout: 20 * time.Second},
		rl:  rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Fetch downloads the latest table. Transient 5xx and 429 responses are
// retried twice with backoff.
func (c *Client) Fetch(ctx context.Context) (Table, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return Table{}, err
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		start := time.Now()
		t, status, err := c.fetchOnce(ctx)
		observability.ObserveExternal("exchangerate", "latest", status, time.Since(start))
		if err == nil {
			return t, nil
		}
		lastErr = err
		if !retryable(status) || ctx.Err() != nil {
			break
		}
		if i < 2 && !sleepCtx(ctx, backoff(i)) {
			break
		}
	}
	if ctx.Err() != nil {
		return Table{}, ctx.Err()
	}
	return Table{}, lastErr
}

func (c *Client) fetchOnce(ctx context.Context) (Table, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Table{}, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "zawamu-api/1.0")

	resp, err := c.hc.Do(req)
	if err != nil {
		// 0 marks a network error and is retried
		return Table{}, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Table{}, resp.StatusCode, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var body struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Table{}, resp.StatusCode, fmt.Errorf("decode rates: %w", err)
	}
	if len(body.Rates) == 0 {
		return Table{}, resp.StatusCode, ErrNoRates
	}
	if body.Base == "" {
		body.Base = "USD"
	}
	return Table{Base: body.Base, Rates: body.Rates, FetchedAt: time.Now().UTC()}, resp.StatusCode, nil
}

func retryable(status int) bool {
	switch status {
	case 0, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoff doubles from 200ms with up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(0.5*float64(b[0])/255.0*float64(base))
}
