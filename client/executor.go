// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultInterval spaces requests so that a bot stays well inside the platform's global rate limit.
	DefaultInterval = 1200 * time.Millisecond
	DefaultBurst    = 1
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Executor sends a request on behalf of an APIClient. Implementations decide when the request may go out.
type Executor interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

var _ Executor = &RateLimitedExecutor{}

// RateLimitedExecutor waits on a token bucket before handing each request to its HTTPClient.
type RateLimitedExecutor struct {
	http    HTTPClient
	limiter *rate.Limiter
}

// NewRateLimitedExecutor allows one request per interval with the given burst. A non-positive interval
// disables limiting.
func NewRateLimitedExecutor(c HTTPClient, interval time.Duration, burst int) *RateLimitedExecutor {
	if c == nil {
		c = http.DefaultClient
	}
	if burst < 1 {
		burst = DefaultBurst
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimitedExecutor{
		http:    c,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (e *RateLimitedExecutor) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return e.http.Do(req.WithContext(ctx))
}
