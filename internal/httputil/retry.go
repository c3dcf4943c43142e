// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RetryDelay is the fixed pause before the single retry on a throttled
// response. Tests override this to avoid real sleeps.
var RetryDelay = 700 * time.Millisecond

// throttled reports whether the status indicates rate limiting or
// temporary unavailability.
func throttled(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and, on HTTP 429 or 503, retries
// exactly once after a fixed delay. There is no backoff and no retry
// budget beyond one: if the retried call is also throttled, its response
// is returned as-is for the caller to inspect. Transport-level failures
// are never retried. On a throttle the response body is drained and
// closed before sleeping; if the context is cancelled during the wait the
// function returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	attempt, err := cloneRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(attempt)
	if err != nil {
		return nil, err
	}
	if !throttled(resp.StatusCode) {
		return resp, nil
	}

	// Drain and close the body before retrying.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(RetryDelay):
	}

	attempt, err = cloneRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return client.Do(attempt)
}

// cloneRequest clones req with ctx and rewinds the body so the clone can
// be sent even after the original attempt consumed it.
func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	clone := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}
