// Package transport provides HTTP round-trippers for the model service
// client.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// RateLimitedTransport retries requests that the model service rejects with
// 429, honoring the retry-after header. The request body is buffered so it
// can be replayed on retry.
type RateLimitedTransport struct {
	base http.RoundTripper
}

func WithRateLimiting(base http.RoundTripper) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimitedTransport{base: base}
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		if err := req.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return resp, err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if wait := retryAfter(resp.Header.Get("retry-after")); wait > 0 {
				if err := resp.Body.Close(); err != nil {
					return nil, fmt.Errorf("failed to close response body: %w", err)
				}

				log.Printf("Rate limited, waiting %s", wait)
				select {
				case <-req.Context().Done():
					return nil, req.Context().Err()
				case <-time.After(wait):
					continue
				}
			}
		}

		return resp, err
	}
}

// retryAfter parses a retry-after header value, which may be either a number
// of seconds or an HTTP date.
func retryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if retryTime, err := time.Parse(time.RFC1123, value); err == nil {
		return time.Until(retryTime)
	}
	return 0
}
