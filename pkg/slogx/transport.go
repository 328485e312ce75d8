package slogx

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// MaxLoggedBody caps how much of a failed upstream response body is logged.
const MaxLoggedBody = 4 << 10

// Transport logs each upstream exchange on the logger carried by the request
// context. Headers go through RedactHeaders, and response bodies are only
// logged for non-2xx answers.
type Transport struct {
	Base     http.RoundTripper
	Upstream string
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(upstream string, base http.RoundTripper) *Transport {
	return &Transport{Base: base, Upstream: upstream}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := FromContext(req.Context()).With("upstream", t.Upstream)
	start := time.Now()

	log.Info("upstream_request",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"headers", RedactHeaders(req.Header),
	)

	resp, err := t.base().RoundTrip(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.Error("upstream_request_failed", "error", err, "duration_ms", duration)
		return nil, err
	}

	attrs := []any{
		"status", resp.StatusCode,
		"duration_ms", duration,
		"headers", RedactHeaders(resp.Header),
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Info("upstream_response", attrs...)
		return resp, nil
	}

	// Peek at the body without consuming it for the caller.
	peek, _ := io.ReadAll(io.LimitReader(resp.Body, MaxLoggedBody))
	resp.Body = readCloser{
		Reader: io.MultiReader(bytes.NewReader(peek), resp.Body),
		Closer: resp.Body,
	}

	attrs = append(attrs, "body", string(peek))
	log.Warn("upstream_response", attrs...)
	return resp, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
