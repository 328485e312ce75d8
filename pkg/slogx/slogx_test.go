package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/remotesign/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(buf *bytes.Buffer) context.Context {
	logger := slogx.New(slogx.Config{Service: "test", Env: "test", Level: "debug", Output: buf})
	return slogx.WithContext(context.Background(), logger)
}

func TestNewRedactsSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	ctx := newBufferedLogger(&buf)

	slogx.FromContext(ctx).Info("auth",
		"client_secret", "s3cr3t",
		"API_KEY", "key-123",
		"client_id", "my-client",
	)

	out := buf.String()
	require.NotContains(t, out, "s3cr3t")
	require.NotContains(t, out, "key-123")
	require.Contains(t, out, "my-client")
	require.Contains(t, out, slogx.Redacted)
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("api-key", "xyz")
	h.Set("Content-Type", "application/json")

	got := slogx.RedactHeaders(h)
	require.Equal(t, slogx.Redacted, got["Authorization"])
	require.Equal(t, slogx.Redacted, got["Api-Key"])
	require.Equal(t, "application/json", got["Content-Type"])
}

func TestTransportLogsFailedBodyAndKeepsIt(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"errors":[{"detail":"signer locked"}]}`)
	}))
	defer upstream.Close()

	var buf bytes.Buffer
	ctx := newBufferedLogger(&buf)

	client := &http.Client{Transport: slogx.NewTransport("signer", nil)}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, upstream.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer top-secret-token")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, `{"errors":[{"detail":"signer locked"}]}`, string(body))

	out := buf.String()
	require.NotContains(t, out, "top-secret-token")
	require.Contains(t, out, "signer locked")

	// Every line must be valid JSON from the default handler.
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		require.True(t, json.Valid([]byte(line)), line)
	}
}

func TestHTTPMiddlewareEchoesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "test", Output: &buf})

	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "req-42", rec.Header().Get(slogx.RequestIDHeader))
	require.Contains(t, buf.String(), `"req_id":"req-42"`)
	require.Contains(t, buf.String(), `"level":"WARN"`)
}
