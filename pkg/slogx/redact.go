package slogx

import (
	"log/slog"
	"net/http"
	"strings"
)

// Redacted replaces credential values in log output.
const Redacted = "[REDACTED]"

// SensitiveKeys are attribute keys whose values never reach a log sink.
var SensitiveKeys = map[string]struct{}{
	"access_token":   {},
	"api_key":        {},
	"authorization":  {},
	"client_secret":  {},
	"password":       {},
	"refresh_token":  {},
	"session_secret": {},
}

// SensitiveHeaders are HTTP headers redacted by RedactHeaders.
var SensitiveHeaders = map[string]struct{}{
	"Api-Key":             {},
	"Authorization":       {},
	"Cookie":              {},
	"Proxy-Authorization": {},
	"Set-Cookie":          {},
	"X-Api-Key":           {},
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if _, ok := SensitiveKeys[strings.ToLower(a.Key)]; !ok {
		return a
	}
	if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
		return a
	}
	return slog.String(a.Key, Redacted)
}

// RedactHeaders flattens h into a loggable map with credential headers masked.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		canonical := http.CanonicalHeaderKey(name)
		if _, ok := SensitiveHeaders[canonical]; ok {
			out[canonical] = Redacted
			continue
		}
		out[canonical] = strings.Join(values, ", ")
	}
	return out
}
