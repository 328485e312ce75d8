package jwtx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidJSON covers every way a caller fragment can fail to be a JSON object.
var ErrInvalidJSON = errors.New("jwtx: invalid JSON object")

// ParseObject decodes a caller-supplied header or payload. Number literals
// are kept verbatim (json.Number) so they serialize exactly as sent.
func ParseObject(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidJSON)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: null", ErrInvalidJSON)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidJSON)
	}

	return obj, nil
}
