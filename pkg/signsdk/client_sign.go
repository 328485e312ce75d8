package signsdk

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

// SignHash asks the signing API to sign a lowercase hex SHA-256 digest and
// returns the raw signature bytes.
func (c *Client) SignHash(ctx context.Context, accessToken, hashHex string) ([]byte, error) {
	body, err := json.Marshal(NewSignRequest(hashHex))
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.SignURL(), bytes.NewReader(body), map[string]string{
		"Authorization": "Bearer " + accessToken,
		"Api-Key":       c.cfg.APIKey,
		"Content-Type":  ContentTypeJSONAPI,
		"Accept":        ContentTypeJSONAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	raw, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		})
	}

	var out SignResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if out.Data == nil || out.Data.Attributes == nil || out.Data.Attributes.Signature == nil {
		return nil, fmt.Errorf("%w: missing data.attributes.signature", ErrMalformedResponse)
	}

	sig, err := DecodeSignature(*out.Data.Attributes.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return sig, nil
}

// DecodeSignature strips whitespace, including the line breaks some signers
// wrap their output with, and decodes standard base64.
func DecodeSignature(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return nil, errors.New("empty signature")
	}

	sig, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("signature is not base64: %w", err)
	}
	return sig, nil
}
