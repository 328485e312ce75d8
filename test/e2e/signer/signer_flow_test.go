package signer_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type signBody struct {
	SignedJWT string `json:"signed_jwt"`
	Error     string `json:"error"`
	Details   string `json:"details"`
}

// TestAuthenticateAndSign drives the whole flow against the container and
// verifies the result with the leaf certificate's public key.
func TestAuthenticateAndSign(t *testing.T) {
	s := setupStack(t, stackOptions{})
	browser := newBrowser(t)

	authenticate(t, browser, s)

	resp := postForm(t, browser, s.BaseURL+"/sign", url.Values{
		"jwt_header": {`{"kid":"e2e"}`},
		"jwt_body":   {`{"sub":"e2e-user","amount":12.50}`},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body signBody
	decode(t, resp, &body)
	require.NotEmpty(t, body.SignedJWT)

	leaf := s.Chain.Certs[0]
	token, err := jwt.Parse(body.SignedJWT, func(*jwt.Token) (any, error) {
		return leaf.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	require.True(t, token.Valid)

	require.Equal(t, "JWT", token.Header["typ"])
	require.Equal(t, "e2e", token.Header["kid"])
	x5c, ok := token.Header["x5c"].([]any)
	require.True(t, ok)
	require.Len(t, x5c, len(s.Chain.Certs))

	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	require.Equal(t, "e2e-user", sub)

	require.Equal(t, 1, s.Upstream.TokenCalls())
	require.Equal(t, 1, s.Upstream.SignCalls())
}

// TestSessionReusedAcrossSignings checks that one authentication serves
// several signatures.
func TestSessionReusedAcrossSignings(t *testing.T) {
	s := setupStack(t, stackOptions{})
	browser := newBrowser(t)

	authenticate(t, browser, s)

	for range 3 {
		resp := postForm(t, browser, s.BaseURL+"/sign", url.Values{
			"jwt_header": {`{}`},
			"jwt_body":   {`{"n":1}`},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	require.Equal(t, 1, s.Upstream.TokenCalls())
	require.Equal(t, 3, s.Upstream.SignCalls())
}

func TestSignWithoutSession(t *testing.T) {
	s := setupStack(t, stackOptions{})

	resp := postForm(t, newBrowser(t), s.BaseURL+"/sign", url.Values{
		"jwt_header": {`{}`},
		"jwt_body":   {`{}`},
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body signBody
	decode(t, resp, &body)
	require.Equal(t, "Not authenticated", body.Error)
	require.Zero(t, s.Upstream.SignCalls())
}

func TestSignRejectsInvalidJSON(t *testing.T) {
	s := setupStack(t, stackOptions{})
	browser := newBrowser(t)
	authenticate(t, browser, s)

	resp := postForm(t, browser, s.BaseURL+"/sign", url.Values{
		"jwt_header": {`{}`},
		"jwt_body":   {`not json`},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body signBody
	decode(t, resp, &body)
	require.Equal(t, "Invalid JSON format", body.Error)
	require.Zero(t, s.Upstream.SignCalls())
}

func TestSignWithoutCertificateChain(t *testing.T) {
	s := setupStack(t, stackOptions{withoutChain: true})
	browser := newBrowser(t)
	authenticate(t, browser, s)

	resp := postForm(t, browser, s.BaseURL+"/sign", url.Values{
		"jwt_header": {`{}`},
		"jwt_body":   {`{}`},
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Zero(t, s.Upstream.SignCalls())
}

func TestLogoutEndsSession(t *testing.T) {
	s := setupStack(t, stackOptions{})
	browser := newBrowser(t)
	authenticate(t, browser, s)

	resp := postForm(t, browser, s.BaseURL+"/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postForm(t, browser, s.BaseURL+"/sign", url.Values{
		"jwt_header": {`{}`},
		"jwt_body":   {`{}`},
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestAuthenticateRateLimit uses the production limits: the strict tier
// allows five attempts a minute per client.
func TestAuthenticateRateLimit(t *testing.T) {
	s := setupStack(t, stackOptions{defaultRateLimits: true})
	browser := newBrowser(t)

	for range 5 {
		authenticate(t, browser, s)
	}

	resp := postForm(t, browser, s.BaseURL+"/authenticate", nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
