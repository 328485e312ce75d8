// Package signsdktest runs an in-process identity provider and signing API
// for tests.
package signsdktest

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aussiebroadwan/remotesign/pkg/signsdk"
)

const (
	ClientID     = "test-client"
	ClientSecret = "test-secret"
	APIKey       = "test-api-key"
	SignerID     = "signer-1"
	AccessToken  = "test-access-token"

	TokenPath = "/oauth2/token"
	SignPath  = "/v1/signers/{signer_id}/sign"
)

// Server fakes both upstreams. Signatures are real RS256 signatures made with
// Key, wrapped at 64 columns the way some providers send them.
//
// Set TokenHandler or SignHandler before issuing requests to replace an
// endpoint, e.g. to answer with an error.
type Server struct {
	*httptest.Server

	Key          *rsa.PrivateKey
	ExpiresIn    int
	TokenHandler http.HandlerFunc
	SignHandler  http.HandlerFunc

	mu         sync.Mutex
	tokenCalls int
	signCalls  int
	hashes     []string
}

// NewServer starts a server on a loopback port and closes it with the test.
func NewServer(t testing.TB, key *rsa.PrivateKey) *Server {
	t.Helper()

	s := &Server{Key: key, ExpiresIn: 3600}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+TokenPath, s.handleToken)
	mux.HandleFunc("POST "+SignPath, s.handleSign)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Server.Close)

	return s
}

// Config points a signsdk client at this server.
func (s *Server) Config() signsdk.Config {
	return s.ConfigFor(s.URL)
}

// ConfigFor is Config with a different base URL, e.g. one reachable from
// inside a container.
func (s *Server) ConfigFor(baseURL string) signsdk.Config {
	return signsdk.Config{
		TokenURL:     baseURL + TokenPath,
		SignURL:      baseURL + SignPath,
		ClientID:     ClientID,
		ClientSecret: ClientSecret,
		APIKey:       APIKey,
		SignerID:     SignerID,
	}
}

// Port is the loopback port the server listens on.
func (s *Server) Port() int {
	return s.Listener.Addr().(*net.TCPAddr).Port
}

// TokenCalls reports how many token requests reached the server.
func (s *Server) TokenCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenCalls
}

// SignCalls reports how many sign requests reached the server.
func (s *Server) SignCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signCalls
}

// Hashes returns every hash_to_sign received, in order.
func (s *Server) Hashes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.hashes...)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.tokenCalls++
	s.mu.Unlock()

	if s.TokenHandler != nil {
		s.TokenHandler(w, r)
		return
	}

	id, secret, ok := r.BasicAuth()
	if !ok || id != ClientID || secret != ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": AccessToken,
		"token_type":   "Bearer",
		"expires_in":   s.ExpiresIn,
	})
}

func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.signCalls++
	s.mu.Unlock()

	if s.SignHandler != nil {
		s.SignHandler(w, r)
		return
	}

	if r.PathValue("signer_id") != SignerID {
		writeAPIError(w, http.StatusNotFound, "unknown signer")
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+AccessToken {
		writeAPIError(w, http.StatusUnauthorized, "invalid access token")
		return
	}
	if r.Header.Get("Api-Key") != APIKey {
		writeAPIError(w, http.StatusForbidden, "invalid api key")
		return
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), signsdk.ContentTypeJSONAPI) {
		writeAPIError(w, http.StatusUnsupportedMediaType, "expected "+signsdk.ContentTypeJSONAPI)
		return
	}

	var req signsdk.SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid body")
		return
	}

	hashHex := req.Data.Attributes.HashToSign
	digest, err := hex.DecodeString(hashHex)
	if err != nil || len(digest) != sha256.Size {
		writeAPIError(w, http.StatusUnprocessableEntity, "hash_to_sign must be a hex SHA-256 digest")
		return
	}

	s.mu.Lock()
	s.hashes = append(s.hashes, hashHex)
	s.mu.Unlock()

	sig, err := rsa.SignPKCS1v15(rand.Reader, s.Key, crypto.SHA256, digest)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", signsdk.ContentTypeJSONAPI)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{
			"type": "signature",
			"id":   hashHex,
			"attributes": map[string]any{
				"signature": Wrap(base64.StdEncoding.EncodeToString(sig), 64),
			},
		},
	})
}

// Wrap inserts a newline every width characters.
func Wrap(s string, width int) string {
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteByte('\n')
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}

func writeAPIError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", signsdk.ContentTypeJSONAPI)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]string{{
			"status": http.StatusText(status),
			"detail": detail,
		}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
