// Package session keeps the caller's access token in an encrypted cookie, so
// the server itself stays stateless.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/remotesign/pkg/cryptox"
)

// CookieName is the name of the session cookie.
const CookieName = "remotesign_session"

// ErrNoSession is returned by Load when the request carries no usable session.
var ErrNoSession = errors.New("session: no session")

// Data is what a session remembers.
type Data struct {
	AccessToken string    `json:"at"`
	AcquiredAt  time.Time `json:"iat"`
	Expiry      time.Time `json:"exp,omitzero"`
}

// Store reads and writes session cookies.
type Store struct {
	sealer *cryptox.Sealer
	secure bool
	now    func() time.Time
}

// NewStore creates a store keyed by secret. secure sets the cookie's Secure
// flag and should only be false for plain-HTTP development.
func NewStore(secret []byte, secure bool) (*Store, error) {
	sealer, err := cryptox.NewSealer(secret, "remotesign session v1")
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	return &Store{sealer: sealer, secure: secure, now: time.Now}, nil
}

// Save writes d to the response as a sealed cookie. A cookie for a token
// with a known expiry expires with it; otherwise it lasts for the browser
// session.
func (s *Store) Save(w http.ResponseWriter, d Data) error {
	if d.AccessToken == "" {
		return errors.New("session: empty access token")
	}

	maxAge := 0
	if !d.Expiry.IsZero() {
		remaining := d.Expiry.Sub(s.now())
		if remaining < time.Second {
			return errors.New("session: token already expired")
		}
		maxAge = int(remaining / time.Second)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	value, err := s.sealer.SealString(raw, []byte(CookieName))
	if err != nil {
		return fmt.Errorf("session: seal: %w", err)
	}

	http.SetCookie(w, s.cookie(value, maxAge))
	return nil
}

// Load returns the session carried by r. Missing, undecryptable and expired
// sessions all yield ErrNoSession.
func (s *Store) Load(r *http.Request) (Data, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Data{}, ErrNoSession
	}

	raw, err := s.sealer.OpenString(c.Value, []byte(CookieName))
	if err != nil {
		return Data{}, fmt.Errorf("%w: %w", ErrNoSession, err)
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("%w: decode: %w", ErrNoSession, err)
	}
	if d.AccessToken == "" {
		return Data{}, ErrNoSession
	}
	if !d.Expiry.IsZero() && !s.now().Before(d.Expiry) {
		return Data{}, fmt.Errorf("%w: token expired", ErrNoSession)
	}

	return d, nil
}

// Clear deletes the session cookie.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
