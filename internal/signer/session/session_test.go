package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/remotesign/internal/signer/session"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func newStore(t *testing.T, now time.Time) *session.Store {
	t.Helper()
	s, err := session.NewStore(secret, true)
	require.NoError(t, err)
	s.SetClock(func() time.Time { return now })
	return s
}

// roundTrip saves d and returns a request carrying the resulting cookie.
func roundTrip(t *testing.T, s *session.Store, d session.Data) (*http.Request, *http.Cookie) {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, d))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodPost, "/sign", nil)
	req.AddCookie(cookies[0])
	return req, cookies[0]
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newStore(t, now)

	d := session.Data{AccessToken: "tok", AcquiredAt: now, Expiry: now.Add(time.Hour)}
	req, cookie := roundTrip(t, s, d)

	require.Equal(t, session.CookieName, cookie.Name)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 3600, cookie.MaxAge)
	require.NotContains(t, cookie.Value, "tok")

	got, err := s.Load(req)
	require.NoError(t, err)
	require.Equal(t, "tok", got.AccessToken)
	require.True(t, got.Expiry.Equal(d.Expiry))
	require.True(t, got.AcquiredAt.Equal(now))
}

func TestSaveWithoutExpiryIsBrowserSession(t *testing.T) {
	t.Parallel()

	s := newStore(t, time.Now())
	req, cookie := roundTrip(t, s, session.Data{AccessToken: "tok", AcquiredAt: time.Now()})
	require.Zero(t, cookie.MaxAge)

	got, err := s.Load(req)
	require.NoError(t, err)
	require.True(t, got.Expiry.IsZero())
}

func TestSaveRejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := newStore(t, now)

	require.Error(t, s.Save(httptest.NewRecorder(), session.Data{}))
	require.Error(t, s.Save(httptest.NewRecorder(), session.Data{AccessToken: "tok", Expiry: now.Add(-time.Minute)}))
}

func TestLoadNoSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newStore(t, now)

	t.Run("no cookie", func(t *testing.T) {
		_, err := s.Load(httptest.NewRequest(http.MethodPost, "/sign", nil))
		require.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("garbage cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sign", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})
		_, err := s.Load(req)
		require.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := session.NewStore([]byte("a-completely-different-secret!!"), true)
		require.NoError(t, err)
		req, _ := roundTrip(t, other, session.Data{AccessToken: "tok"})
		_, err = s.Load(req)
		require.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("expired", func(t *testing.T) {
		req, _ := roundTrip(t, s, session.Data{AccessToken: "tok", Expiry: now.Add(time.Minute)})
		s2 := newStore(t, now.Add(2*time.Minute))
		_, err := s2.Load(req)
		require.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := newStore(t, time.Now())
	rec := httptest.NewRecorder()
	s.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, session.CookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestNewStoreRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := session.NewStore([]byte("short"), true)
	require.Error(t, err)
}
