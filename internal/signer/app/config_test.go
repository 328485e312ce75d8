package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testProfile = `token_endpoint: https://idp.example.com/oauth2/token
sign_endpoint: https://api.example.com/v1/signers/{signer_id}/sign
scopes:
  - sign
`

func writeProfile(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o600))
	return dir
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DIGIDENTITY_CLIENT_ID", "client")
	t.Setenv("DIGIDENTITY_CLIENT_SECRET", "secret")
	t.Setenv("DIGIDENTITY_API_KEY", "api-key")
	t.Setenv("DIGIDENTITY_SIGNER_ID", "signer-1")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_DIR", writeProfile(t, "preprod", testProfile))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "preprod", cfg.SignerEnvironment)
	require.Equal(t, "https://idp.example.com/oauth2/token", cfg.TokenURL)
	require.Equal(t, "https://api.example.com/v1/signers/{signer_id}/sign", cfg.SignURL)
	require.Equal(t, []string{"sign"}, cfg.Scopes)
	require.True(t, cfg.SessionCookieSecure)
	require.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_DIR", writeProfile(t, "prod", testProfile))
	t.Setenv("SIGNER_ENVIRONMENT", "prod")
	t.Setenv("SIGN_ENDPOINT", "https://other.example.com/sign")
	t.Setenv("TOKEN_SCOPES", "a  b")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("UPSTREAM_TIMEOUT", "5")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://idp.example.com/oauth2/token", cfg.TokenURL)
	require.Equal(t, "https://other.example.com/sign", cfg.SignURL)
	require.Equal(t, []string{"a", "b"}, cfg.Scopes)
	require.False(t, cfg.SessionCookieSecure)
	require.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, 9090, cfg.Port)
}

func TestLoadConfigWithoutProfile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_DIR", t.TempDir())

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrProfileNotFound)

	t.Setenv("TOKEN_ENDPOINT", "https://idp.example.com/token")
	t.Setenv("SIGN_ENDPOINT", "https://api.example.com/sign")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}

func validConfig() Config {
	return Config{
		ClientID:            "client",
		ClientSecret:        "secret",
		APIKey:              "api-key",
		SignerID:            "signer-1",
		SessionSecret:       "0123456789abcdef0123",
		SignerEnvironment:   "preprod",
		ConfigDir:           "config",
		TokenURL:            "https://idp.example.com/oauth2/token",
		SignURL:             "https://api.example.com/v1/signers/{signer_id}/sign",
		UpstreamTimeout:     time.Second,
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: time.Second,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())

	cases := map[string]func(*Config){
		"missing client id":     func(c *Config) { c.ClientID = "" },
		"missing client secret": func(c *Config) { c.ClientSecret = "" },
		"missing api key":       func(c *Config) { c.APIKey = "" },
		"short session secret":  func(c *Config) { c.SessionSecret = "short" },
		"signer id for url":     func(c *Config) { c.SignerID = "" },
		"relative token url":    func(c *Config) { c.TokenURL = "/token" },
		"unknown log format":    func(c *Config) { c.LogFormat = "xml" },
		"zero timeout":          func(c *Config) { c.UpstreamTimeout = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	t.Run("signer id optional without placeholder", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.SignerID = ""
		cfg.SignURL = "https://api.example.com/sign"
		require.NoError(t, cfg.Validate())
	})
}

func TestLoadProfileRejectsPathNames(t *testing.T) {
	t.Parallel()

	_, err := LoadProfile(t.TempDir(), "../etc/passwd")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrProfileNotFound)
}

func TestRepositoryProfiles(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"preprod", "prod"} {
		p, err := LoadProfile(filepath.Join("..", "..", "..", "config"), name)
		require.NoError(t, err, name)
		require.NotEmpty(t, p.TokenEndpoint, name)
		require.NotEmpty(t, p.SignEndpoint, name)
	}
}

func TestValidateClient(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SessionSecret = ""
	cfg.LogFormat = ""
	require.NoError(t, cfg.ValidateClient())

	cfg.APIKey = ""
	require.Error(t, cfg.ValidateClient())
}
