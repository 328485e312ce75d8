package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/remotesign/pkg/httpx"
	"github.com/aussiebroadwan/remotesign/pkg/signsdk"
)

// Config is read from the environment, see LoadConfig for variable names.
type Config struct {
	// Provider credentials. SignerID is only required when SignURL contains
	// the {signer_id} placeholder.
	ClientID      string `validate:"required"`
	ClientSecret  string `validate:"required"`
	APIKey        string `validate:"required"`
	SignerID      string
	SessionSecret string `validate:"required,min=16"`

	// Read on every sign request, not checked at startup.
	CertificateChainPath string
	SessionCookieSecure  bool

	// Endpoint profile selection; explicit URLs override the profile.
	SignerEnvironment string        `validate:"required"`
	ConfigDir         string        `validate:"required"`
	TokenURL          string        `validate:"required,http_url"`
	SignURL           string        `validate:"required,http_url"`
	Scopes            []string      `validate:"omitempty,dive,required"`
	UpstreamTimeout   time.Duration `validate:"gt=0"`

	Env                 string
	LogLevel            string        `validate:"oneof=debug info warn warning error"`
	LogFormat           string        `validate:"oneof=json text"`
	Port                int           `validate:"min=0,max=65535"`
	ShutdownGracePeriod time.Duration `validate:"gt=0"`
}

// LoadConfig reads the environment and the endpoint profile it selects.
// Explicit TOKEN_ENDPOINT/SIGN_ENDPOINT win over the profile, and the profile
// may be absent when both are set.
func LoadConfig() (Config, error) {
	cfg := Config{
		ClientID:             os.Getenv("DIGIDENTITY_CLIENT_ID"),
		ClientSecret:         os.Getenv("DIGIDENTITY_CLIENT_SECRET"),
		APIKey:               os.Getenv("DIGIDENTITY_API_KEY"),
		SignerID:             os.Getenv("DIGIDENTITY_SIGNER_ID"),
		SessionSecret:        os.Getenv("SESSION_SECRET"),
		CertificateChainPath: os.Getenv("CERTIFICATE_CHAIN_PATH"),
		SessionCookieSecure:  getEnvBoolOrDefault("SESSION_COOKIE_SECURE", true),
		SignerEnvironment:    getEnvOrDefault("SIGNER_ENVIRONMENT", "preprod"),
		ConfigDir:            getEnvOrDefault("CONFIG_DIR", "config"),
		TokenURL:             os.Getenv("TOKEN_ENDPOINT"),
		SignURL:              os.Getenv("SIGN_ENDPOINT"),
		Scopes:               httpx.ParseSpaceDelimitedFields(os.Getenv("TOKEN_SCOPES")),
		UpstreamTimeout:      getEnvDurationOrDefault("UPSTREAM_TIMEOUT", signsdk.DefaultTimeout),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.TokenURL != "" && cfg.SignURL != "" {
		if cfg.Scopes == nil {
			// Scopes may still come from the profile if one exists.
			if p, err := LoadProfile(cfg.ConfigDir, cfg.SignerEnvironment); err == nil {
				cfg.Scopes = p.Scopes
			}
		}
		return cfg, nil
	}

	profile, err := LoadProfile(cfg.ConfigDir, cfg.SignerEnvironment)
	if err != nil {
		return cfg, err
	}
	cfg.applyProfile(profile)

	return cfg, nil
}

func (c *Config) applyProfile(p Profile) {
	if c.TokenURL == "" {
		c.TokenURL = p.TokenEndpoint
	}
	if c.SignURL == "" {
		c.SignURL = p.SignEndpoint
	}
	if c.Scopes == nil {
		c.Scopes = p.Scopes
	}
}

// Validate checks the configuration before anything is started.
func (c Config) Validate() error {
	validate := validator.New()
	validate.RegisterStructValidation(validateSignerID, Config{})

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateClient checks only what a one-shot signing client needs: no
// session secret, port or logging settings.
func (c Config) ValidateClient() error {
	validate := validator.New()
	validate.RegisterStructValidation(validateSignerID, Config{})

	err := validate.StructPartial(c,
		"ClientID", "ClientSecret", "APIKey", "TokenURL", "SignURL", "Scopes", "UpstreamTimeout",
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// validateSignerID requires a signer id when the sign URL asks for one.
func validateSignerID(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if strings.Contains(c.SignURL, signsdk.SignerIDPlaceholder) && strings.TrimSpace(c.SignerID) == "" {
		sl.ReportError(c.SignerID, "SignerID", "SignerID", "required_with_placeholder", "")
	}
}

// SDKConfig is the signsdk view of the configuration.
func (c Config) SDKConfig() signsdk.Config {
	return signsdk.Config{
		TokenURL:     c.TokenURL,
		SignURL:      c.SignURL,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		APIKey:       c.APIKey,
		SignerID:     c.SignerID,
		Scopes:       c.Scopes,
		Timeout:      c.UpstreamTimeout,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
