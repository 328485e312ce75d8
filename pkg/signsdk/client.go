package signsdk

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

// DefaultTimeout bounds each upstream call when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// SignerIDPlaceholder is substituted in Config.SignURL.
const SignerIDPlaceholder = "{signer_id}"

// Config holds the provider endpoints and credentials.
type Config struct {
	TokenURL     string
	SignURL      string
	ClientID     string
	ClientSecret string
	APIKey       string
	SignerID     string
	Scopes       []string
	Timeout      time.Duration
}

// Client talks to the identity provider and the signing API.
type Client struct {
	cfg        Config
	HTTPClient *http.Client
}

// NewClient creates a client whose HTTP traffic is logged through slogx.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: slogx.NewTransport("signing-provider", nil),
		},
	}
}

// SignURL is the signing endpoint with the signer id filled in.
func (c *Client) SignURL() string {
	return strings.ReplaceAll(c.cfg.SignURL, SignerIDPlaceholder, url.PathEscape(c.cfg.SignerID))
}

// TokenURL is the identity provider's token endpoint.
func (c *Client) TokenURL() string {
	return c.cfg.TokenURL
}
