package signsdk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsGrant requests an access token using the OAuth2
// client_credentials grant. Credentials travel in an HTTP Basic header.
//
// Each call performs a fresh exchange; nothing is cached or refreshed. Any
// failure, transport or HTTP, matches ErrAuthenticationFailed, and a non-2xx
// answer additionally carries an *APIError.
func (c *Client) ClientCredentialsGrant(ctx context.Context) (*Token, error) {
	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.cfg.TokenURL,
		Scopes:       c.cfg.Scopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)

	acquired := time.Now()
	tok, err := cc.Token(ctx)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && !isSuccess(re.Response.StatusCode) {
			return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, &APIError{
				StatusCode: re.Response.StatusCode,
				Body:       string(re.Body),
			})
		}
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	return &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
		Expiry:      tok.Expiry,
		AcquiredAt:  acquired,
	}, nil
}
