package signsdk

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthenticationFailed means the identity provider refused to issue a
	// token or answered with something that is not a token.
	ErrAuthenticationFailed = errors.New("signsdk: authentication failed")

	// ErrSigningFailed means the signing API answered non-2xx.
	ErrSigningFailed = errors.New("signsdk: signing failed")

	// ErrMalformedResponse means a 2xx answer did not follow the contract.
	ErrMalformedResponse = errors.New("signsdk: malformed signing response")
)

// APIError carries an upstream HTTP answer verbatim for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("signsdk: upstream returned HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
