package service

import "errors"

var (
	ErrAuthenticationFailed     = errors.New("authentication_failed")
	ErrNotAuthenticated         = errors.New("not_authenticated")
	ErrInvalidRequestFormat     = errors.New("invalid_request_format")
	ErrConfiguration            = errors.New("configuration_error")
	ErrSigningFailed            = errors.New("signing_failed")
	ErrMalformedSigningResponse = errors.New("malformed_signing_response")
)

// Sign outcomes as reported to the Recorder.
const (
	ResultSuccess           = "success"
	ResultNotAuthenticated  = "not_authenticated"
	ResultInvalidRequest    = "invalid_request"
	ResultConfiguration     = "configuration_error"
	ResultSigningFailed     = "signing_failed"
	ResultMalformedResponse = "malformed_response"
	ResultInternal          = "internal_error"
)

// resultOf maps a Sign error to its outcome label.
func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, ErrNotAuthenticated):
		return ResultNotAuthenticated
	case errors.Is(err, ErrInvalidRequestFormat):
		return ResultInvalidRequest
	case errors.Is(err, ErrConfiguration):
		return ResultConfiguration
	case errors.Is(err, ErrMalformedSigningResponse):
		return ResultMalformedResponse
	case errors.Is(err, ErrSigningFailed):
		return ResultSigningFailed
	default:
		return ResultInternal
	}
}
