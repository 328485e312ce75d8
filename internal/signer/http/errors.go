package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/remotesign/internal/signer/service"
	"github.com/aussiebroadwan/remotesign/pkg/httpx"
	"github.com/aussiebroadwan/remotesign/pkg/signsdk"
)

// writeSignError maps a SigningService.Sign error to its HTTP answer. The
// upstream status and body of a rejected signing call are passed through.
func writeSignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	case errors.Is(err, service.ErrInvalidRequestFormat):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON format", "")
	case errors.Is(err, service.ErrConfiguration):
		httpx.WriteError(w, http.StatusInternalServerError, "Signing certificate chain unavailable", "")
	case errors.Is(err, service.ErrMalformedSigningResponse):
		httpx.WriteError(w, http.StatusInternalServerError, "Invalid response format from signing service", "")
	case errors.Is(err, service.ErrSigningFailed):
		var apiErr *signsdk.APIError
		if errors.As(err, &apiErr) {
			httpx.WriteError(w, apiErr.StatusCode, "Signing failed", apiErr.Body)
			return
		}
		httpx.WriteError(w, http.StatusBadGateway, "Signing failed", "")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}
