package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/remotesign/internal/signer/service"
	"github.com/aussiebroadwan/remotesign/internal/signer/session"
	"github.com/aussiebroadwan/remotesign/pkg/httpx"
	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

// AuthenticateHandler serves POST /authenticate. It obtains an access token
// with the service credentials and keeps it in the caller's session.
type AuthenticateHandler struct {
	Service  *service.SigningService
	Sessions *session.Store
}

// ServeHTTP godoc
//
//	@Summary		Authenticate
//	@Description	Performs the OAuth2 client-credentials exchange with the identity provider and stores the
//	@Description	access token in an encrypted session cookie. Required once before /sign.
//	@Tags			Signing
//	@Produce		json
//	@Success		200	{object}	AuthenticateResponse	"success"
//	@Failure		401	{object}	AuthenticateResponse	"success=false, error"
//	@Failure		429	{object}	httpx.ErrorResponse		"rate limited"
//	@Failure		500	{object}	AuthenticateResponse	"success=false, error"
//	@Header			200	{string}	Set-Cookie				"remotesign_session"
//	@Router			/authenticate [post].
func (h *AuthenticateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tok, err := h.Service.Authenticate(ctx)
	if err != nil {
		httpx.WriteJSON(w, http.StatusUnauthorized, AuthenticateResponse{Error: "Authentication failed"})
		return
	}

	err = h.Sessions.Save(w, session.Data{
		AccessToken: tok.AccessToken,
		AcquiredAt:  tok.AcquiredAt,
		Expiry:      tok.Expiry,
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to store session", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, AuthenticateResponse{Error: "Internal server error"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AuthenticateResponse{Success: true})
}
