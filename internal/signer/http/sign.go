package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/remotesign/internal/signer/service"
	"github.com/aussiebroadwan/remotesign/internal/signer/session"
	"github.com/aussiebroadwan/remotesign/pkg/httpx"
	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

// maxFormBytes bounds the sign form body.
const maxFormBytes = 1 << 20

// SignHandler serves POST /sign.
type SignHandler struct {
	Service  *service.SigningService
	Sessions *session.Store
}

// ServeHTTP godoc
//
//	@Summary		Sign a JWT
//	@Description	Builds a JWT from the supplied header and payload, forcing alg=RS256, typ=JWT and x5c to the
//	@Description	configured certificate chain, and has it signed remotely. Browsers (Accept: text/html) get a
//	@Description	result page instead of JSON.
//	@Tags			Signing
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json,html
//	@Param			jwt_header	formData	string				true	"JWT header as a JSON object"
//	@Param			jwt_body	formData	string				true	"JWT payload as a JSON object"
//	@Success		200			{object}	SignResponse		"signed_jwt"
//	@Failure		400			{object}	httpx.ErrorResponse	"Invalid JSON format"
//	@Failure		401			{object}	httpx.ErrorResponse	"Not authenticated"
//	@Failure		429			{object}	httpx.ErrorResponse	"rate limited"
//	@Failure		500			{object}	httpx.ErrorResponse	"configuration or internal error"
//	@Failure		502			{object}	httpx.ErrorResponse	"signing service unreachable"
//	@Router			/sign [post].
func (h *SignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		l.Info("unreadable sign form", slog.Any("error", err))
		writeSignError(w, service.ErrInvalidRequestFormat)
		return
	}

	var accessToken string
	if data, err := h.Sessions.Load(r); err == nil {
		accessToken = data.AccessToken
	} else {
		l.Debug("no usable session", slog.Any("error", err))
	}

	signed, err := h.Service.Sign(ctx, accessToken, r.PostForm.Get("jwt_header"), r.PostForm.Get("jwt_body"))
	if err != nil {
		writeSignError(w, err)
		return
	}

	if httpx.WantsHTML(r) {
		renderPage(w, r, http.StatusOK, "result.html", resultPage{SignedJWT: signed})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SignResponse{SignedJWT: signed})
}
