package http

import (
	"net/http"

	"github.com/aussiebroadwan/remotesign/internal/signer/session"
	"github.com/aussiebroadwan/remotesign/pkg/httpx"
)

// LogoutHandler serves POST /logout.
type LogoutHandler struct {
	Sessions *session.Store
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Drops the session cookie and with it the stored access token. Browsers are redirected to /.
//	@Tags			Signing
//	@Produce		json
//	@Success		200	{object}	AuthenticateResponse	"success"
//	@Success		303	"redirect to /"
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)

	if httpx.WantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, AuthenticateResponse{Success: true})
}
