package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/remotesign/pkg/httpx"
	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type indexPage struct {
	DefaultHeader  string
	DefaultPayload string
}

type resultPage struct {
	SignedJWT string
}

// IndexHandler godoc
//
//	@Summary		Signing form
//	@Description	HTML page with an authenticate button and a form posting to /sign.
//	@Tags			Pages
//	@Produce		html
//	@Success		200	{string}	string	"HTML page"
//	@Router			/ [get].
func IndexHandler() http.HandlerFunc {
	page := indexPage{
		DefaultHeader:  `{"kid": ""}`,
		DefaultPayload: `{"iss": "", "sub": "", "iat": 0}`,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, http.StatusOK, "index.html", page)
	}
}

// renderPage executes a template into a buffer first so a template error
// never leaves a half-written page behind.
func renderPage(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render page", slog.String("template", name), slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
