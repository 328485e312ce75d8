package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/remotesign/internal/signer/metrics"
	"github.com/aussiebroadwan/remotesign/internal/signer/service"
	"github.com/aussiebroadwan/remotesign/internal/signer/session"
	"github.com/aussiebroadwan/remotesign/pkg/httpx"
	"github.com/aussiebroadwan/remotesign/pkg/slogx"

	_ "github.com/aussiebroadwan/remotesign/api/signer" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	service      *service.SigningService
	sessions     *session.Store
	metrics      *metrics.Metrics
	readiness    Readiness
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

func NewRouter(
	svc *service.SigningService,
	sessions *session.Store,
	m *metrics.Metrics,
	readiness Readiness,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		service:      svc,
		sessions:     sessions,
		metrics:      m,
		readiness:    readiness,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSigning()
	r.registerPages()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Remote Signing Gateway API
//	@version		0.1.0
//	@description	Builds JWTs that carry the configured X.509 chain in x5c and has them signed (RS256)
//	@description	by a remote signing service. Call /authenticate once per session, then /sign.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/remotesign
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSigning() {
	// POST /authenticate - strict: each hit is an IdP exchange with our secret
	authenticateHandler := &AuthenticateHandler{Service: r.service, Sessions: r.sessions}
	r.Mux.Handle("POST /authenticate",
		httpx.Chain(authenticateHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	signHandler := &SignHandler{Service: r.service, Sessions: r.sessions}
	r.Mux.Handle("POST /sign",
		httpx.Chain(signHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	logoutHandler := &LogoutHandler{Sessions: r.sessions}
	r.Mux.Handle("POST /logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPages() {
	r.Mux.Handle("GET /{$}",
		httpx.Chain(IndexHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	var expiry LeafExpiryRecorder
	if r.metrics != nil {
		expiry = r.metrics
	}

	// Probes - lenient, monitoring may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.readiness, expiry),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
