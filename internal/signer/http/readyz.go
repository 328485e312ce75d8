package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/remotesign/pkg/certchain"
	"github.com/aussiebroadwan/remotesign/pkg/httpx"
)

// Readiness names what /readyz inspects.
type Readiness struct {
	ChainPath string
	TokenURL  string
	SignURL   string
}

// LeafExpiryRecorder is told the leaf certificate's NotAfter on every probe.
type LeafExpiryRecorder interface {
	SetLeafExpiry(t time.Time)
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe. Loads and parses the certificate chain and checks that both upstream
//	@Description	endpoints are configured. The upstreams themselves are not called.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	readiness Readiness,
	expiry LeafExpiryRecorder,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{
			Certificates: "ok",
			Endpoints:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := checkChain(r, readiness.ChainPath, expiry); err != nil {
			checks.Certificates = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if strings.TrimSpace(readiness.TokenURL) == "" || strings.TrimSpace(readiness.SignURL) == "" {
			checks.Endpoints = "error: token or sign endpoint not configured"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

func checkChain(r *http.Request, path string, expiry LeafExpiryRecorder) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("certificate chain path not configured")
	}

	chain := certchain.Load(r.Context(), path)
	if len(chain) == 0 {
		return fmt.Errorf("no certificates loaded")
	}

	summaries, err := certchain.Inspect(chain)
	if err != nil {
		return err
	}

	leaf := summaries[0]
	if expiry != nil {
		expiry.SetLeafExpiry(leaf.NotAfter)
	}
	if time.Now().After(leaf.NotAfter) {
		return fmt.Errorf("leaf certificate expired at %s", leaf.NotAfter.Format(time.RFC3339))
	}

	return nil
}
