package http

// AuthenticateResponse is the body of POST /authenticate.
type AuthenticateResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SignResponse is the JSON body of a successful POST /sign.
type SignResponse struct {
	SignedJWT string `json:"signed_jwt"`
}

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of what signing depends on.
type HealthChecks struct {
	Certificates string `json:"certificates"`
	Endpoints    string `json:"endpoints"`
}
