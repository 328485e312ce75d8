// Package signer holds the Swagger document for the remote signing gateway.
package signer

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/remotesign"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "HTML page with an authenticate button and a form posting to /sign.",
                "produces": ["text/html"],
                "tags": ["Pages"],
                "summary": "Signing form",
                "responses": {
                    "200": {
                        "description": "HTML page",
                        "schema": {"type": "string"}
                    }
                }
            }
        },
        "/authenticate": {
            "post": {
                "description": "Performs the OAuth2 client-credentials exchange with the identity provider and stores the\naccess token in an encrypted session cookie. Required once before /sign.",
                "produces": ["application/json"],
                "tags": ["Signing"],
                "summary": "Authenticate",
                "responses": {
                    "200": {
                        "description": "success",
                        "schema": {"$ref": "#/definitions/http.AuthenticateResponse"},
                        "headers": {
                            "Set-Cookie": {"type": "string", "description": "remotesign_session"}
                        }
                    },
                    "401": {
                        "description": "success=false, error",
                        "schema": {"$ref": "#/definitions/http.AuthenticateResponse"}
                    },
                    "429": {
                        "description": "rate limited",
                        "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}
                    },
                    "500": {
                        "description": "success=false, error",
                        "schema": {"$ref": "#/definitions/http.AuthenticateResponse"}
                    }
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process serves.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    }
                }
            }
        },
        "/logout": {
            "post": {
                "description": "Drops the session cookie and with it the stored access token. Browsers are redirected to /.",
                "produces": ["application/json"],
                "tags": ["Signing"],
                "summary": "Log out",
                "responses": {
                    "200": {
                        "description": "success",
                        "schema": {"$ref": "#/definitions/http.AuthenticateResponse"}
                    },
                    "303": {"description": "redirect to /"}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe. Loads and parses the certificate chain and checks that both upstream\nendpoints are configured. The upstreams themselves are not called.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    },
                    "503": {
                        "description": "status, uptime, version, checks - service not ready",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    }
                }
            }
        },
        "/sign": {
            "post": {
                "description": "Builds a JWT from the supplied header and payload, forcing alg=RS256, typ=JWT and x5c to the\nconfigured certificate chain, and has it signed remotely. Browsers (Accept: text/html) get a\nresult page instead of JSON.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json", "text/html"],
                "tags": ["Signing"],
                "summary": "Sign a JWT",
                "parameters": [
                    {
                        "type": "string",
                        "description": "JWT header as a JSON object",
                        "name": "jwt_header",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "JWT payload as a JSON object",
                        "name": "jwt_body",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "signed_jwt",
                        "schema": {"$ref": "#/definitions/http.SignResponse"}
                    },
                    "400": {
                        "description": "Invalid JSON format",
                        "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}
                    },
                    "401": {
                        "description": "Not authenticated",
                        "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}
                    },
                    "429": {
                        "description": "rate limited",
                        "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}
                    },
                    "500": {
                        "description": "configuration or internal error",
                        "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}
                    },
                    "502": {
                        "description": "signing service unreachable",
                        "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "http.AuthenticateResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "http.HealthChecks": {
            "type": "object",
            "properties": {
                "certificates": {"type": "string"},
                "endpoints": {"type": "string"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/http.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "http.SignResponse": {
            "type": "object",
            "properties": {
                "signed_jwt": {"type": "string"}
            }
        },
        "httpx.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Remote Signing Gateway API",
	Description:      "Builds JWTs that carry the configured X.509 chain in x5c and has them signed (RS256)\nby a remote signing service. Call /authenticate once per session, then /sign.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
