// Package handlers implements the public API endpoints.
//
// This file holds the response helpers every handler goes through. Success
// bodies are plain JSON of whatever the handler produced; failures always
// use the ErrorResponse envelope so clients can branch on a stable code
// instead of parsing messages:
//
//	HTTP/1.1 409 Conflict
//	{
//	  "request_id": "141add05-4415-4938-b5a1-17e0d3171aff",
//	  "code": "conflict",
//	  "message": "sync already in progress"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tverros/go-jobtrack-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope every failing endpoint returns.
// RequestID echoes X-Request-ID so a client report can be matched to the
// server log line; Code is one of the errors.go constants.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"conflict"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"sync already in progress"`
}

// fail writes the error envelope and aborts the chain. Server-side failures
// (5xx) additionally go to the request-scoped logger; 4xx are the client's
// problem and only show up in the access log.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail exposes fail to the router for NoRoute/NoMethod and guard responses.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
