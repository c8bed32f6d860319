// Session HTTP handlers.
//
// This file exposes REST endpoints for the session resource:
//   - POST   /session   (sign-in callback from the identity provider)
//   - DELETE /session   (sign-out)
//   - GET    /session   (current session state and gate decision)
//
// Handlers are transport-thin: they validate input, call the composed
// application core, and translate results into HTTP responses.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tverros/go-jobtrack-backend/internal/app"
	"github.com/tverros/go-jobtrack-backend/internal/session"
)

//
// Handler wiring
//

// Handlers groups HTTP endpoints for sessions, records, filters, and tasks.
// It depends on the composed application core; the DB handle is used only
// for transport-level conditional responses (ETag) and idempotency records.
type Handlers struct {
	app            *app.App
	db             *gorm.DB
	idempotencyTTL time.Duration
}

// New constructs a Handlers instance bound to the application core.
func New(a *app.App, db *gorm.DB, idempotencyTTL time.Duration) *Handlers {
	if idempotencyTTL <= 0 {
		idempotencyTTL = 24 * time.Hour
	}
	return &Handlers{app: a, db: db, idempotencyTTL: idempotencyTTL}
}

//
// DTOs
//

// SignInRequest is the JSON payload delivered by the identity provider's
// sign-in callback.
type SignInRequest struct {
	// UserID is the resolved identity. Required.
	UserID string `json:"user_id" binding:"required" example:"u_8f4e21"`
	// AccessToken is the provider credential captured at sign-in; it is
	// stored for later mailbox-scan dispatches.
	AccessToken string `json:"access_token" example:"ya29.a0AfB..."`
}

// SessionResponse describes the current session state and the gate's verdict.
type SessionResponse struct {
	Status   session.Status   `json:"status" example:"present"`
	Identity string           `json:"identity,omitempty" example:"u_8f4e21"`
	Decision session.Decision `json:"decision" example:"allow"`
}

//
// Handlers
//

// SignIn godoc
// @ID          signIn
// @Summary     Resolve the session from a sign-in callback
// @Description Stores the provider credential and resolves the session to present,
// @Description which opens the live dashboard feed for the identity.
// @Tags        Session
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SignInRequest  true  "Sign-in callback payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /session [post]
func (h *Handlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id required")
		return
	}
	if err := h.app.SignIn(c.Request.Context(), strings.TrimSpace(req.UserID), req.AccessToken); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// SignOut godoc
// @ID          signOut
// @Summary     Sign out
// @Description Resolves the session to absent, closes the live feed, and clears
// @Description the stored credential. Idempotent.
// @Tags        Session
// @Produce     json
//
// @Success     204  {string} string "No Content"
// @Router      /session [delete]
func (h *Handlers) SignOut(c *gin.Context) {
	h.app.SignOut(c.Request.Context())
	noContent(c)
}

// GetSession godoc
// @ID          getSession
// @Summary     Current session state
// @Description Returns the tri-state session status and the gate decision
// @Description (pending, allow, or redirect).
// @Tags        Session
// @Produce     json
//
// @Success     200  {object} handlers.SessionResponse
// @Router      /session [get]
func (h *Handlers) GetSession(c *gin.Context) {
	st := h.app.Tracker.State()
	ok(c, http.StatusOK, SessionResponse{
		Status:   st.Status,
		Identity: st.Identity,
		Decision: session.Evaluate(st),
	})
}
