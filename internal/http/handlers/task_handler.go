// Automation task HTTP handlers.
//
// This file exposes REST endpoints for the orchestrated background workflows:
//   - GET  /tasks             (both task states)
//   - POST /tasks/sync        (launch mailbox scan)
//   - POST /tasks/auto-apply  (launch auto-apply dispatch)
//
// Launches are single-flight: a second request while a task is running is
// rejected with 409 rather than queued. The handlers respond 202 with the
// task's state; completion is observed by polling GET /tasks or /dashboard.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
	"github.com/tverros/go-jobtrack-backend/internal/services"
)

//
// DTOs
//

// TaskResponse reports one task's lifecycle state after a launch.
type TaskResponse struct {
	Kind  domain.TaskKind  `json:"kind" example:"sync"`
	State domain.TaskState `json:"state"`
}

//
// Handlers
//

// ListTasks godoc
// @ID          listTasks
// @Summary     Current task states
// @Description Returns the lifecycle state of every orchestrated task.
// @Tags        Tasks
// @Produce     json
//
// @Success     200  {object} map[string]domain.TaskState
// @Router      /tasks [get]
func (h *Handlers) ListTasks(c *gin.Context) {
	ok(c, http.StatusOK, h.app.Orchestrator.States())
}

// StartSync godoc
// @ID          startSync
// @Summary     Launch a mailbox scan
// @Description Dispatches the mailbox-scan service with the stored credential
// @Description for the current identity. Rejected with 409 while already running.
// @Tags        Tasks
// @Produce     json
//
// @Success     202  {object} handlers.TaskResponse
// @Failure     401  {object} handlers.ErrorResponse "No session or no stored credential"
// @Failure     409  {object} handlers.ErrorResponse "Scan already in progress"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tasks/sync [post]
func (h *Handlers) StartSync(c *gin.Context) {
	if err := h.app.StartSync(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "sign in required")
		case errors.Is(err, services.ErrMissingCredential):
			fail(c, http.StatusUnauthorized, ErrCodeMissingCredential, "no stored credential; sign in again")
		case errors.Is(err, services.ErrAlreadyInProgress):
			fail(c, http.StatusConflict, ErrCodeConflict, "sync already in progress")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusAccepted, TaskResponse{
		Kind:  domain.TaskSync,
		State: h.app.Orchestrator.State(domain.TaskSync),
	})
}

// StartAutoApply godoc
// @ID          startAutoApply
// @Summary     Launch an auto-apply dispatch
// @Description Validates and persists the submitted criteria, then dispatches
// @Description the apply-bot. Rejected with 409 while already running and with
// @Description 403 when the capability is disabled.
// @Tags        Tasks
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.FilterRequest  false "Criteria; stored criteria are used when omitted"
//
// @Success     202  {object} handlers.TaskResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid criteria"
// @Failure     403  {object} handlers.ErrorResponse "Capability disabled"
// @Failure     409  {object} handlers.ErrorResponse "Dispatch already in progress"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tasks/auto-apply [post]
func (h *Handlers) StartAutoApply(c *gin.Context) {
	ctx := c.Request.Context()

	var f domain.AutomationFilter
	if c.Request.ContentLength > 0 {
		var req FilterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
		f = req.filter()
	} else {
		stored, err := h.app.Filters.Load(ctx)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
			return
		}
		f = stored
	}

	if err := h.app.StartAutoApply(ctx, f); err != nil {
		switch {
		case errors.Is(err, services.ErrAutoApplyDisabled):
			fail(c, http.StatusForbidden, ErrCodeAutoApplyDisabled, "auto-apply is disabled")
		case errors.Is(err, services.ErrInvalidFilter):
			fail(c, http.StatusBadRequest, ErrCodeInvalidFilter, err.Error())
		case errors.Is(err, services.ErrAlreadyInProgress):
			fail(c, http.StatusConflict, ErrCodeConflict, "auto-apply already in progress")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusAccepted, TaskResponse{
		Kind:  domain.TaskAutoApply,
		State: h.app.Orchestrator.State(domain.TaskAutoApply),
	})
}
