// Dashboard HTTP handler.
//
// Exposes GET /dashboard: the state tuple the dashboard screen renders (the
// live derived view, both task states, and the session state). Reads are
// served from the in-memory aggregate; no database round trip.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard godoc
// @ID          getDashboard
// @Summary     Dashboard snapshot
// @Description Returns the current derived view (records, per-status counts,
// @Description total, malformed count), task states, and session state.
// @Tags        Dashboard
// @Produce     json
//
// @Success     200  {object} app.Dashboard
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *Handlers) GetDashboard(c *gin.Context) {
	ok(c, http.StatusOK, h.app.Dashboard())
}
