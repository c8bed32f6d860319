// Auto-apply filter HTTP handlers.
//
// This file exposes REST endpoints for the persisted automation criteria:
//   - GET /filters   (current criteria, defaults when none stored)
//   - PUT /filters   (replace criteria wholesale)
//
// Filters are validated and normalized before persisting so that what is
// stored is exactly what a later auto-apply dispatch would send.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
)

//
// DTOs
//

// FilterRequest is the JSON payload for replacing the automation criteria.
type FilterRequest struct {
	// Keywords to search for; at least one non-blank entry is required.
	Keywords []string `json:"keywords" example:"golang,backend"`
	// Location is the target job market. Required.
	Location string `json:"location" example:"Berlin"`
	// Recency bounds posting age: "any", "last_24h", or "last_week".
	Recency string `json:"recency" example:"last_24h"`
	// EasyApplyOnly restricts dispatches to one-click postings. Defaults to true.
	EasyApplyOnly *bool `json:"easy_apply_only"`
}

// filter converts the request into a domain filter, applying the
// easy-apply default when the field is omitted.
func (r FilterRequest) filter() domain.AutomationFilter {
	easy := true
	if r.EasyApplyOnly != nil {
		easy = *r.EasyApplyOnly
	}
	return domain.AutomationFilter{
		Keywords:      r.Keywords,
		Location:      r.Location,
		RecencyWindow: domain.RecencyWindow(r.Recency),
		EasyApplyOnly: easy,
	}
}

//
// Handlers
//

// GetFilters godoc
// @ID          getFilters
// @Summary     Current auto-apply criteria
// @Description Returns the stored automation criteria, or the defaults when
// @Description nothing has been saved yet.
// @Tags        Filters
// @Produce     json
//
// @Success     200  {object} domain.AutomationFilter
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /filters [get]
func (h *Handlers) GetFilters(c *gin.Context) {
	f, err := h.app.Filters.Load(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, f)
}

// PutFilters godoc
// @ID          putFilters
// @Summary     Replace auto-apply criteria
// @Description Validates, normalizes, and persists the automation criteria
// @Description wholesale. Returns the normalized result.
// @Tags        Filters
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.FilterRequest  true  "Automation criteria"
//
// @Success     200  {object} domain.AutomationFilter "Normalized stored criteria"
// @Failure     400  {object} handlers.ErrorResponse  "Invalid criteria"
// @Failure     500  {object} handlers.ErrorResponse  "Internal error"
// @Router      /filters [put]
func (h *Handlers) PutFilters(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	f := req.filter().Normalize()
	if err := f.Validate(); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidFilter, err.Error())
		return
	}
	if err := h.app.Filters.Save(c.Request.Context(), f); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, f)
}
