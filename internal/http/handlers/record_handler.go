// Application-record HTTP handlers.
//
// This file exposes REST endpoints for tracked job applications:
//   - GET    /records        (list, paginated, ETag support)
//   - POST   /records        (ingest/update, Idempotency-Key support)
//   - DELETE /records/{id}   (remove)
//
// Writes go through the record store rather than the repository directly so
// that every committed mutation pushes a fresh snapshot to the live feed.
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, "records", key), the handler returns the recorded
// resource and sets `Idempotency-Replayed: true`.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
	"github.com/tverros/go-jobtrack-backend/internal/http/middleware"
	"github.com/tverros/go-jobtrack-backend/internal/repo"
	"github.com/tverros/go-jobtrack-backend/internal/utils"
)

// idempotencyScope namespaces stored idempotency keys for record ingestion.
const idempotencyScope = "records"

//
// DTOs
//

// CreateRecordRequest is the JSON payload for ingesting or updating a record.
// The mailbox-scan service posts these as it parses application emails.
type CreateRecordRequest struct {
	// ID optionally targets an existing record; a new one is created when empty.
	ID string `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// UserID optionally overrides the owner; defaults to the session identity.
	UserID string `json:"user_id" example:"u_8f4e21"`
	// Status is the application stage, e.g. "Shortlisted". Required.
	Status string `json:"status" binding:"required" example:"Shortlisted"`
	// CompanyName is the employer parsed from the email.
	CompanyName string `json:"company_name" example:"Acme GmbH"`
	// Snippet is a short excerpt of the source email.
	Snippet string `json:"snippet" example:"Thank you for applying..."`
	// ReceivedAt is when the source email arrived (RFC 3339).
	ReceivedAt *time.Time `json:"received_at"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListRecordsResponse wraps a page of records and pagination information.
type ListRecordsResponse struct {
	Records    []domain.ApplicationRecord `json:"records"`
	Pagination Pagination                 `json:"pagination"`
}

//
// Helpers
//

// sessionUserID returns the identity stashed by the session guard middleware.
func sessionUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

//
// Handlers
//

// ListRecords godoc
// @ID          listRecords
// @Summary     List application records (paginated)
// @Description Returns a page of the current user's records, newest first.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Records
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       status         query   string  false "Narrow to one status"        example(Shortlisted)
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListRecordsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records [get]
func (h *Handlers) ListRecords(c *gin.Context) {
	ctx := c.Request.Context()
	uid := sessionUserID(c)
	status := domain.Status(strings.TrimSpace(c.Query("status")))
	page, pageSize := utils.ClampPage(c.Query("page"), c.Query("page_size"))

	// ETag pre-check (best effort).
	if h.db != nil {
		count, maxTS, err := repo.RecordStats(ctx, h.db, uid, status)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"records:%s:%s:%d:%d"`, uid, status, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	total, err := repo.CountRecords(ctx, h.db, uid, status)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	items, err := repo.ListRecordsPage(ctx, h.db, uid, status, (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListRecordsResponse{
		Records: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// CreateRecord godoc
// @ID          createRecord
// @Summary     Ingest or update an application record
// @Description Upserts a record and pushes a fresh snapshot to the live feed.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Records
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.CreateRecordRequest  true  "Record payload"
//
// @Success     201  {object} domain.ApplicationRecord
// @Success     200  {object} domain.ApplicationRecord "Replayed prior result"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records [post]
func (h *Handlers) CreateRecord(c *gin.Context) {
	ctx := c.Request.Context()
	uid := sessionUserID(c)

	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}
	owner := uid
	if v := strings.TrimSpace(req.UserID); v != "" {
		owner = v
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.db != nil {
		if rec, err := repo.GetIdempotency(ctx, h.db, owner, idempotencyScope, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err2 := repo.GetRecord(ctx, h.db, rec.ResourceID, owner); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, prev)
				return
			}
		}
	}

	rec := &domain.ApplicationRecord{
		ID:          strings.TrimSpace(req.ID),
		UserID:      owner,
		Status:      domain.Status(strings.TrimSpace(req.Status)),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Snippet:     req.Snippet,
		ReceivedAt:  req.ReceivedAt,
	}
	if err := h.app.Records.Upsert(ctx, rec); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && h.db != nil {
		_, _ = repo.CreateIdempotency(ctx, h.db, owner, idempotencyScope, idemKey, rec.ID, http.StatusCreated, h.idempotencyTTL)
	}

	ok(c, http.StatusCreated, rec)
}

// DeleteRecord godoc
// @ID          deleteRecord
// @Summary     Delete an application record
// @Description Removes a record owned by the current user and pushes a fresh
// @Description snapshot to the live feed.
// @Tags        Records
// @Produce     json
//
// @Param       id  path  string  true  "Record ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records/{id} [delete]
func (h *Handlers) DeleteRecord(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	if err := h.app.Records.Delete(c.Request.Context(), id, sessionUserID(c)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "record not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
