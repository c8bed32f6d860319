package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestFail_WritesEnvelopeAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Writer.Header().Set("X-Request-ID", "rid-1")

	fail(c, http.StatusNotFound, ErrCodeNotFound, "record not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.RequestID != "rid-1" || resp.Code != ErrCodeNotFound || resp.Message != "record not found" {
		t.Fatalf("envelope = %+v", resp)
	}
	if !c.IsAborted() {
		t.Fatalf("fail must abort the chain")
	}
}

func TestFail_ServerErrorStillWritesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Fail(c, http.StatusInternalServerError, ErrCodeInternal, "boom")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Code != ErrCodeInternal {
		t.Fatalf("envelope = %+v", resp)
	}
}

func TestOkAndNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ok(c, http.StatusCreated, gin.H{"id": "r1"})
	if w.Code != http.StatusCreated || w.Body.Len() == 0 {
		t.Fatalf("ok: %d %q", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	noContent(c2)
	c2.Writer.WriteHeaderNow()
	if w2.Code != http.StatusNoContent {
		t.Fatalf("noContent: %d", w2.Code)
	}
	if w2.Body.Len() != 0 {
		t.Fatalf("noContent wrote a body: %q", w2.Body.String())
	}
}
