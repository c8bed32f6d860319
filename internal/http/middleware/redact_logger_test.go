package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactPatterns(t *testing.T) {
	in := "reach me at jo.doe+x@mail.example or +1 212-555-1212, record 123e4567-e89b-12d3-a456-426614174000"
	out := redactPatterns(in)
	for _, want := range []string{"[REDACTED:email]", "[REDACTED:phone]", "[REDACTED:id]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %q", want, out)
		}
	}
	if strings.Contains(out, "mail.example") || strings.Contains(out, "212-555") {
		t.Fatalf("raw PII survived: %q", out)
	}
	if redactPatterns("") != "" {
		t.Fatal("empty input must stay empty")
	}
}

func TestRedactingLogger_MasksAndRedacts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	// upstream request-id middleware writes the response header
	r.Use(func(c *gin.Context) { c.Header("X-Request-ID", "rid-resp"); c.Next() })
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/records/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "email=a.b+tag@example.com&phone=+1-555-123-4567&id=123e4567-e89b-12d3-a456-426614174000"
	req := httptest.NewRequest(http.MethodGet, "/records/123?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-Access-Token", "ya29.a0AfB-secret")
	req.Header.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set("X-Request-ID", "rid-req")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	logs := buf.String()
	if !strings.Contains(logs, `"level":"info"`) || !strings.Contains(logs, `"path":"/records/:id"`) {
		t.Fatalf("info line with route path missing: %s", logs)
	}
	// the generated response id wins over the client-supplied one
	if !strings.Contains(logs, `"request_id":"rid-resp"`) {
		t.Fatalf("request_id should come from the response header: %s", logs)
	}
	for _, masked := range []string{
		`"Authorization":"[REDACTED]"`,
		`"Cookie":"[REDACTED]"`,
		`"X-Api-Key":"[REDACTED]"`,
		`"X-Access-Token":"[REDACTED]"`,
	} {
		if !strings.Contains(logs, masked) {
			t.Fatalf("header not masked, want %s in: %s", masked, logs)
		}
	}
	if strings.Contains(logs, "ya29.a0AfB-secret") || strings.Contains(logs, "Bearer secret") {
		t.Fatalf("credential value leaked to log: %s", logs)
	}
	if !strings.Contains(logs, `"X-Custom":"email [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]"`) {
		t.Fatalf("pattern redaction inside unmasked header failed: %s", logs)
	}
	if !strings.Contains(logs, `email=[REDACTED:email]`) || !strings.Contains(logs, `id=[REDACTED:id]`) {
		t.Fatalf("query redaction missing: %s", logs)
	}
}

func TestRedactingLogger_LevelsAndRequestIDFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	// no upstream middleware: the logger falls back to the request header id
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	reqWarn := httptest.NewRequest(http.MethodGet, "/warn", nil)
	reqWarn.Header.Set("X-Request-ID", "rid-warn")
	r.ServeHTTP(httptest.NewRecorder(), reqWarn)

	reqErr := httptest.NewRequest(http.MethodGet, "/error", nil)
	reqErr.Header.Set("X-Request-ID", "rid-err")
	r.ServeHTTP(httptest.NewRecorder(), reqErr)

	logs := buf.String()
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"request_id":"rid-warn"`) {
		t.Fatalf("warn line or fallback id missing: %s", logs)
	}
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, `"request_id":"rid-err"`) {
		t.Fatalf("error line or fallback id missing: %s", logs)
	}
}
