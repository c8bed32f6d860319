// Access logging with credential and PII scrubbing.
//
// RedactingLogger is the access logger installed in production. It never
// logs bodies; what it does log (query string, headers) passes through two
// scrub layers first: a case-insensitive full mask for credential-bearing
// headers, and pattern redaction of emails, phone numbers, and UUIDs in
// everything else. X-Access-Token is masked by default because it carries
// the provider credential on sign-in callbacks and must never reach logs.
//
// Scrubbing reduces, not eliminates, leak risk: clients should still keep
// identifiers out of query strings where they can.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions adds deployment-specific headers to the built-in mask set
// (Authorization, Cookie, Set-Cookie, X-Access-Token). Matching is
// case-insensitive; masked values are replaced wholesale with "[REDACTED]".
type RedactOptions struct {
	MaskHeaders []string
}

// Pattern redaction order matters: UUIDs go first so the looser phone
// pattern cannot eat a UUID's digit groups.
var (
	redactUUIDRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	redactEmailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// digits-only, so hex from already-redacted ids never matches
	redactPhoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

func redactPatterns(s string) string {
	if s == "" {
		return s
	}
	s = redactUUIDRE.ReplaceAllString(s, "[REDACTED:id]")
	s = redactEmailRE.ReplaceAllString(s, "[REDACTED:email]")
	s = redactPhoneRE.ReplaceAllString(s, "[REDACTED:phone]")
	return s
}

// RedactingLogger returns the scrubbing access logger. One structured line
// per request: method, route path (raw URL when unmatched), scrubbed query
// and headers, status, size, and latency. Level tracks the status class
// (info, warn for 4xx, error for 5xx). The request id is read from the
// response header first so a generated id wins over a client-supplied one.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := map[string]struct{}{
		"authorization":  {},
		"cookie":         {},
		"set-cookie":     {},
		"x-access-token": {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := redactPatterns(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := masked[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redactPatterns(strings.Join(vv, ", "))
		}

		c.Next()

		status := c.Writer.Status()

		reqID := c.Writer.Header().Get("X-Request-ID")
		if reqID == "" {
			reqID = c.GetHeader("X-Request-ID")
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
