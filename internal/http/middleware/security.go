// Security response headers.
//
// The API is consumed by a browser dashboard on another origin, so every
// response carries a baseline hardening set. HSTS is opt-in and only ever
// emitted on HTTPS requests; behind the usual reverse proxy the scheme is
// read from X-Forwarded-Proto. No CSP here: the service serves JSON only.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures the headers SecurityHeaders emits.
//
// EnableHSTS must stay off unless traffic is HTTPS end to end, proxy hop
// included. NoStore adds Cache-Control: no-store for deployments where the
// record responses must not be cached; it is off by default because the
// listing endpoint relies on ETag revalidation.
type SecurityOptions struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration // <= 0 falls back to 180 days
	NoStore      bool
	EnablePolicy bool // Permissions-Policy and friends (browser-only effect)
}

// SecurityHeaders returns a Gin middleware adding the configured header set:
// always X-Content-Type-Options, X-Frame-Options, and Referrer-Policy;
// optionally browser feature policies, cache suppression, and HSTS. When a
// request id is present it is appended to Access-Control-Expose-Headers so
// the dashboard can surface it in error reports.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security",
				"max-age="+strconv.Itoa(maxAge)+"; includeSubDomains; preload")
		}

		if rid := h.Get("X-Request-ID"); rid != "" {
			const hdr = "Access-Control-Expose-Headers"
			switch cur := h.Get(hdr); {
			case cur == "":
				h.Set(hdr, "X-Request-ID")
			case !strings.Contains(cur, "X-Request-ID"):
				h.Set(hdr, cur+", X-Request-ID")
			}
		}

		c.Next()
	}
}

// isHTTPS reports whether the request arrived over TLS, directly or via a
// proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
