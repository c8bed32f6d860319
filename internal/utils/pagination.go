// Package utils holds small helpers shared across layers. Nothing in here
// knows about records, sessions, or HTTP.
package utils

import "strconv"

// Bounds applied by ClampPage to the records listing.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault parses s as an int, returning def when s is empty or not a
// valid integer.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPage parses raw page and page_size query values and bounds them to
// the listing defaults: page >= 1, 1 <= pageSize <= MaxPageSize. Unparsable
// values fall back to the defaults rather than erroring, so a garbled query
// string still yields a sensible first page.
func ClampPage(pageStr, sizeStr string) (page, pageSize int) {
	page = AtoiDefault(pageStr, DefaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = AtoiDefault(sizeStr, DefaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
