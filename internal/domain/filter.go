package domain

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// RecencyWindow narrows the auto-apply search to a recency bucket.
type RecencyWindow string

const (
	RecencyAny      RecencyWindow = "any"
	RecencyLast24h  RecencyWindow = "last_24h"
	RecencyLastWeek RecencyWindow = "last_week"
)

// Valid reports whether w is one of the supported windows.
func (w RecencyWindow) Valid() bool {
	switch w {
	case RecencyAny, RecencyLast24h, RecencyLastWeek:
		return true
	}
	return false
}

// PeriodCode returns the wire value the apply-bot service expects
// ("r" + seconds, empty for no restriction).
func (w RecencyWindow) PeriodCode() string {
	switch w {
	case RecencyLast24h:
		return "r86400"
	case RecencyLastWeek:
		return "r604800"
	}
	return ""
}

// Validation errors for AutomationFilter. Services wrap these into their
// own taxonomy; handlers only ever see the service-level error.
var (
	ErrFilterNoKeywords = errors.New("at least one keyword is required")
	ErrFilterNoLocation = errors.New("location is required")
	ErrFilterBadRecency = errors.New("unknown recency window")
)

// AutomationFilter holds the criteria the auto-apply workflow searches with.
// Keywords are a set: order is irrelevant and duplicates collapse under
// case folding. The filter is persisted as a single blob, overwritten
// wholesale on each successful validation.
type AutomationFilter struct {
	Keywords      []string      `json:"keywords"`
	Location      string        `json:"location"`
	RecencyWindow RecencyWindow `json:"recency_window"`
	EasyApplyOnly bool          `json:"easy_apply_only"`
}

// DefaultAutomationFilter is what FilterStore.Load returns before any save.
func DefaultAutomationFilter() AutomationFilter {
	return AutomationFilter{
		Keywords:      []string{},
		Location:      "",
		RecencyWindow: RecencyAny,
		EasyApplyOnly: true,
	}
}

// Normalize returns a canonical copy: keywords trimmed, case-folded,
// de-duplicated and sorted; location trimmed; empty recency mapped to Any.
func (f AutomationFilter) Normalize() AutomationFilter {
	folder := cases.Fold()
	seen := make(map[string]struct{}, len(f.Keywords))
	keywords := make([]string, 0, len(f.Keywords))
	for _, k := range f.Keywords {
		k = folder.String(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	out := f
	out.Keywords = keywords
	out.Location = strings.TrimSpace(f.Location)
	if out.RecencyWindow == "" {
		out.RecencyWindow = RecencyAny
	}
	return out
}

// Validate checks the invariants required before any external dispatch or
// persistence. It assumes a normalized filter; callers should normalize
// first so that whitespace-only input does not slip through.
func (f AutomationFilter) Validate() error {
	if len(f.Keywords) == 0 {
		return ErrFilterNoKeywords
	}
	if strings.TrimSpace(f.Location) == "" {
		return ErrFilterNoLocation
	}
	if !f.RecencyWindow.Valid() {
		return ErrFilterBadRecency
	}
	return nil
}
