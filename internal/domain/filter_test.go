package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestAutomationFilter_Normalize(t *testing.T) {
	f := AutomationFilter{
		Keywords: []string{"  Go ", "go", "", "Backend", "backend  ", "SRE"},
		Location: "  New York ",
	}
	got := f.Normalize()

	if want := []string{"backend", "go", "sre"}; !reflect.DeepEqual(got.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", got.Keywords, want)
	}
	if got.Location != "New York" {
		t.Errorf("Location = %q, want %q", got.Location, "New York")
	}
	if got.RecencyWindow != RecencyAny {
		t.Errorf("RecencyWindow = %q, want %q", got.RecencyWindow, RecencyAny)
	}
}

func TestAutomationFilter_Validate(t *testing.T) {
	cases := []struct {
		name   string
		filter AutomationFilter
		want   error
	}{
		{"ok", AutomationFilter{Keywords: []string{"eng"}, Location: "NYC", RecencyWindow: RecencyAny}, nil},
		{"no keywords", AutomationFilter{Location: "X", RecencyWindow: RecencyAny}, ErrFilterNoKeywords},
		{"no location", AutomationFilter{Keywords: []string{"eng"}, RecencyWindow: RecencyAny}, ErrFilterNoLocation},
		{"bad recency", AutomationFilter{Keywords: []string{"eng"}, Location: "X", RecencyWindow: "fortnight"}, ErrFilterBadRecency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.filter.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRecencyWindow_PeriodCode(t *testing.T) {
	cases := map[RecencyWindow]string{
		RecencyAny:      "",
		RecencyLast24h:  "r86400",
		RecencyLastWeek: "r604800",
	}
	for w, want := range cases {
		if got := w.PeriodCode(); got != want {
			t.Errorf("PeriodCode(%q) = %q, want %q", w, got, want)
		}
	}
}

func TestDefaultAutomationFilter(t *testing.T) {
	def := DefaultAutomationFilter()
	if len(def.Keywords) != 0 || def.Location != "" {
		t.Fatalf("default should be empty criteria: %+v", def)
	}
	if def.RecencyWindow != RecencyAny || !def.EasyApplyOnly {
		t.Fatalf("default flags wrong: %+v", def)
	}
	// The default is deliberately invalid for dispatch.
	if err := def.Validate(); err == nil {
		t.Fatalf("default filter should not validate")
	}
}
