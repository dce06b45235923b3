package domain

import (
	"fmt"
	"time"
)

// FilterRange restricts an analysis to repositories created inside an
// inclusive window. A nil bound is unbounded. The range is derived once from
// CLI flags and applied exactly once.
type FilterRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r FilterRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t falls inside the range. Open ends are unbounded,
// both bounds are inclusive.
func (r FilterRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// String renders the range for report headers, e.g. "2024-01-01 to 2024-12-31".
func (r FilterRange) String() string {
	if r.IsZero() {
		return "all time"
	}
	start, end := "beginning", "now"
	if r.Start != nil {
		start = r.Start.In(JST).Format("2006-01-02")
	}
	if r.End != nil {
		end = r.End.In(JST).Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", start, end)
}
