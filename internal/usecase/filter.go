// Package usecase contains the business logic of the application.
package usecase

import (
	"fmt"
	"time"

	"github.com/naka-gawa/repo-report/internal/domain"
)

const dateLayout = "2006-01-02"

// FilterOptions are the raw date-filter flag values. At most one of the three
// groups (last-days, last-year, explicit dates) may be used per run.
type FilterOptions struct {
	LastDays  int
	LastYear  bool
	StartDate string
	EndDate   string
}

// Range derives the FilterRange from the flags, validating their combination.
// Relative windows are anchored at now; explicit dates are read as JST
// calendar days with an inclusive end.
func (o FilterOptions) Range(now time.Time) (domain.FilterRange, error) {
	groups := 0
	if o.LastDays != 0 {
		groups++
	}
	if o.LastYear {
		groups++
	}
	if o.StartDate != "" || o.EndDate != "" {
		groups++
	}
	if groups > 1 {
		return domain.FilterRange{}, fmt.Errorf("%w: use only one of --last-days, --last-year, --start-date/--end-date", domain.ErrConflictingDateFilters)
	}

	switch {
	case o.LastDays != 0:
		if o.LastDays < 0 {
			return domain.FilterRange{}, fmt.Errorf("%w: --last-days must be positive, got %d", domain.ErrInvalidDate, o.LastDays)
		}
		start := now.AddDate(0, 0, -o.LastDays)
		return domain.FilterRange{Start: &start}, nil

	case o.LastYear:
		start := now.AddDate(0, 0, -365)
		return domain.FilterRange{Start: &start}, nil

	case o.StartDate != "" || o.EndDate != "":
		var r domain.FilterRange
		if o.StartDate != "" {
			t, err := time.ParseInLocation(dateLayout, o.StartDate, domain.JST)
			if err != nil {
				return domain.FilterRange{}, fmt.Errorf("%w: --start-date %q is not YYYY-MM-DD", domain.ErrInvalidDate, o.StartDate)
			}
			r.Start = &t
		}
		if o.EndDate != "" {
			t, err := time.ParseInLocation(dateLayout, o.EndDate, domain.JST)
			if err != nil {
				return domain.FilterRange{}, fmt.Errorf("%w: --end-date %q is not YYYY-MM-DD", domain.ErrInvalidDate, o.EndDate)
			}
			// Inclusive end: extend to the last instant of the day.
			end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			r.End = &end
		}
		return r, nil
	}

	return domain.FilterRange{}, nil
}

// FilterByCreated returns the subsequence of repos created inside r, in the
// original order. Pure: no side effects, same input yields same output.
func FilterByCreated(repos []domain.Repository, r domain.FilterRange) []domain.Repository {
	if r.IsZero() {
		return repos
	}
	filtered := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if r.Contains(repo.CreatedAt) {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}
