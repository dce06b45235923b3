package domain

import "errors"

// Sentinel errors for the failure classes the CLI reports distinctly. Call
// sites wrap them with fmt.Errorf("...: %w", err); the command layer maps
// them to exit codes with errors.Is.
var (
	// ErrCLINotFound means the gh binary is not installed or not on PATH.
	ErrCLINotFound = errors.New("github cli not found")

	// ErrNotAuthenticated means gh has no usable credentials.
	ErrNotAuthenticated = errors.New("github cli is not authenticated")

	// ErrUserNotFound means the target user does not exist or none of their
	// repositories are accessible. An empty-but-successful listing is not an
	// error; only a failed listing maps here.
	ErrUserNotFound = errors.New("user not found")

	// ErrFetchFailed covers transport and API failures surfaced by gh.
	ErrFetchFailed = errors.New("github request failed")

	// ErrConflictingDateFilters means more than one date-filter group was
	// supplied on the command line.
	ErrConflictingDateFilters = errors.New("conflicting date filter flags")

	// ErrInvalidDate means a date flag could not be parsed.
	ErrInvalidDate = errors.New("invalid date")
)
