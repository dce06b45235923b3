// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// JST is the calendar used for month bucketing and report display.
var JST = time.FixedZone("JST", 9*60*60)

// Language is the primary-language object attached to a repository listing.
type Language struct {
	Name string `json:"name"`
}

// Owner identifies the account a repository belongs to.
type Owner struct {
	Login string `json:"login"`
}

// Repository holds the metadata of a single repository as reported by the
// GitHub CLI. It is the core domain entity of this application. JSON tags
// mirror the `gh repo list --json` field names, so one struct both decodes
// the CLI output and serializes into the data dump.
//
// A record is immutable once fetched; the sampler may set EstimatedLines on
// the records it selects, nothing else mutates it.
type Repository struct {
	Name            string    `json:"name"`
	NameWithOwner   string    `json:"nameWithOwner"`
	Description     string    `json:"description"`
	IsPrivate       bool      `json:"isPrivate"`
	IsFork          bool      `json:"isFork"`
	IsArchived      bool      `json:"isArchived"`
	PrimaryLanguage *Language `json:"primaryLanguage"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	PushedAt        time.Time `json:"pushedAt"`
	DiskUsageKB     int64     `json:"diskUsage"`
	URL             string    `json:"url"`
	HomepageURL     string    `json:"homepageUrl"`
	StargazerCount  int       `json:"stargazerCount"`
	ForkCount       int       `json:"forkCount"`
	Owner           Owner     `json:"owner"`

	// EstimatedLines is populated only for sampled repositories.
	EstimatedLines *int64 `json:"estimatedLines,omitempty"`
}

// LanguageName returns the primary language, or "Unknown" when GitHub reports none.
func (r Repository) LanguageName() string {
	if r.PrimaryLanguage == nil || r.PrimaryLanguage.Name == "" {
		return "Unknown"
	}
	return r.PrimaryLanguage.Name
}

// SizeMB converts the repository's disk usage from KB to MB.
func (r Repository) SizeMB() float64 {
	return float64(r.DiskUsageKB) / 1024
}

// Visibility renders the record's visibility as "public" or "private".
func (r Repository) Visibility() string {
	if r.IsPrivate {
		return "private"
	}
	return "public"
}

// TreeSummary is the compacted result of a recursive git-tree listing.
type TreeSummary struct {
	FileCount  int64
	TotalBytes int64
	Truncated  bool
}
