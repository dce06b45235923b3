package domain

import "math"

// sizeBuckets are the fixed, non-overlapping disk-usage ranges used for the
// size distribution. Together they cover the full range, so every repository
// lands in exactly one bucket.
var sizeBuckets = []struct {
	label string
	maxMB float64
}{
	{"< 1MB", 1},
	{"1-10MB", 10},
	{"10-100MB", 100},
	{"> 100MB", math.Inf(1)},
}

// SizeBucketLabels returns the bucket labels in ascending size order.
func SizeBucketLabels() []string {
	labels := make([]string, len(sizeBuckets))
	for i, b := range sizeBuckets {
		labels[i] = b.label
	}
	return labels
}

// SizeBucketIndex returns the index of the bucket sizeMB falls into.
func SizeBucketIndex(sizeMB float64) int {
	for i, b := range sizeBuckets {
		if sizeMB < b.maxMB {
			return i
		}
	}
	return len(sizeBuckets) - 1
}

// SizeBucket is one fixed size range together with the repositories that fall
// into it, ordered by disk usage descending.
type SizeBucket struct {
	Label string       `json:"label"`
	Count int          `json:"count"`
	Repos []Repository `json:"repos"`
}

// Stats is the aggregation result. It is computed once per run and consumed
// only by the renderers.
type Stats struct {
	Total    int `json:"total"`
	Public   int `json:"public"`
	Private  int `json:"private"`
	Forks    int `json:"forks"`
	Archived int `json:"archived"`

	TotalSizeMB  float64 `json:"total_size_mb"`
	MeanSizeMB   float64 `json:"mean_size_mb"`
	MedianSizeMB float64 `json:"median_size_mb"`

	TotalStars int `json:"total_stars"`
	TotalForks int `json:"total_forks"`

	ByLanguage map[string]int `json:"by_language"`
	ByYear     map[string]int `json:"by_year"`
	ByMonth    map[string]int `json:"by_month"`

	BySizeBucket []SizeBucket `json:"by_size_bucket"`

	RecentRepos  []Repository `json:"recent_repos"`
	LargestRepos []Repository `json:"largest_repos"`

	// Line and file counts are extrapolated from the sampled subset;
	// SampledRepos records how many repositories the estimates derive from.
	EstimatedTotalLines int64            `json:"estimated_total_lines"`
	EstimatedTotalFiles int64            `json:"estimated_total_files"`
	LinesByLanguage     map[string]int64 `json:"lines_by_language"`
	SampledRepos        int              `json:"sampled_repos"`
}
