package usecase

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// rankingSize is how many repositories the recent/largest rankings keep.
const rankingSize = 10

// Aggregate computes the full statistics over the filtered records plus the
// sample sums. Pure: no I/O, deterministic for identical input.
func Aggregate(repos []domain.Repository, sample SampleSummary) *domain.Stats {
	st := &domain.Stats{
		ByLanguage:      make(map[string]int),
		ByYear:          make(map[string]int),
		ByMonth:         make(map[string]int),
		LinesByLanguage: make(map[string]int64),
	}

	buckets := make([][]domain.Repository, len(domain.SizeBucketLabels()))
	sizes := make([]float64, 0, len(repos))

	for _, repo := range repos {
		st.Total++
		if repo.IsPrivate {
			st.Private++
		} else {
			st.Public++
		}
		if repo.IsFork {
			st.Forks++
		}
		if repo.IsArchived {
			st.Archived++
		}

		st.TotalStars += repo.StargazerCount
		st.TotalForks += repo.ForkCount

		size := repo.SizeMB()
		sizes = append(sizes, size)
		st.TotalSizeMB += size
		i := domain.SizeBucketIndex(size)
		buckets[i] = append(buckets[i], repo)

		st.ByLanguage[repo.LanguageName()]++
		created := repo.CreatedAt.In(domain.JST)
		st.ByYear[created.Format("2006")]++
		st.ByMonth[created.Format("2006-01")]++
	}

	st.TotalSizeMB = round2(st.TotalSizeMB)
	if mean, err := stats.Mean(sizes); err == nil {
		st.MeanSizeMB = round2(mean)
	}
	if median, err := stats.Median(sizes); err == nil {
		st.MedianSizeMB = round2(median)
	}

	labels := domain.SizeBucketLabels()
	st.BySizeBucket = make([]domain.SizeBucket, len(labels))
	for i, label := range labels {
		members := buckets[i]
		if members == nil {
			members = make([]domain.Repository, 0)
		}
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].DiskUsageKB > members[b].DiskUsageKB
		})
		st.BySizeBucket[i] = domain.SizeBucket{Label: label, Count: len(members), Repos: members}
	}

	st.RecentRepos = topBy(repos, func(a, b domain.Repository) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	st.LargestRepos = topBy(repos, func(a, b domain.Repository) bool {
		return a.DiskUsageKB > b.DiskUsageKB
	})

	if sample.Sampled > 0 {
		ratio := float64(st.Total) / float64(sample.Sampled)
		st.EstimatedTotalLines = int64(math.Round(float64(sample.Lines) * ratio))
		st.EstimatedTotalFiles = int64(math.Round(float64(sample.Files) * ratio))
		for lang, lines := range sample.LinesByLanguage {
			st.LinesByLanguage[lang] = int64(math.Round(float64(lines) * ratio))
		}
		st.SampledRepos = sample.Sampled
	}

	return st
}

// topBy returns up to rankingSize records ordered by less, with ties keeping
// the fetched order.
func topBy(repos []domain.Repository, less func(a, b domain.Repository) bool) []domain.Repository {
	ranked := make([]domain.Repository, len(repos))
	copy(ranked, repos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	if len(ranked) > rankingSize {
		ranked = ranked[:rankingSize]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
