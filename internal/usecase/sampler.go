package usecase

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/gateway"
)

// avgBytesPerLine converts GitHub's per-language byte counts into line
// estimates. Values are rough averages of source-line length per language.
var avgBytesPerLine = map[string]int64{
	"Python":     30,
	"JavaScript": 35,
	"TypeScript": 40,
	"HTML":       50,
	"CSS":        30,
	"Java":       40,
	"C":          35,
	"C++":        40,
	"Go":         30,
	"Ruby":       30,
	"PHP":        35,
	"Shell":      25,
	"PowerShell": 35,
}

const defaultBytesPerLine = 35

// linesPerFile approximates the file count from the line estimate when the
// git tree is unavailable or truncated.
const linesPerFile = 200

// sampleDelay spaces successive per-repository API calls.
const sampleDelay = 500 * time.Millisecond

// SampleSummary holds the raw, unextrapolated sums over the sampled
// repositories. The zero value means nothing was sampled.
type SampleSummary struct {
	Sampled         int
	Lines           int64
	Files           int64
	LinesByLanguage map[string]int64
}

// Sampler estimates line and file counts for a subset of repositories.
type Sampler struct {
	fetcher gateway.Fetcher
	logger  *slog.Logger
	delay   time.Duration
}

// NewSampler creates a Sampler backed by the given fetcher.
func NewSampler(fetcher gateway.Fetcher, logger *slog.Logger) *Sampler {
	return &Sampler{
		fetcher: fetcher,
		logger:  logger,
		delay:   sampleDelay,
	}
}

// Sample selects up to n repositories, largest disk usage first with ties
// keeping the fetched order, estimates lines and files for each, and
// annotates the selected records' EstimatedLines in place. n = 0 disables
// sampling entirely: no gateway call is made. A per-repository failure is
// recorded as a missing estimate and never aborts the run.
func (s *Sampler) Sample(ctx context.Context, repos []domain.Repository, n int) SampleSummary {
	summary := SampleSummary{LinesByLanguage: make(map[string]int64)}
	if n <= 0 || len(repos) == 0 {
		return summary
	}
	if n > len(repos) {
		n = len(repos)
	}

	order := make([]int, len(repos))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return repos[order[i]].DiskUsageKB > repos[order[j]].DiskUsageKB
	})

	for i, idx := range order[:n] {
		if i > 0 && s.delay > 0 {
			time.Sleep(s.delay)
		}

		repo := repos[idx]
		lines, files, byLang, err := s.estimate(ctx, repo)
		if err != nil {
			s.logger.Warn("sampling failed, skipping repository", "repo", repo.NameWithOwner, "error", err)
			continue
		}

		estimated := lines
		repos[idx].EstimatedLines = &estimated

		summary.Sampled++
		summary.Lines += lines
		summary.Files += files
		for lang, l := range byLang {
			summary.LinesByLanguage[lang] += l
		}
		s.logger.Debug("sampled repository", "repo", repo.NameWithOwner, "lines", lines, "files", files)
	}
	return summary
}

// estimate computes the line and file estimates for one repository. Lines
// come from the languages byte counts, files from the git-tree blob count
// with a lines-derived fallback.
func (s *Sampler) estimate(ctx context.Context, repo domain.Repository) (lines, files int64, byLang map[string]int64, err error) {
	langs, err := s.fetcher.Languages(ctx, repo.Owner.Login, repo.Name)
	if err != nil {
		return 0, 0, nil, err
	}

	byLang = make(map[string]int64, len(langs))
	for lang, byteCount := range langs {
		perLine := avgBytesPerLine[lang]
		if perLine == 0 {
			perLine = defaultBytesPerLine
		}
		estimated := byteCount / perLine
		lines += estimated
		byLang[lang] = estimated
	}

	files = lines / linesPerFile
	if files == 0 && lines > 0 {
		files = 1
	}
	if tree, treeErr := s.fetcher.TreeSummary(ctx, repo.Owner.Login, repo.Name); treeErr != nil {
		s.logger.Debug("tree unavailable, approximating file count", "repo", repo.NameWithOwner, "error", treeErr)
	} else if tree.Truncated {
		s.logger.Debug("tree truncated, approximating file count", "repo", repo.NameWithOwner)
	} else {
		files = tree.FileCount
	}

	return lines, files, byLang, nil
}
