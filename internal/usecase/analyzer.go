package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/gateway"
)

// Analyzer is the use case for producing a repository report. It runs the
// fetch, filter, sample and aggregate stages strictly sequentially.
type Analyzer struct {
	fetcher gateway.Fetcher
	sampler *Sampler
	logger  *slog.Logger
	now     func() time.Time
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		sampler: NewSampler(fetcher, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// Options control a single analysis run.
type Options struct {
	// Username is the target account; blank targets the authenticated user.
	Username   string
	Filter     FilterOptions
	SampleSize int
}

// Analysis is the complete result of a run, consumed by the renderers.
type Analysis struct {
	Username     string
	GeneratedAt  time.Time
	Filter       domain.FilterRange
	Repositories []domain.Repository
	Stats        *domain.Stats
}

// Run executes the pipeline. The date filter is validated before anything
// else, then the authenticated login is resolved (every run probes gh
// credentials), and the target user's repositories are listed, filtered,
// sampled and aggregated. An empty filtered set is not an error: the
// aggregation simply reports zero everywhere.
func (a *Analyzer) Run(ctx context.Context, opts Options) (*Analysis, error) {
	now := a.now()

	filter, err := opts.Filter.Range(now)
	if err != nil {
		return nil, err
	}

	login, err := a.fetcher.AuthenticatedUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authenticated user: %w", err)
	}
	username := opts.Username
	if username == "" {
		username = login
	}
	a.logger.Info("analyzing repositories", "user", username, "range", filter.String())

	// A blank username keeps gh listing the authenticated user's own
	// repositories, private ones included.
	repos, err := a.fetcher.ListRepositories(ctx, opts.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repositories: %w", err)
	}

	filtered := FilterByCreated(repos, filter)
	a.logger.Info("filtered repositories", "fetched", len(repos), "matched", len(filtered))
	if len(filtered) == 0 {
		a.logger.Warn("no repositories match, the report will be empty", "user", username)
	}

	sample := a.sampler.Sample(ctx, filtered, opts.SampleSize)
	if sample.Sampled > 0 {
		a.logger.Info("sampled repositories for line estimates", "sampled", sample.Sampled, "requested", opts.SampleSize)
	}

	return &Analysis{
		Username:     username,
		GeneratedAt:  now,
		Filter:       filter,
		Repositories: filtered,
		Stats:        Aggregate(filtered, sample),
	}, nil
}
