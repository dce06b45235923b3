package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-report/internal/domain"
)

func newTestSampler(fetcher *mockFetcher) *Sampler {
	s := NewSampler(fetcher, discardLogger())
	s.delay = 0
	return s
}

func sized(name string, kb int64) domain.Repository {
	return domain.Repository{
		Name:        name,
		Owner:       domain.Owner{Login: "octocat"},
		DiskUsageKB: kb,
	}
}

func TestSampler_Sample(t *testing.T) {
	ctx := context.Background()

	t.Run("sample size zero makes no calls at all", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{sized("a", 100), sized("b", 200)}

		summary := newTestSampler(fetcher).Sample(ctx, repos, 0)

		assert.Equal(t, 0, summary.Sampled)
		assert.Nil(t, repos[0].EstimatedLines)
		assert.Nil(t, repos[1].EstimatedLines)
		fetcher.AssertNotCalled(t, "Languages", mock.Anything, mock.Anything, mock.Anything)
		fetcher.AssertNotCalled(t, "TreeSummary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("selects the largest repositories first", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{sized("small", 10), sized("big", 3000), sized("mid", 300)}

		fetcher.On("Languages", mock.Anything, "octocat", "big").
			Return(map[string]int64{"Go": 3000}, nil)
		fetcher.On("Languages", mock.Anything, "octocat", "mid").
			Return(map[string]int64{"Ruby": 300}, nil)
		fetcher.On("TreeSummary", mock.Anything, "octocat", mock.Anything).
			Return(&domain.TreeSummary{FileCount: 3}, nil)

		summary := newTestSampler(fetcher).Sample(ctx, repos, 2)

		assert.Equal(t, 2, summary.Sampled)
		fetcher.AssertNotCalled(t, "Languages", mock.Anything, "octocat", "small")
	})

	t.Run("ties keep the fetched order", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{sized("first", 500), sized("second", 500)}

		fetcher.On("Languages", mock.Anything, "octocat", "first").
			Return(map[string]int64{"Go": 600}, nil)
		fetcher.On("TreeSummary", mock.Anything, "octocat", "first").
			Return(&domain.TreeSummary{FileCount: 2}, nil)

		summary := newTestSampler(fetcher).Sample(ctx, repos, 1)

		assert.Equal(t, 1, summary.Sampled)
		require.NotNil(t, repos[0].EstimatedLines)
		assert.Nil(t, repos[1].EstimatedLines)
		fetcher.AssertNotCalled(t, "Languages", mock.Anything, "octocat", "second")
	})

	t.Run("a failing repository is skipped without aborting", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{sized("bad", 2000), sized("good", 1000)}

		fetcher.On("Languages", mock.Anything, "octocat", "bad").
			Return(nil, errors.New("HTTP 403"))
		fetcher.On("Languages", mock.Anything, "octocat", "good").
			Return(map[string]int64{"Go": 900}, nil)
		fetcher.On("TreeSummary", mock.Anything, "octocat", "good").
			Return(&domain.TreeSummary{FileCount: 4}, nil)

		summary := newTestSampler(fetcher).Sample(ctx, repos, 2)

		assert.Equal(t, 1, summary.Sampled)
		assert.Nil(t, repos[0].EstimatedLines)
		require.NotNil(t, repos[1].EstimatedLines)
		assert.Equal(t, int64(30), *repos[1].EstimatedLines)
	})

	t.Run("lines derive from per-language byte counts", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{sized("poly", 1000)}

		// Go averages 30 bytes per line, unknown languages fall back to 35.
		fetcher.On("Languages", mock.Anything, "octocat", "poly").
			Return(map[string]int64{"Go": 3000, "Brainfuck": 700}, nil)
		fetcher.On("TreeSummary", mock.Anything, "octocat", "poly").
			Return(&domain.TreeSummary{FileCount: 7}, nil)

		summary := newTestSampler(fetcher).Sample(ctx, repos, 1)

		assert.Equal(t, int64(120), summary.Lines)
		assert.Equal(t, int64(7), summary.Files)
		assert.Equal(t, map[string]int64{"Go": 100, "Brainfuck": 20}, summary.LinesByLanguage)
		require.NotNil(t, repos[0].EstimatedLines)
		assert.Equal(t, int64(120), *repos[0].EstimatedLines)
	})

	t.Run("file count falls back to a heuristic when the tree is unavailable", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{sized("no-tree", 1000)}

		fetcher.On("Languages", mock.Anything, "octocat", "no-tree").
			Return(map[string]int64{"Go": 3000}, nil)
		fetcher.On("TreeSummary", mock.Anything, "octocat", "no-tree").
			Return(nil, errors.New("HTTP 409: Git Repository is empty"))

		summary := newTestSampler(fetcher).Sample(ctx, repos, 1)

		// 100 lines at 200 lines per file rounds down to zero, floored to 1.
		assert.Equal(t, 1, summary.Sampled)
		assert.Equal(t, int64(1), summary.Files)
	})

	t.Run("a truncated tree is not trusted for the file count", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{sized("deep", 1000)}

		fetcher.On("Languages", mock.Anything, "octocat", "deep").
			Return(map[string]int64{"Go": 90000}, nil)
		fetcher.On("TreeSummary", mock.Anything, "octocat", "deep").
			Return(&domain.TreeSummary{FileCount: 99999, Truncated: true}, nil)

		summary := newTestSampler(fetcher).Sample(ctx, repos, 1)

		// 3000 lines / 200 lines per file.
		assert.Equal(t, int64(15), summary.Files)
	})

	t.Run("a sample size above the repository count is clamped", func(t *testing.T) {
		fetcher := new(mockFetcher)
		repos := []domain.Repository{sized("only", 100)}

		fetcher.On("Languages", mock.Anything, "octocat", "only").
			Return(map[string]int64{"Go": 300}, nil)
		fetcher.On("TreeSummary", mock.Anything, "octocat", "only").
			Return(&domain.TreeSummary{FileCount: 1}, nil)

		summary := newTestSampler(fetcher).Sample(ctx, repos, 50)

		assert.Equal(t, 1, summary.Sampled)
	})
}
