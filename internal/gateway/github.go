// Package gateway provides access to the GitHub API through the locally
// authenticated gh CLI, abstracting the subprocess handling away from the
// use cases.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/go-github/v84/github"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// repoListFields are the --json fields requested from `gh repo list`. They
// must stay in sync with the tags on domain.Repository.
const repoListFields = "name,nameWithOwner,description,isPrivate,isFork,isArchived," +
	"primaryLanguage,createdAt,updatedAt,pushedAt,diskUsage,url,homepageUrl," +
	"stargazerCount,forkCount,owner"

// Fetcher defines the behavior of a gateway for fetching repository data from GitHub.
type Fetcher interface {
	AuthenticatedUser(ctx context.Context) (string, error)
	ListRepositories(ctx context.Context, username string) ([]domain.Repository, error)
	Languages(ctx context.Context, owner, name string) (map[string]int64, error)
	TreeSummary(ctx context.Context, owner, name string) (*domain.TreeSummary, error)
}

// GitHubCLI is the concrete implementation of the Fetcher interface. Every
// API access shells out to gh; no HTTP client and no credentials live in this
// program.
type GitHubCLI struct {
	bin      string
	limit    int
	executor Executor
	logger   *slog.Logger
}

// NewGitHubCLI creates a gateway invoking the given gh binary.
func NewGitHubCLI(bin string, limit int, executor Executor, logger *slog.Logger) *GitHubCLI {
	return &GitHubCLI{
		bin:      bin,
		limit:    limit,
		executor: executor,
		logger:   logger,
	}
}

// AuthenticatedUser resolves the login of the currently authenticated user.
// It doubles as the authentication probe: a failure means gh has no usable
// credentials.
func (g *GitHubCLI) AuthenticatedUser(ctx context.Context) (string, error) {
	g.logger.Debug("resolving authenticated user")
	out, err := g.executor.RunWithOutput(ctx, g.bin, []string{"api", "user", "--jq", ".login"})
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %q is not installed", domain.ErrCLINotFound, g.bin)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}
	login := strings.TrimSpace(string(out))
	if login == "" {
		return "", fmt.Errorf("%w: gh returned an empty login", domain.ErrNotAuthenticated)
	}
	return login, nil
}

// ListRepositories fetches up to the configured limit of repositories for
// username, in the order gh returns them.
func (g *GitHubCLI) ListRepositories(ctx context.Context, username string) ([]domain.Repository, error) {
	g.logger.Info("fetching repository list", "user", username, "limit", g.limit)

	args := []string{"repo", "list"}
	if username != "" {
		args = append(args, username)
	}
	args = append(args, "--limit", strconv.Itoa(g.limit), "--json", repoListFields)

	out, err := g.executor.RunWithOutput(ctx, g.bin, args)
	if err != nil {
		return nil, classifyListError(err, username)
	}

	var repos []domain.Repository
	if err := json.Unmarshal(out, &repos); err != nil {
		return nil, fmt.Errorf("failed to parse repository list: %w", err)
	}
	g.logger.Info("fetched repositories", "count", len(repos))
	return repos, nil
}

// classifyListError maps gh diagnostics onto the domain error taxonomy.
func classifyListError(err error, username string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: gh is not installed", domain.ErrCLINotFound)
	}
	msg := err.Error()
	if strings.Contains(msg, "Could not resolve to") || strings.Contains(msg, "HTTP 404") {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
}

// Languages returns the byte count per language for one repository.
func (g *GitHubCLI) Languages(ctx context.Context, owner, name string) (map[string]int64, error) {
	g.logger.Debug("fetching languages", "repo", owner+"/"+name)

	out, err := g.executor.RunWithOutput(ctx, g.bin, []string{"api", fmt.Sprintf("repos/%s/%s/languages", owner, name)})
	if err != nil {
		return nil, fmt.Errorf("%w: languages of %s/%s: %v", domain.ErrFetchFailed, owner, name, err)
	}

	langs := make(map[string]int64)
	if err := json.Unmarshal(out, &langs); err != nil {
		return nil, fmt.Errorf("failed to parse languages of %s/%s: %w", owner, name, err)
	}
	return langs, nil
}

// TreeSummary lists the default branch's git tree recursively and compacts it
// to blob count, blob byte total and the truncation flag. `gh api` returns
// the canonical REST payloads, so they decode straight into go-github's types.
func (g *GitHubCLI) TreeSummary(ctx context.Context, owner, name string) (*domain.TreeSummary, error) {
	g.logger.Debug("fetching tree summary", "repo", owner+"/"+name)

	out, err := g.executor.RunWithOutput(ctx, g.bin, []string{"api", fmt.Sprintf("repos/%s/%s", owner, name)})
	if err != nil {
		return nil, fmt.Errorf("%w: repository %s/%s: %v", domain.ErrFetchFailed, owner, name, err)
	}
	var repo github.Repository
	if err := json.Unmarshal(out, &repo); err != nil {
		return nil, fmt.Errorf("failed to parse repository %s/%s: %w", owner, name, err)
	}

	branch := repo.GetDefaultBranch()
	if branch == "" {
		// Empty repository: no default branch, nothing to count.
		return &domain.TreeSummary{}, nil
	}

	out, err = g.executor.RunWithOutput(ctx, g.bin, []string{"api", fmt.Sprintf("repos/%s/%s/git/trees/%s?recursive=1", owner, name, branch)})
	if err != nil {
		return nil, fmt.Errorf("%w: tree of %s/%s: %v", domain.ErrFetchFailed, owner, name, err)
	}
	var tree github.Tree
	if err := json.Unmarshal(out, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse tree of %s/%s: %w", owner, name, err)
	}

	summary := &domain.TreeSummary{Truncated: tree.GetTruncated()}
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		summary.FileCount++
		summary.TotalBytes += int64(entry.GetSize())
	}
	return summary, nil
}
