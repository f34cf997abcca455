package fetch

import (
	"context"
	"fmt"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

// githubAPIBase is overridable in tests.
var githubAPIBase = "https://api.github.com"

// GitHubFetcher reads repository counters from the GitHub REST API.
type GitHubFetcher struct {
	Owner string
	Repo  string
	Token string
	Doer  contract.Doer
}

type githubRepoResponse struct {
	StargazersCount *int `json:"stargazers_count"`
	ForksCount      *int `json:"forks_count"`
	OpenIssuesCount *int `json:"open_issues_count"`
}

func (f *GitHubFetcher) Family() schema.Family {
	return schema.GitHubFamily
}

func (f *GitHubFetcher) Fetch(ctx context.Context) (*schema.DataPoint, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", githubAPIBase, f.Owner, f.Repo)
	headers := map[string]string{
		"Accept": "application/vnd.github+json",
	}
	if f.Token != "" {
		headers["Authorization"] = "Bearer " + f.Token
	}

	var repo githubRepoResponse
	if err := getJSON(ctx, f.Doer, url, headers, &repo); err != nil {
		return nil, err
	}
	if repo.StargazersCount == nil {
		return nil, fmt.Errorf("repo %s/%s: %w", f.Owner, f.Repo, contract.ErrNotFound)
	}

	return &schema.DataPoint{
		Date:       today(),
		Stars:      repo.StargazersCount,
		Forks:      repo.ForksCount,
		OpenIssues: repo.OpenIssuesCount,
		Source:     schema.SourceGitHubAPI,
	}, nil
}
