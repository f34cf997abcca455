// Package fetch contains the per-source adapters that turn upstream APIs and
// archived pages into normalized data points. Each adapter is isolated so a
// broken upstream fails one adapter, not the pipeline.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

const userAgent = "pulse-metrics/1.0"

// maxBodyBytes bounds how much of a response we are willing to read. Archived
// HTML replays can be large but never legitimately exceed this.
const maxBodyBytes = 8 << 20

// NewDoer returns the default HTTP client for adapters. No explicit timeout
// is set; callers control lifetime through the request context.
func NewDoer() contract.Doer {
	return &http.Client{}
}

// New builds the live-source adapter for a family.
func New(family schema.Family, cfg *contract.Config, doer contract.Doer) (contract.Fetcher, error) {
	switch family {
	case schema.GitHubFamily:
		return &GitHubFetcher{Owner: cfg.GitHubOwner, Repo: cfg.GitHubRepo, Token: cfg.GitHubToken, Doer: doer}, nil
	case schema.ForumFamily:
		return &ForumFetcher{BaseURL: cfg.ForumURL, Doer: doer}, nil
	case schema.BlueskyFamily:
		return &BlueskyFetcher{Handle: cfg.BlueskyHandle, Doer: doer}, nil
	case schema.RedditFamily:
		// Reddit has no reachable live API; "live" means the most recent
		// archived snapshot.
		return &WaybackFetcher{Target: schema.RedditFamily, Subreddit: cfg.Subreddit, Doer: doer}, nil
	case schema.EventsFamily:
		return &EventsFetcher{PageURL: cfg.EventsURL, Doer: doer}, nil
	case schema.CreatorsFamily:
		return &CreatorsFetcher{URLTemplate: cfg.CreatorsURL, Doer: doer}, nil
	default:
		return nil, fmt.Errorf("no live adapter for family: %s", family)
	}
}

// NewHistorical builds the archive-replay adapter for a family. Only the
// families with a scrapeable archived page support backfills.
func NewHistorical(family schema.Family, cfg *contract.Config, doer contract.Doer) (contract.HistoricalFetcher, error) {
	switch family {
	case schema.GitHubFamily:
		return &WaybackFetcher{Target: schema.GitHubFamily, Owner: cfg.GitHubOwner, Repo: cfg.GitHubRepo, Doer: doer}, nil
	case schema.RedditFamily:
		return &WaybackFetcher{Target: schema.RedditFamily, Subreddit: cfg.Subreddit, Doer: doer}, nil
	default:
		return nil, fmt.Errorf("family does not support historical backfill: %s", family)
	}
}

// getBody performs a GET and returns the response body. Non-2xx statuses are
// errors; 404 maps to ErrNotFound so callers can treat it as a skip.
func getBody(ctx context.Context, doer contract.Doer, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, contract.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body from %s: %w", url, err)
	}
	return body, nil
}

// getJSON performs a GET and decodes the JSON body into out.
func getJSON(ctx context.Context, doer contract.Doer, url string, headers map[string]string, out any) error {
	body, err := getBody(ctx, doer, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unexpected JSON shape from %s: %w", url, err)
	}
	return nil
}

// today returns the current UTC date in the canonical day format.
func today() string {
	return time.Now().UTC().Format(schema.DateFormat)
}
