package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

// ForumFetcher reads community counters from a Discourse forum's about.json.
type ForumFetcher struct {
	BaseURL string
	Doer    contract.Doer
}

type discourseAboutResponse struct {
	About struct {
		Stats struct {
			TopicsCount       *int `json:"topics_count"`
			PostsCount        *int `json:"posts_count"`
			UsersCount        *int `json:"users_count"`
			ActiveUsers30Days *int `json:"active_users_30_days"`
		} `json:"stats"`
	} `json:"about"`
}

func (f *ForumFetcher) Family() schema.Family {
	return schema.ForumFamily
}

func (f *ForumFetcher) Fetch(ctx context.Context) (*schema.DataPoint, error) {
	url := strings.TrimSuffix(f.BaseURL, "/") + "/about.json"

	var about discourseAboutResponse
	if err := getJSON(ctx, f.Doer, url, nil, &about); err != nil {
		return nil, err
	}
	stats := about.About.Stats
	if stats.TopicsCount == nil && stats.PostsCount == nil && stats.UsersCount == nil {
		return nil, fmt.Errorf("forum %s: %w", f.BaseURL, contract.ErrNotFound)
	}

	return &schema.DataPoint{
		Date:        today(),
		Topics:      stats.TopicsCount,
		Posts:       stats.PostsCount,
		Users:       stats.UsersCount,
		ActiveUsers: stats.ActiveUsers30Days,
		Source:      schema.SourceDiscourseAPI,
	}, nil
}
