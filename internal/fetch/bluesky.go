package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

// blueskyAPIBase is overridable in tests.
var blueskyAPIBase = "https://public.api.bsky.app"

// BlueskyFetcher reads follower counts from the public Bluesky AppView API.
// No authentication is required.
type BlueskyFetcher struct {
	Handle string
	Doer   contract.Doer
}

type blueskyProfileResponse struct {
	FollowersCount *int `json:"followersCount"`
}

func (f *BlueskyFetcher) Family() schema.Family {
	return schema.BlueskyFamily
}

func (f *BlueskyFetcher) Fetch(ctx context.Context) (*schema.DataPoint, error) {
	endpoint := fmt.Sprintf("%s/xrpc/app.bsky.actor.getProfile?actor=%s",
		blueskyAPIBase, url.QueryEscape(f.Handle))

	var profile blueskyProfileResponse
	if err := getJSON(ctx, f.Doer, endpoint, nil, &profile); err != nil {
		return nil, err
	}
	if profile.FollowersCount == nil {
		return nil, fmt.Errorf("bluesky profile %s: %w", f.Handle, contract.ErrNotFound)
	}

	return &schema.DataPoint{
		Date:      today(),
		Followers: profile.FollowersCount,
		Source:    schema.SourceBlueskyAPI,
	}, nil
}
