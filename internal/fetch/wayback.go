package fetch

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

// waybackAPIBase is overridable in tests. It serves both the availability
// endpoint and snapshot replays.
var waybackAPIBase = "https://archive.org"

// Archived page markup changes over the years, so each metric gets a list of
// candidate patterns tried in order. First capture group is the count.
var (
	githubStarsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)aria-label="([\d,.]+[km]?) users? starred`),
		regexp.MustCompile(`(?is)([\d,.]+[km]?)\s*</span>\s*<span[^>]*>\s*stars?`),
		regexp.MustCompile(`(?i)"stargazers_count"\s*:\s*(\d+)`),
		regexp.MustCompile(`(?is)social-count[^>]*>\s*([\d,.]+[km]?)\s*<`),
	}
	githubForksPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)aria-label="([\d,.]+[km]?) users? forked`),
		regexp.MustCompile(`(?is)([\d,.]+[km]?)\s*</span>\s*<span[^>]*>\s*forks?`),
		regexp.MustCompile(`(?i)"forks_count"\s*:\s*(\d+)`),
	}
	githubIssuesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)issues[^<]*</a>[^<]*<span[^>]*>\s*([\d,.]+[km]?)`),
		regexp.MustCompile(`(?i)"open_issues_count"\s*:\s*(\d+)`),
		regexp.MustCompile(`(?is)<span[^>]*Counter[^>]*>\s*([\d,.]+[km]?)\s*</span>\s*</a>[^<]*issues`),
	}
	redditSubscriberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"subscribers"\s*:\s*(\d+)`),
		regexp.MustCompile(`(?i)([\d,.]+[km]?)\s*(?:members|readers|subscribers)`),
		regexp.MustCompile(`(?is)subscribers[^>]*>\s*<span[^>]*>([\d,.]+[km]?)<`),
	}
)

// WaybackFetcher scrapes metric counts out of archived page snapshots. It is
// the only historical adapter, and doubles as the live reddit adapter by
// replaying the most recent snapshot.
type WaybackFetcher struct {
	Target    schema.Family
	Owner     string
	Repo      string
	Subreddit string
	Doer      contract.Doer
}

type waybackAvailableResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
			Timestamp string `json:"timestamp"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

func (f *WaybackFetcher) Family() schema.Family {
	return f.Target
}

// Fetch replays the snapshot closest to now.
func (f *WaybackFetcher) Fetch(ctx context.Context) (*schema.DataPoint, error) {
	return f.FetchAt(ctx, time.Now().UTC().Format(contract.CompactTimestampFormat))
}

func (f *WaybackFetcher) FetchAt(ctx context.Context, timestamp string) (*schema.DataPoint, error) {
	target, err := f.targetURL()
	if err != nil {
		return nil, err
	}

	availURL := fmt.Sprintf("%s/wayback/available?url=%s&timestamp=%s",
		waybackAPIBase, url.QueryEscape(target), timestamp)
	var avail waybackAvailableResponse
	if err := getJSON(ctx, f.Doer, availURL, nil, &avail); err != nil {
		return nil, err
	}
	closest := avail.ArchivedSnapshots.Closest
	if !closest.Available || closest.URL == "" {
		return nil, fmt.Errorf("no archived snapshot of %s near %s: %w", target, timestamp, contract.ErrNotFound)
	}

	body, err := getBody(ctx, f.Doer, closest.URL, nil)
	if err != nil {
		return nil, err
	}

	date, err := contract.CompactToDayKey(closest.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("snapshot of %s has bad timestamp %q: %w", target, closest.Timestamp, err)
	}

	point := &schema.DataPoint{
		Date:         date,
		Source:       schema.SourceWayback,
		SourceDetail: closest.Timestamp,
	}
	switch f.Target {
	case schema.GitHubFamily:
		point.Stars = scrapeCount(body, githubStarsPatterns)
		point.Forks = scrapeCount(body, githubForksPatterns)
		point.OpenIssues = scrapeCount(body, githubIssuesPatterns)
		if point.Stars == nil {
			return nil, fmt.Errorf("star count not found in snapshot of %s: %w", target, contract.ErrNotFound)
		}
	case schema.RedditFamily:
		point.Subscribers = scrapeCount(body, redditSubscriberPatterns)
		if point.Subscribers == nil {
			return nil, fmt.Errorf("subscriber count not found in snapshot of %s: %w", target, contract.ErrNotFound)
		}
	default:
		return nil, fmt.Errorf("no archived-page patterns for family: %s", f.Target)
	}
	return point, nil
}

func (f *WaybackFetcher) targetURL() (string, error) {
	switch f.Target {
	case schema.GitHubFamily:
		if f.Owner == "" || f.Repo == "" {
			return "", fmt.Errorf("github owner and repo are required for archived fetches")
		}
		return fmt.Sprintf("https://github.com/%s/%s", f.Owner, f.Repo), nil
	case schema.RedditFamily:
		if f.Subreddit == "" {
			return "", fmt.Errorf("subreddit is required for archived fetches")
		}
		return fmt.Sprintf("https://www.reddit.com/r/%s/", f.Subreddit), nil
	default:
		return "", fmt.Errorf("no archive target for family: %s", f.Target)
	}
}

// scrapeCount tries each candidate pattern against the page and returns the
// first parseable count.
func scrapeCount(body []byte, patterns []*regexp.Regexp) *int {
	for _, re := range patterns {
		m := re.FindSubmatch(body)
		if m == nil {
			continue
		}
		if v, ok := parseCount(string(m[1])); ok {
			return schema.IntPtr(v)
		}
	}
	return nil
}

// parseCount parses human-formatted counts: plain digits, comma separators,
// and abbreviated "1.2k"/"3m" forms.
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'm':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(v*multiplier + 0.5), true
}
