package core

import (
	"fmt"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
	"github.com/spf13/viper"
)

// anchorRaw mirrors one anchor record in the anchors file. Metric fields are
// pointers so that an absent metric stays distinguishable from zero.
type anchorRaw struct {
	Date        string `mapstructure:"date"`
	Stars       *int   `mapstructure:"stars"`
	Forks       *int   `mapstructure:"forks"`
	OpenIssues  *int   `mapstructure:"openIssues"`
	Topics      *int   `mapstructure:"topics"`
	Posts       *int   `mapstructure:"posts"`
	Users       *int   `mapstructure:"users"`
	ActiveUsers *int   `mapstructure:"activeUsers"`
	Followers   *int   `mapstructure:"followers"`
	Subscribers *int   `mapstructure:"subscribers"`
	Events      *int   `mapstructure:"events"`
	Creators    *int   `mapstructure:"creators"`
	Templates   *int   `mapstructure:"templates"`
	Source      string `mapstructure:"source"`
}

// LoadAnchors reads the externally supplied anchor configuration for the
// interpolator. The file is YAML (or JSON) with a top-level "anchors" list of
// records carrying a month key and the family's metric values. Records must
// be ordered ascending; this is validated here rather than silently re-sorted
// so that a miscurated file is caught early.
func LoadAnchors(path string) ([]schema.DataPoint, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read anchors file %s: %w", path, err)
	}

	var raws []anchorRaw
	if err := v.UnmarshalKey("anchors", &raws); err != nil {
		return nil, fmt.Errorf("malformed anchors file %s: %w", path, err)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("anchors file %s has no anchor records", path)
	}

	anchors := make([]schema.DataPoint, 0, len(raws))
	for i, raw := range raws {
		if _, _, err := contract.ParseMonthKey(raw.Date); err != nil {
			return nil, fmt.Errorf("anchor %d: %w", i, err)
		}
		if i > 0 && raws[i-1].Date >= raw.Date {
			return nil, fmt.Errorf("anchors must be strictly ascending: %s followed by %s", raws[i-1].Date, raw.Date)
		}
		point := schema.DataPoint{
			Date:        raw.Date,
			Stars:       raw.Stars,
			Forks:       raw.Forks,
			OpenIssues:  raw.OpenIssues,
			Topics:      raw.Topics,
			Posts:       raw.Posts,
			Users:       raw.Users,
			ActiveUsers: raw.ActiveUsers,
			Followers:   raw.Followers,
			Subscribers: raw.Subscribers,
			Events:      raw.Events,
			Creators:    raw.Creators,
			Templates:   raw.Templates,
			Source:      raw.Source,
		}
		anchors = append(anchors, point)
	}
	return anchors, nil
}
