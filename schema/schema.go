// Package schema defines the shared data model for the pulse pipeline.
package schema

// DataPoint is one measurement of a metric family at one point in time.
// Metric fields are pointers so that "not measured" is distinguishable from
// a legitimate zero; families only populate the fields they own and the
// remaining fields stay nil and are omitted from the persisted JSON.
type DataPoint struct {
	Date string `json:"date"`

	// GitHub family
	Stars      *int `json:"stars,omitempty"`
	Forks      *int `json:"forks,omitempty"`
	OpenIssues *int `json:"openIssues,omitempty"`

	// Forum (Discourse) family
	Topics      *int `json:"topics,omitempty"`
	Posts       *int `json:"posts,omitempty"`
	Users       *int `json:"users,omitempty"`
	ActiveUsers *int `json:"activeUsers,omitempty"`

	// Social families
	Followers   *int `json:"followers,omitempty"`
	Subscribers *int `json:"subscribers,omitempty"`

	// Events family
	Events *int `json:"events,omitempty"`

	// Creators family
	Creators  *int `json:"creators,omitempty"`
	Templates *int `json:"templates,omitempty"`

	Source       string `json:"source,omitempty"`
	SourceDetail string `json:"sourceDetail,omitempty"`
}

// Get returns the value of the named metric, or nil when unset.
func (p *DataPoint) Get(m Metric) *int {
	switch m {
	case MetricStars:
		return p.Stars
	case MetricForks:
		return p.Forks
	case MetricOpenIssues:
		return p.OpenIssues
	case MetricTopics:
		return p.Topics
	case MetricPosts:
		return p.Posts
	case MetricUsers:
		return p.Users
	case MetricActiveUsers:
		return p.ActiveUsers
	case MetricFollowers:
		return p.Followers
	case MetricSubscribers:
		return p.Subscribers
	case MetricEvents:
		return p.Events
	case MetricCreators:
		return p.Creators
	case MetricTemplates:
		return p.Templates
	}
	return nil
}

// Set assigns the named metric. Unknown metrics are ignored.
func (p *DataPoint) Set(m Metric, v *int) {
	switch m {
	case MetricStars:
		p.Stars = v
	case MetricForks:
		p.Forks = v
	case MetricOpenIssues:
		p.OpenIssues = v
	case MetricTopics:
		p.Topics = v
	case MetricPosts:
		p.Posts = v
	case MetricUsers:
		p.Users = v
	case MetricActiveUsers:
		p.ActiveUsers = v
	case MetricFollowers:
		p.Followers = v
	case MetricSubscribers:
		p.Subscribers = v
	case MetricEvents:
		p.Events = v
	case MetricCreators:
		p.Creators = v
	case MetricTemplates:
		p.Templates = v
	}
}

// Clone returns a deep copy of the point.
func (p DataPoint) Clone() DataPoint {
	out := p
	for _, m := range AllMetrics {
		if v := p.Get(m); v != nil {
			c := *v
			out.Set(m, &c)
		}
	}
	return out
}

// IntPtr is a convenience constructor for optional metric values.
func IntPtr(v int) *int {
	return &v
}
