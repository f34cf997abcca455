package schema

// Custom string types for type safety.
type (
	// Family identifies one metric family with its own raw log and history.
	Family string

	// Metric names a single numeric field of a DataPoint.
	Metric string

	// Granularity identifies one of the aggregated series.
	Granularity string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for snapshot caching
	// and the run ledger.
	DatabaseBackend string
)

// All metric families supported.
const (
	GitHubFamily   Family = "github"
	ForumFamily    Family = "forum"
	BlueskyFamily  Family = "bluesky"
	RedditFamily   Family = "reddit"
	EventsFamily   Family = "events"
	CreatorsFamily Family = "creators"
)

// All metrics across families.
const (
	MetricStars       Metric = "stars"
	MetricForks       Metric = "forks"
	MetricOpenIssues  Metric = "openIssues"
	MetricTopics      Metric = "topics"
	MetricPosts       Metric = "posts"
	MetricUsers       Metric = "users"
	MetricActiveUsers Metric = "activeUsers"
	MetricFollowers   Metric = "followers"
	MetricSubscribers Metric = "subscribers"
	MetricEvents      Metric = "events"
	MetricCreators    Metric = "creators"
	MetricTemplates   Metric = "templates"
)

// Aggregation granularities.
const (
	DailyGranularity   Granularity = "daily"
	WeeklyGranularity  Granularity = "weekly"
	MonthlyGranularity Granularity = "monthly"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Provenance tags recorded on fetched and derived points.
const (
	SourceGitHubAPI    = "github-api"
	SourceDiscourseAPI = "discourse-api"
	SourceBlueskyAPI   = "bluesky-api"
	SourceWayback      = "wayback"
	SourceEventsPage   = "events-page"
	SourceCreatorsRepo = "creators-repo"
	SourceInterpolated = "interpolated"
)

// AllMetrics lists every metric in a stable order.
var AllMetrics = []Metric{
	MetricStars, MetricForks, MetricOpenIssues,
	MetricTopics, MetricPosts, MetricUsers, MetricActiveUsers,
	MetricFollowers, MetricSubscribers,
	MetricEvents,
	MetricCreators, MetricTemplates,
}

// AllFamilies lists every metric family in a stable order.
var AllFamilies = []Family{
	GitHubFamily, ForumFamily, BlueskyFamily,
	RedditFamily, EventsFamily, CreatorsFamily,
}

// FamilyMetrics maps each family to the metrics it owns, in display order.
var FamilyMetrics = map[Family][]Metric{
	GitHubFamily:   {MetricStars, MetricForks, MetricOpenIssues},
	ForumFamily:    {MetricTopics, MetricPosts, MetricUsers, MetricActiveUsers},
	BlueskyFamily:  {MetricFollowers},
	RedditFamily:   {MetricSubscribers},
	EventsFamily:   {MetricEvents},
	CreatorsFamily: {MetricCreators, MetricTemplates},
}

// ValidFamilies lists all valid metric families.
var ValidFamilies = map[Family]struct{}{
	GitHubFamily:   {},
	ForumFamily:    {},
	BlueskyFamily:  {},
	RedditFamily:   {},
	EventsFamily:   {},
	CreatorsFamily: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
