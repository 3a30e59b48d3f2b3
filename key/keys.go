// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 20

// Live Comment Lanes - these keys shape the lane scheduler that places floating annotations.
const (
	LanesCount     = "lanes.count"
	LanesClearance = "lanes.clearance"
	LanesGrace     = "lanes.grace"
	LanesCrossing  = "lanes.crossing"
)

// Locator Cache - these keys bound the in-memory locator cache and its on-disk snapshot.
const (
	CacheCapacity = "cache.capacity"
	CacheTTL      = "cache.ttl"
	CachePersist  = "cache.persist"
)

// Subtitles - these keys drive the playback-clock cue resolver.
const (
	SubtitlePoll    = "subtitle.poll"
	SubtitleEnabled = "subtitle.enabled"
)

// Locator Resolution - these keys select the resolver collaborator and its fallback chain.
const (
	ResolverDefault   = "resolver.default"
	ResolverFallbacks = "resolver.fallbacks"
	ResolverCatalog   = "resolver.catalog"
)

// Query History - these keys govern remembered title suggestions.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Media Playback - these keys select the external player used as the playback clock.
const (
	Player = "player.default"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
