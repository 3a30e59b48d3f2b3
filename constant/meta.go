// Package constant defines immutable application-level identifiers and build metadata.
package constant

const (
	// App is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	App = "cinelane"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent by resolver collaborators that talk to remote catalogs.
	UserAgent = App + "/" + Version

	// Releases is the GitHub API endpoint describing the latest published release.
	Releases = "https://api.github.com/repos/cinelane/cinelane/releases/latest"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
