package version

import "fmt"

var (
	// Version is the release tag, without the leading "v".
	Version = "dev"
	// Commit is the short git SHA of the build.
	Commit = "none"
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Short returns the release tag shown in the kiosk footer.
func Short() string {
	return Version
}

// Full returns the release tag with the commit and the build time.
func Full() string {
	return fmt.Sprintf("brie-blaster %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// Fields returns the build metadata as logger key-value pairs.
func Fields() []any {
	return []any{"version", Version, "commit", Commit, "build_time", BuildTime}
}
