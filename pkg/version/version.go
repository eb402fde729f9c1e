// Package version exposes build metadata stamped in via -ldflags.
package version

import "fmt"

// Build metadata, overridden at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the full version line.
func String() string {
	return fmt.Sprintf("itree %s (commit: %s, built: %s)", Version, Commit, Date)
}
