// Package version carries the build stamp exposed on /version.
package version

import "fmt"

// Set at build time via -ldflags "-X ...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns a single-line human-readable build stamp.
func String() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, GitCommit, BuildDate)
}
