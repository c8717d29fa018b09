// Package runtime carries the build metadata stamped in with -ldflags.
package runtime

import (
	"fmt"
	goruntime "runtime"
)

// Name is the program name shown in version output.
const Name = "a2dd"

var (
	// Version is the semantic version (set via -ldflags)
	Version = "0.0.0-dev"

	// GitCommit is the short git commit hash (set via -ldflags)
	GitCommit = "dev"

	// BuildTime is the UTC build timestamp (set via -ldflags)
	BuildTime = "unknown"
)

// VersionString returns the formatted version string for display, including
// the toolchain and platform the binary was built for.
func VersionString() string {
	return fmt.Sprintf("%s version %s (%s) built %s with %s for %s/%s",
		Name, Version, GitCommit, BuildTime, goruntime.Version(), goruntime.GOOS, goruntime.GOARCH)
}
