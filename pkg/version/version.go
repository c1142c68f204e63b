// Package version provides build and version information for openglossctl.
package version

import (
	"fmt"
	"runtime"
)

// Version is the current version of openglossctl.
// Set via ldflags at build time, or defaults to dev.
// e.g. -X github.com/opengloss/opengloss/pkg/version.Version=v1.2.3
var Version = "dev"

// Build information set via ldflags at build time.
var (
	// Commit is the git commit hash.
	// e.g. -X github.com/opengloss/opengloss/pkg/version.Commit=<short sha>
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	// e.g. -X github.com/opengloss/opengloss/pkg/version.Date=<RFC3339 time>
	Date = "unknown"

	// GoVersion is the Go version used to build the binary (set at runtime).
	GoVersion = runtime.Version()
)

// ArchiveVersion is the lexarchive/FST schema version this binary was built
// against, echoed by `openglossctl info` alongside the data directory's own
// header version so a mismatch is visible before a stale archive is loaded.
const ArchiveVersion = 1

// Full returns complete version and build information.
func Full() string {
	return fmt.Sprintf(
		"openglossctl version %s\n  git commit: %s\n  build time: %s\n  go version: %s\n  platform: %s/%s\n  archive version: %d",
		Version,
		Commit,
		Date,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
		ArchiveVersion,
	)
}
