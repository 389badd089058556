// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X git.home.luguber.info/inful/mdbook-chapter-zero/internal/version.Version=v0.1.0"
package version

import "fmt"

var (
	// Version is reported to mdBook through the preprocessor metadata.
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("mdbook-chapter-zero %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
