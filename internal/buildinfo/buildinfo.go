// Package buildinfo holds build-time variables injected via ldflags.
//
//	go build -ldflags "-X github.com/go-ports/projroot/internal/buildinfo.Version=v0.3.0"
package buildinfo

// Populated by -ldflags at build time; defaults used for local dev.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)
