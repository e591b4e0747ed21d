// Package build provides build-time metadata that is stamped in
// via -ldflags at release time.
package build

const ProjectName = "vertigo"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
