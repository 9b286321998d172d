// Package version holds build metadata for e2ectl, set via -ldflags:
//
//	go build -ldflags "-X github.com/staffhub/employee-e2e/internal/version.Version=v1.2.0" ./cmd/e2ectl
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info contains structured version information.
type Info struct {
	Version   string `yaml:"version"`
	GitCommit string `yaml:"git_commit"`
	BuildDate string `yaml:"build_date"`
	GoVersion string `yaml:"go_version"`
}

func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// Full returns the full version string with all details.
func Full() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", Version, GitCommit, BuildDate, runtime.Version())
}
