// Package buildinfo carries version stamps injected with -ldflags.
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the window title and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	}
	return "dev"
}

// String returns the full version line printed by `inkdo version`.
func String() string {
	return fmt.Sprintf("inkdo %s (commit %s, built %s)", Version, Commit, Date)
}
