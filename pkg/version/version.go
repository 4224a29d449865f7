package version

import "fmt"

// Set by the build process with -ldflags.
var (
	Version   string
	GitCommit string
	BuildDate string
)

func String() string {
	if Version == "" {
		return "dev"
	}
	return fmt.Sprintf("%s (%s) built on %s", Version, GitCommit, BuildDate)
}
