// Package version reports the CLI build and checks version requirements.
package version

import (
	"fmt"
	"runtime"

	goversion "github.com/hashicorp/go-version"
)

var (
	// Version is the version of the CLI
	Version = "0.1.0"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("badger version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// Details returns the build fields as label/value lines
func (i Info) Details() string {
	return fmt.Sprintf("Build Date: %s\nGit Commit: %s\nPlatform:   %s\nGo Version: %s",
		i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}

// Check verifies that current satisfies constraint, e.g. ">= 0.1, < 1.0".
// An empty constraint always passes.
func Check(current, constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := goversion.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := goversion.NewVersion(current)
	if err != nil {
		return fmt.Errorf("invalid version format %q: %w", current, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("badger %s does not satisfy required version %q", v, constraint)
	}
	return nil
}
