// Package misc provides program identity helpers.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const appName = "mvstyle"

// Set with -ldflags "-X mvstyle/misc.version=... -X mvstyle/misc.gitHash=..."
var (
	version string
	gitHash string
)

// GetAppName returns the program name without extension, falling back to
// the default name when it cannot be determined.
func GetAppName() string {
	if len(os.Args) == 0 || len(os.Args[0]) == 0 {
		return appName
	}
	base := filepath.Base(os.Args[0])
	if strings.HasSuffix(base, ".test") {
		// running under go test
		return appName
	}
	if name := strings.TrimSuffix(base, filepath.Ext(base)); len(name) > 0 {
		return name
	}
	return appName
}

// GetVersion returns the program version.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns the VCS revision the program was built from.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
