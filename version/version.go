package version

import (
	"fmt"
	"runtime/debug"
)

// Set through -ldflags; the defaults mean "not injected".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the injected version, then the module version, then "development".
func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "development"
}

// GetCommit returns the injected commit or the VCS revision recorded at build time.
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	return buildSetting("vcs.revision")
}

// GetBuildDate returns the injected date or the VCS commit time.
func GetBuildDate() string {
	if Date != "unknown" && Date != "" {
		return Date
	}
	return buildSetting("vcs.time")
}

func buildSetting(key string) string {
	if info, ok := readBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == key && setting.Value != "" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

// GetFullVersion returns the version with a short commit and build date when known.
func GetFullVersion() string {
	version, commit, date := GetVersion(), GetCommit(), GetBuildDate()
	if commit == "unknown" || len(commit) <= 7 {
		return version
	}
	if date != "unknown" {
		return fmt.Sprintf("%s (%s, built %s)", version, commit[:7], date)
	}
	return fmt.Sprintf("%s (%s)", version, commit[:7])
}
