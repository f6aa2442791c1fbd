// Package version reports the build the binary came from. The variables are set
// with -ldflags "-X github.com/roshda/galaxy-o-meter/internal/platform/version.Version=...".
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const product = "galaxy-o-meter"

// Info is served at /version.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
	if info.Commit == "unknown" {
		info.Commit = vcsRevision()
	}
	return info
}

// UserAgent identifies outbound requests, such as the sentiment artifact fetch.
func UserAgent() string {
	return product + "/" + Version
}

// vcsRevision falls back to the revision the go tool stamped into the binary.
func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return "unknown"
}
