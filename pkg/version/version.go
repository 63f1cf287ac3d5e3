// Package version reports how the amanlaunch binary was built.
//
// Release builds inject Version, Commit and Date with ldflags:
//
//	-X github.com/Aman-CERP/amanlaunch/pkg/version.Version=$(VERSION)
//
// Builds without ldflags (go install, go build in a checkout) fall back to
// the VCS stamp the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"

	GoVersion = runtime.Version()
)

// BuildInfo is the JSON shape of `amanlaunch version --json`.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

type vcsStamp struct {
	revision string
	time     string
	modified bool
}

var readStamp = sync.OnceValue(func() vcsStamp {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return vcsStamp{}
	}
	return stampFrom(info.Settings)
})

func stampFrom(settings []debug.BuildSetting) vcsStamp {
	var s vcsStamp
	for _, kv := range settings {
		switch kv.Key {
		case "vcs.revision":
			s.revision = kv.Value
			if len(s.revision) > 7 {
				s.revision = s.revision[:7]
			}
		case "vcs.time":
			s.time = kv.Value
		case "vcs.modified":
			s.modified = kv.Value == "true"
		}
	}
	return s
}

// GetInfo returns the build information, filling unset ldflags values from
// the embedded VCS stamp.
func GetInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	stamp := readStamp()
	if info.Commit == "unknown" && stamp.revision != "" {
		info.Commit = stamp.revision
		info.Dirty = stamp.modified
	}
	if info.Date == "unknown" && stamp.time != "" {
		info.Date = stamp.time
	}
	return info
}

// String returns the one-line version banner.
func String() string {
	info := GetInfo()
	commit := info.Commit
	if info.Dirty {
		commit += "+dirty"
	}
	return fmt.Sprintf("amanlaunch %s (commit: %s, built: %s, go: %s, %s/%s)",
		info.Version, commit, info.Date, info.GoVersion, info.OS, info.Arch)
}

// Short returns just the version.
func Short() string {
	return Version
}
