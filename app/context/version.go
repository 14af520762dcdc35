package context

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// VersionInfo contains the application version metadata embedded by the Go
// toolchain at build time.
type VersionInfo struct {
	Semantic string
	Commit   string
	Dirty    bool
}

// GetVersion returns the application version read from the binary's build
// information.
func GetVersion() (*VersionInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("failed reading build information")
	}

	v := &VersionInfo{Semantic: buildInfo.Main.Version}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			v.Commit = setting.Value
		case "vcs.modified":
			v.Dirty = setting.Value == "true"
		}
	}

	return v, nil
}

// String renders the version in a human-friendly format.
func (v *VersionInfo) String() string {
	version := v.Semantic
	if version == "" || version == "(devel)" {
		version = "devel"
	}
	if v.Commit != "" {
		commit := v.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		version = fmt.Sprintf("%s (%s)", version, commit)
	}
	if v.Dirty {
		version += " dirty"
	}

	return version
}
