package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Module    string `json:"module"`
	IsDirty   bool   `json:"is_dirty"`
}

// Get returns build information, filling anything not set through -ldflags
// from the module's embedded build info.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	info.Module = bi.Main.Path
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// String returns the version with the short commit and a dirty marker when
// known, e.g. "1.2.0-3f2a9c1-dirty".
func (i Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// Fields returns the info as structured log fields.
func (i Info) Fields() map[string]interface{} {
	f := map[string]interface{}{"version": i.String()}
	if i.GoVersion != "" {
		f["go_version"] = i.GoVersion
	}
	if i.BuildTime != "" {
		f["build_time"] = i.BuildTime
	}
	return f
}

// Banner returns a one-line description for -version output.
func (i Info) Banner(name string) string {
	s := fmt.Sprintf("%s %s", name, i)
	if i.GoVersion != "" {
		s += " (" + i.GoVersion + ")"
	}
	return s
}
