// Package compileinfo reports the version control state a binary was built
// from.
package compileinfo

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " (modified)"
	}

	commit := c.Commit
	if commit == "" {
		commit = "unknown"
	}

	return fmt.Sprintf("%s built with %s at commit %s %s%s", c.Package, c.GoVersion, commit, c.CommitTime, mod)
}

// Fields describes the build for a startup log line.
func (c CompileInfo) Fields() []zap.Field {
	return []zap.Field{
		zap.String("package", c.Package),
		zap.String("go", c.GoVersion),
		zap.String("commit", c.Commit),
		zap.String("commit_time", c.CommitTime),
		zap.Bool("modified", c.Modified),
	}
}

// Get reads the build settings embedded by the go tool. Outside of a module
// build it returns the zero value.
func Get() CompileInfo {
	return fromBuildInfo(debug.ReadBuildInfo())
}

func fromBuildInfo(bi *debug.BuildInfo, ok bool) CompileInfo {
	out := CompileInfo{}
	if !ok || bi == nil {
		return out
	}

	out.GoVersion = bi.GoVersion
	out.Package = bi.Path
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
