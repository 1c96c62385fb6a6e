package version

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Set through -ldflags "-X github.com/MrSnakeDoc/drivemark/internal/version.Version=..." at build time.
var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()               // go version
)

func init() {
	if Commit != "none" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	Commit = fromBuildInfo(info.Settings, Commit)
}

// fromBuildInfo returns the short VCS revision stamped by the go tool, or def.
func fromBuildInfo(settings []debug.BuildSetting, def string) string {
	for _, s := range settings {
		if s.Key != "vcs.revision" || s.Value == "" {
			continue
		}
		if len(s.Value) > 7 {
			return s.Value[:7]
		}
		return s.Value
	}
	return def
}
