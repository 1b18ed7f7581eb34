// Package buildinfo holds build-time metadata that is not user-configurable.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/futurework-1/NestEgg-Journal/internal/buildinfo.version=..."
var (
	version   = ""
	buildDate = ""
)

const unknown = "unknown"

// Info describes the running binary
type Info struct {
	Version   string
	BuildDate string
	GoVersion string
}

// Current returns the stamped metadata. Without ldflags the module version
// recorded by the Go toolchain is used, and "unknown" after that.
func Current() Info {
	info := Info{Version: version, BuildDate: buildDate, GoVersion: unknown}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	if info.Version == "" {
		info.Version = unknown
	}
	if info.BuildDate == "" {
		info.BuildDate = unknown
	}
	return info
}

// Release is the identifier reported to error telemetry
func (i Info) Release() string {
	return "nestegg@" + i.Version
}

func (i Info) String() string {
	return fmt.Sprintf("%s (built %s, %s)", i.Version, i.BuildDate, i.GoVersion)
}
