// Package version reports the build version of toximcp.
package version

import "runtime/debug"

// Version is set at build time with -ldflags "-X github.com/toximcp/toximcp/pkg/version.Version=v1.2.3".
var Version = ""

// GetVersion returns the build version.
// It falls back to the module version recorded by the go tool, and to "dev" for local builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
