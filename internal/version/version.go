// Package version exposes the build version of the devflake binary.
package version

// version is overridden at build time via
// -ldflags "-X github.com/indaco/devflake/internal/version.version=...".
var version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return version
}
