// Package version exposes the build version.
package version

// Version is the application version. Release builds override it via
// -ldflags "-X vsubgo/pkg/version.Version=...".
var Version = "0.1.0-dev"
