// Package version provides build version information for the application.
// It is kept separate so cli, wailsapp and singleinstance can share it without cycles.
package version

// Version is the build version string, set by ldflags during build.
// Format: vX.Y.Z or vX.Y.Z-dev for development builds.
var Version = "v0.3.0-dev"

// BuildTime is the build timestamp, set by ldflags during build.
var BuildTime = "unknown"

// AppName is the product name shown in window titles and log lines.
const AppName = "SC Companion"
