// Package version holds the build version, overridable at link time.
package version

// Version is the a11y-assist release version.
var Version = "0.1.0"
