// Package version holds the build version, overridable at link time.
package version

// Version is the quadsync release version.
// Set via -ldflags "-X github.com/Aman-CERP/quadsync/pkg/version.Version=v1.2.3"
var Version = "dev"
