// Package version carries build metadata injected at link time.
package version

// Version is the semantic version of the reuselens binary.
// Overridden via -ldflags "-X github.com/reuselens/reuselens/pkg/version.Version=...".
var Version = "dev"

// Commit is the git commit hash the binary was built from.
var Commit = "unknown"

// Date is the build timestamp in RFC 3339 format.
var Date = "unknown"
