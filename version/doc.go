// Package version reports the SDK's build information.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/sandboxhq/sandbox-go/version.Version=0.1.0"
//
// When they are not set, values are read from the embedded module build info.
package version
