// Package version reports build information for the asynctime binary.
//
// Version, commit and build time can be set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/asynctime/version.Version=1.0.0" ./cmd/asynctime
//
// Unset values fall back to the build info embedded by the Go toolchain.
package version
