// Package buildinfo holds version information injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/watchfire-io/nanny/internal/buildinfo.Version=0.2.0" ./cmd/nanny
package buildinfo

var (
	Version    = "dev"
	Codename   = "Nursery"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
