// Package buildinfo carries the firmware identity stamped in at link time:
//
//	-ldflags "-X rfpocket/internal/buildinfo.Version=v0.3.1"
package buildinfo

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns the compact identifier shown on the splash screen. It fits
// the 128px wide display in the small face.
func Short() string {
	if Version != "" && Version != "dev" {
		return truncate(Version)
	}
	if Commit != "" && Commit != "unknown" {
		return truncate(Commit)
	}
	return "dev"
}

// String is the full identity logged at boot.
func String() string {
	return Short() + " " + Commit + " " + Date
}

// maxShort keeps the splash line inside the panel.
const maxShort = 12

func truncate(s string) string {
	if len(s) > maxShort {
		return s[:maxShort]
	}
	return s
}
