// Package buildinfo derives gemkey's version from Go build metadata.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// ProductName prefixes the User-Agent sent with validation probes.
const ProductName = "gemkey"

// version may be stamped at link time: -X github.com/tsukumogami/gemkey/internal/buildinfo.version=v1.2.3
var version string

// Version returns the version string for the current build.
//
// Order of precedence:
//   - a version stamped via ldflags
//   - the module version for `go install ...@vX.Y.Z`
//   - "dev-<hash>[-dirty]" from VCS settings
//   - "dev" without VCS info, "unknown" if build info is unreadable
func Version() string {
	if version != "" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion(info)
}

// UserAgent is the User-Agent header value for outbound probes.
func UserAgent() string {
	return ProductName + "/" + Version()
}

func devVersion(info *debug.BuildInfo) string {
	var revision string
	var modified bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}

	v := fmt.Sprintf("dev-%s", revision)
	if modified {
		v += "-dirty"
	}
	return v
}
