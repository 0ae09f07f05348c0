package app

import (
	"strings"

	"golang.org/x/mod/semver"
)

// BackendSupported reports whether the reported backend version meets
// MinBackendVersion. An unparsable version is accepted with the
// assumption that dev builds report arbitrary strings.
func BackendSupported(version string) bool {
	reported := normalizeSemver(version)
	if !semver.IsValid(reported) {
		return true
	}

	return semver.Compare(reported, normalizeSemver(MinBackendVersion)) >= 0
}

func normalizeSemver(version string) string {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "v") {
		return "v" + trimmed
	}

	return trimmed
}
