package app

import (
	"strings"
	"time"
)

// Version and BuildDate are stamped by ldflags in release builds;
// source builds run as "dev" with no date.
var (
	Version   = "dev"
	BuildDate = ""
)

// buildDateLayouts are the formats release tooling is known to stamp.
var buildDateLayouts = []string{time.RFC3339, time.DateOnly}

func BuildVersion() string {
	version := strings.TrimSpace(Version)
	if version == "" {
		return "dev"
	}

	return version
}

// BuildDateYMD reduces the stamped build date to YYYY-MM-DD. Stamps it
// cannot parse pass through unchanged.
func BuildDateYMD() string {
	raw := strings.TrimSpace(BuildDate)
	if raw == "" {
		return ""
	}

	for _, layout := range buildDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format(time.DateOnly)
		}
	}
	if len(raw) > len(time.DateOnly) {
		if date := raw[:len(time.DateOnly)]; isDateOnly(date) {
			return date
		}
	}

	return raw
}

// BuildVersionWithDate renders "version (date)" for window titles and
// about text, or just the version for undated builds.
func BuildVersionWithDate() string {
	version := BuildVersion()
	buildDate := BuildDateYMD()
	if buildDate == "" {
		return version
	}

	return version + " (" + buildDate + ")"
}

func isDateOnly(value string) bool {
	_, err := time.Parse(time.DateOnly, value)

	return err == nil
}
