package settings

import (
	"strings"
	"testing"
)

func TestValidateBooleanCanonicalizesTruthyAndFalsyWords(t *testing.T) {
	truthy := []string{"true", "TRUE", "1", "yes", "on", " Yes ", "On"}
	for _, raw := range truthy {
		got, err := Validate(KeySignaturesEnable, raw)
		if err != nil {
			t.Fatalf("expected %q to validate, got %v", raw, err)
		}
		if got != "true" {
			t.Fatalf("expected %q to canonicalize to true, got %q", raw, got)
		}
	}

	falsy := []string{"false", "FALSE", "0", "no", "off", " Off "}
	for _, raw := range falsy {
		got, err := Validate(KeyEnableFileLogging, raw)
		if err != nil {
			t.Fatalf("expected %q to validate, got %v", raw, err)
		}
		if got != "false" {
			t.Fatalf("expected %q to canonicalize to false, got %q", raw, got)
		}
	}
}

func TestValidateBooleanRejectsUnrecognizedInput(t *testing.T) {
	for _, raw := range []string{"", "maybe", "2", "tru", "offf"} {
		if _, err := Validate(KeySignaturesEnable, raw); err == nil {
			t.Fatalf("expected %q to fail boolean validation", raw)
		}
	}
}

func TestValidateLogLevelCanonicalizesToUppercase(t *testing.T) {
	got, err := Validate(KeyLogLevel, "debug")
	if err != nil {
		t.Fatalf("validate debug: %v", err)
	}
	if got != "DEBUG" {
		t.Fatalf("expected DEBUG, got %q", got)
	}
}

func TestValidateLogLevelRejectsEmptyAndUnknown(t *testing.T) {
	if _, err := Validate(KeyLogLevel, ""); err == nil || err.Error() != "required" {
		t.Fatalf("expected empty log level to fail with required, got %v", err)
	}

	_, err := Validate(KeyLogLevel, "verbose")
	if err == nil {
		t.Fatalf("expected verbose to fail")
	}
	for _, level := range []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"} {
		if !strings.Contains(err.Error(), level) {
			t.Fatalf("expected error to list %s, got %q", level, err.Error())
		}
	}
}

func TestValidateAlertThresholds(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		canonical string
		wantErr   bool
	}{
		{name: "valid ordered pair", raw: "-0.10, -0.05", canonical: "-0.10, -0.05"},
		{name: "whitespace normalized", raw: "  -0.2 ,   -0.1 ", canonical: "-0.2, -0.1"},
		{name: "trailing empty segment dropped", raw: "-0.2, -0.1,", canonical: "-0.2, -0.1"},
		{name: "equal cut points allowed", raw: "-0.1, -0.1", canonical: "-0.1, -0.1"},
		{name: "ordering violated", raw: "-0.05, -0.10", wantErr: true},
		{name: "single number", raw: "0.1", wantErr: true},
		{name: "three numbers", raw: "1, 2, 3", wantErr: true},
		{name: "not a number", raw: "-0.1, low", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := Validate(KeyAlertThresholds, tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error, got canonical %q", tc.name, got)
			}

			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.canonical {
			t.Fatalf("%s: expected canonical %q, got %q", tc.name, tc.canonical, got)
		}
	}
}

func TestValidateAlertThresholdsOrderingErrorIsExplicit(t *testing.T) {
	_, err := Validate(KeyAlertThresholds, "-0.05, -0.10")
	if err == nil || !strings.Contains(err.Error(), "high threshold") {
		t.Fatalf("expected ordering error, got %v", err)
	}
}

func TestValidateRetentionDays(t *testing.T) {
	tests := []struct {
		raw       string
		canonical string
		wantErr   bool
	}{
		{raw: "10", canonical: "10"},
		{raw: "0", canonical: "0"},
		{raw: "007", canonical: "7"},
		{raw: " 30 ", canonical: "30"},
		{raw: "-1", wantErr: true},
		{raw: "3.5", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "+5", wantErr: true},
		{raw: "ten", wantErr: true},
	}

	for _, tc := range tests {
		got, err := Validate(KeyRetentionAlerts, tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected %q to fail, got %q", tc.raw, got)
			}

			continue
		}
		if err != nil {
			t.Fatalf("validate %q: %v", tc.raw, err)
		}
		if got != tc.canonical {
			t.Fatalf("expected %q to canonicalize to %q, got %q", tc.raw, tc.canonical, got)
		}
	}
}

func TestValidateUnknownKeyPassesThroughTrimmed(t *testing.T) {
	got, err := Validate("Unknown.Key", "  value  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value" {
		t.Fatalf("expected trimmed pass-through, got %q", got)
	}
}

func TestDayCountParsesCanonicalValues(t *testing.T) {
	days, ok := DayCount("30")
	if !ok || days != 30 {
		t.Fatalf("expected 30 days, got %d (ok=%v)", days, ok)
	}
	if _, ok := DayCount("-1"); ok {
		t.Fatalf("expected -1 to be rejected")
	}
}

func TestThresholdsParsesCanonicalValues(t *testing.T) {
	high, medium, ok := Thresholds("-0.10, -0.05")
	if !ok {
		t.Fatalf("expected canonical thresholds to parse")
	}
	if high != -0.10 || medium != -0.05 {
		t.Fatalf("expected (-0.10, -0.05), got (%v, %v)", high, medium)
	}
	if _, _, ok := Thresholds("nope"); ok {
		t.Fatalf("expected malformed thresholds to be rejected")
	}
}
