package settings

import (
	"reflect"
	"testing"
)

func TestNewFormSeedsEverySchemaKey(t *testing.T) {
	form := NewForm()
	for _, key := range Keys() {
		if form.Value(key) != "" {
			t.Fatalf("expected empty initial value for %s", key)
		}
		if form.Touched(key) {
			t.Fatalf("expected %s to start untouched", key)
		}
	}
}

func TestSeedPrefersStoredOverDefault(t *testing.T) {
	form := NewForm()
	form.Seed(
		map[string]string{KeyLogLevel: "ERROR"},
		map[string]string{KeyLogLevel: "INFO", KeyRetentionAlerts: "30"},
	)

	if got := form.Value(KeyLogLevel); got != "ERROR" {
		t.Fatalf("expected stored value ERROR, got %q", got)
	}
	if got := form.Value(KeyRetentionAlerts); got != "30" {
		t.Fatalf("expected default 30 for missing stored key, got %q", got)
	}
	if got := form.Value(KeySignaturesEnable); got != "" {
		t.Fatalf("expected empty value for key absent everywhere, got %q", got)
	}
}

func TestSeedFlagsStaleInvalidValuesButHidesThemUntilTouched(t *testing.T) {
	form := NewForm()
	form.Seed(map[string]string{KeyRetentionAlerts: "-1"}, nil)

	if form.Error(KeyRetentionAlerts) == "" {
		t.Fatalf("expected stale invalid value to be flagged on seed")
	}
	if form.VisibleError(KeyRetentionAlerts) != "" {
		t.Fatalf("expected error to stay hidden until touched or revealed")
	}

	form.SetValue(KeyRetentionAlerts, "-2")
	if form.VisibleError(KeyRetentionAlerts) == "" {
		t.Fatalf("expected error to display once the field is touched")
	}
}

func TestMarkAllRevealedBypassesTouchedGate(t *testing.T) {
	form := NewForm()
	form.Seed(map[string]string{KeyAlertThresholds: "0.1"}, nil)

	if form.VisibleError(KeyAlertThresholds) != "" {
		t.Fatalf("expected untouched error to be hidden")
	}
	form.MarkAllRevealed()
	if form.VisibleError(KeyAlertThresholds) == "" {
		t.Fatalf("expected reveal-all to display the error")
	}
}

func TestResetRestoresDefaultsAndClearsFlags(t *testing.T) {
	form := NewForm()
	form.Seed(
		map[string]string{KeyLogLevel: "ERROR"},
		map[string]string{KeyLogLevel: "INFO"},
	)

	form.SetValue(KeyLogLevel, "verbose")
	form.MarkAllRevealed()
	if form.Error(KeyLogLevel) == "" {
		t.Fatalf("expected invalid edit to be flagged")
	}

	form.Reset()
	if got := form.Value(KeyLogLevel); got != "INFO" {
		t.Fatalf("expected reset to restore default INFO, got %q", got)
	}
	if form.Touched(KeyLogLevel) {
		t.Fatalf("expected touched flag to clear on reset")
	}
	if form.RevealAll() {
		t.Fatalf("expected reveal-all flag to clear on reset")
	}
	if form.Error(KeyLogLevel) != "" {
		t.Fatalf("expected no error after reset, got %q", form.Error(KeyLogLevel))
	}
}

func TestResetFallsBackToLastLoadedWhenDefaultMissing(t *testing.T) {
	form := NewForm()
	form.Seed(map[string]string{KeyLogLevel: "ERROR"}, nil)

	form.SetValue(KeyLogLevel, "debug")
	form.Reset()
	if got := form.Value(KeyLogLevel); got != "ERROR" {
		t.Fatalf("expected reset to fall back to last loaded ERROR, got %q", got)
	}
}

func TestValidateAllIsIdempotent(t *testing.T) {
	form := NewForm()
	form.Seed(map[string]string{
		KeySignaturesEnable:  "yes",
		KeyLogLevel:          "info",
		KeyEnableFileLogging: "nope",
		KeyAlertThresholds:   "0.5",
		KeyRetentionAlerts:   "10",
		KeyRetentionBlocks:   "-3",
	}, nil)

	first, firstErrs := form.ValidateAll()
	second, secondErrs := form.ValidateAll()

	if !reflect.DeepEqual(firstErrs, secondErrs) {
		t.Fatalf("expected identical error maps, got %v then %v", firstErrs, secondErrs)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical canonical maps, got %v then %v", first, second)
	}
	if first != nil {
		t.Fatalf("expected validation to fail with invalid fields present")
	}
}

func TestValidateAllReturnsCanonicalDocument(t *testing.T) {
	form := NewForm()
	form.Seed(map[string]string{
		KeySignaturesEnable:  "Yes",
		KeyLogLevel:          "warning",
		KeyEnableFileLogging: "0",
		KeyAlertThresholds:   " -0.2 ,-0.1 ",
		KeyRetentionAlerts:   "007",
		KeyRetentionBlocks:   "90",
	}, nil)

	canonical, errs := form.ValidateAll()
	if canonical == nil {
		t.Fatalf("expected validation to pass, errors: %v", errs)
	}

	want := map[string]string{
		KeySignaturesEnable:  "true",
		KeyLogLevel:          "WARNING",
		KeyEnableFileLogging: "false",
		KeyAlertThresholds:   "-0.2, -0.1",
		KeyRetentionAlerts:   "7",
		KeyRetentionBlocks:   "90",
	}
	if !reflect.DeepEqual(canonical, want) {
		t.Fatalf("unexpected canonical document:\n got %v\nwant %v", canonical, want)
	}
}

func TestApplySavedClearsTouchedAndRevealAll(t *testing.T) {
	form := NewForm()
	form.Seed(nil, nil)
	form.SetValue(KeyLogLevel, "debug")
	form.MarkAllRevealed()

	form.ApplySaved(map[string]string{KeyLogLevel: "DEBUG"})
	if got := form.Value(KeyLogLevel); got != "DEBUG" {
		t.Fatalf("expected canonical DEBUG after save, got %q", got)
	}
	if form.Touched(KeyLogLevel) || form.RevealAll() {
		t.Fatalf("expected touched and reveal-all flags to clear after save")
	}
}

func TestSetValueIgnoresUnknownKeys(t *testing.T) {
	form := NewForm()
	form.SetValue("Nope.Nope", "value")
	if _, ok := form.Snapshot()["Nope.Nope"]; ok {
		t.Fatalf("expected unknown key to be ignored")
	}
}
