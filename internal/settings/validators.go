package settings

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Validator normalizes raw user input into its canonical wire form or
// explains why it cannot.
type Validator func(raw string) (string, error)

var logLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

var dayCountPattern = regexp.MustCompile(`^[0-9]+$`)

var validators = map[string]Validator{
	KeySignaturesEnable:  validateBoolean,
	KeyLogLevel:          validateLogLevel,
	KeyEnableFileLogging: validateBoolean,
	KeyAlertThresholds:   validateAlertThresholds,
	KeyRetentionAlerts:   validateDayCount,
	KeyRetentionBlocks:   validateDayCount,
}

// Validate normalizes raw input for key. Keys without a registered
// validator pass through trimmed.
func Validate(key, raw string) (string, error) {
	validator, ok := validators[key]
	if !ok {
		return strings.TrimSpace(raw), nil
	}

	return validator(raw)
}

func validateBoolean(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return "true", nil
	case "false", "0", "no", "off":
		return "false", nil
	default:
		return "", fmt.Errorf("must be true or false")
	}
}

func validateLogLevel(raw string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return "", fmt.Errorf("required")
	}
	for _, level := range logLevels {
		if value == level {
			return level, nil
		}
	}

	return "", fmt.Errorf("must be one of %s", strings.Join(logLevels, ", "))
}

// validateAlertThresholds expects "high, medium" anomaly score cut points.
// The canonical form rejoins the trimmed tokens, so internal whitespace is
// normalized even when the input was already valid.
func validateAlertThresholds(raw string) (string, error) {
	tokens := make([]string, 0, 2)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	if len(tokens) != 2 {
		return "", fmt.Errorf("expected two comma-separated numbers: high, medium")
	}

	values := make([]float64, 2)
	for i, token := range tokens {
		value, err := strconv.ParseFloat(token, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return "", fmt.Errorf("%q is not a number", token)
		}
		values[i] = value
	}
	if values[0] > values[1] {
		return "", fmt.Errorf("high threshold must not exceed the medium threshold")
	}

	return tokens[0] + ", " + tokens[1], nil
}

func validateDayCount(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if !dayCountPattern.MatchString(value) {
		return "", fmt.Errorf("must be a whole number of days, 0 or more")
	}
	days, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return "", fmt.Errorf("must be a whole number of days, 0 or more")
	}

	return strconv.FormatUint(days, 10), nil
}

// DayCount parses a canonical retention value. It is used by consumers that
// act on saved settings, not by the form itself.
func DayCount(canonical string) (int, bool) {
	days, err := strconv.ParseUint(strings.TrimSpace(canonical), 10, 32)
	if err != nil {
		return 0, false
	}

	return int(days), true
}

// BoolValue parses a canonical boolean value.
func BoolValue(canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(canonical), "true")
}

// Thresholds parses a canonical alert-thresholds value into its high and
// medium cut points.
func Thresholds(canonical string) (high, medium float64, ok bool) {
	parts := strings.Split(canonical, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	high, errHigh := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	medium, errMedium := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errHigh != nil || errMedium != nil {
		return 0, 0, false
	}

	return high, medium, true
}
