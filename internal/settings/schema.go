package settings

// Recognized backend setting keys. The namespace is closed: the backend
// ignores keys outside this set and the UI renders exactly these fields.
const (
	KeySignaturesEnable  = "Signatures.Enable"
	KeyLogLevel          = "Logging.LogLevel"
	KeyEnableFileLogging = "Logging.EnableFileLogging"
	KeyAlertThresholds   = "Monitoring.AlertThresholds"
	KeyRetentionAlerts   = "Retention.AlertsDays"
	KeyRetentionBlocks   = "Retention.BlocksDays"
)

// Field describes one editable backend setting.
type Field struct {
	Key         string
	Label       string
	Tooltip     string
	Placeholder string
}

var schema = []Field{
	{
		Key:     KeySignaturesEnable,
		Label:   "Signature engine",
		Tooltip: "Enable rule-based signature matching in addition to the anomaly model.",
	},
	{
		Key:     KeyLogLevel,
		Label:   "Log level",
		Tooltip: "Backend log verbosity: DEBUG, INFO, WARNING, ERROR or CRITICAL.",
	},
	{
		Key:     KeyEnableFileLogging,
		Label:   "Log to file",
		Tooltip: "Write backend logs to a rotating file in addition to the console.",
	},
	{
		Key:         KeyAlertThresholds,
		Label:       "Alert thresholds",
		Tooltip:     "Anomaly score cut points as \"high, medium\". High must not exceed medium.",
		Placeholder: "-0.10, -0.05",
	},
	{
		Key:         KeyRetentionAlerts,
		Label:       "Alert retention (days)",
		Tooltip:     "Alerts older than this many days are pruned. 0 keeps alerts forever.",
		Placeholder: "30",
	},
	{
		Key:         KeyRetentionBlocks,
		Label:       "Block retention (days)",
		Tooltip:     "Expired firewall blocks older than this many days are pruned. 0 keeps them forever.",
		Placeholder: "90",
	},
}

// Fields returns the field descriptors in display order.
func Fields() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)

	return out
}

// Keys returns the schema keys in display order.
func Keys() []string {
	out := make([]string, 0, len(schema))
	for _, field := range schema {
		out = append(out, field.Key)
	}

	return out
}

// FieldByKey looks up a descriptor by its key.
func FieldByKey(key string) (Field, bool) {
	for _, field := range schema {
		if field.Key == key {
			return field, true
		}
	}

	return Field{}, false
}

// KnownKey reports whether key belongs to the recognized namespace.
func KnownKey(key string) bool {
	_, ok := FieldByKey(key)

	return ok
}
