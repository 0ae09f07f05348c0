package domain

import "time"

// AlertKind distinguishes the detection engine that raised an alert.
type AlertKind string

const (
	AlertKindAnomaly   AlertKind = "ANOMALY"
	AlertKindSignature AlertKind = "SIGNATURE"
)

// Severity buckets alerts for display and notification routing.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is a single intrusion detection event.
type Alert struct {
	ID          int64
	Kind        AlertKind
	Severity    Severity
	SourceIP    string
	DestIP      string
	Protocol    string
	Score       float64
	Description string
	CreatedAt   time.Time
}

// BlockEntry is an address on the firewall block list. Trusted entries
// are exempt from automatic blocking and shown separately.
type BlockEntry struct {
	IP        string
	Reason    string
	Trusted   bool
	CreatedAt time.Time
}

// Device is a monitored endpoint on the compliance dashboard.
type Device struct {
	ID        string
	Hostname  string
	IP        string
	OS        string
	Compliant bool
	LastSeen  time.Time
}

// AlertReceived is published on the alert topic for each new alert.
type AlertReceived struct {
	Alert Alert
}

// BlockListChanged is published whenever the block list is refreshed
// or mutated. Entries is the full current list.
type BlockListChanged struct {
	Entries []BlockEntry
}

// DeviceListChanged is published when the compliance device list is
// refreshed.
type DeviceListChanged struct {
	Devices []Device
}

// SeverityForScore buckets an anomaly score against the configured cut
// points. Scores at or below high are high severity, scores at or below
// medium are medium, everything else is low.
func SeverityForScore(score, high, medium float64) Severity {
	switch {
	case score <= high:
		return SeverityHigh
	case score <= medium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
