package api

import "time"

// AlertRecord is an intrusion alert as reported by the backend.
type AlertRecord struct {
	ID          int64   `json:"id"`
	Kind        string  `json:"kind"`
	Severity    string  `json:"severity"`
	SourceIP    string  `json:"source_ip"`
	DestIP      string  `json:"dest_ip"`
	Protocol    string  `json:"protocol"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
	CreatedAt   int64   `json:"created_at"`
}

// Created returns the alert timestamp as local time.
func (a AlertRecord) Created() time.Time {
	return time.Unix(a.CreatedAt, 0)
}

// BlockRecord is a firewall block entry.
type BlockRecord struct {
	IP        string `json:"ip"`
	Reason    string `json:"reason"`
	Trusted   bool   `json:"trusted"`
	CreatedAt int64  `json:"created_at"`
}

// DeviceRecord is a monitored endpoint on the compliance dashboard.
type DeviceRecord struct {
	ID        string `json:"id"`
	Hostname  string `json:"hostname"`
	IP        string `json:"ip"`
	OS        string `json:"os"`
	Compliant bool   `json:"compliant"`
	LastSeen  int64  `json:"last_seen"`
}

// StatsInfo is the backend health and counters summary.
type StatsInfo struct {
	Version       string `json:"version"`
	AlertsTotal   int64  `json:"alerts_total"`
	BlocksActive  int64  `json:"blocks_active"`
	PacketsSeen   int64  `json:"packets_seen"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ScanStatusInfo reports the traffic analysis engine state.
type ScanStatusInfo struct {
	Running      bool    `json:"running"`
	Progress     float64 `json:"progress"`
	LastFinished int64   `json:"last_finished"`
}

// SettingsEnvelope carries a settings document plus the server-side
// defaults for every key the backend knows about.
type SettingsEnvelope struct {
	Settings map[string]string `json:"settings"`
	Defaults map[string]string `json:"defaults"`
}

// updateResponse is the generic mutation acknowledgement.
type updateResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// loginResponse carries the session token returned by the backend.
type loginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
	Error string `json:"error,omitempty"`
}
