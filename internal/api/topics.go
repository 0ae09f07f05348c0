package api

// Bus topics published by the backend pollers. Kept in this package so
// stores and services can subscribe without importing each other.
const (
	TopicAlert           = "alert.received"
	TopicBlockChanged    = "block.changed"
	TopicDeviceList      = "device.list"
	TopicScanStatus      = "scan.status"
	TopicConnStatus      = "backend.status"
	TopicSettingsApplied = "settings.applied"
)

// ConnState describes reachability of the backend.
type ConnState string

const (
	ConnStateOnline  ConnState = "online"
	ConnStateOffline ConnState = "offline"
)

// ConnStatusEvent is published on TopicConnStatus whenever the backend
// transitions between reachable and unreachable.
type ConnStatusEvent struct {
	State  ConnState
	Reason string
}

// ScanStatusEvent is published on TopicScanStatus.
type ScanStatusEvent struct {
	Status ScanStatusInfo
}

// SettingsAppliedEvent is published on TopicSettingsApplied after a
// successful settings save. Values carries the canonical document.
type SettingsAppliedEvent struct {
	Scope  string
	Values map[string]string
}
