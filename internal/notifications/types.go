// Package notifications delivers desktop notifications for events the
// dashboards surface: high-severity detections, block list changes and
// backend reachability transitions.
package notifications

// Payload is one notification as shown to the user.
type Payload struct {
	Title   string
	Content string
}

// Sender delivers a payload through a platform notification channel.
// The notification service calls Send from its bus goroutine, so
// implementations must be safe for concurrent use.
type Sender interface {
	Send(payload Payload)
}
