package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
	"github.com/netwarden/netwarden/internal/config"
	"github.com/netwarden/netwarden/internal/domain"
	"github.com/netwarden/netwarden/internal/notifications"
)

const notificationTitleHighSeverity = "High severity alert"

// NotificationService listens to bus events and emits user-facing notifications.
type NotificationService struct {
	bus           bus.MessageBus
	currentConfig func() config.AppConfig
	isForeground  func() bool
	sender        notifications.Sender
	logger        *slog.Logger

	blockMu        sync.Mutex
	lastBlockedIPs map[string]struct{}
	blockSeen      bool
}

func NewNotificationService(
	messageBus bus.MessageBus,
	currentConfig func() config.AppConfig,
	isForeground func() bool,
	sender notifications.Sender,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.Default().With("component", "app.notifications")
	}

	return &NotificationService{
		bus:           messageBus,
		currentConfig: currentConfig,
		isForeground:  isForeground,
		sender:        sender,
		logger:        logger,
	}
}

func (s *NotificationService) Start(ctx context.Context) {
	if s == nil || s.bus == nil || s.sender == nil {
		return
	}

	alertSub := s.bus.Subscribe(api.TopicAlert)
	blockSub := s.bus.Subscribe(api.TopicBlockChanged)
	connSub := s.bus.Subscribe(api.TopicConnStatus)

	go func() {
		defer s.bus.Unsubscribe(alertSub, api.TopicAlert)
		defer s.bus.Unsubscribe(blockSub, api.TopicBlockChanged)
		defer s.bus.Unsubscribe(connSub, api.TopicConnStatus)

		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-alertSub:
				if !ok {
					return
				}
				event, ok := raw.(domain.AlertReceived)
				if !ok {
					continue
				}
				s.handleAlert(event.Alert)
			case raw, ok := <-blockSub:
				if !ok {
					return
				}
				event, ok := raw.(domain.BlockListChanged)
				if !ok {
					continue
				}
				s.handleBlockListChanged(event.Entries)
			case raw, ok := <-connSub:
				if !ok {
					return
				}
				status, ok := raw.(api.ConnStatusEvent)
				if !ok {
					continue
				}
				s.handleConnStatus(status)
			}
		}
	}()
}

func (s *NotificationService) handleAlert(alert domain.Alert) {
	prefs := s.notificationPrefs()
	if alert.Severity != domain.SeverityHigh {
		return
	}
	if !s.shouldNotify(prefs, prefs.Events.HighSeverityAlert) {
		return
	}

	source := strings.TrimSpace(alert.SourceIP)
	if source == "" {
		source = "unknown source"
	}
	description := strings.TrimSpace(alert.Description)
	if description == "" {
		description = fmt.Sprintf("%s alert (score %.2f)", alert.Kind, alert.Score)
	}

	s.send(notifications.Payload{
		Title:   notificationTitleHighSeverity,
		Content: fmt.Sprintf("%s: %s", source, description),
	})
}

// handleBlockListChanged notifies only about newly blocked addresses,
// not the periodic refresh of an unchanged list.
func (s *NotificationService) handleBlockListChanged(entries []domain.BlockEntry) {
	prefs := s.notificationPrefs()

	current := make(map[string]struct{}, len(entries))
	var added []string
	s.blockMu.Lock()
	for _, entry := range entries {
		if entry.Trusted {
			continue
		}
		current[entry.IP] = struct{}{}
		if s.blockSeen {
			if _, known := s.lastBlockedIPs[entry.IP]; !known {
				added = append(added, entry.IP)
			}
		}
	}
	firstObservation := !s.blockSeen
	s.lastBlockedIPs = current
	s.blockSeen = true
	s.blockMu.Unlock()

	if firstObservation || len(added) == 0 {
		return
	}
	if !s.shouldNotify(prefs, prefs.Events.BlockListChanged) {
		return
	}

	content := strings.Join(added, ", ")
	if len(added) > 5 {
		content = fmt.Sprintf("%s and %d more", strings.Join(added[:5], ", "), len(added)-5)
	}
	s.send(notifications.Payload{
		Title:   "Addresses blocked",
		Content: content,
	})
}

func (s *NotificationService) handleConnStatus(status api.ConnStatusEvent) {
	prefs := s.notificationPrefs()
	if status.State == "" {
		return
	}
	if !s.shouldNotify(prefs, prefs.Events.ConnectionStatus) {
		return
	}

	title := "Backend connection restored"
	content := "NetWarden backend is reachable again"
	if status.State == api.ConnStateOffline {
		title = "Backend connection lost"
		content = strings.TrimSpace(status.Reason)
		if content == "" {
			content = "NetWarden backend is not responding"
		}
	}

	s.send(notifications.Payload{
		Title:   title,
		Content: content,
	})
}

func (s *NotificationService) shouldNotify(prefs config.NotificationConfig, kindEnabled bool) bool {
	if !kindEnabled {
		return false
	}
	if prefs.NotifyWhenFocused {
		return true
	}
	if s.isForeground == nil {
		return true
	}

	return !s.isForeground()
}

func (s *NotificationService) notificationPrefs() config.NotificationConfig {
	cfg := config.Default()
	if s.currentConfig != nil {
		cfg = s.currentConfig()
		cfg.FillMissingDefaults()
	}

	return cfg.UI.Notifications
}

func (s *NotificationService) send(notification notifications.Payload) {
	title := strings.TrimSpace(notification.Title)
	content := strings.TrimSpace(notification.Content)
	if title == "" && content == "" {
		return
	}
	s.logger.Debug("sending notification", "title", title)
	s.sender.Send(notifications.Payload{
		Title:   title,
		Content: content,
	})
}
