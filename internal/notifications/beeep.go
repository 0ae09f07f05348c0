package notifications

import (
	"log/slog"
	"strings"

	"github.com/gen2brain/beeep"
)

// BeeepSender delivers notifications through the OS notification
// daemon. Used by the headless debug binary where no Fyne app exists.
type BeeepSender struct {
	appName string
	logger  *slog.Logger
}

func NewBeeepSender(appName string, logger *slog.Logger) *BeeepSender {
	if logger == nil {
		logger = slog.Default().With("component", "notifications.beeep")
	}

	return &BeeepSender{appName: appName, logger: logger}
}

func (s *BeeepSender) Send(payload Payload) {
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = s.appName
	}
	if err := beeep.Notify(title, strings.TrimSpace(payload.Content), ""); err != nil {
		s.logger.Warn("send desktop notification", "error", err)
	}
}
