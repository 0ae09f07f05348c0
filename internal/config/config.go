package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultAlertPollInterval  = 5 * time.Second
	DefaultStatusPollInterval = 10 * time.Second
	DefaultDevicePollInterval = 30 * time.Second
)

// LoggingConfig defines runtime logging behavior of the client itself.
type LoggingConfig struct {
	Level     string `json:"level"`
	LogToFile bool   `json:"log_to_file"`
}

// BackendConfig holds the connection parameters for the NetWarden
// backend REST API.
type BackendConfig struct {
	BaseURL            string `json:"base_url"`
	Username           string `json:"username"`
	AlertPollSeconds   int    `json:"alert_poll_seconds"`
	StatusPollSeconds  int    `json:"status_poll_seconds"`
	DevicePollSeconds  int    `json:"device_poll_seconds"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
}

// UIConfig stores persistent UI preferences.
type UIConfig struct {
	LastSelectedDashboard string             `json:"last_selected_dashboard"`
	StartOnLogin          bool               `json:"start_on_login"`
	Notifications         NotificationConfig `json:"notifications"`
}

// NotificationConfig stores desktop notification preferences.
type NotificationConfig struct {
	NotifyWhenFocused bool                     `json:"notify_when_focused"`
	Events            NotificationEventsConfig `json:"events"`
}

// NotificationEventsConfig stores per-event notification toggles.
type NotificationEventsConfig struct {
	HighSeverityAlert bool `json:"high_severity_alert"`
	BlockListChanged  bool `json:"block_list_changed"`
	ConnectionStatus  bool `json:"connection_status"`
}

// AppConfig is the root persisted application configuration.
type AppConfig struct {
	Backend BackendConfig `json:"backend"`
	Logging LoggingConfig `json:"logging"`
	UI      UIConfig      `json:"ui"`
}

func Default() AppConfig {
	return AppConfig{
		Backend: BackendConfig{
			BaseURL:           "http://127.0.0.1:5000",
			AlertPollSeconds:  int(DefaultAlertPollInterval / time.Second),
			StatusPollSeconds: int(DefaultStatusPollInterval / time.Second),
			DevicePollSeconds: int(DefaultDevicePollInterval / time.Second),
		},
		Logging: LoggingConfig{
			Level:     "info",
			LogToFile: false,
		},
		UI: UIConfig{
			LastSelectedDashboard: "",
			Notifications: NotificationConfig{
				NotifyWhenFocused: false,
				Events: NotificationEventsConfig{
					HighSeverityAlert: true,
					BlockListChanged:  true,
					ConnectionStatus:  true,
				},
			},
		},
	}
}

func Load(path string) (AppConfig, error) {
	cfg := Default()
	cleanPath := filepath.Clean(path)
	// #nosec G304 -- path is resolved by app runtime and points to user config dir.
	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config json: %w", err)
	}

	cfg.FillMissingDefaults()

	return cfg, nil
}

func (c *AppConfig) FillMissingDefaults() {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		c.Backend.BaseURL = "http://127.0.0.1:5000"
	}
	if c.Backend.AlertPollSeconds <= 0 {
		c.Backend.AlertPollSeconds = int(DefaultAlertPollInterval / time.Second)
	}
	if c.Backend.StatusPollSeconds <= 0 {
		c.Backend.StatusPollSeconds = int(DefaultStatusPollInterval / time.Second)
	}
	if c.Backend.DevicePollSeconds <= 0 {
		c.Backend.DevicePollSeconds = int(DefaultDevicePollInterval / time.Second)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// AlertPollInterval returns the alert poll period as a duration.
func (c BackendConfig) AlertPollInterval() time.Duration {
	return time.Duration(c.AlertPollSeconds) * time.Second
}

// StatusPollInterval returns the status poll period as a duration.
func (c BackendConfig) StatusPollInterval() time.Duration {
	return time.Duration(c.StatusPollSeconds) * time.Second
}

// DevicePollInterval returns the device poll period as a duration.
func (c BackendConfig) DevicePollInterval() time.Duration {
	return time.Duration(c.DevicePollSeconds) * time.Second
}

func (c AppConfig) Validate() error {
	raw := strings.TrimSpace(c.Backend.BaseURL)
	if raw == "" {
		return errors.New("backend base URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("backend base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend base URL must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("backend base URL must include a host")
	}

	return nil
}

func Save(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp config: %w", err)
	}

	return nil
}
