package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client talks to the NetWarden backend REST API. All methods are safe
// for concurrent use; the session token is guarded separately so a
// re-login does not block in-flight requests.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient builds a client for the backend at baseURL. insecureTLS
// disables certificate verification for backends behind self-signed
// certificates; it maps to the insecure_skip_verify config field.
func NewClient(baseURL string, insecureTLS bool, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: defaultTimeout}
	if insecureTLS {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		// #nosec G402 -- explicit opt-in via insecure_skip_verify.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		httpClient.Transport = transport
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// SetToken installs the session token used for authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

// Login authenticates against the backend and stores the returned
// session token on success.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}

	var parsed loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &parsed); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if !parsed.OK || parsed.Token == "" {
		return &Error{StatusCode: http.StatusUnauthorized, Code: parsed.Error, Message: "login rejected"}
	}
	c.SetToken(parsed.Token)

	return nil
}

// FetchSettings retrieves the stored settings document and the server
// defaults for the given dashboard scope.
func (c *Client) FetchSettings(ctx context.Context, scope string) (map[string]string, map[string]string, error) {
	query := url.Values{"scope": {scope}}

	var envelope SettingsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/settings", query, nil, &envelope); err != nil {
		return nil, nil, fmt.Errorf("fetch settings: %w", err)
	}

	return envelope.Settings, envelope.Defaults, nil
}

// UpdateSettings submits a canonical settings document for the scope.
func (c *Client) UpdateSettings(ctx context.Context, scope string, values map[string]string) error {
	query := url.Values{"scope": {scope}}
	payload := SettingsEnvelope{Settings: values}

	var parsed updateResponse
	if err := c.do(ctx, http.MethodPut, "/api/settings", query, payload, &parsed); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if !parsed.OK {
		return &Error{StatusCode: http.StatusOK, Code: parsed.Error, Message: parsed.Message}
	}

	return nil
}

// Alerts fetches alerts with an ID greater than sinceID, oldest first.
func (c *Client) Alerts(ctx context.Context, sinceID int64) ([]AlertRecord, error) {
	query := url.Values{"since_id": {strconv.FormatInt(sinceID, 10)}}

	var alerts []AlertRecord
	if err := c.do(ctx, http.MethodGet, "/api/alerts", query, nil, &alerts); err != nil {
		return nil, fmt.Errorf("fetch alerts: %w", err)
	}

	return alerts, nil
}

// Blocks fetches the current firewall block list.
func (c *Client) Blocks(ctx context.Context) ([]BlockRecord, error) {
	var blocks []BlockRecord
	if err := c.do(ctx, http.MethodGet, "/api/blocks", nil, nil, &blocks); err != nil {
		return nil, fmt.Errorf("fetch blocks: %w", err)
	}

	return blocks, nil
}

// Block asks the backend to block an IP.
func (c *Client) Block(ctx context.Context, ip, reason string) error {
	return c.mutate(ctx, "/api/block", map[string]string{"ip": ip, "reason": reason})
}

// Unblock removes an IP from the block list.
func (c *Client) Unblock(ctx context.Context, ip string) error {
	return c.mutate(ctx, "/api/unblock", map[string]string{"ip": ip})
}

// Trust marks an IP as trusted so it is never auto-blocked.
func (c *Client) Trust(ctx context.Context, ip string) error {
	return c.mutate(ctx, "/api/trusted", map[string]string{"ip": ip})
}

// Devices fetches the monitored endpoints for the compliance dashboard.
func (c *Client) Devices(ctx context.Context) ([]DeviceRecord, error) {
	var devices []DeviceRecord
	if err := c.do(ctx, http.MethodGet, "/api/devices", nil, nil, &devices); err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}

	return devices, nil
}

// Stats fetches the backend counters and version information.
func (c *Client) Stats(ctx context.Context) (StatsInfo, error) {
	var stats StatsInfo
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &stats); err != nil {
		return StatsInfo{}, fmt.Errorf("fetch stats: %w", err)
	}

	return stats, nil
}

// ScanStatus fetches the traffic analysis engine state.
func (c *Client) ScanStatus(ctx context.Context) (ScanStatusInfo, error) {
	var status ScanStatusInfo
	if err := c.do(ctx, http.MethodGet, "/api/scan/status", nil, nil, &status); err != nil {
		return ScanStatusInfo{}, fmt.Errorf("fetch scan status: %w", err)
	}

	return status, nil
}

func (c *Client) mutate(ctx context.Context, path string, body map[string]string) error {
	var parsed updateResponse
	if err := c.do(ctx, http.MethodPost, path, nil, body, &parsed); err != nil {
		return fmt.Errorf("%s: %w", strings.TrimPrefix(path, "/api/"), err)
	}
	if !parsed.OK {
		return &Error{StatusCode: http.StatusOK, Code: parsed.Error, Message: parsed.Message}
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// decodeError extracts the backend error envelope from a non-2xx
// response, falling back to a body preview for non-JSON failures.
func (c *Client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed updateResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && (parsed.Error != "" || parsed.Message != "") {
		return &Error{StatusCode: resp.StatusCode, Code: parsed.Error, Message: parsed.Message}
	}
	if c.logger != nil {
		c.logger.Debug("non-JSON error response", "status", resp.StatusCode, "body", string(raw))
	}

	return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
