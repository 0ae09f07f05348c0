package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchSettingsDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/settings" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("scope"); got != "ids" {
			t.Fatalf("expected scope=ids, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(SettingsEnvelope{
			Settings: map[string]string{"Logging.LogLevel": "ERROR"},
			Defaults: map[string]string{"Logging.LogLevel": "INFO"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, false, nil)
	stored, defaults, err := client.FetchSettings(context.Background(), "ids")
	if err != nil {
		t.Fatalf("fetch settings: %v", err)
	}
	if stored["Logging.LogLevel"] != "ERROR" {
		t.Fatalf("unexpected stored settings: %v", stored)
	}
	if defaults["Logging.LogLevel"] != "INFO" {
		t.Fatalf("unexpected defaults: %v", defaults)
	}
}

func TestUpdateSettingsSurfacesBackendErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("expected PUT, got %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(updateResponse{OK: false, Error: "not_writable"})
	}))
	defer server.Close()

	client := NewClient(server.URL, false, nil)
	err := client.UpdateSettings(context.Background(), "ids", map[string]string{"Logging.LogLevel": "DEBUG"})
	if err == nil {
		t.Fatalf("expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.ErrorCode() != "not_writable" {
		t.Fatalf("expected code not_writable, got %q", apiErr.ErrorCode())
	}
}

func TestUpdateSettingsSendsCanonicalDocument(t *testing.T) {
	var received SettingsEnvelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(updateResponse{OK: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, false, nil)
	values := map[string]string{"Monitoring.AlertThresholds": "-0.12, -0.06"}
	if err := client.UpdateSettings(context.Background(), "compliance", values); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if received.Settings["Monitoring.AlertThresholds"] != "-0.12, -0.06" {
		t.Fatalf("unexpected submitted settings: %v", received.Settings)
	}
}

func TestAlertsPassesSinceID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("since_id"); got != "42" {
			t.Fatalf("expected since_id=42, got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]AlertRecord{
			{ID: 43, Kind: "ANOMALY", Severity: "high", SourceIP: "10.0.0.9", Score: -0.31},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, false, nil)
	alerts, err := client.Alerts(context.Background(), 42)
	if err != nil {
		t.Fatalf("fetch alerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].ID != 43 {
		t.Fatalf("unexpected alerts: %v", alerts)
	}
}

func TestLoginStoresBearerToken(t *testing.T) {
	var sawAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_ = json.NewEncoder(w).Encode(loginResponse{OK: true, Token: "session-token"})
		case "/api/stats":
			sawAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(StatsInfo{Version: "1.4.0"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, false, nil)
	if err := client.Login(context.Background(), "admin", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := client.Stats(context.Background()); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if sawAuth != "Bearer session-token" {
		t.Fatalf("expected bearer token on follow-up request, got %q", sawAuth)
	}
}

func TestInsecureTLSAllowsSelfSignedBackend(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(StatsInfo{Version: "1.4.0"})
	}))
	defer server.Close()

	strict := NewClient(server.URL, false, nil)
	if _, err := strict.Stats(context.Background()); err == nil {
		t.Fatalf("expected certificate verification failure against self-signed backend")
	}

	insecure := NewClient(server.URL, true, nil)
	stats, err := insecure.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats over self-signed TLS: %v", err)
	}
	if stats.Version != "1.4.0" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestNonJSONErrorBodyBecomesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, false, nil)
	_, err := client.Blocks(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", apiErr.StatusCode)
	}
}
