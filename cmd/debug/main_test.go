package main

import (
	"testing"

	"github.com/netwarden/netwarden/internal/config"
)

func TestApplyBackendOverride(t *testing.T) {
	base := config.Default()

	tests := []struct {
		name     string
		override string
		want     string
		wantErr  bool
	}{
		{name: "empty keeps config value", override: "", want: base.Backend.BaseURL},
		{name: "override applied", override: "http://10.0.0.5:5000", want: "http://10.0.0.5:5000"},
		{name: "override trimmed", override: "  https://ids.example.net  ", want: "https://ids.example.net"},
		{name: "invalid scheme rejected", override: "ftp://ids.example.net", wantErr: true},
	}

	for _, tc := range tests {
		got, err := applyBackendOverride(base, tc.override)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error, got nil", tc.name)
			}

			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got.Backend.BaseURL != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got.Backend.BaseURL)
		}
	}
}
