package platform

import "testing"

func TestSanitizeLockComponent(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback string
		want     string
	}{
		{name: "alnum and separators pass through", raw: "netwarden-v1.2_3", fallback: "netwarden", want: "netwarden-v1.2_3"},
		{name: "unsafe runes become underscores", raw: "netwarden:/v1", fallback: "netwarden", want: "netwarden__v1"},
		{name: "separator edges are trimmed", raw: ".._netwarden-._", fallback: "netwarden", want: "netwarden"},
		{name: "blank input uses fallback", raw: "   ", fallback: "netwarden", want: "netwarden"},
		{name: "nothing usable uses fallback", raw: "[]{}", fallback: "netwarden", want: "netwarden"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeLockComponent(tc.raw, tc.fallback); got != tc.want {
				t.Fatalf("sanitizeLockComponent(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
