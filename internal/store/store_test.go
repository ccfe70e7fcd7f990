package store

import (
	"testing"
	"time"
)

func TestFormatShotDate(t *testing.T) {
	shot := time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC)
	if got := FormatShotDate(shot); got != "2025-06-14T10:30:00Z" {
		t.Errorf("FormatShotDate = %q, want RFC3339 UTC", got)
	}

	if got := FormatShotDate(time.Time{}); got != "" {
		t.Errorf("zero time formatted as %q, want empty", got)
	}
}

func TestIDPattern(t *testing.T) {
	tests := []struct {
		prefix string
		id     string
		want   bool
	}{
		{"IMG", "IMG-0042", true},
		{"IMG", "IMG-10000", true},
		{"IMG", "PIC-0500", false}, // foreign prefix never seeds this namespace
		{"IMG", "IMG-", false},
		{"IMG", "IMG0042", false},
		{"IMG", "IMG-0042x", false},
		{"IMG", "", false},
		{"A.B", "A.B-0002", true},
		{"A.B", "AxB-0002", false}, // prefix metachars are literal
	}

	for _, tt := range tests {
		if got := idPattern(tt.prefix).MatchString(tt.id); got != tt.want {
			t.Errorf("idPattern(%q).MatchString(%q) = %v, want %v", tt.prefix, tt.id, got, tt.want)
		}
	}
}
