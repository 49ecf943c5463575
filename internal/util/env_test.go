package util

import (
	"testing"
	"time"
)

func TestGetenvDefault(t *testing.T) {
	t.Setenv("AICHATBOT_TEST_STR", "configured")
	if got := GetenvDefault("AICHATBOT_TEST_STR", "fallback"); got != "configured" {
		t.Errorf("expected configured, got %q", got)
	}
	if got := GetenvDefault("AICHATBOT_TEST_STR_UNSET", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{"true literal", "true", false, true},
		{"numeric one", "1", false, true},
		{"yes with case", "YES", false, true},
		{"on", "on", false, true},
		{"false literal", "false", true, false},
		{"numeric zero", "0", true, false},
		{"off", "off", true, false},
		{"invalid keeps default", "maybe", true, true},
		{"empty keeps default", "", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AICHATBOT_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("AICHATBOT_TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.expected)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{"minutes", "30m", time.Hour, 30 * time.Minute},
		{"hours with spaces", " 2h ", time.Minute, 2 * time.Hour},
		{"invalid keeps default", "soon", time.Minute, time.Minute},
		{"empty keeps default", "", 45 * time.Second, 45 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AICHATBOT_TEST_DUR", tt.value)
			if got := ParseDurationEnv("AICHATBOT_TEST_DUR", tt.def); got != tt.expected {
				t.Errorf("ParseDurationEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.expected)
			}
		})
	}
}
