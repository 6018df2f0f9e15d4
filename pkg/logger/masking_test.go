package logger

import (
	"strings"
	"testing"
)

func TestMaskCredentialFingerprint(t *testing.T) {
	masked := MaskCredential("login@example.com")

	if strings.Contains(masked, "login@example.com") {
		t.Errorf("Masked credential leaks the original value: %s", masked)
	}
	if !strings.HasPrefix(masked, "cred#") {
		t.Errorf("Expected fingerprint prefix, got %s", masked)
	}
	if masked != MaskCredential("login@example.com") {
		t.Error("Fingerprint should be stable for the same credential")
	}
	if masked == MaskCredential("other@example.com") {
		t.Error("Different credentials should not collide")
	}
}

func TestMaskCredentialEmpty(t *testing.T) {
	if got := MaskCredential(""); got != "" {
		t.Errorf("Empty credential should stay empty, got %q", got)
	}
}

func TestMaskMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		leaked  string
	}{
		{"key assignment", "request failed: api_key=abc123secret", "abc123secret"},
		{"token with colon", "auth error: token: xYz789", "xYz789"},
		{"password", "bad config password=hunter2", "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked := MaskMessage(tt.message)
			if strings.Contains(masked, tt.leaked) {
				t.Errorf("Masked message still contains %q: %s", tt.leaked, masked)
			}
			if !strings.Contains(masked, "***") {
				t.Errorf("Expected mask marker in %s", masked)
			}
		})
	}
}

func TestMaskMessagePreservesPlainText(t *testing.T) {
	message := "keyword research completed for 12 seeds"
	if got := MaskMessage(message); got != message {
		t.Errorf("Plain message was altered: %s", got)
	}
}

func TestMaskFields(t *testing.T) {
	fields := map[string]interface{}{
		"api_key":       "abc123",
		"password":      "hunter2",
		"retry_count":   3,
		"keyword_count": 42,
	}

	masked := MaskFields(fields)

	if masked["api_key"] == "abc123" {
		t.Error("api_key value was not masked")
	}
	if masked["password"] == "hunter2" {
		t.Error("password value was not masked")
	}
	if masked["retry_count"] != 3 {
		t.Errorf("Non-secret field was altered: %v", masked["retry_count"])
	}
	if masked["keyword_count"] != 42 {
		t.Error("keyword-named fields should not be treated as secrets")
	}
	if fields["api_key"] != "abc123" {
		t.Error("Input map should not be mutated")
	}
}

func TestMaskFieldsNonStringSecret(t *testing.T) {
	masked := MaskFields(map[string]interface{}{"token_id": 9001})
	if masked["token_id"] != "***" {
		t.Errorf("Non-string secret should be fully masked, got %v", masked["token_id"])
	}
}
