package logger

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

// MaskCredential returns a short fingerprint of a provider credential so that
// logs can correlate which account was used without ever exposing the secret.
func MaskCredential(credential string) string {
	if credential == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(credential))
	return fmt.Sprintf("cred#%x", hash[:4])
}

var secretPattern = regexp.MustCompile(`(?i)(key|token|secret|password)[=:]\s*[a-zA-Z0-9_-]+`)

// MaskMessage strips credential-looking fragments from a log message.
func MaskMessage(message string) string {
	return secretPattern.ReplaceAllString(message, "${1}=***")
}

// MaskFields returns a copy of fields with credential-like values masked.
// Keys are matched case-insensitively on common secret markers.
func MaskFields(fields map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		lowerKey := strings.ToLower(key)
		switch {
		case strings.Contains(lowerKey, "key") && !strings.Contains(lowerKey, "keyword"),
			strings.Contains(lowerKey, "secret"),
			strings.Contains(lowerKey, "password"),
			strings.Contains(lowerKey, "token"):
			if str, ok := value.(string); ok {
				masked[key] = MaskCredential(str)
			} else {
				masked[key] = "***"
			}
		default:
			masked[key] = value
		}
	}
	return masked
}
