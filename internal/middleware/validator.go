package middleware

import (
	"fmt"
	"mime"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Input validation and sanitization utilities

// SessionIDHeader optionally scopes the published analysis to one caller.
const SessionIDHeader = "X-Session-ID"

var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

// ValidateSessionID accepts the empty string (shared slot) or a
// 1-128 char id of letters, digits, dash and underscore.
func ValidateSessionID(id string) error {
	if id == "" {
		return nil
	}
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("invalid session id format (alphanumeric, dash, underscore only, max 128 chars)")
	}
	return nil
}

// ResolveMediaType returns the declared media type without parameters,
// falling back to content sniffing when nothing useful was declared.
func ResolveMediaType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "" && mt != "application/octet-stream" {
		return strings.ToLower(mt)
	}
	if len(data) == 0 {
		return ""
	}
	mt, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())
	return mt
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
