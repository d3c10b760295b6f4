package logging

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{7,}\d`)
)

// ScrubPII replaces emails with [EMAIL] and phone numbers with [PHONE] so
// upstream error text can be logged.
func ScrubPII(text string) string {
	text = emailRe.ReplaceAllString(text, "[EMAIL]")
	text = phoneRe.ReplaceAllStringFunc(text, func(match string) string {
		if countDigits(match) < minPhoneDigits {
			return match
		}
		return "[PHONE]"
	})
	return text
}

// minPhoneDigits keeps short numbers such as IPs and status codes readable.
const minPhoneDigits = 10

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// HashContact returns a short stable SHA-256 fingerprint of an email or
// phone, for correlating log lines without storing the value.
func HashContact(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ""
	}
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h[:8])
}
