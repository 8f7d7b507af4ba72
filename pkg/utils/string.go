package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// GenerateID generates a random ID with prefix
func GenerateID(prefix string) string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}

// SanitizeString removes control characters and surrounding whitespace
func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}

// NormalizeEmail normalizes an email address
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)
	return email
}

// MaskSensitive masks sensitive information
func MaskSensitive(s string, visibleChars int) string {
	runes := []rune(s)
	if len(runes) <= visibleChars {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:visibleChars]) + strings.Repeat("*", len(runes)-visibleChars)
}

// PlaybackURL builds the placeholder HLS playback URL for a room.
func PlaybackURL(baseURL, roomID string) string {
	return strings.TrimRight(baseURL, "/") + "/" + roomID + "/index.m3u8"
}
