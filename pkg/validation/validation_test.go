package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid email with subdomain", "user@mail.example.com", false},
		{"empty email", "", true},
		{"invalid format", "invalid-email", true},
		{"missing @", "userexample.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
		{"valid with plus", "user+tag@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		wantErr     bool
	}{
		{"two characters", "Al", false},
		{"with spaces", "Ann Lee", false},
		{"unicode", "Zoë", false},
		{"one character", "A", true},
		{"only spaces", "   ", true},
		{"padded short", "  A  ", true},
		{"max length", strings.Repeat("a", 50), false},
		{"too long", strings.Repeat("a", 51), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDisplayName(tt.displayName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDisplayName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "password123", false},
		{"minimum length", "pass12", false},
		{"maximum length", strings.Repeat("a", 128), false},
		{"empty", "", true},
		{"too short", "pass", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePlaybackURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"valid http", "http://example.com/live.m3u8", false},
		{"valid https", "https://cdn.example.com/r/1/index.m3u8", false},
		{"ws not allowed", "ws://example.com", true},
		{"no host", "http://", true},
		{"invalid format", "not-a-url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlaybackURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlaybackURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRoomTitleAndIdentity(t *testing.T) {
	assert.NoError(t, ValidateRoomTitle("Show"))
	assert.Error(t, ValidateRoomTitle(" "))
	assert.Error(t, ValidateRoomTitle(strings.Repeat("t", MaxTitleLength+1)))

	assert.NoError(t, ValidateIdentity("ann-id", "host_id"))
	err := ValidateIdentity("", "host_id")
	if assert.Error(t, err) {
		assert.Equal(t, "host_id is required", err.Error())
	}
}

func TestFields_Messages(t *testing.T) {
	assert.Nil(t, Fields{"name": nil, "email": nil}.Messages())

	msgs := Fields{
		"name":  nil,
		"email": errors.New("invalid email format"),
	}.Messages()
	assert.Equal(t, map[string]string{"email": "invalid email format"}, msgs)
}
