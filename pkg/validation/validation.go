package validation

import (
	"fmt"
	"net/url"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MinNameLength     = 2
	MaxNameLength     = 50
	MaxEmailLength    = 254
	MinPasswordLength = 6
	MaxPasswordLength = 128
	MaxTitleLength    = 200
	MaxIdentityLength = 128
)

// Fields collects per-field validation results; nil entries are ignored.
type Fields map[string]error

// Messages returns the failing fields with their messages, or nil if none failed.
func (f Fields) Messages() map[string]string {
	var out map[string]string
	for name, err := range f {
		if err == nil {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = err.Error()
	}
	return out
}

// ValidateEmail validates an already normalized email address
func ValidateEmail(email string) error {
	return ozzo.Validate(email,
		ozzo.Required.Error("email is required"),
		ozzo.RuneLength(0, MaxEmailLength).Error(fmt.Sprintf("email is too long (max %d characters)", MaxEmailLength)),
		is.Email.Error("invalid email format"),
	)
}

// ValidateDisplayName validates a trimmed display name
func ValidateDisplayName(name string) error {
	return ozzo.Validate(strings.TrimSpace(name),
		ozzo.Required.Error("name is required"),
		ozzo.RuneLength(MinNameLength, MaxNameLength).Error(
			fmt.Sprintf("name must be between %d and %d characters", MinNameLength, MaxNameLength)),
	)
}

// ValidatePassword validates password length
func ValidatePassword(password string) error {
	return ozzo.Validate(password,
		ozzo.Required.Error("password is required"),
		ozzo.RuneLength(MinPasswordLength, MaxPasswordLength).Error(
			fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)),
	)
}

// ValidateRequired only checks presence, used where length policy is not ours to enforce.
func ValidateRequired(value, fieldName string) error {
	return ozzo.Validate(strings.TrimSpace(value), ozzo.Required.Error(fieldName+" is required"))
}

// ValidateRoomTitle validates room title
func ValidateRoomTitle(title string) error {
	return ozzo.Validate(strings.TrimSpace(title),
		ozzo.Required.Error("title is required"),
		ozzo.RuneLength(1, MaxTitleLength).Error(fmt.Sprintf("title is too long (max %d characters)", MaxTitleLength)),
	)
}

// ValidateIdentity validates an opaque user identity such as a host or guest id
func ValidateIdentity(id, fieldName string) error {
	return ozzo.Validate(strings.TrimSpace(id),
		ozzo.Required.Error(fieldName+" is required"),
		ozzo.RuneLength(1, MaxIdentityLength).Error(fmt.Sprintf("%s is too long (max %d characters)", fieldName, MaxIdentityLength)),
	)
}

// ValidatePlaybackURL validates a caller-supplied playback URL. Empty is allowed.
func ValidatePlaybackURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme (must be http or https)")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
