package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Payload size limits (in bytes)
const (
	MaxJSONSize    = 1 * 1024 * 1024 // 1MB - maximum request body
	MaxMessageSize = 16 * 1024       // 16KB - single WebSocket message
)

// String length limits
const (
	MaxIDLength          = 128
	MaxNameLength        = 256
	MaxDescriptionLength = 2048
	MaxNoteLength        = 4096
	MaxInputLength       = 1024
	MaxImageRefLength    = 2048
	MaxTitleLength       = 256
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// ImageRefPattern accepts site-relative paths, http(s) URLs and image data URLs
	ImageRefPattern = regexp.MustCompile(`^(/[^\s]*|https?://[^\s]+|data:image/[a-z+.-]+;base64,[A-Za-z0-9+/=]+)$`)
)

// ValidateSize checks if a payload is within maxSize bytes
func ValidateSize(data []byte, maxSize int) error {
	if len(data) > maxSize {
		return fmt.Errorf("payload size %d bytes exceeds maximum %d bytes", len(data), maxSize)
	}
	return nil
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	if !utf8.ValidString(value) {
		return fmt.Errorf("%s is not valid UTF-8", fieldName)
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes (security issue)
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates a window, widget, panel, session or snapshot id
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateName validates a name field
func ValidateName(name, fieldName string) error {
	return ValidateString(strings.TrimSpace(name), fieldName, 1, MaxNameLength, true)
}

// ValidateDescription validates a description field
func ValidateDescription(description, fieldName string, required bool) error {
	return ValidateString(description, fieldName, 0, MaxDescriptionLength, required)
}

// ValidateNote validates note content before sanitizing
func ValidateNote(content string) error {
	return ValidateString(content, "content", 1, MaxNoteLength, true)
}

// ValidateTerminalInput validates a terminal line. Empty input is allowed.
func ValidateTerminalInput(input string) error {
	return ValidateString(input, "input", 0, MaxInputLength, false)
}

// ValidateImageRef validates a wallpaper image reference
func ValidateImageRef(ref string) error {
	if err := ValidateString(ref, "image_ref", 1, MaxImageRefLength, true); err != nil {
		return err
	}
	if !ImageRefPattern.MatchString(ref) {
		return fmt.Errorf("image_ref must be a site path, an http(s) URL or an image data URL")
	}
	return nil
}

// ValidateTitle validates an optional display title
func ValidateTitle(title string) error {
	return ValidateString(title, "title", 0, MaxTitleLength, false)
}
