package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ReservedLinkPrefix marks generated link names. User-supplied names must not
// start with it so a genuine name never collides with a synthetic one.
const ReservedLinkPrefix = "_link:"

// MaxDimension bounds the width and height of a generated surface.
const MaxDimension = 16384

// ValidateLinkName validates a user-supplied link (input) name.
// The empty string is valid and requests a synthetic name.
//
// Rules:
//   - No control characters
//   - Maximum length of 128 characters
//   - Must not start with ReservedLinkPrefix
func ValidateLinkName(name string) error {
	if name == "" {
		return nil
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidLinkName, "link name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLinkName, "link name contains invalid control characters")
		}
	}

	if strings.HasPrefix(name, ReservedLinkPrefix) {
		return New(ErrCodeInvalidLinkName, "link name %q uses the reserved prefix %q", name, ReservedLinkPrefix)
	}

	return nil
}

// ValidateDimensions checks a requested surface size.
func ValidateDimensions(width, height uint32) error {
	if width == 0 || height == 0 {
		return New(ErrCodeInvalidInput, "surface size must be at least 1x1 (got %dx%d)", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidInput, "surface size %dx%d exceeds maximum %d", width, height, MaxDimension)
	}
	return nil
}

// presetNameRegex matches preset identifiers like "noise-map".
var presetNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidatePresetName validates a preset identifier before lookup.
func ValidatePresetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPreset, "preset name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidPreset, "preset name too long (max 64 characters)")
	}
	if !presetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPreset, "invalid preset name: %q", name)
	}
	return nil
}
