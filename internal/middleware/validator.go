package middleware

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bkonan/veilleur/internal/domain/analysis"
	"github.com/bkonan/veilleur/internal/domain/forces"
)

// Input validation and sanitization utilities

// ValidateContentType checks the analysis content type against the enum
func ValidateContentType(contentType string) error {
	if !analysis.ContentType(contentType).Valid() {
		return fmt.Errorf("invalid content type: %s (allowed: article, social_media, criticism, question, other)", contentType)
	}
	return nil
}

// ValidateElementType checks a forces/faiblesses element type
func ValidateElementType(elementType string) error {
	if !forces.ElementType(elementType).Valid() {
		return fmt.Errorf("invalid element type: %s", elementType)
	}
	return nil
}

// ValidateMediaType checks a media attachment type
func ValidateMediaType(mediaType string) error {
	if !forces.MediaType(mediaType).Valid() {
		return fmt.Errorf("invalid media type: %s (allowed: texte, image, video, audio, autre)", mediaType)
	}
	return nil
}

// ValidateFileName rejects names that could escape the object key prefix
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	dangerous := []string{"..", "/", "\\", "\x00", "\n", "\r"}
	for _, d := range dangerous {
		if strings.Contains(name, d) {
			return fmt.Errorf("invalid characters in file name")
		}
	}
	if len(name) > 255 {
		return fmt.Errorf("file name too long (max 255 chars)")
	}
	return nil
}

// SanitizeString removes null bytes and control characters
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateID validates the uuid identifiers used across the API
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid id format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateLimit validates a result-count parameter
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 5 // default
	}
	if limit > 50 {
		return 50 // max
	}
	return limit
}
