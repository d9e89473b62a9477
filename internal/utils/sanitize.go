package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-\s]+`)

// Sanitize strips a string down to storage-key-safe characters, returning
// def when nothing survives.
func Sanitize(text, def string) string {
	clean := strings.TrimSpace(unsafeChars.ReplaceAllString(text, ""))
	if clean == "" {
		return def
	}
	return strings.ReplaceAll(clean, " ", "_")
}

// CleanFilename turns a dropped file's name into a readable show title
// fallback ("saturday_night-live.mp3" -> "saturday night live").
func CleanFilename(filename string) string {
	ext := filepath.Ext(filename)
	clean := strings.TrimSuffix(filepath.Base(filename), ext)
	clean = strings.ReplaceAll(clean, "_", " ")
	clean = strings.ReplaceAll(clean, "-", " ")
	return strings.TrimSpace(clean)
}
