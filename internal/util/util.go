package util

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FormatSize renders a byte count the way the export commands report written files
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	value := float64(size)
	suffixes := []string{"KB", "MB", "GB"}
	i := -1
	for value >= unit && i < len(suffixes)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[i])
}

// IsUUID reports whether str is a member id rather than a name
func IsUUID(str string) bool {
	_, err := uuid.Parse(str)
	return err == nil && len(str) == 36
}

// TruncateText cuts text to maxLen runes and marks the cut with a trailing "."
func TruncateText(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen]) + "."
}

// Capitalize upper-cases the first letter and lower-cases the rest
func Capitalize(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// SplitName returns the capitalized first name and the capitalized remaining names
func SplitName(fullName string) (first, rest string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}

	others := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		others = append(others, Capitalize(p))
	}
	return Capitalize(parts[0]), strings.Join(others, " ")
}

// YesNo renders a flag for printed forms
func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
