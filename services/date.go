package services

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// ParseOptionalDate parses a nullable form date. An empty string is a valid
// absent value; a malformed string is also treated as absent so that one bad
// date never poisons a whole contract row (it is simply excluded from the
// date-dependent buckets downstream).
func ParseOptionalDate(dateStr string) *time.Time {
	trimmed := strings.TrimSpace(dateStr)
	if trimmed == "" {
		return nil
	}
	parsed, err := ParseDate(trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}
