// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutMonth    = "2006-01"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutSlash    = "02/01/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutLocalISO = "2006-01-02T15:04:05"
)

// zonedFormats carry their own offset and are converted into the target
// location after parsing.
var zonedFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

// localFormats have no offset and are read as wall-clock values in the
// target location.
var localFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutLocalISO,
	"2006-01-02T15:04:05.000",
	DateLayoutMonth,
	DateLayoutSlash,
	DateLayoutEuropean,
	"2006/01/02",
	"01/2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return whitespace.ReplaceAllString(dateStr, " ")
}

// ParseDateInLocation parses a date string using the supported layouts.
// Inputs with an explicit offset are converted to loc; inputs without one
// are interpreted in loc. An empty string returns the zero time and no error.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	cleanDate := CleanDateString(dateStr)
	if cleanDate == "" {
		return time.Time{}, nil
	}

	for _, format := range zonedFormats {
		if t, err := time.Parse(format, cleanDate); err == nil {
			return t.In(loc), nil
		}
	}
	for _, format := range localFormats {
		if t, err := time.ParseInLocation(format, cleanDate, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
// The zero time formats as an empty string.
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// FormatOptional formats an optional date as ISO, or "" when nil.
func FormatOptional(date *time.Time) string {
	if date == nil {
		return ""
	}
	return ToISODate(*date)
}
