// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutUS        = "01/02/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "2-Jan-2006"
)

// SpreadsheetEpochOffset is the serial number subtracted before converting a
// spreadsheet date serial to days since the Unix epoch.
const SpreadsheetEpochOffset = 25568

// Serials outside this range fall before year 1 or after year 9999.
var (
	minSerial = daysSinceEpoch(time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)) + SpreadsheetEpochOffset
	maxSerial = daysSinceEpoch(time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)) + SpreadsheetEpochOffset
)

// CommonFormats is a list of standard formats to try when parsing dates
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutUS,
	DateLayoutFull,
	DateLayoutWithMonth,
	DateLayoutISO + "T15:04:05Z07:00",
	DateLayoutISO + "T15:04:05",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	serialRe     = regexp.MustCompile(`^\d+$`)
	ymdRe        = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dmyRe        = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	separatorRe  = regexp.MustCompile(`[/.]`)
)

// ParseDate attempts to parse a date string using multiple common formats
// Returns the parsed time and the detected format
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// NormalizeImportDate converts a raw bank-export cell into a calendar date.
// Rules are tried in order and the first match wins:
//  1. an all-digit spreadsheet serial number
//  2. Y-M-D with '/', '.' or '-' separators
//  3. D-M-Y with the same separators
//  4. any of CommonFormats
//
// The returned time is midnight UTC. ok is false when no rule matched.
func NormalizeImportDate(raw string) (time.Time, bool) {
	value := CleanDateString(raw)
	if value == "" {
		return time.Time{}, false
	}

	if serialRe.MatchString(value) {
		serial, err := strconv.ParseInt(value, 10, 64)
		if err != nil || serial < minSerial || serial > maxSerial {
			return time.Time{}, false
		}
		return SerialToDate(serial), true
	}

	normalized := separatorRe.ReplaceAllString(value, "-")

	if m := ymdRe.FindStringSubmatch(normalized); m != nil {
		if t, ok := calendarDate(m[1], m[2], m[3]); ok {
			return t, true
		}
	}

	if m := dmyRe.FindStringSubmatch(normalized); m != nil {
		if t, ok := calendarDate(m[3], m[2], m[1]); ok {
			return t, true
		}
	}

	if t, _, err := ParseDate(value); err == nil {
		return truncateToDay(t), true
	}

	return time.Time{}, false
}

// SerialToDate converts a spreadsheet date serial to a UTC calendar date.
func SerialToDate(serial int64) time.Time {
	seconds := (serial - SpreadsheetEpochOffset) * 86400
	return truncateToDay(time.Unix(seconds, 0).UTC())
}

// calendarDate builds a date and rejects values that would overflow into the
// next month (e.g. 2025-02-30).
func calendarDate(y, m, d string) (time.Time, bool) {
	year, errY := strconv.Atoi(y)
	month, errM := strconv.Atoi(m)
	day, errD := strconv.Atoi(d)
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func daysSinceEpoch(t time.Time) int64 {
	return t.Unix() / 86400
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate formats a time.Time value according to the specified layout
// If no layout is provided, DateLayoutISO is used
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(strings.ReplaceAll(dateStr, "\u00a0", " "))
	return whitespaceRe.ReplaceAllString(dateStr, " ")
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// DayInMonth returns the given day of month clamped to the month's length, so
// a recurring day of 31 lands on the 30th in April.
func DayInMonth(year int, month time.Month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	last := EndOfMonth(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
