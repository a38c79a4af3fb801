// Package dateutils provides the date layouts used when reading statements and writing QIF.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts used throughout the application
const (
	DateLayoutISO         = "2006-01-02"
	DateLayoutISODateTime = "2006-01-02T15:04:05"
	DateLayoutQIF         = "2006/01/02"
	DateLayoutCompact     = "20060102"
	DateLayoutEuropean    = "02/01/2006"
)

// ParseISODate parses a CAMT date. Date-time values (as found in <DtTm>) are
// accepted and truncated to the calendar day; the result is always UTC midnight.
func ParseISODate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if len(dateStr) > len(DateLayoutISO) && dateStr[len(DateLayoutISO)] == 'T' {
		dateStr = dateStr[:len(DateLayoutISO)]
	}

	t, err := time.Parse(DateLayoutISO, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
	}
	return TruncateToDay(t), nil
}

// TruncateToDay drops the time of day and location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ToQIFDate formats a date as YYYY/MM/DD.
func ToQIFDate(date time.Time) string {
	return date.Format(DateLayoutQIF)
}

// ToCompactDate formats a date as YYYYMMDD.
func ToCompactDate(date time.Time) string {
	return date.Format(DateLayoutCompact)
}

// ToEuropeanDate formats a date as DD/MM/YYYY for diagnostics.
func ToEuropeanDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutEuropean)
}
