package store

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the on-disk format of every date field.
	DateLayout = "2006-01-02"
	// DisplayDateLayout is used for prompts and screens, and accepted on read.
	DisplayDateLayout = "02/01/2006"
	// TimestampLayout is the on-disk format of created_date.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or DD/MM/YYYY.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, DisplayDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want dd/mm/yyyy or yyyy-mm-dd)", s)
}

// ParseOptionalDate returns nil for a blank string.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// DisplayDate renders a date for people; nil and zero dates become "-".
func DisplayDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(DisplayDateLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	for _, layout := range []string{time.RFC3339, DateLayout, DisplayDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(TimestampLayout)
}

// timeValue carries a decoded date that may be absent.
type timeValue struct {
	t  time.Time
	ok bool
}

func (v timeValue) value() time.Time { return v.t }

func (v timeValue) ptr() *time.Time {
	if !v.ok {
		return nil
	}
	t := v.t
	return &t
}
