package nlp

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	ErrInvalidDate = errors.New("invalid appointment date")
	ErrInvalidTime = errors.New("invalid appointment time")

	clockRegex       = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{2})(?::(\d{2}))?)?\s*(am|pm)?$`)
	digitGroupRegex  = regexp.MustCompile(`\d+`)
	monthNameRegex   = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\b`)
	compactDateRegex = regexp.MustCompile(`^\d{8}$`)
	meridiemReplacer = strings.NewReplacer("a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm")
)

// NormalizeDate returns the date as YYYY-MM-DD. Year, month and day must all
// be present: "2025", "Aug 2025", "Aug 6" and "8/6" are rejected even though
// dateparse fills in the missing parts.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || !hasFullDate(s) {
		return "", ErrInvalidDate
	}

	t, err := dateparse.ParseIn(s, time.Local)
	if err != nil || t.Year() == 0 {
		return "", ErrInvalidDate
	}

	return t.Format("2006-01-02"), nil
}

// hasFullDate reports whether s spells out a day, a month and a year: three
// numbers, a month name with two numbers, or a compact YYYYMMDD.
func hasFullDate(s string) bool {
	if compactDateRegex.MatchString(s) {
		return true
	}

	groups := digitGroupRegex.FindAllString(s, -1)
	if len(groups) >= 3 {
		return true
	}
	return len(groups) == 2 && monthNameRegex.MatchString(s)
}

// NormalizeTime returns a wall-clock time as 24h HH:MM. It accepts "2 PM",
// "2:00 pm", "2 p.m.", "2.30pm", "14:00" and "14:00:00"; seconds are dropped.
func NormalizeTime(s string) (string, error) {
	s = meridiemReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	s = strings.Join(strings.Fields(s), " ")
	if s == "noon" {
		return "12:00", nil
	}

	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return "", ErrInvalidTime
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return "", ErrInvalidTime
	}
	if m[3] != "" {
		if second, _ := strconv.Atoi(m[3]); second > 59 {
			return "", ErrInvalidTime
		}
	}

	switch m[4] {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return "", ErrInvalidTime
		}
		if hour == 12 {
			hour = 0
		}
		if m[4] == "pm" {
			hour += 12
		}
	default:
		if hour > 23 {
			return "", ErrInvalidTime
		}
	}

	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04"), nil
}
