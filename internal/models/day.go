// ABOUTME: DayEntry model and calendar-date helpers (YYYY-MM-DD days, YYYY-MM months).
// ABOUTME: Month enumeration uses last-day-of-month arithmetic so leap years are exact.
package models

import (
	"fmt"
	"sort"
	"time"
)

const (
	// DateLayout is the ISO calendar date format used as the DayEntry key.
	DateLayout = "2006-01-02"
	// MonthLayout is the format of a display month.
	MonthLayout = "2006-01"
)

// DayEntry holds every metric value logged for one calendar date.
type DayEntry struct {
	Date   string           `json:"date" yaml:"date"`
	Values map[string]Value `json:"values" yaml:"values"`
}

// NewDayEntry returns an empty entry for date.
func NewDayEntry(date string) DayEntry {
	return DayEntry{Date: date, Values: map[string]Value{}}
}

// Get returns the value logged under slug, or Null.
func (d DayEntry) Get(slug string) Value {
	if d.Values == nil {
		return Null
	}
	return d.Values[slug]
}

// Clone returns a deep copy of the entry.
func (d DayEntry) Clone() DayEntry {
	out := DayEntry{Date: d.Date, Values: make(map[string]Value, len(d.Values))}
	for k, v := range d.Values {
		out.Values[k] = v
	}
	return out
}

// SortDays orders entries by date ascending in place.
func SortDays(days []DayEntry) {
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (use YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return t, nil
}

// ValidateDate checks s is a canonical YYYY-MM-DD date.
func ValidateDate(s string) error {
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	if t.Format(DateLayout) != s {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}

// FormatDate renders t's calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseMonth parses a YYYY-MM month and returns its first day in UTC.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q (use YYYY-MM)", ErrInvalidDate, s)
	}
	return t, nil
}

// MonthOf returns the YYYY-MM month containing date.
func MonthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// MonthDates returns every date of month in ascending order.
func MonthDates(month string) ([]string, error) {
	first, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	// Day 0 of the next month is the last day of this one.
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	dates := make([]string, 0, last)
	for d := 1; d <= last; d++ {
		dates = append(dates, FormatDate(time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)))
	}
	return dates, nil
}

// AddDays shifts date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the number of calendar days from a to b (b - a).
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// DatesInRange returns every date from start to end inclusive.
// An inverted range yields no dates.
func DatesInRange(start, end string) ([]string, error) {
	ts, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	te, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	var dates []string
	for t := ts; !t.After(te); t = t.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(t))
	}
	return dates, nil
}
