// Package analytics holds the dashboard and calendar computations. Every
// function here is a pure transformation over an in-memory campaign snapshot.
package analytics

import (
	"strings"
	"time"

	appErrors "github.com/unclebandit/ggph-smms/internal/errors"
)

// DateLayout is the calendar date format used by stored records and filters.
const DateLayout = "2006-01-02"

// Interval is a closed range [Start, End] at day granularity. End is the last
// instant of its day. The zero value is invalid and matches nothing.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Valid() bool {
	return !iv.Start.IsZero() && !iv.End.IsZero() && !iv.End.Before(iv.Start)
}

// Contains reports whether t lies in [Start, End], inclusive on both ends.
func (iv Interval) Contains(t time.Time) bool {
	if !iv.Valid() {
		return false
	}
	return !t.Before(iv.Start) && !t.After(iv.End)
}

func (iv Interval) StartDate() string { return formatDate(iv.Start) }
func (iv Interval) EndDate() string   { return formatDate(iv.End) }

func (iv Interval) location() *time.Location {
	if iv.Start.IsZero() {
		return time.UTC
	}
	return iv.Start.Location()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DayInterval covers the single calendar day containing t.
func DayInterval(t time.Time) Interval {
	return Interval{Start: StartOfDay(t), End: EndOfDay(t)}
}

// MonthInterval covers the whole of month m (January = 0) of year.
func MonthInterval(year, month int, loc *time.Location) Interval {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, loc)
	last := start.AddDate(0, 1, -1)
	return Interval{Start: start, End: EndOfDay(last)}
}

// YearInterval covers Jan 1 .. Dec 31 of year.
func YearInterval(year int, loc *time.Location) Interval {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	return Interval{Start: start, End: EndOfDay(end)}
}

// ParseDate reads a stored ISO date. Plain dates are midnight in loc; full
// RFC3339 timestamps keep their instant, expressed in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, &appErrors.ParseError{Value: s}
	}
	if t, err := time.ParseInLocation(DateLayout, v, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, &appErrors.ParseError{Value: s}
}

// Mode selects how a Filter describes its window.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeRange Mode = "range"
)

// Filter is the date selection state of the dashboard. In month mode Start and
// End mirror the selected month; in range mode they are whatever the user typed.
type Filter struct {
	Mode  Mode   `json:"mode"`
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// MonthFilter selects month (0-11) of year.
func MonthFilter(year, month int, loc *time.Location) Filter {
	iv := MonthInterval(year, month, loc)
	return Filter{Mode: ModeMonth, Month: month, Year: year, Start: iv.StartDate(), End: iv.EndDate()}
}

// RangeFilter selects explicit start and end dates, keeping the month fields.
func (f Filter) RangeFilter(start, end string) Filter {
	f.Mode = ModeRange
	f.Start = start
	f.End = end
	return f
}

// WithMonth changes the selected month. In month mode the date strings follow.
func (f Filter) WithMonth(year, month int, loc *time.Location) Filter {
	f.Year = year
	f.Month = month
	if f.Mode != ModeRange {
		iv := MonthInterval(year, month, loc)
		f.Mode = ModeMonth
		f.Start = iv.StartDate()
		f.End = iv.EndDate()
	}
	return f
}

// WithMode switches mode. Entering range mode starts from the current month's
// dates; returning to month mode discards any typed range.
func (f Filter) WithMode(m Mode, loc *time.Location) Filter {
	iv := MonthInterval(f.Year, f.Month, loc)
	switch m {
	case ModeRange:
		if f.Mode != ModeRange {
			f.Start = iv.StartDate()
			f.End = iv.EndDate()
		}
		f.Mode = ModeRange
	default:
		f.Mode = ModeMonth
		f.Start = iv.StartDate()
		f.End = iv.EndDate()
	}
	return f
}

// Resolve turns a filter into a concrete interval. It returns ErrInvalidRange
// with a zero Interval when the filter cannot describe a window.
func Resolve(f Filter, loc *time.Location) (Interval, error) {
	switch f.Mode {
	case ModeMonth, "":
		if f.Month < 0 || f.Month > 11 {
			return Interval{}, appErrors.ErrInvalidRange
		}
		return MonthInterval(f.Year, f.Month, loc), nil
	case ModeRange:
		start, err := ParseDate(f.Start, loc)
		if err != nil {
			return Interval{}, appErrors.ErrInvalidRange
		}
		end, err := ParseDate(f.End, loc)
		if err != nil {
			return Interval{}, appErrors.ErrInvalidRange
		}
		iv := Interval{Start: StartOfDay(start), End: EndOfDay(end)}
		if !iv.Valid() {
			return Interval{}, appErrors.ErrInvalidRange
		}
		return iv, nil
	default:
		return Interval{}, appErrors.ErrInvalidRange
	}
}
