package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/grafana/regexp"
)

// DateKind discriminates the Date sum type.
type DateKind int

const (
	DateUnknown DateKind = iota
	DateWeekday
	DateMonthOfYear
	DateRange
)

// Date is the result of parsing a date literal: either the sentinel
// Unknown, a recurring Weekday/Month-of-year match, or an inclusive
// [Start, End] unix-second Range (the sentinel Range(0,0) means "invalid,
// match nothing downstream").
type Date struct {
	Kind    DateKind
	Weekday time.Weekday
	Month   time.Month
	Start   int64
	End     int64
}

func (d Date) String() string {
	switch d.Kind {
	case DateWeekday:
		return fmt.Sprintf("weekday(%s)", d.Weekday)
	case DateMonthOfYear:
		return fmt.Sprintf("month(%s)", d.Month)
	case DateRange:
		return fmt.Sprintf("range(%d,%d)", d.Start, d.End)
	default:
		return "unknown"
	}
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var unitDurations = map[string]time.Duration{
	"minute": time.Minute, "min": time.Minute,
	"second": time.Second, "sec": time.Second,
	"hour": time.Hour,
}

var directionRe = regexp.MustCompile(`^(last|past|prev|this|current|next|coming)\s*(week|month|year)$`)
var relativeRe = regexp.MustCompile(`^(last|past|prev|next|coming)(\d+)\s*(years?|months?|weeks?|days?|hours?|minutes?|min|mins|seconds?|secs?|sec)$`)
var explicitISO = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?: (\d{2}):(\d{2}):(\d{2}))?$`)
var explicitSlash = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
var twoNumber = regexp.MustCompile(`^(\d{1,4})/(\d{1,4})$`)

// ParseDate converts a raw string to a Date value, trying each recognized
// shape from spec.md §4.6 in order; the first match wins. now is injected
// so the numeric-relative and special-constant shapes are deterministic
// for tests.
func ParseDate(raw string, now time.Time) Date {
	s := strings.ToLower(strings.TrimSpace(raw))

	if s == "unknown" {
		return Date{Kind: DateUnknown}
	}
	if wd, ok := weekdays[s]; ok {
		return Date{Kind: DateWeekday, Weekday: wd}
	}
	if m, ok := months[s]; ok {
		return Date{Kind: DateMonthOfYear, Month: m}
	}

	if d, ok := parseSpecialConstant(s, now); ok {
		return d
	}
	if d, ok := parseNumericRelative(s, now); ok {
		return d
	}
	if d, ok := parsePureYear(s); ok {
		return d
	}
	if d, ok := parseExplicit(s); ok {
		return d
	}
	if d, ok := parseTwoNumberMonth(s); ok {
		return d
	}
	return Date{Kind: DateRange, Start: 0, End: 0}
}

func dayBounds(t time.Time) (int64, int64) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
	return start.Unix(), end.Unix()
}

func monthBounds(t time.Time) (int64, int64) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	nextMonth := start.AddDate(0, 1, 0)
	end := nextMonth.AddDate(0, 0, -1)
	_, endEnd := dayBounds(end)
	return start.Unix(), endEnd
}

func yearBounds(t time.Time) (int64, int64) {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), time.December, 31, 23, 59, 59, 0, t.Location())
	return start.Unix(), end.Unix()
}

func parseSpecialConstant(s string, now time.Time) (Date, bool) {
	switch s {
	case "today":
		start, end := dayBounds(now)
		return Date{Kind: DateRange, Start: start, End: end}, true
	case "yesterday":
		start, end := dayBounds(now.AddDate(0, 0, -1))
		return Date{Kind: DateRange, Start: start, End: end}, true
	}

	m := directionRe.FindStringSubmatch(s)
	if m == nil {
		return Date{}, false
	}
	direction, unit := m[1], m[2]
	var ref time.Time
	switch direction {
	case "last", "past", "prev":
		ref = shiftUnit(now, unit, -1)
	case "next", "coming":
		ref = shiftUnit(now, unit, 1)
	default: // this, current
		ref = now
	}
	switch unit {
	case "week":
		return weekBounds(ref), true
	case "month":
		start, end := monthBounds(ref)
		return Date{Kind: DateRange, Start: start, End: end}, true
	case "year":
		start, end := yearBounds(ref)
		return Date{Kind: DateRange, Start: start, End: end}, true
	}
	return Date{}, false
}

func shiftUnit(t time.Time, unit string, n int) time.Time {
	switch unit {
	case "week":
		return t.AddDate(0, 0, 7*n)
	case "month":
		return t.AddDate(0, n, 0)
	case "year":
		return t.AddDate(n, 0, 0)
	}
	return t
}

func weekBounds(t time.Time) Date {
	offset := int(t.Weekday())
	start := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 6)
	_, endEnd := dayBounds(end)
	return Date{Kind: DateRange, Start: start.Unix(), End: endEnd}
}

func normalizeUnit(u string) string {
	switch u {
	case "years", "year":
		return "year"
	case "months", "month":
		return "month"
	case "weeks", "week":
		return "week"
	case "days", "day":
		return "day"
	case "hours", "hour":
		return "hour"
	case "minutes", "minute", "min", "mins":
		return "minute"
	case "seconds", "second", "sec", "secs":
		return "second"
	}
	return u
}

func parseNumericRelative(s string, now time.Time) (Date, bool) {
	m := relativeRe.FindStringSubmatch(s)
	if m == nil {
		return Date{}, false
	}
	direction := m[1]
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Date{}, false
	}
	unit := normalizeUnit(m[3])

	backwards := direction == "last" || direction == "past" || direction == "prev"

	var delta time.Duration
	var dateUnits bool
	switch unit {
	case "year":
		dateUnits = true
	case "month":
		dateUnits = true
	case "week":
		delta = time.Duration(n) * 7 * 24 * time.Hour
	case "day":
		delta = time.Duration(n) * 24 * time.Hour
	default:
		delta = time.Duration(n) * unitDurations[unit]
	}

	if backwards {
		var earlier time.Time
		if dateUnits {
			if unit == "year" {
				earlier = now.AddDate(-n, 0, 0)
			} else {
				earlier = now.AddDate(0, -n, 0)
			}
			start, _ := dayBounds(earlier)
			return Date{Kind: DateRange, Start: start, End: now.Unix()}, true
		}
		if unit == "day" || unit == "week" {
			start, _ := dayBounds(now.Add(-delta))
			return Date{Kind: DateRange, Start: start, End: now.Unix()}, true
		}
		return Date{Kind: DateRange, Start: now.Add(-delta).Unix(), End: now.Unix()}, true
	}

	var later time.Time
	if dateUnits {
		if unit == "year" {
			later = now.AddDate(n, 0, 0)
		} else {
			later = now.AddDate(0, n, 0)
		}
	} else {
		later = now.Add(delta)
	}
	return Date{Kind: DateRange, Start: now.Unix(), End: later.Unix()}, true
}

func parsePureYear(s string) (Date, bool) {
	if len(s) != 4 {
		return Date{}, false
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1970 || y > 9999 {
		return Date{}, false
	}
	t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	start, end := yearBounds(t)
	return Date{Kind: DateRange, Start: start, End: end}, true
}

func parseExplicit(s string) (Date, bool) {
	if m := explicitISO.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if mo < 1 || mo > 12 || day < 1 || day > 31 {
			return Date{}, false
		}
		t := time.Date(y, time.Month(mo), day, 0, 0, 0, 0, time.UTC)
		start, end := dayBounds(t)
		return Date{Kind: DateRange, Start: start, End: end}, true
	}
	if m := explicitSlash.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		// MM/DD/YYYY, falling back to DD/MM/YYYY when the first number
		// cannot be a month.
		month, day := a, b
		if month < 1 || month > 12 {
			month, day = b, a
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return Date{}, false
		}
		t := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		start, end := dayBounds(t)
		return Date{Kind: DateRange, Start: start, End: end}, true
	}
	return Date{}, false
}

// parseTwoNumberMonth handles "A/B" where exactly one side is a plausible
// year ([1970,9999]) and the other a plausible month ([1,12]).
func parseTwoNumberMonth(s string) (Date, bool) {
	m := twoNumber.FindStringSubmatch(s)
	if m == nil {
		return Date{}, false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])

	aYear, bYear := inRange(a, 1970, 9999), inRange(b, 1970, 9999)
	aMonth, bMonth := inRange(a, 1, 12), inRange(b, 1, 12)

	var year, month int
	switch {
	case aYear && !bYear && bMonth:
		year, month = a, b
	case bYear && !aYear && aMonth:
		year, month = b, a
	default:
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	start, end := monthBounds(t)
	return Date{Kind: DateRange, Start: start, End: end}, true
}

func inRange(v, lo, hi int) bool { return v >= lo && v <= hi }
