package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedNow() time.Time {
	return time.Date(2023, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func TestParseDateUnknown(t *testing.T) {
	d := ParseDate("unknown", fixedNow())
	assert.Equal(t, DateUnknown, d.Kind)
}

func TestParseDateWeekday(t *testing.T) {
	d := ParseDate("monday", fixedNow())
	assert.Equal(t, DateWeekday, d.Kind)
	assert.Equal(t, time.Monday, d.Weekday)
}

func TestParseDateMonthOfYear(t *testing.T) {
	d := ParseDate("december", fixedNow())
	assert.Equal(t, DateMonthOfYear, d.Kind)
	assert.Equal(t, time.December, d.Month)
}

func TestParseDatePureYearSpansNonLeapYear(t *testing.T) {
	d := ParseDate("2023", fixedNow())
	assert.Equal(t, DateRange, d.Kind)

	start := time.Unix(d.Start, 0).UTC()
	end := time.Unix(d.End, 0).UTC()
	assert.Equal(t, 2023, start.Year())
	assert.Equal(t, time.January, start.Month())
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 2023, end.Year())
	assert.Equal(t, time.December, end.Month())
	assert.Equal(t, 31, end.Day())

	days := end.Sub(start).Hours() / 24
	assert.InDelta(t, 365, days, 0.05, "2023 is not a leap year")
}

func TestParseDateInvalidIsZeroRange(t *testing.T) {
	d := ParseDate("not-a-date", fixedNow())
	assert.Equal(t, DateRange, d.Kind)
	assert.Equal(t, int64(0), d.Start)
	assert.Equal(t, int64(0), d.End)
}

func TestParseDateToday(t *testing.T) {
	now := fixedNow()
	d := ParseDate("today", now)
	require := assert.New(t)
	require.Equal(DateRange, d.Kind)
	start := time.Unix(d.Start, 0).UTC()
	require.Equal(now.Day(), start.Day())
}

func TestParseDateLastWeek(t *testing.T) {
	d := ParseDate("lastweek", fixedNow())
	assert.Equal(t, DateRange, d.Kind)
	assert.Less(t, d.Start, fixedNow().Unix())
}

func TestParseDateNumericRelative(t *testing.T) {
	d := ParseDate("last7days", fixedNow())
	assert.Equal(t, DateRange, d.Kind)
	assert.Equal(t, fixedNow().Unix(), d.End)
}

func TestParseDateExplicitISO(t *testing.T) {
	d := ParseDate("2022-01-15", fixedNow())
	assert.Equal(t, DateRange, d.Kind)
	start := time.Unix(d.Start, 0).UTC()
	assert.Equal(t, 2022, start.Year())
	assert.Equal(t, time.January, start.Month())
	assert.Equal(t, 15, start.Day())
}

func TestParseDateTwoNumberMonth(t *testing.T) {
	d := ParseDate("2023/6", fixedNow())
	assert.Equal(t, DateRange, d.Kind)
	start := time.Unix(d.Start, 0).UTC()
	assert.Equal(t, 2023, start.Year())
	assert.Equal(t, time.June, start.Month())
}
