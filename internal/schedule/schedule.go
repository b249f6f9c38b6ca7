package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTime     = errors.New("invalid time format")
	ErrInvalidDuration = errors.New("invalid duration")
)

// BuildInstant combines civil date/time fields with a timezone into an
// absolute instant. time.Date resolves the UTC offset from the target
// calendar date itself, so a date on the far side of a DST transition gets
// that date's offset, never today's.
func BuildInstant(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

// CivilDate truncates an instant to midnight of its calendar date in loc.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// SameCivilDate reports whether two instants fall on the same calendar date
// in loc, ignoring time of day.
func SameCivilDate(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// SameExceptionDate matches a stored exception timestamp against a target
// instant's calendar date in loc. Exceptions persist their date as a UTC
// midnight timestamp, so the stored side reads its date in UTC while the
// target side reads its date on the business clock; comparing full instants
// here would shift the exception a day at timezone boundaries.
func SameExceptionDate(stored, target time.Time, loc *time.Location) bool {
	sy, sm, sd := stored.UTC().Date()
	ty, tm, td := target.In(loc).Date()
	return sy == ty && sm == tm && sd == td
}

// DayBounds returns the half-open [start, end) instant range covering t's
// calendar date in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := CivilDate(t, loc)
	return start, start.AddDate(0, 0, 1)
}

// MinutesOfDay returns t's local time of day in loc as minutes from midnight.
func MinutesOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

func MinutesToClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Window is an open/close range in minutes from local midnight.
type Window struct {
	OpenMin  int
	CloseMin int
}

func ParseWindow(openTime, closeTime string) (Window, error) {
	openMin, err := ParseClockToMinutes(openTime)
	if err != nil {
		return Window{}, err
	}
	closeMin, err := ParseClockToMinutes(closeTime)
	if err != nil {
		return Window{}, err
	}
	return Window{OpenMin: openMin, CloseMin: closeMin}, nil
}

// Contains applies the half-open rule: a time exactly at close is outside.
func (w Window) Contains(minuteOfDay int) bool {
	return minuteOfDay >= w.OpenMin && minuteOfDay < w.CloseMin
}

// Interval is a half-open [Start, End) span in minutes from local midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps uses strict comparison on both ends so back-to-back intervals
// (one's end equal to the other's start) do not conflict.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// CountOverlapping returns how many of the reserved intervals overlap the
// candidate.
func CountOverlapping(candidate Interval, reserved []Interval) int {
	count := 0
	for _, r := range reserved {
		if Overlaps(candidate, r) {
			count++
		}
	}
	return count
}

// SlotStarts enumerates the start times inside a window that fit a whole
// appointment of the given duration, stepping by that duration.
func SlotStarts(w Window, duration int) ([]string, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	slots := make([]string, 0)
	for cursor := w.OpenMin; cursor+duration <= w.CloseMin; cursor += duration {
		slots = append(slots, MinutesToClock(cursor))
	}
	return slots, nil
}

// FilterConcurrency drops slot starts whose interval already has limit or
// more overlapping reservations.
func FilterConcurrency(slots []string, duration, limit int, reserved []Interval) ([]string, error) {
	if limit < 1 {
		limit = 1
	}
	filtered := make([]string, 0, len(slots))
	for _, s := range slots {
		start, err := ParseClockToMinutes(s)
		if err != nil {
			return nil, err
		}
		current := Interval{Start: start, End: start + duration}
		if CountOverlapping(current, reserved) < limit {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// FilterPast drops slot starts on date that are not strictly after now.
func FilterPast(date time.Time, slots []string, loc *time.Location, now time.Time) ([]string, error) {
	midnight := CivilDate(date, loc)
	filtered := make([]string, 0, len(slots))
	for _, s := range slots {
		startMin, err := ParseClockToMinutes(s)
		if err != nil {
			return nil, err
		}
		slot := midnight.Add(time.Duration(startMin) * time.Minute)
		if slot.After(now) {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}
