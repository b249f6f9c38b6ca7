// Package dateparse extracts Spanish natural-language date and time
// expressions ("el próximo martes a las 1 pm", "5 de marzo", "15:30") into
// structured candidates resolved against a reference time.
//
// Each candidate records which components were explicitly stated in the text
// versus inferred from the reference time. Relative and partial expressions
// resolve with a forward-only bias: an ambiguous date always lands on the
// next future occurrence, never the past.
//
// The parser may emit several interpretations for one text ("el 5" read as a
// day of month and as part of a longer phrase); Select picks the most fully
// specified one, keeping emission order on ties.
package dateparse

import (
	"math/bits"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Component is a bitmask of date/time fields explicitly present in the input.
type Component uint8

const (
	Year Component = 1 << iota
	Month
	Day
	Hour
	Minute
	Meridiem
	Weekday
)

// Candidate is one interpretation of the input text. Value fields are always
// populated when the matching Has bit is set; Known records which of them the
// text stated explicitly rather than the parser defaulting them.
type Candidate struct {
	YearVal   int
	MonthVal  time.Month
	DayVal    int
	HourVal   int
	MinuteVal int

	Has   Component
	Known Component
}

// Certainty is the number of explicitly stated components, the selector's
// scoring rule.
func (c Candidate) Certainty() int {
	return bits.OnesCount8(uint8(c.Known))
}

// HasDate reports whether year, month and day values are all present.
func (c Candidate) HasDate() bool {
	return c.Has&(Year|Month|Day) == Year|Month|Day
}

// HasTime reports whether hour and minute values are both present.
func (c Candidate) HasTime() bool {
	return c.Has&(Hour|Minute) == Hour|Minute
}

var monthNames = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

var weekdayNames = map[string]time.Weekday{
	"domingo": time.Sunday, "lunes": time.Monday, "martes": time.Tuesday,
	"miércoles": time.Wednesday, "miercoles": time.Wednesday,
	"jueves": time.Thursday, "viernes": time.Friday,
	"sábado": time.Saturday, "sabado": time.Saturday,
}

var (
	reISODate   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reSlashDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`)
	reDayMonth  = regexp.MustCompile(`\b(?:el\s+)?(\d{1,2})\s+de\s+([a-zá-ú]+)(?:\s+(?:de|del)\s+(\d{4}))?`)
	reWeekday   = regexp.MustCompile(`(?:\b(?:el|este|próximo|proximo)\s+)*\b(domingo|lunes|martes|miércoles|miercoles|jueves|viernes|sábado|sabado)\b`)
	reNextWord  = regexp.MustCompile(`\b(?:próximo|proximo|siguiente)\b`)

	reHoy = regexp.MustCompile(`\bhoy\b`)

	reClockTime   = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm|a\.m\.|p\.m\.)?`)
	reHourMeridem = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm|a\.m\.|p\.m\.)\b`)
	reBareHour    = regexp.MustCompile(`\ba\s+las?\s+(\d{1,2})\b`)
)

// dateExpr is one date reading found in the text, tagged with its byte offset
// so candidates keep textual order.
type dateExpr struct {
	pos   int
	year  int
	month time.Month
	day   int
	has   Component
	known Component
}

type timeExpr struct {
	hour   int
	minute int
	known  Component
}

// Parse scans text for date/time expressions and returns zero or more
// candidates, resolved against ref (the current moment in the business's
// civil timezone). Text is expected to be pre-normalized (lowercase, typo
// substitutions applied).
func Parse(text string, ref time.Time) []Candidate {
	tm := findTime(text)
	dates := findDates(text, ref, tm)

	if len(dates) == 0 && tm == nil {
		return nil
	}

	var out []Candidate
	for _, d := range dates {
		c := Candidate{
			YearVal:  d.year,
			MonthVal: d.month,
			DayVal:   d.day,
			Has:      d.has,
			Known:    d.known,
		}
		if tm != nil {
			c.HourVal = tm.hour
			c.MinuteVal = tm.minute
			c.Has |= Hour | Minute
			c.Known |= tm.known
		}
		out = append(out, c)
	}

	if len(dates) == 0 {
		// Time only: the date defaults to today in ref's zone, rolling to
		// tomorrow when the moment already passed (forward bias).
		day := time.Date(ref.Year(), ref.Month(), ref.Day(), tm.hour, tm.minute, 0, 0, ref.Location())
		if !day.After(ref) {
			day = day.AddDate(0, 0, 1)
		}
		out = append(out, Candidate{
			YearVal:   day.Year(),
			MonthVal:  day.Month(),
			DayVal:    day.Day(),
			HourVal:   tm.hour,
			MinuteVal: tm.minute,
			Has:       Year | Month | Day | Hour | Minute,
			Known:     tm.known,
		})
	}

	return out
}

// Select picks the candidate with the highest certainty. Ties keep the
// earliest-emitted candidate. ok is false when the list is empty.
func Select(cands []Candidate) (best Candidate, ok bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best = cands[0]
	for _, c := range cands[1:] {
		if c.Certainty() > best.Certainty() {
			best = c
		}
	}
	return best, true
}

func findTime(text string) *timeExpr {
	if m := reClockTime.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return nil
		}
		known := Hour | Minute
		if m[3] != "" {
			hour = applyMeridiem(hour, m[3])
			known |= Meridiem
		}
		return &timeExpr{hour: hour, minute: minute, known: known}
	}

	if m := reHourMeridem.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 12 {
			return nil
		}
		return &timeExpr{hour: applyMeridiem(hour, m[2]), known: Hour | Meridiem}
	}

	if m := reBareHour.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 23 {
			return nil
		}
		return &timeExpr{hour: hour, known: Hour}
	}

	return nil
}

func applyMeridiem(hour int, meridiem string) int {
	pm := strings.HasPrefix(meridiem, "p")
	hour = hour % 12
	if pm {
		hour += 12
	}
	return hour
}

func findDates(text string, ref time.Time, tm *timeExpr) []dateExpr {
	var exprs []dateExpr

	if loc := reISODate.FindStringSubmatchIndex(text); loc != nil {
		m := reISODate.FindStringSubmatch(text)
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if validYMD(year, month, day) {
			exprs = append(exprs, dateExpr{
				pos: loc[0], year: year, month: time.Month(month), day: day,
				has: Year | Month | Day, known: Year | Month | Day,
			})
		}
	}

	if loc := reSlashDate.FindStringSubmatchIndex(text); loc != nil {
		m := reSlashDate.FindStringSubmatch(text)
		// day-first, the convention of the one locale we parse
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		e := dateExpr{pos: loc[0], day: day, month: time.Month(month), has: Month | Day, known: Month | Day}
		if m[3] != "" {
			e.year, _ = strconv.Atoi(m[3])
			e.has |= Year
			e.known |= Year
		} else {
			e.year = forwardYear(ref, time.Month(month), day)
			e.has |= Year
		}
		if validYMD(e.year, month, day) {
			exprs = append(exprs, e)
		}
	}

	if loc := reDayMonth.FindStringSubmatchIndex(text); loc != nil {
		m := reDayMonth.FindStringSubmatch(text)
		if month, okMonth := monthNames[m[2]]; okMonth {
			day, _ := strconv.Atoi(m[1])
			e := dateExpr{pos: loc[0], day: day, month: month, has: Month | Day, known: Month | Day}
			if m[3] != "" {
				e.year, _ = strconv.Atoi(m[3])
				e.has |= Year
				e.known |= Year
			} else {
				e.year = forwardYear(ref, month, day)
				e.has |= Year
			}
			if validYMD(e.year, int(month), day) {
				exprs = append(exprs, e)
			}
		}
	}

	if loc := reWeekday.FindStringSubmatchIndex(text); loc != nil {
		m := reWeekday.FindStringSubmatch(text)
		target := weekdayNames[m[1]]
		ahead := (int(target) - int(ref.Weekday()) + 7) % 7
		// "el próximo martes" on a Tuesday means next week's, not today.
		if ahead == 0 && reNextWord.MatchString(text) {
			ahead = 7
		}
		day := ref.AddDate(0, 0, ahead)
		// A bare weekday naming today stays today only while the requested
		// time is still ahead; once it elapsed, forward bias means next week.
		if ahead == 0 && tm != nil {
			at := time.Date(day.Year(), day.Month(), day.Day(), tm.hour, tm.minute, 0, 0, ref.Location())
			if !at.After(ref) {
				day = day.AddDate(0, 0, 7)
			}
		}
		exprs = append(exprs, dateExpr{
			pos: loc[0], year: day.Year(), month: day.Month(), day: day.Day(),
			has: Year | Month | Day | Weekday, known: Weekday,
		})
	}

	if e := findRelativeDay(text, ref, tm); e != nil {
		exprs = append(exprs, *e)
	}

	sort.SliceStable(exprs, func(i, j int) bool { return exprs[i].pos < exprs[j].pos })
	return exprs
}

// findRelativeDay handles "hoy" and "pasado mañana" plus the tricky bare
// "mañana", which in Spanish is both "tomorrow" and "morning". A lone
// "mañana" with no accompanying time is ambiguous and yields nothing; with a
// time expression present it reads as tomorrow.
func findRelativeDay(text string, ref time.Time, tm *timeExpr) *dateExpr {
	switch {
	case strings.Contains(text, "pasado mañana"):
		if idx := strings.Index(text, "pasado mañana"); idx >= 0 {
			day := ref.AddDate(0, 0, 2)
			return &dateExpr{pos: idx, year: day.Year(), month: day.Month(), day: day.Day(),
				has: Year | Month | Day, known: Day}
		}
	case reHoy.MatchString(text):
		idx := strings.Index(text, "hoy")
		return &dateExpr{pos: idx, year: ref.Year(), month: ref.Month(), day: ref.Day(),
			has: Year | Month | Day, known: Day}
	case strings.Contains(text, "mañana") && tm != nil:
		idx := strings.Index(text, "mañana")
		day := ref.AddDate(0, 0, 1)
		return &dateExpr{pos: idx, year: day.Year(), month: day.Month(), day: day.Day(),
			has: Year | Month | Day, known: Day}
	}
	return nil
}

// forwardYear returns ref's year, or the next one when month/day already
// passed, so yearless dates resolve to the next future occurrence.
func forwardYear(ref time.Time, month time.Month, day int) int {
	year := ref.Year()
	if month < ref.Month() || (month == ref.Month() && day < ref.Day()) {
		year++
	}
	return year
}

func validYMD(year, month, day int) bool {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Day() == day && int(d.Month()) == month
}
