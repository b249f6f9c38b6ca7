package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"agenda-backend/internal/models"
)

// es-MX display names; the formatter owns all locale strings so the rest of
// the engine stays locale-free.
var weekdayNamesES = [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var monthNamesES = [13]string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// FormatLong renders an instant on the business clock as a full Spanish
// phrase, e.g. "martes 10 de marzo a las 1:00 pm".
func FormatLong(t time.Time, loc *time.Location) string {
	lt := t.In(loc)
	return fmt.Sprintf("%s %d de %s a las %s",
		weekdayNamesES[int(lt.Weekday())], lt.Day(), monthNamesES[int(lt.Month())], formatHour12(lt))
}

// FormatDate renders just the calendar date, e.g. "10 de marzo".
func FormatDate(t time.Time, loc *time.Location) string {
	lt := t.In(loc)
	return fmt.Sprintf("%d de %s", lt.Day(), monthNamesES[int(lt.Month())])
}

func formatHour12(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "am"
	if t.Hour() >= 12 {
		meridiem = "pm"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), meridiem)
}

// FormatClock12 renders just the 12-hour local time, e.g. "1:00 pm".
func FormatClock12(t time.Time, loc *time.Location) string {
	return formatHour12(t.In(loc))
}

// WeekdayName returns the lowercase Spanish weekday name.
func WeekdayName(d time.Weekday) string {
	return weekdayNamesES[int(d)]
}

// mondayFirst orders weekdays Monday..Sunday for display.
func mondayFirst(weekday int) int {
	if weekday == 0 {
		return 7
	}
	return weekday
}

// HoursSummary renders a business's weekly hours as one Spanish sentence,
// grouping days that share the same window: "Nuestros horarios son de lunes a
// viernes de 09:00 a 18:00 y sábado de 09:00 a 13:00."
func HoursSummary(rows []models.WeeklyHours) string {
	if len(rows) == 0 {
		return "Actualmente no tenemos horarios de atención configurados."
	}

	sorted := make([]models.WeeklyHours, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return mondayFirst(sorted[i].Weekday) < mondayFirst(sorted[j].Weekday)
	})

	type group struct {
		window string
		days   []int
	}
	var groups []group
	index := make(map[string]int)
	for _, row := range sorted {
		window := row.OpenTime + " a " + row.CloseTime
		i, ok := index[window]
		if !ok {
			i = len(groups)
			index[window] = i
			groups = append(groups, group{window: window})
		}
		groups[i].days = append(groups[i].days, row.Weekday)
	}

	phrases := make([]string, 0, len(groups))
	for _, g := range groups {
		first, last := g.days[0], g.days[len(g.days)-1]
		consecutive := len(g.days) > 2 && mondayFirst(last)-mondayFirst(first) == len(g.days)-1
		if consecutive {
			phrases = append(phrases, fmt.Sprintf("de %s a %s de %s",
				capitalize(weekdayNamesES[first]), capitalize(weekdayNamesES[last]), g.window))
			continue
		}
		names := make([]string, len(g.days))
		for i, d := range g.days {
			names[i] = capitalize(weekdayNamesES[d])
		}
		phrases = append(phrases, strings.Join(names, ", ")+" de "+g.window)
	}

	return "Nuestros horarios son " + strings.Join(phrases, " y ") + "."
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
