// Package match resolves a user's free text to one of a business's
// appointment types or existing appointments by keyword scoring. The chat
// layer uses it to avoid re-asking for something the user already named.
package match

import (
	"strconv"
	"strings"
	"time"

	"agenda-backend/internal/availability"
	"agenda-backend/internal/models"
)

// commonTypos covers misspellings seen repeatedly in real conversations.
var commonTypos = map[string]string{
	"mates":     "martes",
	"miercoles": "miércoles",
	"lal":       "la",
}

func correctTypos(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i, w := range words {
		if fixed, ok := commonTypos[w]; ok {
			words[i] = fixed
		}
	}
	return strings.Join(words, " ")
}

// Service scores each appointment type against the text: +10 per whole-word
// match, +5 per partial match ("info" inside "información"). ok is false when
// nothing scores or the top score is tied (ambiguous).
func Service(text string, types []models.AppointmentType) (models.AppointmentType, bool) {
	keywords := keywordSet(strings.ToLower(text), 2)
	if len(keywords) == 0 {
		return models.AppointmentType{}, false
	}

	best, bestScore, ties := models.AppointmentType{}, 0, 0
	for _, typ := range types {
		nameLower := strings.ToLower(typ.Name)
		nameWords := keywordSet(nameLower, 1)

		score := 0
		for kw := range keywords {
			if nameWords[kw] {
				score += 10
			} else if strings.Contains(nameLower, kw) {
				score += 5
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, ties = typ, score, 1
		case score == bestScore && score > 0:
			ties++
		}
	}
	if bestScore == 0 || ties != 1 {
		return models.AppointmentType{}, false
	}
	return best, true
}

// Appointment matches free text against a list of upcoming appointments by
// their position ("la 1"), weekday name, day number, 12-hour time and
// subject words. ok is false on no match or an ambiguous tie.
func Appointment(text string, appointments []models.Appointment, loc *time.Location) (models.Appointment, bool) {
	corrected := correctTypos(text)
	keywords := keywordSet(corrected, 1)
	if len(keywords) == 0 {
		return models.Appointment{}, false
	}

	best, bestScore, ties := models.Appointment{}, 0, 0
	for i, appt := range appointments {
		local := appt.StartAt.In(loc)
		clock := strings.ReplaceAll(availability.FormatClock12(appt.StartAt, loc), " ", "")

		profile := keywordSet(strings.ToLower(appt.Subject), 1)
		profile[availability.WeekdayName(local.Weekday())] = true
		profile[strconv.Itoa(local.Day())] = true
		profile[clock] = true

		score := 0
		for kw := range keywords {
			if strconv.Itoa(i+1) == kw {
				score += 50
			}
			if profile[kw] {
				score += 5
			}
			if strings.Contains(clock, strings.ReplaceAll(kw, " ", "")) {
				score += 10
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, ties = appt, score, 1
		case score == bestScore && score > 0:
			ties++
		}
	}
	if bestScore == 0 || ties != 1 {
		return models.Appointment{}, false
	}
	return best, true
}

func keywordSet(text string, minLen int) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) >= minLen {
			set[w] = true
		}
	}
	return set
}
