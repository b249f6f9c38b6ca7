// Package availability decides whether a free-text appointment request can be
// booked. The decision is a strict linear chain of gates: normalize → parse →
// select → build instant → past → duplicate → exception → weekday → window →
// concurrency. The first failing gate short-circuits with a rejection; the
// engine reads but never writes.
package availability

import (
	"context"
	"fmt"
	"time"

	"agenda-backend/internal/dateparse"
	"agenda-backend/internal/models"
	"agenda-backend/internal/normalize"
	"agenda-backend/internal/schedule"
)

const defaultDurationMinutes = 30

type Engine struct {
	store      Store
	defaultLoc *time.Location
	now        func() time.Time
}

func NewEngine(store Store, defaultLoc *time.Location) *Engine {
	return &Engine{store: store, defaultLoc: defaultLoc, now: time.Now}
}

type CheckRequest struct {
	FreeText          string
	BusinessID        string
	AppointmentTypeID string
	// LeadID, when set, enables the duplicate-appointment gate.
	LeadID string
	// ExcludeAppointmentID removes the appointment being rescheduled from
	// the overlap scan.
	ExcludeAppointmentID string
}

// Check runs the full pipeline. A Verdict is returned for every business
// outcome, rejections included; a non-nil error means a read failed and the
// caller should surface a transport-level fault instead.
func (e *Engine) Check(ctx context.Context, req CheckRequest) (Verdict, error) {
	business, err := e.store.Business(ctx, req.BusinessID)
	if err != nil {
		return Verdict{}, fmt.Errorf("load business: %w", err)
	}
	loc := e.location(business)
	now := e.now().In(loc)

	text := normalize.Apply(req.FreeText)

	candidates := dateparse.Parse(text, now)
	candidate, ok := dateparse.Select(candidates)
	if !ok {
		return reject(CodeUnparseable,
			"No pude entender la fecha y hora que mencionaste. ¿Podrías ser más específico?"), nil
	}

	if !candidate.HasDate() || !candidate.HasTime() {
		return reject(CodeIncompleteDateTime,
			"Entendí la fecha pero me falta la hora exacta. ¿A qué hora te gustaría tu cita?"), nil
	}

	at := schedule.BuildInstant(candidate.YearVal, candidate.MonthVal, candidate.DayVal,
		candidate.HourVal, candidate.MinuteVal, loc)

	if at.Before(now) {
		return reject(CodePastDate,
			fmt.Sprintf("Lo sentimos, la fecha que buscas (%s) ya pasó.", FormatLong(at, loc))), nil
	}

	typ, err := e.store.AppointmentType(ctx, req.AppointmentTypeID)
	if err != nil {
		return Verdict{}, fmt.Errorf("load appointment type: %w", err)
	}
	duration := typ.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	limit := typ.ConcurrencyLimit
	if limit < 1 {
		limit = 1
	}

	hours, err := e.store.WeeklyHours(ctx, req.BusinessID)
	if err != nil {
		return Verdict{}, fmt.Errorf("load weekly hours: %w", err)
	}
	exceptions, err := e.store.Exceptions(ctx, req.BusinessID)
	if err != nil {
		return Verdict{}, fmt.Errorf("load exceptions: %w", err)
	}
	dayStart, dayEnd := schedule.DayBounds(at, loc)
	appointments, err := e.store.ActiveAppointments(ctx, req.BusinessID, dayStart, dayEnd)
	if err != nil {
		return Verdict{}, fmt.Errorf("load appointments: %w", err)
	}

	if req.LeadID != "" {
		if duplicateExists(appointments, req.LeadID, req.AppointmentTypeID, at) {
			return reject(CodeDuplicateAppointment,
				"Ya tienes una cita para este mismo servicio en el horario seleccionado. ¿Te gustaría elegir otro horario?"), nil
		}
	}

	for _, exception := range exceptions {
		if exception.Closed && schedule.SameExceptionDate(exception.Date, at, loc) {
			return reject(CodeClosedException,
				fmt.Sprintf("Lo sentimos, el día %s no estamos disponibles por un evento especial.", FormatDate(at, loc))), nil
		}
	}

	weekday := at.In(loc).Weekday()
	row, found := hoursFor(hours, weekday)
	if !found {
		return reject(CodeClosedWeekday,
			fmt.Sprintf("Lo sentimos, no atendemos los días %s.", WeekdayName(weekday))), nil
	}

	window, err := schedule.ParseWindow(row.OpenTime, row.CloseTime)
	if err != nil {
		return Verdict{}, fmt.Errorf("weekly hours for %s: %w", weekday, err)
	}
	if !window.Contains(schedule.MinutesOfDay(at, loc)) {
		return reject(CodeOutsideHours,
			fmt.Sprintf("Nuestros horarios para los %s son de %s a %s. Por favor, elige una hora dentro de ese rango.",
				WeekdayName(weekday), row.OpenTime, row.CloseTime)), nil
	}

	startMin := schedule.MinutesOfDay(at, loc)
	wanted := schedule.Interval{Start: startMin, End: startMin + duration}
	overlapping := 0
	for _, appt := range appointments {
		if req.ExcludeAppointmentID != "" && appt.ID == req.ExcludeAppointmentID {
			continue
		}
		existingStart := schedule.MinutesOfDay(appt.StartAt, loc)
		// same-duration assumption per type
		existing := schedule.Interval{Start: existingStart, End: existingStart + duration}
		if schedule.Overlaps(wanted, existing) {
			overlapping++
		}
	}
	if overlapping >= limit {
		return reject(CodeSlotFull,
			"Lo siento, ese horario acaba de ser ocupado. Por favor, elige otro."), nil
	}

	return Verdict{
		Available:  true,
		Message:    fmt.Sprintf("¡Perfecto! El horario del %s está disponible.", FormatLong(at, loc)),
		ResolvedAt: at.UTC(),
	}, nil
}

func (e *Engine) location(business models.Business) *time.Location {
	if business.Timezone != "" {
		if loc, err := time.LoadLocation(business.Timezone); err == nil {
			return loc
		}
	}
	return e.defaultLoc
}

func duplicateExists(appointments []models.Appointment, leadID, typeID string, at time.Time) bool {
	for _, appt := range appointments {
		if appt.LeadID == leadID && appt.TypeID == typeID && appt.StartAt.Equal(at) {
			return true
		}
	}
	return false
}

func hoursFor(rows []models.WeeklyHours, weekday time.Weekday) (models.WeeklyHours, bool) {
	for _, row := range rows {
		if row.Weekday == int(weekday) {
			return row, true
		}
	}
	return models.WeeklyHours{}, false
}
