package availability

import (
	"context"
	"fmt"
	"time"

	"agenda-backend/internal/schedule"
)

// DaySlots lists the bookable start times of one calendar date.
type DaySlots struct {
	Date     string   `json:"date"`
	Timezone string   `json:"timezone"`
	Duration int      `json:"duration"`
	Slots    []string `json:"slots"`
}

// Slots computes the free start times for a business, appointment type and
// date (YYYY-MM-DD). A closed day yields an empty list, not an error.
func (e *Engine) Slots(ctx context.Context, businessID, typeID, dateStr string) (DaySlots, error) {
	business, err := e.store.Business(ctx, businessID)
	if err != nil {
		return DaySlots{}, fmt.Errorf("load business: %w", err)
	}
	loc := e.location(business)

	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return DaySlots{}, fmt.Errorf("parse date: %w", err)
	}

	typ, err := e.store.AppointmentType(ctx, typeID)
	if err != nil {
		return DaySlots{}, fmt.Errorf("load appointment type: %w", err)
	}
	duration := typ.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	limit := typ.ConcurrencyLimit
	if limit < 1 {
		limit = 1
	}

	out := DaySlots{Date: dateStr, Timezone: loc.String(), Duration: duration, Slots: []string{}}

	exceptions, err := e.store.Exceptions(ctx, businessID)
	if err != nil {
		return DaySlots{}, fmt.Errorf("load exceptions: %w", err)
	}
	for _, exception := range exceptions {
		if exception.Closed && schedule.SameExceptionDate(exception.Date, date, loc) {
			return out, nil
		}
	}

	hours, err := e.store.WeeklyHours(ctx, businessID)
	if err != nil {
		return DaySlots{}, fmt.Errorf("load weekly hours: %w", err)
	}
	row, found := hoursFor(hours, date.Weekday())
	if !found {
		return out, nil
	}
	window, err := schedule.ParseWindow(row.OpenTime, row.CloseTime)
	if err != nil {
		return DaySlots{}, fmt.Errorf("weekly hours for %s: %w", date.Weekday(), err)
	}

	slots, err := schedule.SlotStarts(window, duration)
	if err != nil {
		return DaySlots{}, err
	}

	dayStart, dayEnd := schedule.DayBounds(date, loc)
	appointments, err := e.store.ActiveAppointments(ctx, businessID, dayStart, dayEnd)
	if err != nil {
		return DaySlots{}, fmt.Errorf("load appointments: %w", err)
	}
	reserved := make([]schedule.Interval, 0, len(appointments))
	for _, appt := range appointments {
		start := schedule.MinutesOfDay(appt.StartAt, loc)
		reserved = append(reserved, schedule.Interval{Start: start, End: start + duration})
	}

	slots, err = schedule.FilterConcurrency(slots, duration, limit, reserved)
	if err != nil {
		return DaySlots{}, err
	}

	now := e.now().In(loc)
	if schedule.SameCivilDate(date, now, loc) {
		slots, err = schedule.FilterPast(date, slots, loc, now)
		if err != nil {
			return DaySlots{}, err
		}
	}

	out.Slots = slots
	return out, nil
}
