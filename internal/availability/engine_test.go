package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"agenda-backend/internal/models"
)

type fakeStore struct {
	business     models.Business
	hours        []models.WeeklyHours
	exceptions   []models.ScheduleException
	types        map[string]models.AppointmentType
	appointments []models.Appointment
	err          error
}

func (f *fakeStore) Business(ctx context.Context, id string) (models.Business, error) {
	if f.err != nil {
		return models.Business{}, f.err
	}
	if f.business.ID != id {
		return models.Business{}, ErrNotFound
	}
	return f.business, nil
}

func (f *fakeStore) WeeklyHours(ctx context.Context, businessID string) ([]models.WeeklyHours, error) {
	return f.hours, nil
}

func (f *fakeStore) Exceptions(ctx context.Context, businessID string) ([]models.ScheduleException, error) {
	return f.exceptions, nil
}

func (f *fakeStore) AppointmentType(ctx context.Context, id string) (models.AppointmentType, error) {
	typ, ok := f.types[id]
	if !ok {
		return models.AppointmentType{}, ErrNotFound
	}
	return typ, nil
}

func (f *fakeStore) ActiveAppointmentTypes(ctx context.Context, businessID string) ([]models.AppointmentType, error) {
	out := make([]models.AppointmentType, 0, len(f.types))
	for _, typ := range f.types {
		if typ.Active {
			out = append(out, typ)
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveAppointments(ctx context.Context, businessID string, from, to time.Time) ([]models.Appointment, error) {
	out := make([]models.Appointment, 0)
	for _, appt := range f.appointments {
		if appt.Status != models.AppointmentStatusPending {
			continue
		}
		if !appt.StartAt.Before(from) && appt.StartAt.Before(to) {
			out = append(out, appt)
		}
	}
	return out, nil
}

func mxLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

// newTestEngine pins "now" to Friday 2026-03-06 10:00 in Mexico City, so the
// next Tuesday is 2026-03-10.
func newTestEngine(t *testing.T, store *fakeStore) *Engine {
	t.Helper()
	loc := mxLoc(t)
	engine := NewEngine(store, loc)
	engine.now = func() time.Time {
		return time.Date(2026, 3, 6, 10, 0, 0, 0, loc)
	}
	return engine
}

func baseStore() *fakeStore {
	return &fakeStore{
		business: models.Business{ID: "biz-1", Name: "Estética Aurora", Timezone: "America/Mexico_City"},
		hours: []models.WeeklyHours{
			{BusinessID: "biz-1", Weekday: 2, OpenTime: "09:00", CloseTime: "18:00"}, // Tuesday
			{BusinessID: "biz-1", Weekday: 3, OpenTime: "09:00", CloseTime: "18:00"},
		},
		types: map[string]models.AppointmentType{
			"type-1": {ID: "type-1", BusinessID: "biz-1", Name: "Valoración", DurationMinutes: 30, ConcurrencyLimit: 1, Active: true},
		},
	}
}

func baseRequest() CheckRequest {
	return CheckRequest{
		FreeText:          "el próximo martes a las lpm",
		BusinessID:        "biz-1",
		AppointmentTypeID: "type-1",
	}
}

func TestCheckAvailableNextTuesdayOnePM(t *testing.T) {
	engine := newTestEngine(t, baseStore())

	verdict, err := engine.Check(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !verdict.Available {
		t.Fatalf("expected available, got %s: %s", verdict.Code, verdict.Message)
	}
	local := verdict.ResolvedAt.In(mxLoc(t))
	if local.Weekday() != time.Tuesday || local.Day() != 10 {
		t.Errorf("resolved to %v, want Tuesday the 10th", local)
	}
	if local.Hour() != 13 || local.Minute() != 0 {
		t.Errorf("resolved local time %02d:%02d, want 13:00", local.Hour(), local.Minute())
	}
	// Mexico City no longer observes DST: 13:00 CST is 19:00 UTC.
	if verdict.ResolvedAt.UTC().Hour() != 19 {
		t.Errorf("resolved UTC hour %d, want 19", verdict.ResolvedAt.UTC().Hour())
	}
}

func TestCheckClosedException(t *testing.T) {
	store := baseStore()
	store.exceptions = []models.ScheduleException{
		{BusinessID: "biz-1", Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Closed: true},
	}
	engine := newTestEngine(t, store)

	verdict, err := engine.Check(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Available || verdict.Code != CodeClosedException {
		t.Fatalf("expected ClosedException, got available=%v code=%s", verdict.Available, verdict.Code)
	}
}

func TestCheckOpenExceptionDoesNotBlock(t *testing.T) {
	store := baseStore()
	store.exceptions = []models.ScheduleException{
		{BusinessID: "biz-1", Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Closed: false},
	}
	engine := newTestEngine(t, store)

	verdict, err := engine.Check(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !verdict.Available {
		t.Fatalf("expected available, got %s", verdict.Code)
	}
}

func TestCheckOutsideHours(t *testing.T) {
	engine := newTestEngine(t, baseStore())
	req := baseRequest()
	req.FreeText = "el próximo martes a las 7 pm"

	verdict, err := engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeOutsideHours {
		t.Fatalf("expected OutsideHours, got %s", verdict.Code)
	}
}

func TestCheckHoursBoundaries(t *testing.T) {
	engine := newTestEngine(t, baseStore())

	req := baseRequest()
	req.FreeText = "el próximo martes a las 9:00 am"
	verdict, err := engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !verdict.Available {
		t.Errorf("opening time must be accepted, got %s", verdict.Code)
	}

	req.FreeText = "el próximo martes a las 6 pm"
	verdict, err = engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeOutsideHours {
		t.Errorf("closing time must be rejected, got %s", verdict.Code)
	}
}

func TestCheckClosedWeekday(t *testing.T) {
	engine := newTestEngine(t, baseStore())
	req := baseRequest()
	req.FreeText = "el próximo domingo a las 1 pm"

	verdict, err := engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeClosedWeekday {
		t.Fatalf("expected ClosedWeekday, got %s", verdict.Code)
	}
}

func TestCheckSlotFullAndBackToBack(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	store := baseStore()
	store.appointments = []models.Appointment{
		{ID: "appt-1", BusinessID: "biz-1", TypeID: "type-1", Status: models.AppointmentStatusPending,
			StartAt: time.Date(2026, 3, 10, 13, 0, 0, 0, loc)},
	}
	engine := newTestEngine(t, store)

	verdict, err := engine.Check(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeSlotFull {
		t.Fatalf("expected SlotFull, got %s", verdict.Code)
	}

	// A slot starting exactly when the existing appointment ends must pass.
	req := baseRequest()
	req.FreeText = "el próximo martes a las 1:30 pm"
	verdict, err = engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !verdict.Available {
		t.Fatalf("back-to-back slot must be available, got %s", verdict.Code)
	}
}

func TestCheckConcurrencyLimitFillAndFree(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	store := baseStore()
	store.types["type-1"] = models.AppointmentType{
		ID: "type-1", BusinessID: "biz-1", DurationMinutes: 30, ConcurrencyLimit: 2, Active: true,
	}
	overlap := time.Date(2026, 3, 10, 13, 0, 0, 0, loc)
	store.appointments = []models.Appointment{
		{ID: "appt-1", BusinessID: "biz-1", Status: models.AppointmentStatusPending, StartAt: overlap},
		{ID: "appt-2", BusinessID: "biz-1", Status: models.AppointmentStatusPending, StartAt: overlap},
	}
	engine := newTestEngine(t, store)

	verdict, err := engine.Check(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeSlotFull {
		t.Fatalf("limit reached, expected SlotFull, got %s", verdict.Code)
	}

	// Cancelling one of the two frees the slot.
	store.appointments[1].Status = models.AppointmentStatusCanceled
	verdict, err = engine.Check(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !verdict.Available {
		t.Fatalf("expected available after cancellation, got %s", verdict.Code)
	}
}

func TestCheckRescheduleExcludesOriginal(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	store := baseStore()
	store.appointments = []models.Appointment{
		{ID: "appt-1", BusinessID: "biz-1", Status: models.AppointmentStatusPending,
			StartAt: time.Date(2026, 3, 10, 13, 0, 0, 0, loc)},
	}
	engine := newTestEngine(t, store)

	req := baseRequest()
	req.ExcludeAppointmentID = "appt-1"
	verdict, err := engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !verdict.Available {
		t.Fatalf("the appointment being moved must not block its own slot, got %s", verdict.Code)
	}
}

func TestCheckDuplicateAppointment(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	store := baseStore()
	store.appointments = []models.Appointment{
		{ID: "appt-1", BusinessID: "biz-1", LeadID: "lead-7", TypeID: "type-1",
			Status: models.AppointmentStatusPending, StartAt: time.Date(2026, 3, 10, 13, 0, 0, 0, loc)},
	}
	engine := newTestEngine(t, store)

	req := baseRequest()
	req.LeadID = "lead-7"
	verdict, err := engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeDuplicateAppointment {
		t.Fatalf("expected DuplicateAppointment, got %s", verdict.Code)
	}

	// A different lead hits the concurrency gate instead.
	req.LeadID = "lead-8"
	verdict, err = engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeSlotFull {
		t.Fatalf("expected SlotFull for another lead, got %s", verdict.Code)
	}
}

func TestCheckUnparseable(t *testing.T) {
	engine := newTestEngine(t, baseStore())
	req := baseRequest()
	req.FreeText = "mañana"

	verdict, err := engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeUnparseable {
		t.Fatalf("expected Unparseable, got %s", verdict.Code)
	}
}

func TestCheckIncompleteDateTime(t *testing.T) {
	engine := newTestEngine(t, baseStore())
	req := baseRequest()
	req.FreeText = "el 10 de marzo"

	verdict, err := engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodeIncompleteDateTime {
		t.Fatalf("expected IncompleteDateTime, got %s", verdict.Code)
	}
}

func TestCheckPastDate(t *testing.T) {
	engine := newTestEngine(t, baseStore())
	req := baseRequest()
	req.FreeText = "hoy a las 9:00 am" // now is pinned at 10:00

	verdict, err := engine.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if verdict.Code != CodePastDate {
		t.Fatalf("expected PastDate, got %s", verdict.Code)
	}
}

func TestCheckIdempotent(t *testing.T) {
	engine := newTestEngine(t, baseStore())

	first, err := engine.Check(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	second, err := engine.Check(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if first.Available != second.Available || first.Code != second.Code ||
		first.Message != second.Message || !first.ResolvedAt.Equal(second.ResolvedAt) {
		t.Fatalf("identical inputs produced different verdicts:\n%+v\n%+v", first, second)
	}
}

func TestCheckStoreFailureIsAnError(t *testing.T) {
	store := baseStore()
	store.err = errors.New("connection reset")
	engine := newTestEngine(t, store)

	_, err := engine.Check(context.Background(), baseRequest())
	if err == nil {
		t.Fatal("infrastructure failures must surface as errors, not verdicts")
	}
}

func TestSlotsListing(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	store := baseStore()
	store.appointments = []models.Appointment{
		{ID: "appt-1", BusinessID: "biz-1", Status: models.AppointmentStatusPending,
			StartAt: time.Date(2026, 3, 10, 9, 0, 0, 0, loc)},
	}
	engine := newTestEngine(t, store)

	out, err := engine.Slots(context.Background(), "biz-1", "type-1", "2026-03-10")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(out.Slots) == 0 {
		t.Fatal("expected slots")
	}
	if out.Slots[0] != "09:30" {
		t.Errorf("first free slot = %s, want 09:30 (09:00 is taken)", out.Slots[0])
	}
	if out.Duration != 30 || out.Timezone != "America/Mexico_City" {
		t.Errorf("unexpected metadata: %+v", out)
	}
}

func TestSlotsClosedDay(t *testing.T) {
	engine := newTestEngine(t, baseStore())

	// Sunday 2026-03-08 has no weekly hours row.
	out, err := engine.Slots(context.Background(), "biz-1", "type-1", "2026-03-08")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(out.Slots) != 0 {
		t.Fatalf("expected no slots on a closed day, got %v", out.Slots)
	}
}
