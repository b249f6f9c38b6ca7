package match

import (
	"testing"
	"time"

	"agenda-backend/internal/models"
)

func TestServiceWholeWordMatch(t *testing.T) {
	types := []models.AppointmentType{
		{ID: "t1", Name: "Informes"},
		{ID: "t2", Name: "Inscripción"},
	}
	got, ok := Service("quiero una inscripción para mi hijo", types)
	if !ok || got.ID != "t2" {
		t.Fatalf("got %v ok=%v, want t2", got.ID, ok)
	}
}

func TestServicePartialMatch(t *testing.T) {
	types := []models.AppointmentType{
		{ID: "t1", Name: "Información general"},
		{ID: "t2", Name: "Valoración"},
	}
	got, ok := Service("necesito más info", types)
	if !ok || got.ID != "t1" {
		t.Fatalf("got %v ok=%v, want t1", got.ID, ok)
	}
}

func TestServiceNoMatch(t *testing.T) {
	types := []models.AppointmentType{{ID: "t1", Name: "Informes"}}
	if _, ok := Service("cuánto cuesta", types); ok {
		t.Fatal("expected no match")
	}
}

func TestServiceTieIsAmbiguous(t *testing.T) {
	types := []models.AppointmentType{
		{ID: "t1", Name: "Corte dama"},
		{ID: "t2", Name: "Corte caballero"},
	}
	if _, ok := Service("un corte por favor", types); ok {
		t.Fatal("tied scores must not resolve")
	}
}

func mustMX(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestAppointmentByWeekdayWithTypo(t *testing.T) {
	loc := mustMX(t)
	appointments := []models.Appointment{
		{ID: "a1", Subject: "Valoración", StartAt: time.Date(2026, 3, 10, 13, 0, 0, 0, loc)}, // Tuesday
		{ID: "a2", Subject: "Valoración", StartAt: time.Date(2026, 3, 12, 13, 0, 0, 0, loc)}, // Thursday
	}
	got, ok := Appointment("la del mates", appointments, loc)
	if !ok || got.ID != "a1" {
		t.Fatalf("got %v ok=%v, want a1", got.ID, ok)
	}
}

func TestAppointmentByOrdinal(t *testing.T) {
	loc := mustMX(t)
	appointments := []models.Appointment{
		{ID: "a1", Subject: "Valoración", StartAt: time.Date(2026, 3, 10, 13, 0, 0, 0, loc)},
		{ID: "a2", Subject: "Valoración", StartAt: time.Date(2026, 3, 12, 13, 0, 0, 0, loc)},
	}
	got, ok := Appointment("la 2", appointments, loc)
	if !ok || got.ID != "a2" {
		t.Fatalf("got %v ok=%v, want a2", got.ID, ok)
	}
}

func TestAppointmentNoKeywords(t *testing.T) {
	loc := mustMX(t)
	if _, ok := Appointment("   ", nil, loc); ok {
		t.Fatal("expected no match")
	}
}
