package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"agenda-backend/internal/availability"
	"agenda-backend/internal/httpx"
	"agenda-backend/internal/match"
	"agenda-backend/internal/models"
	"agenda-backend/internal/transport"

	"github.com/go-chi/chi/v5"
)

type matchServiceRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

type matchServiceResponse struct {
	Matched           bool   `json:"matched"`
	AppointmentTypeID string `json:"appointmentTypeId,omitempty"`
	Name              string `json:"name,omitempty"`
}

// MatchService resolves free text like "quiero un corte de cabello" to one of
// the business's active appointment types. Ambiguity returns matched=false.
func (s *Server) MatchService(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	businessID := chi.URLParam(r, "id")

	var req matchServiceRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("match: invalid body")
		transport.WriteError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("match: validation failed")
		details := httpx.ValidationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "invalid request", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	types, err := s.Store.ActiveAppointmentTypes(ctx, businessID)
	if err != nil {
		log.Error("match: load types", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "match error", nil)
		return
	}

	typ, ok := match.Service(req.Text, types)
	resp := matchServiceResponse{Matched: ok}
	if ok {
		resp.AppointmentTypeID = typ.ID
		resp.Name = typ.Name
	}

	log.Info("match: resolved", slog.String("businessId", businessID), slog.Bool("matched", ok))
	transport.WriteJSON(w, http.StatusOK, resp)
}

// matchAppointmentWindowDays bounds how far ahead the matcher looks for the
// lead's upcoming appointments.
const matchAppointmentWindowDays = 60

type matchAppointmentRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=500"`
	LeadID string `json:"leadId" validate:"required"`
}

type matchAppointmentResponse struct {
	Matched       bool   `json:"matched"`
	AppointmentID string `json:"appointmentId,omitempty"`
	Subject       string `json:"subject,omitempty"`
	StartAt       string `json:"startAt,omitempty"`
}

// MatchAppointment resolves free text like "cancela la cita del martes" to one
// of the lead's upcoming appointments, for reschedule and cancel flows.
func (s *Server) MatchAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	businessID := chi.URLParam(r, "id")

	var req matchAppointmentRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("match appointment: invalid body")
		transport.WriteError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("match appointment: validation failed")
		details := httpx.ValidationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "invalid request", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	business, err := s.Store.Business(ctx, businessID)
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "business not found", nil)
			return
		}
		log.Error("match appointment: load business", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "match error", nil)
		return
	}
	loc := s.Cfg.DefaultTimezone
	if business.Timezone != "" {
		if l, err := time.LoadLocation(business.Timezone); err == nil {
			loc = l
		}
	}

	now := time.Now()
	all, err := s.Store.ActiveAppointments(ctx, businessID, now, now.AddDate(0, 0, matchAppointmentWindowDays))
	if err != nil {
		log.Error("match appointment: load appointments", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "match error", nil)
		return
	}
	upcoming := make([]models.Appointment, 0, len(all))
	for _, appt := range all {
		if appt.LeadID == req.LeadID {
			upcoming = append(upcoming, appt)
		}
	}

	appt, ok := match.Appointment(req.Text, upcoming, loc)
	resp := matchAppointmentResponse{Matched: ok}
	if ok {
		resp.AppointmentID = appt.ID
		resp.Subject = appt.Subject
		resp.StartAt = appt.StartAt.UTC().Format(time.RFC3339)
	}

	log.Info("match appointment: resolved", slog.String("businessId", businessID), slog.Bool("matched", ok))
	transport.WriteJSON(w, http.StatusOK, resp)
}
