package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"agenda-backend/internal/availability"
	"agenda-backend/internal/httpx"
	"agenda-backend/internal/transport"
)

type checkRequest struct {
	FreeText             string `json:"freeText" validate:"required,min=1,max=500"`
	BusinessID           string `json:"businessId" validate:"required"`
	AppointmentTypeID    string `json:"appointmentTypeId" validate:"required"`
	LeadID               string `json:"leadId,omitempty"`
	ExcludeAppointmentID string `json:"excludeAppointmentId,omitempty"`
}

type checkResponse struct {
	Available       bool   `json:"available"`
	Message         string `json:"message"`
	ErrorCode       string `json:"errorCode,omitempty"`
	ResolvedInstant string `json:"resolvedInstant,omitempty"`
}

// CheckAvailability resolves free text like "el próximo martes a la 1 pm"
// into a bookability verdict for a business and appointment type.
func (s *Server) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	var req checkRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("check: invalid body")
		transport.WriteError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("check: validation failed")
		details := httpx.ValidationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "invalid request", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	verdict, err := s.Engine.Check(ctx, availability.CheckRequest{
		FreeText:             req.FreeText,
		BusinessID:           req.BusinessID,
		AppointmentTypeID:    req.AppointmentTypeID,
		LeadID:               req.LeadID,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	})
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			log.Warn("check: unknown business or type", slog.String("businessId", req.BusinessID))
			transport.WriteError(w, http.StatusNotFound, "business or appointment type not found", nil)
			return
		}
		log.Error("check: engine error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "availability check failed", nil)
		return
	}

	resp := checkResponse{
		Available: verdict.Available,
		Message:   verdict.Message,
	}
	if verdict.Available {
		resp.ResolvedInstant = verdict.ResolvedAt.Format(time.RFC3339)
	} else {
		resp.ErrorCode = string(verdict.Code)
	}

	log.Info("check: resolved",
		slog.String("businessId", req.BusinessID),
		slog.Bool("available", verdict.Available),
		slog.String("code", string(verdict.Code)),
	)
	transport.WriteJSON(w, http.StatusOK, resp)
}
