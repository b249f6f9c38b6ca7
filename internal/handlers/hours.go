package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"agenda-backend/internal/availability"
	"agenda-backend/internal/transport"

	"github.com/go-chi/chi/v5"
)

type hoursResponse struct {
	BusinessID string             `json:"businessId"`
	Timezone   string             `json:"timezone"`
	Summary    string             `json:"summary"`
	Hours      []hoursResponseRow `json:"hours"`
}

type hoursResponseRow struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// GetBusinessHours returns the weekly windows plus a ready-to-send Spanish
// summary like "Nuestros horarios son de Lunes a Viernes de 09:00 a 18:00.".
func (s *Server) GetBusinessHours(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	businessID := chi.URLParam(r, "id")

	cacheKey := "hours:" + businessID
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("hours: cache hit", slog.String("businessId", businessID))
			transport.WriteRawJSON(w, http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	business, err := s.Store.Business(ctx, businessID)
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "business not found", nil)
			return
		}
		log.Error("hours: load business", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "hours error", nil)
		return
	}

	rows, err := s.Store.WeeklyHours(ctx, businessID)
	if err != nil {
		log.Error("hours: load weekly hours", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "hours error", nil)
		return
	}

	resp := hoursResponse{
		BusinessID: businessID,
		Timezone:   business.Timezone,
		Summary:    availability.HoursSummary(rows),
		Hours:      make([]hoursResponseRow, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Hours = append(resp.Hours, hoursResponseRow{
			Weekday:   row.Weekday,
			OpenTime:  row.OpenTime,
			CloseTime: row.CloseTime,
		})
	}

	if payload, err := encodeJSON(resp); err == nil && s.Cache != nil {
		_ = s.Cache.Set(r.Context(), cacheKey, payload, time.Duration(s.Cfg.CacheTTLSeconds)*time.Second)
	}

	transport.WriteJSON(w, http.StatusOK, resp)
}
