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

	"github.com/go-chi/chi/v5"
)

type slotsQuery struct {
	Date   string `validate:"required,date"`
	TypeID string `validate:"required"`
}

// GetBusinessSlots lists the free start times for one date, e.g.
// GET /api/businesses/{id}/slots?date=2026-03-10&typeId=type-1.
func (s *Server) GetBusinessSlots(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	businessID := chi.URLParam(r, "id")

	q := slotsQuery{
		Date:   r.URL.Query().Get("date"),
		TypeID: r.URL.Query().Get("typeId"),
	}
	if err := s.Val.Struct(q); err != nil {
		log.Warn("slots: invalid query")
		details := httpx.ValidationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "invalid query", details)
		return
	}

	cacheKey := "slots:" + businessID + ":" + q.TypeID + ":" + q.Date
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("slots: cache hit", slog.String("date", q.Date))
			transport.WriteRawJSON(w, http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slots, err := s.Engine.Slots(ctx, businessID, q.TypeID, q.Date)
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			log.Warn("slots: unknown business or type", slog.String("businessId", businessID))
			transport.WriteError(w, http.StatusNotFound, "business or appointment type not found", nil)
			return
		}
		log.Error("slots: compute error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "slots error", nil)
		return
	}

	if payload, err := encodeJSON(slots); err == nil && s.Cache != nil {
		_ = s.Cache.Set(r.Context(), cacheKey, payload, time.Duration(s.Cfg.CacheTTLSeconds)*time.Second)
	}

	log.Info("slots: ok", slog.String("date", q.Date), slog.Int("slots", len(slots.Slots)))
	transport.WriteJSON(w, http.StatusOK, slots)
}
