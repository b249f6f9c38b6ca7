package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"agenda-backend/internal/availability"
	"agenda-backend/internal/cache"
	"agenda-backend/internal/config"
	"agenda-backend/internal/middleware"
	"agenda-backend/internal/validation"
)

type Server struct {
	Cfg    *config.Config
	Engine *availability.Engine
	Store  availability.Store
	Val    *validation.Validator
	Log    *slog.Logger
	Cache  cache.Cache
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}

func encodeJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
