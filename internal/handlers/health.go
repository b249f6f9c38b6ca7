package handlers

import (
	"net/http"

	"agenda-backend/internal/transport"
)

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
