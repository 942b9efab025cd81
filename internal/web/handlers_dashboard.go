package web

import (
	"net/http"

	"github.com/burphub/burphub/internal/web/templates"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.stats.Dashboard(r.Context())
	if err != nil {
		s.logger.Error("failed to build dashboard", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(dashboard).Render(r.Context(), w); err != nil {
		s.logger.Error("failed to render dashboard", "error", err)
	}
}
