package web

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/burphub/burphub/internal/ingest"
	"github.com/burphub/burphub/internal/metrics"
)

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.stats.Dashboard(r.Context())
	if err != nil {
		s.logger.Error("failed to build stats", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleAPISync(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := s.sync.Sync(r.Context(), ingest.Request{
		ClientAddr: clientAddr(r),
		APIKey:     r.Header.Get("X-API-Key"),
		Body:       body,
	})
	if s.limiter != nil {
		metrics.RateLimiterAddresses.Set(float64(s.limiter.Len()))
	}
	if err != nil {
		status, msg := syncErrorStatus(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"synced": result.Synced,
	})
}

func syncErrorStatus(err error) (int, string) {
	var verr *ingest.ValidationError
	switch {
	case errors.Is(err, ingest.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, ingest.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid API key"
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Msg
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// clientAddr strips the port from RemoteAddr. RealIP leaves a bare address.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
