package serviceareas

import (
	"log/slog"
	"net/http"
	"strings"

	"shelby-backend/internal/middleware"
	"shelby-backend/internal/transport"
)

type Handler struct {
	log *slog.Logger
}

func NewHandler(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	zipCode := strings.TrimSpace(r.URL.Query().Get("zipCode"))
	if zipCode == "" {
		log.Warn("service areas check: missing zip code")
		transport.WriteError(w, http.StatusBadRequest, "zip code is required", nil)
		return
	}

	city, available := Lookup(zipCode)
	log.Info("service areas check: ok",
		slog.String("zip_code", zipCode),
		slog.Bool("available", available),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"zipCode":   zipCode,
		"city":      city,
		"available": available,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, Cities())
}
