package availability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"shelby-backend/internal/httpx"
	"shelby-backend/internal/middleware"
	"shelby-backend/internal/models"
	"shelby-backend/internal/schedule"
	"shelby-backend/internal/transport"
	"shelby-backend/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

type slotRequest struct {
	StartTime   string `json:"startTime" validate:"required,clock"`
	EndTime     string `json:"endTime" validate:"required,clock"`
	ServiceType string `json:"serviceType" validate:"required,package"`
	IsAvailable *bool  `json:"isAvailable"`
}

type upsertRequest struct {
	Date      string        `json:"date" validate:"required,date"`
	TimeSlots []slotRequest `json:"timeSlots" validate:"required,min=1,dive"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	key := h.service.CacheKey()
	if cached, ok, err := h.service.CacheGet(r.Context(), key); err == nil && ok {
		log.Info("availability list: cache hit")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error("availability list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if payload, err := json.Marshal(items); err == nil {
		_ = h.service.CacheSet(r.Context(), key, payload)
	}

	log.Info("availability list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req upsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("availability upsert: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("availability upsert: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	slots := make([]models.TimeSlot, 0, len(req.TimeSlots))
	for _, s := range req.TimeSlots {
		available := true
		if s.IsAvailable != nil {
			available = *s.IsAvailable
		}
		slots = append(slots, models.TimeSlot{
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			ServiceType: s.ServiceType,
			IsAvailable: available,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	saved, err := h.service.UpsertForDate(ctx, req.Date, slots)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidDate), errors.Is(err, schedule.ErrInvalidTime),
			errors.Is(err, schedule.ErrEmptySlots), errors.Is(err, schedule.ErrSlotOrder),
			errors.Is(err, schedule.ErrDuplicateSlot), errors.Is(err, ErrUnknownService):
			log.Warn("availability upsert: invalid slots", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		log.Error("availability upsert: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("availability upsert: ok",
		slog.String("date", req.Date),
		slog.Int("slots", len(saved.TimeSlots)),
	)
	transport.WriteMessage(w, http.StatusCreated, "Availability saved successfully", map[string]interface{}{
		"availability": saved,
	})
}
