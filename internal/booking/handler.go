package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"shelby-backend/internal/events"
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		transport.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("booking create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	created, err := h.service.Create(ctx, claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownService), errors.Is(err, ErrTotalMismatch),
			errors.Is(err, ErrDateInPast), errors.Is(err, schedule.ErrInvalidDate):
			log.Warn("booking create: rejected", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		case IsSlotConflict(err):
			log.Warn("booking create: slot conflict",
				slog.String("date", req.Date),
				slog.String("time", req.Time),
			)
			transport.WriteError(w, http.StatusConflict, "selected time slot is not available", nil)
			return
		}
		log.Error("booking create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("booking create: ok",
		slog.String("booking_id", created.ID),
		slog.String("user_id", created.UserID),
		slog.String("date", created.Date),
		slog.String("time", created.Time),
	)

	// Notifications ride a detached context so a slow push gateway never
	// delays the response.
	go func(b models.Booking) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.service.NotifyAdminsNewBooking(ctx, b); err != nil {
			log.Warn("booking create: admin notify failed", slog.String("error", err.Error()))
		}
		if err := h.service.Publish(ctx, events.TypeBookingCreated, b); err != nil {
			log.Warn("booking create: event publish failed", slog.String("error", err.Error()))
		}
	}(created)

	transport.WriteMessage(w, http.StatusCreated, "Booking pending approval", map[string]interface{}{
		"booking": created,
	})
}

func (h *Handler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListAdmin(ctx)
	if err != nil {
		log.Error("booking admin list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("booking admin list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) ListOwner(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		transport.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListOwner(ctx, claims.UserID)
	if err != nil {
		log.Error("booking owner list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("booking owner list: ok",
		slog.String("user_id", claims.UserID),
		slog.Int("count", len(items)),
	)
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("booking status: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("booking status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	updated, changed, err := h.service.UpdateStatus(ctx, id, req.Status, req.RejectionReason)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrReasonRequired):
			log.Warn("booking status: rejected", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		case errors.Is(err, ErrNotFound):
			log.Warn("booking status: not found", slog.String("booking_id", id))
			transport.WriteError(w, http.StatusNotFound, "booking not found", nil)
			return
		case IsSlotConflict(err):
			log.Warn("booking status: slot conflict", slog.String("booking_id", id))
			transport.WriteError(w, http.StatusConflict, "released time slot has been taken", nil)
			return
		}
		log.Error("booking status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("booking status: ok",
		slog.String("booking_id", updated.ID),
		slog.String("status", updated.Status),
		slog.Bool("changed", changed),
	)

	// Re-saving an identical decision is idempotent and must not ping the
	// customer a second time.
	if changed {
		go func(b models.Booking) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := h.service.NotifyOwnerStatus(ctx, b); err != nil {
				log.Warn("booking status: owner notify failed", slog.String("error", err.Error()))
			}
			if err := h.service.Publish(ctx, events.TypeBookingStatusChanged, b); err != nil {
				log.Warn("booking status: event publish failed", slog.String("error", err.Error()))
			}
		}(updated)
	}

	transport.WriteMessage(w, http.StatusOK, "Booking "+updated.Status, map[string]interface{}{
		"booking": updated,
	})
}
