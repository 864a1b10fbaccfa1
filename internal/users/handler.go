package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"shelby-backend/internal/httpx"
	"shelby-backend/internal/middleware"
	"shelby-backend/internal/models"
	"shelby-backend/internal/transport"
	"shelby-backend/internal/validation"
)

// BookingLister lets the admin user endpoints surface a user's bookings
// without importing the booking package wholesale.
type BookingLister interface {
	ListOwner(ctx context.Context, userID string) ([]models.Booking, error)
}

type Handler struct {
	service  *Service
	bookings BookingLister
	val      *validation.Validator
	log      *slog.Logger
}

func NewHandler(service *Service, bookings BookingLister, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		bookings: bookings,
		val:      val,
		log:      log,
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req SignupRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("signup: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("signup: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	user, err := h.service.Signup(ctx, req)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			log.Warn("signup: conflict")
			transport.WriteError(w, http.StatusConflict, err.Error(), nil)
			return
		}
		log.Error("signup: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("signup: ok", slog.String("user_id", user.ID))
	transport.WriteMessage(w, http.StatusCreated, "Account created", map[string]interface{}{
		"referralCode": user.ReferralCode,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	token, user, err := h.service.Login(ctx, req)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			log.Warn("login: bad credentials")
			transport.WriteError(w, http.StatusBadRequest, "invalid credentials", nil)
			return
		}
		log.Error("login: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("login: ok", slog.String("user_id", user.ID), slog.Bool("is_admin", user.IsAdmin))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"name":        user.Name,
			"email":       user.Email,
			"phoneNumber": user.PhoneNumber,
			"isAdmin":     user.IsAdmin,
		},
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		transport.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.service.Profile(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("profile: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		transport.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	var req UpdateProfileRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("profile update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("profile update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	updated, err := h.service.UpdateProfile(ctx, claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		case errors.Is(err, ErrConflict):
			log.Warn("profile update: conflict")
			transport.WriteError(w, http.StatusConflict, err.Error(), nil)
			return
		}
		log.Error("profile update: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("profile update: ok", slog.String("user_id", claims.UserID))
	transport.WriteMessage(w, http.StatusOK, "Profile updated", map[string]interface{}{
		"user": updated,
	})
}

func (h *Handler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		transport.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	var req PushTokenRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("pushtoken: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("pushtoken: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.SetPushToken(ctx, claims.UserID, req.ExpoPushToken); err != nil {
		log.Error("pushtoken: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("pushtoken: ok", slog.String("user_id", claims.UserID))
	transport.WriteMessage(w, http.StatusOK, "Push token saved", nil)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid pagination", nil)
		return
	}
	search := r.URL.Query().Get("search")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, search, page, limit)
	if err != nil {
		log.Error("user list: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("user list: ok", slog.Int("count", len(items)), slog.Int64("total", total))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("user get: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.bookings.ListOwner(ctx, id)
	if err != nil {
		log.Error("user bookings: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, items)
}
