// Package contact handles the public contact form. Submissions are not
// stored; they are forwarded straight to the business inbox.
package contact

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"shelby-backend/internal/httpx"
	"shelby-backend/internal/middleware"
	"shelby-backend/internal/notifications"
	"shelby-backend/internal/transport"
	"shelby-backend/internal/validation"
)

type EmailSender interface {
	SendContactEmail(ctx context.Context, toEmail string, msg notifications.ContactMessage) (string, error)
}

type Request struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

type Handler struct {
	sender EmailSender
	inbox  string
	val    *validation.Validator
	log    *slog.Logger
}

func NewHandler(sender EmailSender, inbox string, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		sender: sender,
		inbox:  inbox,
		val:    val,
		log:    log,
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

// Create forwards the submission synchronously: with no storage behind the
// form, a failed send has to surface to the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if h.sender == nil || h.inbox == "" {
		log.Warn("contact: mailer not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "contact form is unavailable", nil)
		return
	}

	var req Request
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("contact: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	msg := notifications.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if _, err := h.sender.SendContactEmail(ctx, h.inbox, msg); err != nil {
		log.Error("contact: send failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "message could not be sent", nil)
		return
	}

	log.Info("contact: ok", slog.String("email", req.Email))
	transport.WriteMessage(w, http.StatusOK, "Message sent", nil)
}
