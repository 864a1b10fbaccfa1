package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shelby-backend/internal/notifications"
	"shelby-backend/internal/validation"
)

type fakeSender struct {
	sent    []notifications.ContactMessage
	inboxes []string
	err     error
}

func (f *fakeSender) SendContactEmail(ctx context.Context, toEmail string, msg notifications.ContactMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	f.inboxes = append(f.inboxes, toEmail)
	return "msg-1", nil
}

func newTestHandler(sender EmailSender, inbox string) *Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(sender, inbox, validation.New(), log)
}

func postContact(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestContactCreate(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender, "hello@shelbydetailing.ca")

	rec := postContact(h, `{
		"name": "Dana Whitfield",
		"email": "dana@example.com",
		"phone": "+14165550134",
		"message": "Do you detail boats as well as cars?"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if sender.inboxes[0] != "hello@shelbydetailing.ca" {
		t.Fatalf("inbox = %q", sender.inboxes[0])
	}
	if sender.sent[0].Name != "Dana Whitfield" {
		t.Fatalf("name = %q", sender.sent[0].Name)
	}
}

func TestContactValidation(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender, "hello@shelbydetailing.ca")

	bodies := map[string]string{
		"missing name":    `{"email":"dana@example.com","message":"Do you detail boats as well?"}`,
		"bad email":       `{"name":"Dana","email":"not-an-email","message":"Do you detail boats as well?"}`,
		"missing message": `{"name":"Dana","email":"dana@example.com"}`,
		"short message":   `{"name":"Dana","email":"dana@example.com","message":"hi"}`,
		"not json":        `name=Dana`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			if rec := postContact(h, body); rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d messages, want 0", len(sender.sent))
	}
}

func TestContactSendFailure(t *testing.T) {
	h := newTestHandler(&fakeSender{err: errors.New("smtp relay down")}, "hello@shelbydetailing.ca")

	rec := postContact(h, `{"name":"Dana","email":"dana@example.com","message":"Do you detail boats as well?"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestContactDisabled(t *testing.T) {
	h := newTestHandler(nil, "")

	rec := postContact(h, `{"name":"Dana","email":"dana@example.com","message":"Do you detail boats as well?"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
