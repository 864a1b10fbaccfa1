package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shelby-backend/internal/availability"
	"shelby-backend/internal/catalog"
	"shelby-backend/internal/events"
	"shelby-backend/internal/models"
	"shelby-backend/internal/schedule"
)

// SlotStore is the slice of the availability service the booking flow
// needs: reserve on create, release on reject.
type SlotStore interface {
	Reserve(ctx context.Context, date, startTime, serviceType string) error
	Release(ctx context.Context, date, startTime, serviceType string) error
}

type PushSender interface {
	SendPush(ctx context.Context, token, title, body string, data map[string]string) error
}

type EmailSender interface {
	SendBookingStatusEmail(ctx context.Context, booking models.Booking) (string, error)
}

// UserDirectory resolves notification recipients.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	AdminsWithPushTokens(ctx context.Context) ([]models.User, error)
}

type Service struct {
	repo      Repository
	slots     SlotStore
	users     UserDirectory
	push      PushSender
	email     EmailSender
	publisher events.Publisher
	location  *time.Location
	log       *slog.Logger
}

func NewService(repo Repository, slots SlotStore, users UserDirectory, push PushSender, email EmailSender, publisher events.Publisher, location *time.Location, log *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NewNoop()
	}
	return &Service{
		repo:      repo,
		slots:     slots,
		users:     users,
		push:      push,
		email:     email,
		publisher: publisher,
		location:  location,
		log:       log,
	}
}

// Create validates the selection against the catalog, reserves the slot for
// the primary package and persists a pending booking. The slot reservation
// is the concurrency guard: once it succeeds no other booking can take the
// same (date, startTime, serviceType).
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (models.Booking, error) {
	expected, ok := catalog.ComputeTotal(req.Services, req.Addons)
	if !ok {
		return models.Booking{}, ErrUnknownService
	}
	if math.Abs(expected-req.Total) > 0.009 {
		return models.Booking{}, ErrTotalMismatch
	}

	past, err := schedule.IsDatePast(req.Date, s.location, time.Now())
	if err != nil {
		return models.Booking{}, err
	}
	if past {
		return models.Booking{}, ErrDateInPast
	}

	primary := req.Services[0]
	if err := s.slots.Reserve(ctx, req.Date, req.Time, primary); err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		ID:           primitive.NewObjectID().Hex(),
		UserID:       userID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Notes:        strings.TrimSpace(req.Notes),
		Date:         req.Date,
		Time:         req.Time,
		Services:     req.Services,
		Addons:       req.Addons,
		Total:        req.Total,
		Status:       models.BookingStatusPending,
		CreatedAt:    time.Now().In(s.location),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		// Hand the slot back so a storage failure does not strand it.
		if releaseErr := s.slots.Release(ctx, req.Date, req.Time, primary); releaseErr != nil {
			s.log.Error("booking create: slot release failed",
				slog.String("date", req.Date),
				slog.String("time", req.Time),
				slog.String("error", releaseErr.Error()),
			)
		}
		return models.Booking{}, err
	}

	return booking, nil
}

func (s *Service) ListAdmin(ctx context.Context) ([]models.Booking, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListOwner(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus applies an admin decision. Rejecting requires a reason and
// frees the reserved slot. The changed result tells the caller whether the
// write actually altered the booking; writing the same terminal status
// twice re-saves identical data and should not re-notify.
func (s *Service) UpdateStatus(ctx context.Context, id, status, rejectionReason string) (models.Booking, bool, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != models.BookingStatusConfirmed && status != models.BookingStatusRejected {
		return models.Booking{}, false, ErrInvalidStatus
	}

	rejectionReason = strings.TrimSpace(rejectionReason)
	if status == models.BookingStatusRejected && rejectionReason == "" {
		return models.Booking{}, false, ErrReasonRequired
	}

	existing, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, false, ErrNotFound
		}
		return models.Booking{}, false, err
	}

	alreadyApplied := existing.Status == status &&
		(status != models.BookingStatusRejected || existing.RejectionReason == rejectionReason)

	// Confirming a booking whose rejection already freed the slot means
	// taking the slot back. If another booking grabbed it in the meantime
	// the flip must fail rather than double-book.
	reclaimed := false
	if status == models.BookingStatusConfirmed && existing.Status == models.BookingStatusRejected && len(existing.Services) > 0 {
		if err := s.slots.Reserve(ctx, existing.Date, existing.Time, existing.Services[0]); err != nil {
			return models.Booking{}, false, err
		}
		reclaimed = true
	}

	updated, err := s.repo.UpdateStatus(ctx, existing.ID, status, rejectionReason)
	if err != nil {
		if reclaimed {
			if releaseErr := s.slots.Release(ctx, existing.Date, existing.Time, existing.Services[0]); releaseErr != nil {
				s.log.Error("booking status: slot release failed",
					slog.String("booking_id", existing.ID),
					slog.String("error", releaseErr.Error()),
				)
			}
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, false, ErrNotFound
		}
		return models.Booking{}, false, err
	}

	if status == models.BookingStatusRejected && existing.Status != models.BookingStatusRejected && len(updated.Services) > 0 {
		if err := s.slots.Release(ctx, updated.Date, updated.Time, updated.Services[0]); err != nil {
			s.log.Error("booking status: slot release failed",
				slog.String("booking_id", updated.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return updated, !alreadyApplied, nil
}

// IsSlotConflict reports whether err means the requested slot was missing
// or already taken.
func IsSlotConflict(err error) bool {
	return errors.Is(err, availability.ErrSlotTaken)
}

// NotifyAdminsNewBooking pushes a fixed-format alert to every admin with a
// registered device token.
func (s *Service) NotifyAdminsNewBooking(ctx context.Context, booking models.Booking) error {
	if s.push == nil || s.users == nil {
		return nil
	}

	admins, err := s.users.AdminsWithPushTokens(ctx)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("New booking from %s on %s at %s", booking.CustomerName, booking.Date, booking.Time)
	var lastErr error
	for _, admin := range admins {
		if err := s.push.SendPush(ctx, admin.ExpoPushToken, "New Booking", body, map[string]string{
			"bookingId": booking.ID,
		}); err != nil {
			s.log.Warn("booking create: admin push failed",
				slog.String("admin_id", admin.ID),
				slog.String("error", err.Error()),
			)
			lastErr = err
		}
	}
	return lastErr
}

// NotifyOwnerStatus informs the booking owner about an admin decision via
// push (when a device token exists) and email (when an address exists).
func (s *Service) NotifyOwnerStatus(ctx context.Context, booking models.Booking) error {
	var title, body string
	switch booking.Status {
	case models.BookingStatusConfirmed:
		title = "Booking confirmed"
		body = fmt.Sprintf("Your booking on %s at %s is CONFIRMED.", booking.Date, booking.Time)
	case models.BookingStatusRejected:
		title = "Booking rejected"
		body = fmt.Sprintf("Your booking on %s at %s was REJECTED. Reason: %s", booking.Date, booking.Time, booking.RejectionReason)
	default:
		return nil
	}

	var lastErr error
	if s.users != nil && s.push != nil {
		owner, err := s.users.GetByID(ctx, booking.UserID)
		if err != nil {
			s.log.Warn("booking status: owner lookup failed",
				slog.String("booking_id", booking.ID),
				slog.String("error", err.Error()),
			)
			lastErr = err
		} else if owner.ExpoPushToken != "" {
			if err := s.push.SendPush(ctx, owner.ExpoPushToken, title, body, map[string]string{
				"bookingId": booking.ID,
				"status":    booking.Status,
			}); err != nil {
				s.log.Warn("booking status: push failed",
					slog.String("booking_id", booking.ID),
					slog.String("error", err.Error()),
				)
				lastErr = err
			}
		}
	}

	if s.email != nil && booking.Email != "" {
		if _, err := s.email.SendBookingStatusEmail(ctx, booking); err != nil {
			s.log.Warn("booking status: email failed",
				slog.String("booking_id", booking.ID),
				slog.String("email", booking.Email),
				slog.String("error", err.Error()),
			)
			lastErr = err
		}
	}
	return lastErr
}

func (s *Service) Publish(ctx context.Context, eventType string, booking models.Booking) error {
	return s.publisher.PublishBookingEvent(ctx, eventType, booking)
}
