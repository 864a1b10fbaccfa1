package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shelby-backend/internal/auth"
	"shelby-backend/internal/models"
)

var (
	ErrConflict       = errors.New("email or phone number already registered")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrNotFound       = errors.New("user not found")
)

const referralCodePrefix = "SHELBY-"

type SignupRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=120"`
	Email          string `json:"email" validate:"required_without=PhoneNumber,omitempty,email"`
	PhoneNumber    string `json:"phoneNumber" validate:"required_without=Email,omitempty,phone"`
	Password       string `json:"password" validate:"required,min=6,max=72"`
	ReferredByCode string `json:"referredByCode" validate:"omitempty,max=40"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=120"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
	CarInfo     string `json:"carInfo" validate:"omitempty,max=200"`
	HomeAddress string `json:"homeAddress" validate:"omitempty,max=300"`
}

type PushTokenRequest struct {
	ExpoPushToken string `json:"expoPushToken" validate:"required,max=200"`
}

type Service struct {
	repo Repository
	jwt  *auth.Manager
	log  *slog.Logger
}

func NewService(repo Repository, jwt *auth.Manager, log *slog.Logger) *Service {
	return &Service{repo: repo, jwt: jwt, log: log}
}

// Signup creates a customer account. Uniqueness of email and phone is
// enforced by the collection's indexes; a duplicate key surfaces as
// ErrConflict. Every account gets a shareable referral code, and a valid
// referredByCode credits the referrer.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (models.User, error) {
	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		ReferralCode: newReferralCode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = hash

	if code := strings.ToUpper(strings.TrimSpace(req.ReferredByCode)); code != "" {
		referrer, err := s.repo.FindByReferralCode(ctx, code)
		switch {
		case err == nil:
			user.ReferredBy = referrer.ID
		case errors.Is(err, mongo.ErrNoDocuments):
			// Unknown codes are ignored rather than blocking signup.
			s.log.Info("signup: unknown referral code", slog.String("code", code))
		default:
			return models.User{}, err
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}

	if user.ReferredBy != "" {
		if err := s.repo.AddReferralCredit(ctx, user.ReferredBy, 1); err != nil {
			s.log.Warn("signup: referral credit failed",
				slog.String("referrer_id", user.ReferredBy),
				slog.String("error", err.Error()),
			)
		}
	}

	return user, nil
}

// Login checks the identifier (email or phone) and password and mints a
// bearer token. Lookup misses and bad passwords collapse into the same
// error so the response does not leak which accounts exist.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, models.User, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}

	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", models.User{}, ErrBadCredentials
		}
		return "", models.User{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return "", models.User{}, ErrBadCredentials
	}

	token, err := s.jwt.NewToken(user.ID, user.IsAdmin)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfile applies the non-empty fields of the request.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (models.User, error) {
	fields := map[string]interface{}{"updatedAt": time.Now().UTC()}
	if v := strings.TrimSpace(req.Name); v != "" {
		fields["name"] = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		fields["email"] = v
	}
	if v := strings.TrimSpace(req.PhoneNumber); v != "" {
		fields["phoneNumber"] = v
	}
	if v := strings.TrimSpace(req.CarInfo); v != "" {
		fields["carInfo"] = v
	}
	if v := strings.TrimSpace(req.HomeAddress); v != "" {
		fields["homeAddress"] = v
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return models.User{}, ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}
	return updated, nil
}

func (s *Service) SetPushToken(ctx context.Context, userID, token string) error {
	return s.repo.SetPushToken(ctx, userID, strings.TrimSpace(token))
}

func (s *Service) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) AdminsWithPushTokens(ctx context.Context) ([]models.User, error) {
	return s.repo.AdminsWithPushTokens(ctx)
}

func (s *Service) List(ctx context.Context, search string, page, limit int64) ([]models.User, int64, error) {
	return s.repo.List(ctx, search, page, limit)
}

func newReferralCode() string {
	id := uuid.NewString()
	return referralCodePrefix + strings.ToUpper(id[:8])
}
