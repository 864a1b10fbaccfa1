package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"shelby-backend/internal/auth"
	"shelby-backend/internal/models"
)

type fakeRepository struct {
	docs map[string]models.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{docs: make(map[string]models.User)}
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (f *fakeRepository) Create(ctx context.Context, user models.User) error {
	for _, u := range f.docs {
		if (user.Email != "" && u.Email == user.Email) ||
			(user.PhoneNumber != "" && u.PhoneNumber == user.PhoneNumber) {
			return duplicateKeyErr()
		}
	}
	f.docs[user.ID] = user
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	u, ok := f.docs[id]
	if !ok {
		return models.User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeRepository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	for _, u := range f.docs {
		if u.Email == identifier || u.PhoneNumber == identifier {
			return u, nil
		}
	}
	return models.User{}, mongo.ErrNoDocuments
}

func (f *fakeRepository) FindByReferralCode(ctx context.Context, code string) (models.User, error) {
	for _, u := range f.docs {
		if u.ReferralCode == code {
			return u, nil
		}
	}
	return models.User{}, mongo.ErrNoDocuments
}

func (f *fakeRepository) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) (models.User, error) {
	u, ok := f.docs[id]
	if !ok {
		return models.User{}, mongo.ErrNoDocuments
	}
	for key, value := range fields {
		switch key {
		case "name":
			u.Name = value.(string)
		case "email":
			u.Email = value.(string)
		case "phoneNumber":
			u.PhoneNumber = value.(string)
		case "carInfo":
			u.CarInfo = value.(string)
		case "homeAddress":
			u.HomeAddress = value.(string)
		case "updatedAt":
			u.UpdatedAt = value.(time.Time)
		}
	}
	f.docs[id] = u
	return u, nil
}

func (f *fakeRepository) SetPushToken(ctx context.Context, id, token string) error {
	u, ok := f.docs[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.ExpoPushToken = token
	f.docs[id] = u
	return nil
}

func (f *fakeRepository) AddReferralCredit(ctx context.Context, id string, amount int) error {
	u, ok := f.docs[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.ReferralCredits += amount
	f.docs[id] = u
	return nil
}

func (f *fakeRepository) AdminsWithPushTokens(ctx context.Context) ([]models.User, error) {
	admins := make([]models.User, 0)
	for _, u := range f.docs {
		if u.IsAdmin && u.ExpoPushToken != "" {
			admins = append(admins, u)
		}
	}
	return admins, nil
}

func (f *fakeRepository) List(ctx context.Context, search string, page, limit int64) ([]models.User, int64, error) {
	items := make([]models.User, 0)
	for _, u := range f.docs {
		if search == "" || strings.Contains(strings.ToLower(u.Name), strings.ToLower(search)) {
			items = append(items, u)
		}
	}
	return items, int64(len(items)), nil
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	jwt := &auth.Manager{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "shelby-backend"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, jwt, log), repo
}

func TestSignup(t *testing.T) {
	service, repo := newTestService()

	user, err := service.Signup(context.Background(), SignupRequest{
		Name:     "Maya Osei",
		Email:    "Maya@Example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "maya@example.com" {
		t.Fatalf("email = %q, want lowercased", user.Email)
	}
	if !strings.HasPrefix(user.ReferralCode, "SHELBY-") {
		t.Fatalf("referralCode = %q, want SHELBY- prefix", user.ReferralCode)
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}
	if err := auth.ComparePassword(user.PasswordHash, "hunter22"); err != nil {
		t.Fatalf("stored hash rejects the password: %v", err)
	}
	if _, ok := repo.docs[user.ID]; !ok {
		t.Fatal("user not persisted")
	}
}

func TestSignupConflict(t *testing.T) {
	service, _ := newTestService()

	req := SignupRequest{Name: "Maya Osei", Email: "maya@example.com", Password: "hunter22"}
	if _, err := service.Signup(context.Background(), req); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	if _, err := service.Signup(context.Background(), req); !errors.Is(err, ErrConflict) {
		t.Fatalf("second Signup err = %v, want ErrConflict", err)
	}
}

func TestSignupReferral(t *testing.T) {
	service, repo := newTestService()

	referrer, err := service.Signup(context.Background(), SignupRequest{
		Name:  "Jordan Lee",
		Email: "jordan@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("referrer Signup: %v", err)
	}

	referred, err := service.Signup(context.Background(), SignupRequest{
		Name:        "Sam Patel",
		PhoneNumber: "+14165550147", Password: "hunter22",
		ReferredByCode: strings.ToLower(referrer.ReferralCode),
	})
	if err != nil {
		t.Fatalf("referred Signup: %v", err)
	}
	if referred.ReferredBy != referrer.ID {
		t.Fatalf("referredBy = %q, want %q", referred.ReferredBy, referrer.ID)
	}
	if got := repo.docs[referrer.ID].ReferralCredits; got != 1 {
		t.Fatalf("referrer credits = %d, want 1", got)
	}

	// An unknown code must not block signup.
	stray, err := service.Signup(context.Background(), SignupRequest{
		Name:  "Noor Haddad",
		Email: "noor@example.com", Password: "hunter22",
		ReferredByCode: "SHELBY-NOPE1234",
	})
	if err != nil {
		t.Fatalf("stray Signup: %v", err)
	}
	if stray.ReferredBy != "" {
		t.Fatalf("referredBy = %q, want empty", stray.ReferredBy)
	}
}

func TestLogin(t *testing.T) {
	service, _ := newTestService()

	if _, err := service.Signup(context.Background(), SignupRequest{
		Name:  "Maya Osei",
		Email: "maya@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	token, user, err := service.Login(context.Background(), LoginRequest{
		Identifier: "MAYA@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	claims, err := service.jwt.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != user.ID || claims.IsAdmin {
		t.Fatalf("claims = %+v, want userId %q and isAdmin false", claims, user.ID)
	}

	if _, _, err := service.Login(context.Background(), LoginRequest{
		Identifier: "maya@example.com", Password: "wrong",
	}); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong password err = %v, want ErrBadCredentials", err)
	}
	if _, _, err := service.Login(context.Background(), LoginRequest{
		Identifier: "nobody@example.com", Password: "hunter22",
	}); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("unknown identifier err = %v, want ErrBadCredentials", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	service, _ := newTestService()

	user, err := service.Signup(context.Background(), SignupRequest{
		Name:  "Maya Osei",
		Email: "maya@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	updated, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		CarInfo: "2021 Mazda CX-5, Soul Red",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.CarInfo != "2021 Mazda CX-5, Soul Red" {
		t.Fatalf("carInfo = %q", updated.CarInfo)
	}
	if updated.Name != "Maya Osei" || updated.Email != "maya@example.com" {
		t.Fatal("untouched fields were overwritten")
	}

	if _, err := service.UpdateProfile(context.Background(), "missing", UpdateProfileRequest{Name: "X Y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestSetPushToken(t *testing.T) {
	service, repo := newTestService()

	user, err := service.Signup(context.Background(), SignupRequest{
		Name:  "Maya Osei",
		Email: "maya@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := service.SetPushToken(context.Background(), user.ID, " ExponentPushToken[abc] "); err != nil {
		t.Fatalf("SetPushToken: %v", err)
	}
	if got := repo.docs[user.ID].ExpoPushToken; got != "ExponentPushToken[abc]" {
		t.Fatalf("token = %q, want trimmed value", got)
	}
}
