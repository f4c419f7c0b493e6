package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
	"github.com/thankiuday/dreamlink/internal/pkg/auth"
)

// fakeAuthUsers extends fakeUsers with the mutation surface AuthService needs.
type fakeAuthUsers struct {
	*fakeUsers
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeAuthUsers(users ...*models.User) *fakeAuthUsers {
	f := &fakeAuthUsers{fakeUsers: newFakeUsers(users...), byEmail: make(map[string]*models.User), nextID: 1000}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeAuthUsers) Create(ctx context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeAuthUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeAuthUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeAuthUsers) UpdateLastLogin(ctx context.Context, userID int64) error {
	return nil
}

// fakeTokens stores refresh tokens in memory.
type fakeTokens struct {
	byToken map[string]int64
	revoked map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byToken: make(map[string]int64), revoked: make(map[string]bool)}
}

func (f *fakeTokens) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	f.byToken[token] = userID
	return nil
}

func (f *fakeTokens) GetTokenUserID(ctx context.Context, token string) (int64, error) {
	if f.revoked[token] {
		return 0, apperrors.ErrTokenInvalid
	}
	userID, ok := f.byToken[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	return userID, nil
}

func (f *fakeTokens) RevokeToken(ctx context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func newAuthFixture(users ...*models.User) (AuthService, *fakeAuthUsers, *fakeTokens) {
	fakeUsers := newFakeAuthUsers(users...)
	tokens := newFakeTokens()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "dreamlink-test",
	})
	return NewAuthService(fakeUsers, tokens, jwtService, zerolog.Nop()), fakeUsers, tokens
}

func registeredUser(t *testing.T, svc AuthService, email, password string, role string) {
	t.Helper()
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: "Casey",
		LastName:  "Doe",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registeredUser(t, svc, "casey@school.edu", "s3cret-pass", "STUDENT")

	tokens, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "casey@school.edu", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", tokens)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registeredUser(t, svc, "casey@school.edu", "s3cret-pass", "STUDENT")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "casey@school.edu",
		Password:  "other-pass",
		FirstName: "Casey",
		LastName:  "Doe",
		Role:      "STUDENT",
	})
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("expected duplicate email rejection, got %v", err)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "boss@school.edu",
		Password:  "s3cret-pass",
		FirstName: "Sam",
		LastName:  "Boss",
		Role:      "ADMIN",
	})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("admin self-registration must be rejected, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registeredUser(t, svc, "casey@school.edu", "s3cret-pass", "STUDENT")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "casey@school.edu", Password: "wrong"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, users, _ := newAuthFixture()
	registeredUser(t, svc, "casey@school.edu", "s3cret-pass", "STUDENT")
	users.byEmail["casey@school.edu"].IsActive = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "casey@school.edu", Password: "s3cret-pass"})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Fatalf("expected disabled-account rejection, got %v", err)
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	registeredUser(t, svc, "casey@school.edu", "s3cret-pass", "STUDENT")

	pair, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "casey@school.edu", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.RefreshToken == pair.RefreshToken {
		t.Error("refresh must rotate the token")
	}
	if !tokens.revoked[pair.RefreshToken] {
		t.Error("presented token must be revoked on rotation")
	}

	// A rotated-out token is dead
	if _, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken}); err == nil {
		t.Error("expected reuse of a rotated token to fail")
	}
}
