package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdul1ayev/greenshop-api/internal/hash"
	"github.com/Abdul1ayev/greenshop-api/internal/logging"
	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/Abdul1ayev/greenshop-api/internal/repo"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

type LoginResult struct {
	AccessToken      string       `json:"access_token"`
	ExpiresAt        time.Time    `json:"expires_at"`
	RefreshToken     string       `json:"refresh_token,omitempty"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at,omitempty"`
	User             *models.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password required", ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		l.Warn("register_failed", "status", 409, "reason", "email already registered")
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	}

	result, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return result, nil
}

// issueTokenPair mints a short-lived access token and a stored refresh token.
// The refresh token row is what makes rotation and revocation possible.
func (s *AuthService) issueTokenPair(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(s.AccessTTL)
	access, err := s.signToken(user, accessExp, "")
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshExp := time.Now().Add(s.RefreshTTL)
	refresh, err := s.signToken(user, refreshExp, "refresh")
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.Repo.CreateRefreshToken(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return &LoginResult{
		AccessToken:      access,
		ExpiresAt:        accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		User:             user,
	}, nil
}

func (s *AuthService) signToken(user *models.User, exp time.Time, typ string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  jwt.NewNumericDate(exp),
	}
	secret := s.JWTSecret
	if typ != "" {
		claims["typ"] = typ
		secret = s.RefreshSecret
		// a random id keeps rotated tokens distinct even within one second
		claims["jti"] = uuid.NewString()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// access/refresh pair comes back. A revoked, expired, forged or already
// rotated token is rejected as unauthenticated.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	stored, err := s.validateRefresh(ctx, raw)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, err
	}

	user, err := s.Repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if err := s.Repo.RevokeRefreshToken(ctx, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	result, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	l.Info("refresh_success", "user_id", user.ID)
	return result, nil
}

// Logout revokes the presented refresh token. An already revoked or unknown
// token is a no-op success so repeated logouts never error.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	if err := s.Repo.RevokeRefreshToken(ctx, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (s *AuthService) validateRefresh(ctx context.Context, raw string) (*models.RefreshToken, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthenticated)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "refresh" {
		return nil, fmt.Errorf("%w: not a refresh token", ErrUnauthenticated)
	}

	stored, err := s.Repo.GetRefreshToken(ctx, raw)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: unknown refresh token", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if stored.Revoked {
		return nil, fmt.Errorf("%w: refresh token revoked", ErrUnauthenticated)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", ErrUnauthenticated)
	}
	return stored, nil
}

// Me resolves the authenticated user's profile from the token subject.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return user, nil
}

// UpdateProfile changes the fields the cabinet page lets the user edit.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, username string) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username required", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	user.Username = username
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return user, nil
}

// ListUsers backs the admin user table; emailFilter narrows by substring.
func (s *AuthService) ListUsers(ctx context.Context, emailFilter string) ([]models.User, error) {
	users, err := s.Repo.ListUsers(ctx, emailFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return users, nil
}
