package application

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"course-platform/internal/domain"
	"course-platform/internal/ports"
)

const (
	recoveryCodeLength      = 4
	recoveryCodeMaxAttempts = 100
	recoveryCodeAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// TokenPair is what login and refresh hand back alongside the profile.
type TokenPair struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"accesstoken"`
	RefreshToken string      `json:"refreshtoken"`
}

// AuthService orchestrates the credential and token lifecycle: login, refresh,
// logout/revoke, password recovery and token introspection.
type AuthService struct {
	users  ports.UserRepository
	tokens *TokenService
	mailer ports.Mailer
	logger ports.Logger

	// singleSessionRefresh rotates the refresh token on every refresh call.
	singleSessionRefresh bool
	passwordResetURL     string
}

func NewAuthService(users ports.UserRepository, tokens *TokenService, mailer ports.Mailer, logger ports.Logger, singleSessionRefresh bool, passwordResetURL string) *AuthService {
	return &AuthService{
		users:                users,
		tokens:               tokens,
		mailer:               mailer,
		logger:               logger,
		singleSessionRefresh: singleSessionRefresh,
		passwordResetURL:     passwordResetURL,
	}
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (domain.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return domain.User{}, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login checks credentials and issues an access token. The stored refresh
// token is reused while it still verifies; otherwise a new one is minted and
// persisted. Unknown email, inactive user and wrong password all answer with
// the same generic error.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if email == "" || password == "" {
		return TokenPair{}, domain.ErrInvalidInput
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenPair{}, domain.ErrWrongCredentials
		}
		return TokenPair{}, err
	}
	if !user.Active {
		return TokenPair{}, domain.ErrWrongCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, domain.ErrWrongCredentials
	}

	access, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh := user.RefreshToken
	if refresh == "" {
		refresh, err = s.tokens.GenerateRefreshToken(user.ID)
	} else if _, verr := s.tokens.VerifyRefreshToken(refresh); verr != nil {
		refresh, err = s.tokens.GenerateRefreshToken(user.ID)
	}
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	user.RefreshToken = refresh
	return TokenPair{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh issues a new access token when the presented refresh token exactly
// matches the stored one. Rotation happens only in single-session mode.
//
// Two concurrent calls for the same user can both pass the comparison and both
// issue tokens; the last write wins. That race exists in the contract this
// service preserves and is deliberately not closed with a conditional write.
func (s *AuthService) Refresh(ctx context.Context, userID, presented string) (TokenPair, error) {
	if userID == "" || presented == "" {
		return TokenPair{}, domain.ErrInvalidInput
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenPair{}, domain.ErrTokenInvalid
		}
		return TokenPair{}, err
	}
	if user.RefreshToken == "" || user.RefreshToken != presented {
		return TokenPair{}, domain.ErrTokenInvalid
	}

	access, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh := user.RefreshToken
	if s.singleSessionRefresh {
		refresh, err = s.tokens.GenerateRefreshToken(user.ID)
		if err != nil {
			return TokenPair{}, err
		}
		if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
			return TokenPair{}, err
		}
	}
	user.RefreshToken = refresh
	return TokenPair{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshFromToken resolves the user id out of the presented refresh token
// before delegating to Refresh. The /refresh endpoint carries no access token,
// so the refresh token is the only identity available.
func (s *AuthService) RefreshFromToken(ctx context.Context, presented string) (TokenPair, error) {
	userID, err := s.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return TokenPair{}, err
	}
	return s.Refresh(ctx, userID, presented)
}

// Logout clears the stored refresh token, which invalidates /refresh and the
// session-liveness check in the authentication middleware.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	return s.users.UpdateRefreshToken(ctx, userID, "")
}

// Revoke is logout under another route name.
func (s *AuthService) Revoke(ctx context.Context, userID string) error {
	return s.Logout(ctx, userID)
}

// RecoverPassword generates a collision-free recovery code and a recovery
// token, persists both with a one-hour expiry and mails the reset link.
func (s *AuthService) RecoverPassword(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrInvalidInput
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	code, err := s.newRecoveryCode(ctx)
	if err != nil {
		return err
	}
	token, err := s.tokens.GenerateRecoveryToken(user.ID)
	if err != nil {
		return err
	}
	expiry := time.Now().UTC().Add(recoveryTokenTTL)
	if err := s.users.SetRecovery(ctx, user.ID, code, token, expiry); err != nil {
		return err
	}
	link := s.passwordResetURL + "?token=" + token
	if err := s.mailer.SendPasswordRecovery(ctx, user.Email, code, link); err != nil {
		s.logger.Error(ctx, "recovery mail dispatch failed", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}

// newRecoveryCode retries until the generated code collides with no
// outstanding one.
func (s *AuthService) newRecoveryCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < recoveryCodeMaxAttempts; attempt++ {
		code, err := randomString(recoveryCodeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.users.RecoveryCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("recovery code space exhausted after %d attempts", recoveryCodeMaxAttempts)
}

// ResetPasswordWithToken consumes a recovery token. The token must both verify
// cryptographically and still match the stored value; persistence clears the
// stored value, which is what makes the token single-use.
func (s *AuthService) ResetPasswordWithToken(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}
	userID, err := s.tokens.VerifyRecoveryToken(token)
	if err != nil {
		return err
	}
	user, err := s.users.GetByRecoveryToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRecoveryTokenUsed
		}
		return err
	}
	if user.ID != userID {
		return domain.ErrTokenInvalid
	}
	return s.setPassword(ctx, user.ID, newPassword)
}

// ResetPasswordWithCode consumes a recovery code within its expiry window.
func (s *AuthService) ResetPasswordWithCode(ctx context.Context, code, newPassword string) error {
	if code == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}
	user, err := s.users.GetByRecoveryCode(ctx, code)
	if err != nil {
		return err
	}
	if time.Now().UTC().After(user.RecoveryCodeExpiry) {
		return domain.ErrRecoveryCodeExpired
	}
	return s.setPassword(ctx, user.ID, newPassword)
}

func (s *AuthService) setPassword(ctx context.Context, userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// Introspect reports the status of an access token without mutating state.
func (s *AuthService) Introspect(token string) (domain.Introspection, error) {
	claims, err := s.tokens.DecodeAccessToken(token)
	if err != nil {
		return domain.Introspection{}, err
	}
	out := domain.Introspection{
		ClientID:  claims.ID,
		TokenType: "Bearer",
	}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Unix()
		out.Active = claims.ExpiresAt.After(time.Now())
	}
	if claims.IssuedAt != nil {
		out.Iat = claims.IssuedAt.Unix()
	}
	if claims.NotBefore != nil {
		out.Nbf = claims.NotBefore.Unix()
	}
	return out, nil
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = recoveryCodeAlphabet[int(b[i])%len(recoveryCodeAlphabet)]
	}
	return string(b), nil
}
