package application

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"course-platform/internal/domain"
)

const recoveryTokenTTL = time.Hour

// Claims is the payload carried by every token kind.
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the three token kinds. It holds no state
// beyond the kind-specific secrets and lifetimes; persistence of refresh and
// recovery tokens belongs to AuthService.
type TokenService struct {
	accessSecret   []byte
	refreshSecret  []byte
	recoverySecret []byte
	accessTTL      time.Duration
	refreshTTL     time.Duration
}

func NewTokenService(accessSecret, refreshSecret, recoverySecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:   []byte(accessSecret),
		refreshSecret:  []byte(refreshSecret),
		recoverySecret: []byte(recoverySecret),
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
	}
}

func (s *TokenService) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) GenerateAccessToken(userID string) (string, error) {
	return s.sign(userID, s.accessSecret, s.accessTTL)
}

func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	return s.sign(userID, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) GenerateRecoveryToken(userID string) (string, error) {
	return s.sign(userID, s.recoverySecret, recoveryTokenTTL)
}

func (s *TokenService) verify(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !token.Valid || claims.ID == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.ID, nil
}

// VerifyAccessToken returns the embedded user id, distinguishing expiry from a
// bad signature so callers can answer 498 vs 401.
func (s *TokenService) VerifyAccessToken(tokenString string) (string, error) {
	return s.verify(tokenString, s.accessSecret)
}

func (s *TokenService) VerifyRefreshToken(tokenString string) (string, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *TokenService) VerifyRecoveryToken(tokenString string) (string, error) {
	return s.verify(tokenString, s.recoverySecret)
}

// DecodeAccessToken checks the signature but tolerates an expired token, for
// introspection. The returned claims are trusted only as far as the signature.
func (s *TokenService) DecodeAccessToken(tokenString string) (Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil || claims.ID == "" {
		return Claims{}, domain.ErrTokenInvalid
	}
	return *claims, nil
}
