package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"course-platform/internal/application"
	"course-platform/internal/domain"
	"course-platform/internal/platform/respond"
	"course-platform/internal/ports"
)

// ContextUserID is the echo context key carrying the authenticated user id.
const ContextUserID = "user_id"

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}

// Authenticate is gate 1. A bearer header is verified as an access token; the
// `token` query parameter is verified as a recovery token, which is how
// password-reset links authenticate without a header. Access tokens
// additionally require a stored refresh token, so a logged-out device is cut
// off as soon as authorization is checked again.
func Authenticate(tokens *application.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				if recovery := c.QueryParam("token"); recovery != "" {
					userID, err := tokens.VerifyRecoveryToken(recovery)
					if err != nil {
						return tokenError(c, err)
					}
					c.Set(ContextUserID, userID)
					return next(c)
				}
				return respond.Error(c, http.StatusUnauthorized, "token not provided")
			}

			userID, err := tokens.VerifyAccessToken(token)
			if err != nil {
				return tokenError(c, err)
			}
			user, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				return respond.Error(c, http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
			}
			if user.RefreshToken == "" {
				return respond.Error(c, http.StatusUnauthorized, "refresh token invalid, re-authenticate")
			}
			c.Set(ContextUserID, userID)
			return next(c)
		}
	}
}

func tokenError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrTokenExpired) {
		return respond.Error(c, respond.StatusTokenExpired, domain.ErrTokenExpired.Error())
	}
	return respond.Error(c, http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
}
