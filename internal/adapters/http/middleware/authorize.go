package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"course-platform/internal/application"
	"course-platform/internal/domain"
	"course-platform/internal/platform/respond"
	"course-platform/internal/ports"
)

// routeName derives the permission route name from the first path segment.
func routeName(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.ToLower(trimmed)
}

// Authorize is gate 2 and runs after Authenticate on routes that declare it.
// It re-verifies the bearer token on its own so the two gates stay composable
// in isolation, resolves the (route, domain, verb) triple against the route
// registry and asks the permission resolver for a verdict. Resolution faults
// deny; they never propagate into an authorization bypass.
func Authorize(tokens *application.TokenService, routes ports.RouteRepository, authz *application.AuthorizationService, logger ports.Logger, appDomain string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return respond.Error(c, http.StatusUnauthorized, "token not provided")
			}
			userID, err := tokens.VerifyAccessToken(token)
			if err != nil {
				return tokenError(c, err)
			}

			ctx := c.Request().Context()
			name := routeName(c.Request().URL.Path)
			route, err := routes.GetByRouteAndDomain(ctx, name, appDomain)
			if err != nil {
				return respond.Error(c, http.StatusNotFound, "route not registered for permission control")
			}
			capability, ok := domain.CapabilityForMethod(c.Request().Method)
			if !ok {
				return respond.Error(c, http.StatusMethodNotAllowed, domain.ErrMethodNotAllowed.Error())
			}
			if !route.Allows(capability) {
				return respond.Error(c, http.StatusForbidden, domain.ErrForbidden.Error())
			}

			allowed, err := authz.HasPermission(ctx, userID, name, appDomain, capability)
			if err != nil {
				logger.Error(ctx, "permission resolution failed, denying",
					"user_id", userID, "route", name, "domain", appDomain, "error", err)
				allowed = false
			}
			if !allowed {
				return respond.Error(c, http.StatusForbidden, domain.ErrForbidden.Error())
			}
			c.Set(ContextUserID, userID)
			return next(c)
		}
	}
}
