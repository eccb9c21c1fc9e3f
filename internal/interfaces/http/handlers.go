package http

import (
	"errors"
	stdhttp "net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"course-platform/internal/adapters/http/middleware"
	"course-platform/internal/application"
	"course-platform/internal/domain"
	"course-platform/internal/platform/respond"
	"course-platform/internal/ports"
)

// handleError is the single boundary converting typed errors into the
// response envelope. Unexpected errors become an opaque 500.
func handleError(c echo.Context, logger ports.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return respond.Error(c, stdhttp.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrWrongCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrRecoveryCodeExpired):
		return respond.Error(c, stdhttp.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return respond.Error(c, stdhttp.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrRecoveryTokenUsed):
		return respond.Error(c, stdhttp.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return respond.Error(c, stdhttp.StatusMethodNotAllowed, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return respond.Error(c, stdhttp.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTokenExpired):
		return respond.Error(c, respond.StatusTokenExpired, err.Error())
	default:
		logger.Error(c.Request().Context(), "unhandled error", "error", err)
		return respond.Error(c, stdhttp.StatusInternalServerError, "internal error")
	}
}

func contextUserID(c echo.Context) string {
	id, _ := c.Get(middleware.ContextUserID).(string)
	return id
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}

type AuthHandler struct {
	service *application.AuthService
	logger  ports.Logger
}

func NewAuthHandler(service *application.AuthService, logger ports.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	user, err := h.service.SignUp(c.Request().Context(), application.SignUpInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusCreated, user, "account created")
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	pair, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, pair, "authenticated")
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refreshtoken"`
	}
	_ = c.Bind(&req)
	token := req.RefreshToken
	if token == "" {
		token = bearerToken(c)
	}
	if token == "" {
		return respond.Error(c, stdhttp.StatusUnauthorized, "token not provided")
	}
	pair, err := h.service.RefreshFromToken(c.Request().Context(), token)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, pair, "token refreshed")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.service.Logout(c.Request().Context(), contextUserID(c)); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "logged out")
}

func (h *AuthHandler) Revoke(c echo.Context) error {
	if err := h.service.Revoke(c.Request().Context(), contextUserID(c)); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "tokens revoked")
}

func (h *AuthHandler) Recover(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	if err := h.service.RecoverPassword(c.Request().Context(), req.Email); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "recovery instructions sent")
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	token := req.Token
	if token == "" {
		token = c.QueryParam("token")
	}
	if err := h.service.ResetPasswordWithToken(c.Request().Context(), token, req.Password); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "password updated")
}

func (h *AuthHandler) ResetPasswordCode(c echo.Context) error {
	var req struct {
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	if err := h.service.ResetPasswordWithCode(c.Request().Context(), req.Code, req.Password); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "password updated")
}

func (h *AuthHandler) Introspect(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	_ = c.Bind(&req)
	token := req.Token
	if token == "" {
		token = bearerToken(c)
	}
	if token == "" {
		return respond.Error(c, stdhttp.StatusUnauthorized, "token not provided")
	}
	status, err := h.service.Introspect(token)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, status, "")
}
