// Package respond holds the response envelope shared by handlers and
// middleware: every endpoint answers {data, message, errors[]}.
package respond

import "github.com/labstack/echo/v4"

// StatusTokenExpired tells clients to refresh their access token.
const StatusTokenExpired = 498

type Envelope struct {
	Data    any      `json:"data"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func JSON(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Envelope{Data: data, Message: message, Errors: []string{}})
}

func Error(c echo.Context, status int, errs ...string) error {
	return c.JSON(status, Envelope{Errors: errs})
}
