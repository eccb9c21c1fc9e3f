package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Middleware bundles the cross-cutting echo middleware the router wires in.
// Authenticate must run before Authorize; the registration order below is
// what enforces that.
type Middleware struct {
	Authenticate  echo.MiddlewareFunc
	Authorize     echo.MiddlewareFunc
	XRay          echo.MiddlewareFunc
	RequestLogger echo.MiddlewareFunc
}

type Handlers struct {
	Auth    *AuthHandler
	Users   *UsersHandler
	Groups  *GroupsHandler
	Routes  *RoutesHandler
	Courses *CoursesHandler
	Lessons *LessonsHandler
}

func NewMainRouter(h Handlers, m Middleware) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if m.XRay != nil {
		e.Use(m.XRay)
	}
	if m.RequestLogger != nil {
		e.Use(m.RequestLogger)
	}

	// Public: credential and recovery endpoints carry their own proof.
	e.POST("/login", h.Auth.Login)
	e.POST("/signup", h.Auth.SignUp)
	e.POST("/recover", h.Auth.Recover)
	e.POST("/reset-password", h.Auth.ResetPassword)
	e.POST("/reset-password-code", h.Auth.ResetPasswordCode)
	e.POST("/refresh", h.Auth.Refresh)
	e.POST("/introspect", h.Auth.Introspect)

	// Token-only: a valid access token suffices, no permission lookup.
	session := e.Group("", m.Authenticate)
	session.POST("/logout", h.Auth.Logout)
	session.POST("/revoke", h.Auth.Revoke)

	// Protected resources pass both gates.
	protected := e.Group("", m.Authenticate, m.Authorize)

	protected.GET("/users", h.Users.List)
	protected.GET("/users/:id", h.Users.Get)
	protected.PUT("/users/:id", h.Users.Update)
	protected.PATCH("/users/:id", h.Users.Update)
	protected.DELETE("/users/:id", h.Users.Delete)
	protected.DELETE("/users/:id/permanent", h.Users.DeletePermanent)

	protected.POST("/groups", h.Groups.Create)
	protected.GET("/groups", h.Groups.List)
	protected.GET("/groups/:id", h.Groups.Get)
	protected.PUT("/groups/:id", h.Groups.Update)
	protected.DELETE("/groups/:id", h.Groups.Delete)

	protected.POST("/routes", h.Routes.Create)
	protected.GET("/routes", h.Routes.List)
	protected.GET("/routes/:route", h.Routes.Get)
	protected.PUT("/routes/:route", h.Routes.Update)
	protected.DELETE("/routes/:route", h.Routes.Delete)

	protected.POST("/courses", h.Courses.Create)
	protected.GET("/courses", h.Courses.List)
	protected.GET("/courses/:id", h.Courses.Get)
	protected.PUT("/courses/:id", h.Courses.Update)
	protected.DELETE("/courses/:id", h.Courses.Delete)

	protected.POST("/lessons", h.Lessons.Create)
	protected.GET("/lessons/:course_id", h.Lessons.List)
	protected.GET("/lessons/:course_id/:lesson_id", h.Lessons.Get)
	protected.PUT("/lessons/:course_id/:lesson_id", h.Lessons.Update)
	protected.DELETE("/lessons/:course_id/:lesson_id", h.Lessons.Delete)

	return e
}
