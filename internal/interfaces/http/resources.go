package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"

	"course-platform/internal/application"
	"course-platform/internal/domain"
	"course-platform/internal/platform/respond"
	"course-platform/internal/ports"
)

type UsersHandler struct {
	service *application.UserService
	logger  ports.Logger
}

func NewUsersHandler(service *application.UserService, logger ports.Logger) *UsersHandler {
	return &UsersHandler{service: service, logger: logger}
}

func (h *UsersHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, users, "")
}

func (h *UsersHandler) Get(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, user, "")
}

type userPayload struct {
	Name       *string              `json:"name"`
	Active     *bool                `json:"active"`
	Groups     *[]string            `json:"groups"`
	CoursesIDs *[]string            `json:"courses_ids"`
	Progress   *[]domain.Progress   `json:"progress"`
	Perms      *[]domain.Permission `json:"permissions"`
}

func applyUserPayload(user *domain.User, req userPayload) {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Groups != nil {
		user.Groups = *req.Groups
	}
	if req.CoursesIDs != nil {
		user.CoursesIDs = *req.CoursesIDs
	}
	if req.Progress != nil {
		user.Progress = *req.Progress
	}
	if req.Perms != nil {
		user.Permissions = *req.Perms
	}
}

// Update serves both PUT and PATCH: fields absent from the payload keep their
// stored value.
func (h *UsersHandler) Update(c echo.Context) error {
	var req userPayload
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	ctx := c.Request().Context()
	user, err := h.service.GetByID(ctx, c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	applyUserPayload(&user, req)
	if err := h.service.Update(ctx, user); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, user, "user updated")
}

func (h *UsersHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "user deactivated")
}

func (h *UsersHandler) DeletePermanent(c echo.Context) error {
	if err := h.service.DeletePermanent(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "user deleted")
}

type GroupsHandler struct {
	service *application.GroupService
	logger  ports.Logger
}

func NewGroupsHandler(service *application.GroupService, logger ports.Logger) *GroupsHandler {
	return &GroupsHandler{service: service, logger: logger}
}

func (h *GroupsHandler) Create(c echo.Context) error {
	var req struct {
		Name        string              `json:"name"`
		Description string              `json:"description"`
		Active      bool                `json:"active"`
		Permissions []domain.Permission `json:"permissions"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	group, err := h.service.Create(c.Request().Context(), domain.Group{
		Name: req.Name, Description: req.Description, Active: req.Active, Permissions: req.Permissions,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusCreated, group, "group created")
}

func (h *GroupsHandler) Update(c echo.Context) error {
	var req struct {
		Name        string              `json:"name"`
		Description string              `json:"description"`
		Active      bool                `json:"active"`
		Permissions []domain.Permission `json:"permissions"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	err := h.service.Update(c.Request().Context(), domain.Group{
		ID: c.Param("id"), Name: req.Name, Description: req.Description,
		Active: req.Active, Permissions: req.Permissions,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "group updated")
}

func (h *GroupsHandler) Get(c echo.Context) error {
	group, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, group, "")
}

func (h *GroupsHandler) List(c echo.Context) error {
	groups, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, groups, "")
}

func (h *GroupsHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "group deleted")
}

type RoutesHandler struct {
	service *application.RouteService
	logger  ports.Logger
}

func NewRoutesHandler(service *application.RouteService, logger ports.Logger) *RoutesHandler {
	return &RoutesHandler{service: service, logger: logger}
}

type routePayload struct {
	Route   string `json:"route"`
	Domain  string `json:"domain"`
	Active  bool   `json:"active"`
	Read    bool   `json:"read"`
	Create  bool   `json:"create"`
	Replace bool   `json:"replace"`
	Update  bool   `json:"update"`
	Delete  bool   `json:"delete"`
}

func (p routePayload) toDomain() domain.Route {
	return domain.Route{
		Route: p.Route, Domain: p.Domain, Active: p.Active,
		Read: p.Read, Create: p.Create, Replace: p.Replace, Update: p.Update, Delete: p.Delete,
	}
}

func (h *RoutesHandler) Create(c echo.Context) error {
	var req routePayload
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	if err := h.service.Create(c.Request().Context(), req.toDomain()); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusCreated, nil, "route registered")
}

func (h *RoutesHandler) Update(c echo.Context) error {
	var req routePayload
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	req.Route = c.Param("route")
	if err := h.service.Update(c.Request().Context(), req.toDomain()); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "route updated")
}

func (h *RoutesHandler) List(c echo.Context) error {
	routes, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, routes, "")
}

func (h *RoutesHandler) Get(c echo.Context) error {
	route, err := h.service.GetByRouteAndDomain(c.Request().Context(), c.Param("route"), c.QueryParam("domain"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, route, "")
}

func (h *RoutesHandler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), c.Param("route"), c.QueryParam("domain"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "route removed")
}

type CoursesHandler struct {
	service *application.CourseService
	logger  ports.Logger
}

func NewCoursesHandler(service *application.CourseService, logger ports.Logger) *CoursesHandler {
	return &CoursesHandler{service: service, logger: logger}
}

func (h *CoursesHandler) Create(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	course, err := h.service.Create(c.Request().Context(), domain.Course{Name: req.Name, Description: req.Description})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusCreated, course, "course created")
}

func (h *CoursesHandler) Update(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Active      bool   `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	err := h.service.Update(c.Request().Context(), domain.Course{
		ID: c.Param("id"), Name: req.Name, Description: req.Description, Active: req.Active,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "course updated")
}

func (h *CoursesHandler) Get(c echo.Context) error {
	course, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, course, "")
}

func (h *CoursesHandler) List(c echo.Context) error {
	courses, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, courses, "")
}

func (h *CoursesHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "course deleted")
}

type LessonsHandler struct {
	service *application.LessonService
	logger  ports.Logger
}

func NewLessonsHandler(service *application.LessonService, logger ports.Logger) *LessonsHandler {
	return &LessonsHandler{service: service, logger: logger}
}

func (h *LessonsHandler) Create(c echo.Context) error {
	var req struct {
		CourseID string `json:"course_id"`
		Name     string `json:"name"`
		Content  string `json:"content"`
		VideoURL string `json:"video_url"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	lesson, err := h.service.Create(c.Request().Context(), domain.Lesson{
		CourseID: req.CourseID, Name: req.Name, Content: req.Content, VideoURL: req.VideoURL,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusCreated, lesson, "lesson created")
}

func (h *LessonsHandler) Update(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Content  string `json:"content"`
		VideoURL string `json:"video_url"`
		Active   bool   `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, stdhttp.StatusBadRequest, "invalid payload")
	}
	err := h.service.Update(c.Request().Context(), domain.Lesson{
		CourseID: c.Param("course_id"), ID: c.Param("lesson_id"),
		Name: req.Name, Content: req.Content, VideoURL: req.VideoURL, Active: req.Active,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "lesson updated")
}

func (h *LessonsHandler) Get(c echo.Context) error {
	lesson, err := h.service.GetByID(c.Request().Context(), c.Param("course_id"), c.Param("lesson_id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, lesson, "")
}

func (h *LessonsHandler) List(c echo.Context) error {
	lessons, err := h.service.ListByCourseID(c.Request().Context(), c.Param("course_id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, lessons, "")
}

func (h *LessonsHandler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), c.Param("course_id"), c.Param("lesson_id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return respond.JSON(c, stdhttp.StatusOK, nil, "lesson deleted")
}
