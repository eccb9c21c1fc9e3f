package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"course-platform/internal/domain"
	"course-platform/internal/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, user domain.User) error {
	if user.ID == "" || user.Name == "" || user.Email == "" {
		return domain.ErrInvalidInput
	}
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

// Delete deactivates the user; the record and its references survive.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	return s.repo.Delete(ctx, userID)
}

// DeletePermanent removes the record outright. Refused while the user still
// has course enrollments.
func (s *UserService) DeletePermanent(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if len(user.CoursesIDs) > 0 {
		return domain.ErrConflict
	}
	return s.repo.DeletePermanent(ctx, userID)
}

type GroupService struct {
	repo ports.GroupRepository
}

func NewGroupService(repo ports.GroupRepository) *GroupService {
	return &GroupService{repo: repo}
}

// validatePermissions rejects duplicate (route, domain) pairs inside one
// group's permission list and normalizes route names.
func validatePermissions(permissions []domain.Permission) ([]domain.Permission, error) {
	seen := make(map[string]struct{}, len(permissions))
	out := make([]domain.Permission, 0, len(permissions))
	for _, p := range permissions {
		p.Route = strings.ToLower(strings.TrimSpace(p.Route))
		if p.Route == "" || p.Domain == "" {
			return nil, domain.ErrInvalidInput
		}
		key := p.Route + "|" + p.Domain
		if _, dup := seen[key]; dup {
			return nil, domain.ErrInvalidInput
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func (s *GroupService) Create(ctx context.Context, group domain.Group) (domain.Group, error) {
	if group.Name == "" {
		return domain.Group{}, domain.ErrInvalidInput
	}
	permissions, err := validatePermissions(group.Permissions)
	if err != nil {
		return domain.Group{}, err
	}
	now := time.Now().UTC()
	group.ID = uuid.NewString()
	group.Permissions = permissions
	group.CreatedAt = now
	group.UpdatedAt = now
	if err := s.repo.Create(ctx, group); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

func (s *GroupService) Update(ctx context.Context, group domain.Group) error {
	if group.ID == "" || group.Name == "" {
		return domain.ErrInvalidInput
	}
	permissions, err := validatePermissions(group.Permissions)
	if err != nil {
		return err
	}
	group.Permissions = permissions
	group.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, group)
}

func (s *GroupService) GetByID(ctx context.Context, groupID string) (domain.Group, error) {
	if groupID == "" {
		return domain.Group{}, domain.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, groupID)
}

func (s *GroupService) List(ctx context.Context) ([]domain.Group, error) {
	return s.repo.List(ctx)
}

func (s *GroupService) Delete(ctx context.Context, groupID string) error {
	if groupID == "" {
		return domain.ErrInvalidInput
	}
	return s.repo.Delete(ctx, groupID)
}

type RouteService struct {
	repo ports.RouteRepository
}

func NewRouteService(repo ports.RouteRepository) *RouteService {
	return &RouteService{repo: repo}
}

func normalizeRoute(route domain.Route) (domain.Route, error) {
	route.Route = strings.ToLower(strings.TrimSpace(route.Route))
	if route.Route == "" || route.Domain == "" {
		return domain.Route{}, domain.ErrInvalidInput
	}
	return route, nil
}

func (s *RouteService) Create(ctx context.Context, route domain.Route) error {
	route, err := normalizeRoute(route)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	route.CreatedAt = now
	route.UpdatedAt = now
	return s.repo.Create(ctx, route)
}

func (s *RouteService) Update(ctx context.Context, route domain.Route) error {
	route, err := normalizeRoute(route)
	if err != nil {
		return err
	}
	route.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, route)
}

func (s *RouteService) GetByRouteAndDomain(ctx context.Context, routeName, domainName string) (domain.Route, error) {
	if routeName == "" || domainName == "" {
		return domain.Route{}, domain.ErrInvalidInput
	}
	return s.repo.GetByRouteAndDomain(ctx, strings.ToLower(strings.TrimSpace(routeName)), domainName)
}

func (s *RouteService) List(ctx context.Context) ([]domain.Route, error) {
	return s.repo.List(ctx)
}

func (s *RouteService) Delete(ctx context.Context, routeName, domainName string) error {
	if routeName == "" || domainName == "" {
		return domain.ErrInvalidInput
	}
	return s.repo.Delete(ctx, strings.ToLower(strings.TrimSpace(routeName)), domainName)
}

type CourseService struct {
	repo ports.CourseRepository
}

func NewCourseService(repo ports.CourseRepository) *CourseService {
	return &CourseService{repo: repo}
}

func (s *CourseService) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	if course.Name == "" {
		return domain.Course{}, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	course.ID = uuid.NewString()
	course.Active = true
	course.CreatedAt = now
	course.UpdatedAt = now
	if err := s.repo.Create(ctx, course); err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, course domain.Course) error {
	if course.ID == "" || course.Name == "" {
		return domain.ErrInvalidInput
	}
	course.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, course)
}

func (s *CourseService) GetByID(ctx context.Context, courseID string) (domain.Course, error) {
	if courseID == "" {
		return domain.Course{}, domain.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, courseID)
}

func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.repo.List(ctx)
}

func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	if courseID == "" {
		return domain.ErrInvalidInput
	}
	return s.repo.Delete(ctx, courseID)
}

type LessonService struct {
	repo       ports.LessonRepository
	courseRepo ports.CourseRepository
}

func NewLessonService(repo ports.LessonRepository, courseRepo ports.CourseRepository) *LessonService {
	return &LessonService{repo: repo, courseRepo: courseRepo}
}

func (s *LessonService) Create(ctx context.Context, lesson domain.Lesson) (domain.Lesson, error) {
	if lesson.CourseID == "" || lesson.Name == "" {
		return domain.Lesson{}, domain.ErrInvalidInput
	}
	if _, err := s.courseRepo.GetByID(ctx, lesson.CourseID); err != nil {
		return domain.Lesson{}, err
	}
	now := time.Now().UTC()
	lesson.ID = uuid.NewString()
	lesson.Active = true
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	if err := s.repo.Create(ctx, lesson); err != nil {
		return domain.Lesson{}, err
	}
	return lesson, nil
}

func (s *LessonService) Update(ctx context.Context, lesson domain.Lesson) error {
	if lesson.CourseID == "" || lesson.ID == "" || lesson.Name == "" {
		return domain.ErrInvalidInput
	}
	lesson.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, lesson)
}

func (s *LessonService) GetByID(ctx context.Context, courseID, lessonID string) (domain.Lesson, error) {
	if courseID == "" || lessonID == "" {
		return domain.Lesson{}, domain.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, courseID, lessonID)
}

func (s *LessonService) ListByCourseID(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	if courseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.repo.ListByCourseID(ctx, courseID)
}

func (s *LessonService) Delete(ctx context.Context, courseID, lessonID string) error {
	if courseID == "" || lessonID == "" {
		return domain.ErrInvalidInput
	}
	return s.repo.Delete(ctx, courseID, lessonID)
}
