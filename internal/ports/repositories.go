package ports

import (
	"context"
	"time"

	"course-platform/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	Update(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, userID string) error
	DeletePermanent(ctx context.Context, userID string) error

	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error
	SetRecovery(ctx context.Context, userID, code, token string, expiry time.Time) error
	GetByRecoveryCode(ctx context.Context, code string) (domain.User, error)
	GetByRecoveryToken(ctx context.Context, token string) (domain.User, error)
	RecoveryCodeExists(ctx context.Context, code string) (bool, error)
	// UpdatePassword persists the new hash and clears all recovery state.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type GroupRepository interface {
	Create(ctx context.Context, group domain.Group) error
	Update(ctx context.Context, group domain.Group) error
	GetByID(ctx context.Context, groupID string) (domain.Group, error)
	GetByIDs(ctx context.Context, groupIDs []string) ([]domain.Group, error)
	List(ctx context.Context) ([]domain.Group, error)
	Delete(ctx context.Context, groupID string) error
}

type RouteRepository interface {
	Create(ctx context.Context, route domain.Route) error
	Update(ctx context.Context, route domain.Route) error
	GetByRouteAndDomain(ctx context.Context, routeName, domainName string) (domain.Route, error)
	List(ctx context.Context) ([]domain.Route, error)
	Delete(ctx context.Context, routeName, domainName string) error
}

type CourseRepository interface {
	Create(ctx context.Context, course domain.Course) error
	Update(ctx context.Context, course domain.Course) error
	GetByID(ctx context.Context, courseID string) (domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Delete(ctx context.Context, courseID string) error
}

type LessonRepository interface {
	Create(ctx context.Context, lesson domain.Lesson) error
	Update(ctx context.Context, lesson domain.Lesson) error
	GetByID(ctx context.Context, courseID, lessonID string) (domain.Lesson, error)
	ListByCourseID(ctx context.Context, courseID string) ([]domain.Lesson, error)
	Delete(ctx context.Context, courseID, lessonID string) error
}
