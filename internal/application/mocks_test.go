package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"course-platform/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Debug(context.Context, string, ...any) {}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) Update(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) GetByID(ctx context.Context, userID string) (domain.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userRepoMock) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *userRepoMock) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *userRepoMock) DeletePermanent(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *userRepoMock) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	args := m.Called(ctx, userID, refreshToken)
	return args.Error(0)
}

func (m *userRepoMock) SetRecovery(ctx context.Context, userID, code, token string, expiry time.Time) error {
	args := m.Called(ctx, userID, code, token, expiry)
	return args.Error(0)
}

func (m *userRepoMock) GetByRecoveryCode(ctx context.Context, code string) (domain.User, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userRepoMock) GetByRecoveryToken(ctx context.Context, token string) (domain.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userRepoMock) RecoveryCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

type groupRepoMock struct{ mock.Mock }

func (m *groupRepoMock) Create(ctx context.Context, group domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *groupRepoMock) Update(ctx context.Context, group domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *groupRepoMock) GetByID(ctx context.Context, groupID string) (domain.Group, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(domain.Group), args.Error(1)
}

func (m *groupRepoMock) GetByIDs(ctx context.Context, groupIDs []string) ([]domain.Group, error) {
	args := m.Called(ctx, groupIDs)
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *groupRepoMock) List(ctx context.Context) ([]domain.Group, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *groupRepoMock) Delete(ctx context.Context, groupID string) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

type routeRepoMock struct{ mock.Mock }

func (m *routeRepoMock) Create(ctx context.Context, route domain.Route) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func (m *routeRepoMock) Update(ctx context.Context, route domain.Route) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func (m *routeRepoMock) GetByRouteAndDomain(ctx context.Context, routeName, domainName string) (domain.Route, error) {
	args := m.Called(ctx, routeName, domainName)
	return args.Get(0).(domain.Route), args.Error(1)
}

func (m *routeRepoMock) List(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *routeRepoMock) Delete(ctx context.Context, routeName, domainName string) error {
	args := m.Called(ctx, routeName, domainName)
	return args.Error(0)
}

type courseRepoMock struct{ mock.Mock }

func (m *courseRepoMock) Create(ctx context.Context, course domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *courseRepoMock) Update(ctx context.Context, course domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *courseRepoMock) GetByID(ctx context.Context, courseID string) (domain.Course, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(domain.Course), args.Error(1)
}

func (m *courseRepoMock) List(ctx context.Context) ([]domain.Course, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *courseRepoMock) Delete(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

type mailerMock struct{ mock.Mock }

func (m *mailerMock) SendPasswordRecovery(ctx context.Context, to, code, resetLink string) error {
	args := m.Called(ctx, to, code, resetLink)
	return args.Error(0)
}
