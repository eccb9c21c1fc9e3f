package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"course-platform/internal/domain"
)

type lessonRepoMock struct{ mock.Mock }

func (m *lessonRepoMock) Create(ctx context.Context, lesson domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *lessonRepoMock) Update(ctx context.Context, lesson domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *lessonRepoMock) GetByID(ctx context.Context, courseID, lessonID string) (domain.Lesson, error) {
	args := m.Called(ctx, courseID, lessonID)
	return args.Get(0).(domain.Lesson), args.Error(1)
}

func (m *lessonRepoMock) ListByCourseID(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]domain.Lesson), args.Error(1)
}

func (m *lessonRepoMock) Delete(ctx context.Context, courseID, lessonID string) error {
	args := m.Called(ctx, courseID, lessonID)
	return args.Error(0)
}

func TestUserService_DeletePermanentRefusedWhileEnrolled(t *testing.T) {
	repo := new(userRepoMock)
	svc := NewUserService(repo)

	repo.On("GetByID", mock.Anything, "u1").Return(domain.User{ID: "u1", CoursesIDs: []string{"c1"}}, nil)

	err := svc.DeletePermanent(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	repo.AssertNotCalled(t, "DeletePermanent", mock.Anything, mock.Anything)
}

func TestUserService_DeletePermanentWithoutEnrollments(t *testing.T) {
	repo := new(userRepoMock)
	svc := NewUserService(repo)

	repo.On("GetByID", mock.Anything, "u1").Return(domain.User{ID: "u1"}, nil)
	repo.On("DeletePermanent", mock.Anything, "u1").Return(nil)

	require.NoError(t, svc.DeletePermanent(context.Background(), "u1"))
	repo.AssertExpectations(t)
}

func TestUserService_DeleteIsSoft(t *testing.T) {
	repo := new(userRepoMock)
	svc := NewUserService(repo)
	repo.On("Delete", mock.Anything, "u1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	repo.AssertNotCalled(t, "DeletePermanent", mock.Anything, mock.Anything)
}

func TestGroupService_CreateAssignsIDAndNormalizesRoutes(t *testing.T) {
	repo := new(groupRepoMock)
	svc := NewGroupService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(g domain.Group) bool {
		return g.ID != "" && len(g.Permissions) == 1 && g.Permissions[0].Route == "courses"
	})).Return(nil)

	created, err := svc.Create(context.Background(), domain.Group{
		Name:        "students",
		Permissions: []domain.Permission{{Route: "  Courses ", Domain: "localhost", Active: true, Read: true}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "courses", created.Permissions[0].Route)
	repo.AssertExpectations(t)
}

func TestGroupService_RejectsDuplicatePermissionPair(t *testing.T) {
	svc := NewGroupService(new(groupRepoMock))

	_, err := svc.Create(context.Background(), domain.Group{
		Name: "students",
		Permissions: []domain.Permission{
			{Route: "courses", Domain: "localhost", Read: true},
			{Route: "Courses", Domain: "localhost", Create: true},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGroupService_SamePairOnDifferentDomainsAllowed(t *testing.T) {
	repo := new(groupRepoMock)
	svc := NewGroupService(repo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), domain.Group{
		Name: "students",
		Permissions: []domain.Permission{
			{Route: "courses", Domain: "localhost", Read: true},
			{Route: "courses", Domain: "app.example.com", Read: true},
		},
	})
	assert.NoError(t, err)
}

func TestRouteService_NormalizesNameOnWriteAndLookup(t *testing.T) {
	repo := new(routeRepoMock)
	svc := NewRouteService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(r domain.Route) bool {
		return r.Route == "courses" && r.Domain == "localhost"
	})).Return(nil)
	repo.On("GetByRouteAndDomain", mock.Anything, "courses", "localhost").Return(domain.Route{Route: "courses", Domain: "localhost"}, nil)

	require.NoError(t, svc.Create(context.Background(), domain.Route{Route: " Courses ", Domain: "localhost", Active: true}))

	got, err := svc.GetByRouteAndDomain(context.Background(), "COURSES", "localhost")
	require.NoError(t, err)
	assert.Equal(t, "courses", got.Route)
	repo.AssertExpectations(t)
}

func TestRouteService_EmptyRouteOrDomainRejected(t *testing.T) {
	svc := NewRouteService(new(routeRepoMock))

	err := svc.Create(context.Background(), domain.Route{Route: "  ", Domain: "localhost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Create(context.Background(), domain.Route{Route: "courses", Domain: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCourseService_CreateActivatesAndAssignsID(t *testing.T) {
	repo := new(courseRepoMock)
	svc := NewCourseService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Course) bool {
		return c.ID != "" && c.Active
	})).Return(nil)

	created, err := svc.Create(context.Background(), domain.Course{Name: "Go from scratch"})
	require.NoError(t, err)
	assert.True(t, created.Active)
	repo.AssertExpectations(t)
}

func TestLessonService_CreateRequiresExistingCourse(t *testing.T) {
	lessons := new(lessonRepoMock)
	courses := new(courseRepoMock)
	svc := NewLessonService(lessons, courses)

	courses.On("GetByID", mock.Anything, "missing").Return(domain.Course{}, domain.ErrNotFound)

	_, err := svc.Create(context.Background(), domain.Lesson{CourseID: "missing", Name: "intro"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	lessons.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLessonService_CreateUnderExistingCourse(t *testing.T) {
	lessons := new(lessonRepoMock)
	courses := new(courseRepoMock)
	svc := NewLessonService(lessons, courses)

	courses.On("GetByID", mock.Anything, "c1").Return(domain.Course{ID: "c1", Name: "Go"}, nil)
	lessons.On("Create", mock.Anything, mock.MatchedBy(func(l domain.Lesson) bool {
		return l.ID != "" && l.CourseID == "c1" && l.Active
	})).Return(nil)

	created, err := svc.Create(context.Background(), domain.Lesson{CourseID: "c1", Name: "intro"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	lessons.AssertExpectations(t)
}
