package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-platform/internal/application"
	"course-platform/internal/domain"
	"course-platform/internal/ports"
)

type routeRepoStub struct {
	ports.RouteRepository
	route domain.Route
	err   error
}

func (s routeRepoStub) GetByRouteAndDomain(context.Context, string, string) (domain.Route, error) {
	return s.route, s.err
}

type groupRepoStub struct {
	ports.GroupRepository
	groups []domain.Group
	err    error
}

func (s groupRepoStub) GetByIDs(context.Context, []string) ([]domain.Group, error) {
	return s.groups, s.err
}

func openRoute(name string) domain.Route {
	return domain.Route{
		Route: name, Domain: "localhost", Active: true,
		Read: true, Create: true, Replace: true, Update: true, Delete: true,
	}
}

type authorizeFixture struct {
	tokens *application.TokenService
	users  userRepoStub
	routes routeRepoStub
	groups groupRepoStub
}

func newAuthorize(f authorizeFixture) (mw func(*testing.T, *http.Request) (*httptest.ResponseRecorder, string, bool)) {
	authz := application.NewAuthorizationService(f.users, f.groups, stubLogger{})
	chain := Authorize(f.tokens, f.routes, authz, stubLogger{}, "localhost")
	return func(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string, bool) {
		rec, c, reached := invoke(t, chain, req)
		userID, _ := c.Get(ContextUserID).(string)
		return rec, userID, reached
	}
}

func bearerRequest(t *testing.T, tokens *application.TokenService, method, target, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		token, err := tokens.GenerateAccessToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthorize_NoTokenProvided(t *testing.T) {
	tokens := newTokens()
	run := newAuthorize(authorizeFixture{tokens: tokens, routes: routeRepoStub{route: openRoute("users")}})

	rec, _, reached := run(t, bearerRequest(t, tokens, http.MethodGet, "/users", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthorize_UnregisteredRouteAnswers404(t *testing.T) {
	tokens := newTokens()
	run := newAuthorize(authorizeFixture{
		tokens: tokens,
		routes: routeRepoStub{err: domain.ErrNotFound},
	})

	rec, _, reached := run(t, bearerRequest(t, tokens, http.MethodGet, "/unmapped", "u1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "route not registered")
}

func TestAuthorize_UnmappedVerbAnswers405(t *testing.T) {
	tokens := newTokens()
	run := newAuthorize(authorizeFixture{
		tokens: tokens,
		routes: routeRepoStub{route: openRoute("users")},
	})

	rec, _, reached := run(t, bearerRequest(t, tokens, http.MethodOptions, "/users", "u1"))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, reached)
}

func TestAuthorize_RouteCapabilitySwitchedOff(t *testing.T) {
	tokens := newTokens()
	route := openRoute("users")
	route.Delete = false
	run := newAuthorize(authorizeFixture{
		tokens: tokens,
		routes: routeRepoStub{route: route},
		users: userRepoStub{user: domain.User{
			ID: "u1", Active: true,
			Permissions: []domain.Permission{{Route: "users", Domain: "localhost", Active: true, Delete: true}},
		}},
	})

	// The user's own grant allows delete, but the route switches the verb off
	// for everyone.
	rec, _, reached := run(t, bearerRequest(t, tokens, http.MethodDelete, "/users/u2", "u1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestAuthorize_DeniedWithoutGrant(t *testing.T) {
	tokens := newTokens()
	run := newAuthorize(authorizeFixture{
		tokens: tokens,
		routes: routeRepoStub{route: openRoute("users")},
		users:  userRepoStub{user: domain.User{ID: "u1", Active: true}},
	})

	rec, _, reached := run(t, bearerRequest(t, tokens, http.MethodGet, "/users", "u1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestAuthorize_ResolutionFaultDenies(t *testing.T) {
	tokens := newTokens()
	run := newAuthorize(authorizeFixture{
		tokens: tokens,
		routes: routeRepoStub{route: openRoute("users")},
		users:  userRepoStub{err: errors.New("db down")},
	})

	rec, _, reached := run(t, bearerRequest(t, tokens, http.MethodGet, "/users", "u1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestAuthorize_GrantedRequestSetsUserID(t *testing.T) {
	tokens := newTokens()
	run := newAuthorize(authorizeFixture{
		tokens: tokens,
		routes: routeRepoStub{route: openRoute("users")},
		users: userRepoStub{user: domain.User{
			ID: "u1", Active: true,
			Permissions: []domain.Permission{{Route: "users", Domain: "localhost", Active: true, Read: true}},
		}},
	})

	rec, userID, reached := run(t, bearerRequest(t, tokens, http.MethodGet, "/users/u2", "u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, "u1", userID)
}

func TestAuthorize_AdminGroupBypassesRouteGrants(t *testing.T) {
	tokens := newTokens()
	run := newAuthorize(authorizeFixture{
		tokens: tokens,
		routes: routeRepoStub{route: openRoute("routes")},
		users:  userRepoStub{user: domain.User{ID: "u1", Active: true, Groups: []string{"g1"}}},
		groups: groupRepoStub{groups: []domain.Group{{ID: "g1", Name: "administrators", Active: true}}},
	})

	rec, _, reached := run(t, bearerRequest(t, tokens, http.MethodPost, "/routes", "u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRouteName(t *testing.T) {
	assert.Equal(t, "users", routeName("/users"))
	assert.Equal(t, "users", routeName("/users/u1/permanent"))
	assert.Equal(t, "courses", routeName("/Courses/c1"))
	assert.Equal(t, "", routeName("/"))
}
