package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-platform/internal/domain"
	"course-platform/internal/ports"
)

type countingRouteRepo struct {
	ports.RouteRepository
	routes map[string]domain.Route
	gets   int
}

func key(routeName, domainName string) string { return routeName + "|" + domainName }

func (r *countingRouteRepo) GetByRouteAndDomain(_ context.Context, routeName, domainName string) (domain.Route, error) {
	r.gets++
	route, ok := r.routes[key(routeName, domainName)]
	if !ok {
		return domain.Route{}, domain.ErrNotFound
	}
	return route, nil
}

func (r *countingRouteRepo) Update(_ context.Context, route domain.Route) error {
	r.routes[key(route.Route, route.Domain)] = route
	return nil
}

func (r *countingRouteRepo) Delete(_ context.Context, routeName, domainName string) error {
	delete(r.routes, key(routeName, domainName))
	return nil
}

func newCountingRepo(routes ...domain.Route) *countingRouteRepo {
	m := make(map[string]domain.Route, len(routes))
	for _, r := range routes {
		m[key(r.Route, r.Domain)] = r
	}
	return &countingRouteRepo{routes: m}
}

func TestRouteCache_ReadThrough(t *testing.T) {
	repo := newCountingRepo(domain.Route{Route: "users", Domain: "localhost", Active: true, Read: true})
	c, err := NewRouteCache(repo, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		route, err := c.GetByRouteAndDomain(context.Background(), "users", "localhost")
		require.NoError(t, err)
		assert.True(t, route.Read)
	}
	assert.Equal(t, 1, repo.gets)
}

func TestRouteCache_MissesAreNotCached(t *testing.T) {
	repo := newCountingRepo()
	c, err := NewRouteCache(repo, 8)
	require.NoError(t, err)

	_, err = c.GetByRouteAndDomain(context.Background(), "ghost", "localhost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.GetByRouteAndDomain(context.Background(), "ghost", "localhost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, repo.gets)
}

func TestRouteCache_UpdateInvalidates(t *testing.T) {
	repo := newCountingRepo(domain.Route{Route: "users", Domain: "localhost", Read: true})
	c, err := NewRouteCache(repo, 8)
	require.NoError(t, err)

	_, err = c.GetByRouteAndDomain(context.Background(), "users", "localhost")
	require.NoError(t, err)

	require.NoError(t, c.Update(context.Background(), domain.Route{Route: "users", Domain: "localhost", Read: false}))

	route, err := c.GetByRouteAndDomain(context.Background(), "users", "localhost")
	require.NoError(t, err)
	assert.False(t, route.Read)
	assert.Equal(t, 2, repo.gets)
}

func TestRouteCache_DeleteInvalidates(t *testing.T) {
	repo := newCountingRepo(domain.Route{Route: "users", Domain: "localhost", Read: true})
	c, err := NewRouteCache(repo, 8)
	require.NoError(t, err)

	_, err = c.GetByRouteAndDomain(context.Background(), "users", "localhost")
	require.NoError(t, err)

	require.NoError(t, c.Delete(context.Background(), "users", "localhost"))

	_, err = c.GetByRouteAndDomain(context.Background(), "users", "localhost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
