package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"course-platform/internal/domain"
	"course-platform/internal/ports"
)

// RouteCache is a read-through decorator over a RouteRepository. The authorize
// middleware hits the route table once per request, so lookups are served from
// an LRU and invalidated on every write.
type RouteCache struct {
	inner ports.RouteRepository
	lru   *lru.Cache[string, domain.Route]
}

func NewRouteCache(inner ports.RouteRepository, size int) (*RouteCache, error) {
	l, err := lru.New[string, domain.Route](size)
	if err != nil {
		return nil, err
	}
	return &RouteCache{inner: inner, lru: l}, nil
}

func cacheKey(routeName, domainName string) string {
	return routeName + "|" + domainName
}

func (c *RouteCache) GetByRouteAndDomain(ctx context.Context, routeName, domainName string) (domain.Route, error) {
	key := cacheKey(routeName, domainName)
	if route, ok := c.lru.Get(key); ok {
		return route, nil
	}
	route, err := c.inner.GetByRouteAndDomain(ctx, routeName, domainName)
	if err != nil {
		return domain.Route{}, err
	}
	c.lru.Add(key, route)
	return route, nil
}

func (c *RouteCache) Create(ctx context.Context, route domain.Route) error {
	if err := c.inner.Create(ctx, route); err != nil {
		return err
	}
	c.lru.Remove(cacheKey(route.Route, route.Domain))
	return nil
}

func (c *RouteCache) Update(ctx context.Context, route domain.Route) error {
	if err := c.inner.Update(ctx, route); err != nil {
		return err
	}
	c.lru.Remove(cacheKey(route.Route, route.Domain))
	return nil
}

func (c *RouteCache) Delete(ctx context.Context, routeName, domainName string) error {
	if err := c.inner.Delete(ctx, routeName, domainName); err != nil {
		return err
	}
	c.lru.Remove(cacheKey(routeName, domainName))
	return nil
}

func (c *RouteCache) List(ctx context.Context) ([]domain.Route, error) {
	return c.inner.List(ctx)
}
