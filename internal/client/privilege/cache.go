// Package privilege caches the permission matrix for the session's current
// role and answers permission queries for the gates.
package privilege

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/facturapp/billing-system/internal/core/domain"
)

// Fetcher retrieves the permission matrix for one role from the API.
type Fetcher interface {
	FetchPrivileges(ctx context.Context, roleID string) (*domain.PrivilegeSet, error)
}

// sessionSource is the slice of the session store the cache needs.
type sessionSource interface {
	Current() domain.Session
}

// Cache holds at most one PrivilegeSet, always keyed to the role it was
// fetched for. It is the only writer; everything else reads through the
// query methods. No privileges loaded means access denied, never permit.
type Cache struct {
	mu         sync.Mutex
	set        *domain.PrivilegeSet
	loading    bool
	generation uint64

	fetcher Fetcher
	session sessionSource
	log     zerolog.Logger
}

func NewCache(fetcher Fetcher, session sessionSource, log zerolog.Logger) *Cache {
	return &Cache{fetcher: fetcher, session: session, log: log}
}

// LoadFor fetches the matrix for roleID, replacing whatever was cached.
// Each call supersedes any in-flight fetch: a result arriving after a newer
// call started is discarded, so the cache never holds another role's data.
// An empty roleID just clears the cache.
func (c *Cache) LoadFor(ctx context.Context, roleID string) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	if roleID == "" {
		c.set = nil
		c.loading = false
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.mu.Unlock()

	set, err := c.fetcher.FetchPrivileges(ctx, roleID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.log.Debug().Str("rol_id", roleID).Msg("discarding stale privilege fetch")
		return
	}
	c.loading = false
	if err != nil {
		c.log.Warn().Err(err).Str("rol_id", roleID).Msg("privilege fetch failed")
		c.set = nil
		return
	}
	c.set = set
}

// Refresh re-issues LoadFor with the session's current role id. No-op when
// the session has no role.
func (c *Cache) Refresh(ctx context.Context) {
	roleID := c.session.Current().RoleID
	if roleID == "" {
		return
	}
	c.LoadFor(ctx, roleID)
}

// Clear drops the cached set, e.g. on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.set = nil
	c.loading = false
}

// Loading reports whether a fetch is in flight.
func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Set returns the cached matrix, or nil when none is loaded. Callers must
// treat the result as read-only.
func (c *Cache) Set() *domain.PrivilegeSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set
}

// Has reports whether the cached matrix grants name. False whenever nothing
// is cached, or the grant is anything but exactly true.
func (c *Cache) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set.Allows(name)
}

// HasAny reports whether at least one of names is granted. A nil list is
// not a proper requirement and always answers false.
func (c *Cache) HasAny(names []string) bool {
	if names == nil {
		return false
	}
	for _, name := range names {
		if c.Has(name) {
			return true
		}
	}
	return false
}

// HasAll reports whether every one of names is granted. A nil list answers
// false; an empty list is vacuously true, matching the original semantics.
func (c *Cache) HasAll(names []string) bool {
	if names == nil {
		return false
	}
	for _, name := range names {
		if !c.Has(name) {
			return false
		}
	}
	return true
}
