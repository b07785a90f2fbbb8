// Package cache provides caching implementations for Steward permission sets.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/steward"
	"github.com/xraph/steward/id"
)

// Compile-time interface check.
var _ steward.Cache = (*Memory)(nil)

// Memory is an in-memory permission-set cache with TTL-based expiration.
// Entries are indexed by org so a role or catalog change can drop every
// user in the org at once.
type Memory struct {
	mu      sync.RWMutex
	entries map[id.UserID]*entry
	byOrg   map[id.OrgID]map[id.UserID]struct{}
	maxSize int
}

type entry struct {
	set       steward.PermissionSet
	orgID     id.OrgID
	expiresAt time.Time
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[id.UserID]*entry),
		byOrg:   make(map[id.OrgID]map[id.UserID]struct{}),
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetPermissions returns a cached permission set, if present and unexpired.
func (m *Memory) GetPermissions(_ context.Context, userID id.UserID) (steward.PermissionSet, bool) {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		m.removeLocked(userID)
		m.mu.Unlock()
		return nil, false
	}
	return e.set.Clone(), true
}

// SetPermissions stores a permission set with the given TTL.
func (m *Memory) SetPermissions(_ context.Context, orgID id.OrgID, userID id.UserID, set steward.PermissionSet, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.maxSize {
		m.evictExpiredLocked()
		if len(m.entries) >= m.maxSize {
			m.evictOneLocked()
		}
	}

	if prev, ok := m.entries[userID]; ok && prev.orgID != orgID {
		m.unindexLocked(prev.orgID, userID)
	}
	m.entries[userID] = &entry{
		set:       set.Clone(),
		orgID:     orgID,
		expiresAt: time.Now().Add(ttl),
	}
	users, ok := m.byOrg[orgID]
	if !ok {
		users = make(map[id.UserID]struct{})
		m.byOrg[orgID] = users
	}
	users[userID] = struct{}{}
}

// InvalidateUser removes the cached set for a user.
func (m *Memory) InvalidateUser(_ context.Context, userID id.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(userID)
}

// InvalidateOrg removes all cached sets for an org.
func (m *Memory) InvalidateOrg(_ context.Context, orgID id.OrgID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID := range m.byOrg[orgID] {
		delete(m.entries, userID)
	}
	delete(m.byOrg, orgID)
}

// removeLocked deletes an entry and its org index. Must hold write lock.
func (m *Memory) removeLocked(userID id.UserID) {
	e, ok := m.entries[userID]
	if !ok {
		return
	}
	delete(m.entries, userID)
	m.unindexLocked(e.orgID, userID)
}

// unindexLocked drops a user from the org index. Must hold write lock.
func (m *Memory) unindexLocked(orgID id.OrgID, userID id.UserID) {
	users, ok := m.byOrg[orgID]
	if !ok {
		return
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(m.byOrg, orgID)
	}
}

// evictExpiredLocked removes all expired entries. Must hold write lock.
func (m *Memory) evictExpiredLocked() {
	now := time.Now()
	for userID, e := range m.entries {
		if now.After(e.expiresAt) {
			m.removeLocked(userID)
		}
	}
}

// evictOneLocked removes one arbitrary entry. Must hold write lock.
func (m *Memory) evictOneLocked() {
	for userID := range m.entries {
		m.removeLocked(userID)
		return
	}
}
