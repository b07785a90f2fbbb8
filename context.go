package steward

import (
	"context"
	"sync"

	"github.com/xraph/steward/id"
)

type contextKey int

const (
	ctxKeyIdentity contextKey = iota
	ctxKeyPermissionMemo
)

// WithIdentity returns a context carrying the authenticated identity.
// Use this for standalone mode (without Forge).
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, ident)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return ident, ok
}

// permissionMemo memoizes resolved permission sets within one request.
// It lives in the request context and dies with it; cross-request reuse
// goes through the Cache instead.
type permissionMemo struct {
	mu   sync.Mutex
	sets map[string]PermissionSet
}

// WithPermissionMemo returns a context that memoizes effective-permission
// resolution for its lifetime. Several gates on one request then share a
// single store round-trip per user.
func WithPermissionMemo(ctx context.Context) context.Context {
	if _, ok := ctx.Value(ctxKeyPermissionMemo).(*permissionMemo); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyPermissionMemo, &permissionMemo{
		sets: make(map[string]PermissionSet),
	})
}

func memoFromContext(ctx context.Context) *permissionMemo {
	m, _ := ctx.Value(ctxKeyPermissionMemo).(*permissionMemo)
	return m
}

// get and set clone at the memo boundary so a caller mutating a returned
// set cannot pollute later checks on the same request.
func (m *permissionMemo) get(userID id.UserID) (PermissionSet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[userID.String()]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

func (m *permissionMemo) set(userID id.UserID, s PermissionSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[userID.String()] = s.Clone()
}
