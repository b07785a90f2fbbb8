package override

import (
	"context"

	"github.com/xraph/steward/id"
)

// Store defines persistence operations for permission overrides.
type Store interface {
	// SetOverride creates or replaces the override for the
	// (user, permission key) pair. Replace semantics, not additive.
	SetOverride(ctx context.Context, o *Override) error

	// ClearOverride removes the override for the (user, permission key) pair.
	ClearOverride(ctx context.Context, userID id.UserID, permissionKey string) error

	// GetOverride retrieves the override for the (user, permission key) pair.
	GetOverride(ctx context.Context, userID id.UserID, permissionKey string) (*Override, error)

	// ListOverridesForUser returns all overrides for a user.
	ListOverridesForUser(ctx context.Context, userID id.UserID) ([]*Override, error)

	// ListOverrides returns overrides matching the filter.
	ListOverrides(ctx context.Context, filter *ListFilter) ([]*Override, error)
}
