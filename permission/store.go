package permission

import (
	"context"

	"github.com/xraph/steward/id"
)

// Store defines persistence operations for the permission catalog.
// Catalog entries are immutable once created; there is no update operation.
type Store interface {
	// CreatePermission persists a new catalog entry.
	CreatePermission(ctx context.Context, p *Permission) error

	// GetPermission retrieves a permission by ID.
	GetPermission(ctx context.Context, permID id.PermissionID) (*Permission, error)

	// GetPermissionByKey retrieves a permission by its stable key.
	GetPermissionByKey(ctx context.Context, key string) (*Permission, error)

	// DeletePermission removes a non-system permission by ID.
	DeletePermission(ctx context.Context, permID id.PermissionID) error

	// ListPermissions returns permissions matching the filter.
	ListPermissions(ctx context.Context, filter *ListFilter) ([]*Permission, error)

	// CountPermissions returns the number of permissions matching the filter.
	CountPermissions(ctx context.Context, filter *ListFilter) (int64, error)
}
