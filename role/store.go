package role

import (
	"context"

	"github.com/xraph/steward/id"
)

// Store defines persistence operations for roles, the role↔permission
// junction, and the user↔role junction.
type Store interface {
	// CreateRole persists a new role.
	CreateRole(ctx context.Context, r *Role) error

	// GetRole retrieves a role by ID.
	GetRole(ctx context.Context, roleID id.RoleID) (*Role, error)

	// GetRoleByKey retrieves a role by org and key.
	GetRoleByKey(ctx context.Context, orgID id.OrgID, key string) (*Role, error)

	// UpdateRole persists changes to a role.
	UpdateRole(ctx context.Context, r *Role) error

	// DeleteRole removes a role by ID.
	DeleteRole(ctx context.Context, roleID id.RoleID) error

	// ListRoles returns roles matching the filter.
	ListRoles(ctx context.Context, filter *ListFilter) ([]*Role, error)

	// CountRoles returns the number of roles matching the filter.
	CountRoles(ctx context.Context, filter *ListFilter) (int64, error)

	// AttachPermission links a permission to a role. Idempotent.
	AttachPermission(ctx context.Context, roleID id.RoleID, permID id.PermissionID) error

	// DetachPermission removes a permission from a role.
	DetachPermission(ctx context.Context, roleID id.RoleID, permID id.PermissionID) error

	// SetRolePermissions replaces all permissions for a role.
	SetRolePermissions(ctx context.Context, roleID id.RoleID, permIDs []id.PermissionID) error

	// ListRolePermissionKeys returns the permission keys attached to a role.
	ListRolePermissionKeys(ctx context.Context, roleID id.RoleID) ([]string, error)

	// AssignRole binds a role to a user. Idempotent.
	AssignRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error

	// UnassignRole removes a role from a user.
	UnassignRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error

	// ListRolesForUser returns all roles held by a user.
	ListRolesForUser(ctx context.Context, userID id.UserID) ([]*Role, error)

	// ListPermissionKeysForUser returns the union of permission keys reachable
	// through all of the user's roles. A user with no roles yields an empty
	// slice, never an error.
	ListPermissionKeysForUser(ctx context.Context, userID id.UserID) ([]string, error)
}
