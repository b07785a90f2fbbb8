// Package override defines the per-user permission override entity.
package override

import (
	"time"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/permission"
)

// Override is a per-(user, permission key) allow or deny that takes
// precedence over role-derived grants. At most one override exists per
// pair; writing again replaces the prior effect.
type Override struct {
	ID            id.OverrideID     `json:"id" db:"id"`
	OrgID         id.OrgID          `json:"org_id" db:"org_id"`
	UserID        id.UserID         `json:"user_id" db:"user_id"`
	PermissionKey string            `json:"permission_key" db:"permission_key"`
	Effect        permission.Effect `json:"effect" db:"effect"`
	GrantedBy     id.UserID         `json:"granted_by,omitempty" db:"granted_by"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing overrides.
type ListFilter struct {
	OrgID         id.OrgID           `json:"org_id,omitempty"`
	UserID        id.UserID          `json:"user_id,omitempty"`
	PermissionKey string             `json:"permission_key,omitempty"`
	Effect        *permission.Effect `json:"effect,omitempty"`
	Limit         int                `json:"limit,omitempty"`
	Offset        int                `json:"offset,omitempty"`
}
