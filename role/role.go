// Package role defines the Role entity and its store interface.
package role

import (
	"time"

	"github.com/xraph/steward/id"
)

// Role is a named bundle of permission keys assignable to users within an
// organization. System roles are seeded and cannot be deleted.
type Role struct {
	ID          id.RoleID `json:"id" db:"id"`
	OrgID       id.OrgID  `json:"org_id" db:"org_id"`
	Key         string    `json:"key" db:"key"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	IsSystem    bool      `json:"is_system" db:"is_system"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing roles.
type ListFilter struct {
	OrgID    id.OrgID `json:"org_id,omitempty"`
	IsSystem *bool    `json:"is_system,omitempty"`
	Search   string   `json:"search,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
}
