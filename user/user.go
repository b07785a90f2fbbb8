// Package user defines the User entity and its store interface.
package user

import (
	"time"

	"github.com/xraph/steward/id"
)

// User is an org member referenced by roles, overrides, assignments and
// occupancies. The engine does not own authentication; it only needs the
// user's org membership.
type User struct {
	ID        id.UserID `json:"id" db:"id"`
	OrgID     id.OrgID  `json:"org_id" db:"org_id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name,omitempty" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing users.
type ListFilter struct {
	OrgID  id.OrgID `json:"org_id,omitempty"`
	Search string   `json:"search,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}
