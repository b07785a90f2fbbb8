// Package building defines the Building entity and its store interface.
package building

import (
	"time"

	"github.com/xraph/steward/id"
)

// Building is an org-owned property. Every access decision that touches a
// building first proves the building belongs to the caller's org.
type Building struct {
	ID        id.BuildingID `json:"id" db:"id"`
	OrgID     id.OrgID      `json:"org_id" db:"org_id"`
	Name      string        `json:"name" db:"name"`
	Address   string        `json:"address,omitempty" db:"address"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing buildings.
type ListFilter struct {
	OrgID  id.OrgID `json:"org_id,omitempty"`
	Search string   `json:"search,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}
