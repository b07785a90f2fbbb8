// Package occupancy defines the unit occupancy entity used to tie
// residents to buildings for read access.
package occupancy

import (
	"time"

	"github.com/xraph/steward/id"
)

// Status is the lifecycle state of an occupancy.
type Status string

const (
	// StatusActive marks a current occupancy. Only active occupancies
	// grant building read access.
	StatusActive Status = "active"

	// StatusEnded marks a concluded occupancy. Retained for history.
	StatusEnded Status = "ended"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusEnded
}

// Occupancy records a user occupying a unit within a building. A unit has
// at most one active occupancy at a time.
type Occupancy struct {
	ID         id.OccupancyID `json:"id" db:"id"`
	OrgID      id.OrgID       `json:"org_id" db:"org_id"`
	BuildingID id.BuildingID  `json:"building_id" db:"building_id"`
	UnitID     id.UnitID      `json:"unit_id" db:"unit_id"`
	UserID     id.UserID      `json:"user_id" db:"user_id"`
	Status     Status         `json:"status" db:"status"`
	StartedAt  time.Time      `json:"started_at" db:"started_at"`
	EndedAt    *time.Time     `json:"ended_at,omitempty" db:"ended_at"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// Active reports whether the occupancy currently grants access.
func (o *Occupancy) Active() bool {
	return o.Status == StatusActive
}

// ListFilter contains filters for listing occupancies.
type ListFilter struct {
	OrgID      id.OrgID      `json:"org_id,omitempty"`
	BuildingID id.BuildingID `json:"building_id,omitempty"`
	UnitID     id.UnitID     `json:"unit_id,omitempty"`
	UserID     id.UserID     `json:"user_id,omitempty"`
	Status     *Status       `json:"status,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	Offset     int           `json:"offset,omitempty"`
}
