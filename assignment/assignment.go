// Package assignment defines the building-scoped assignment entity
// (building→user role binding) and the assignment type priority order.
package assignment

import (
	"time"

	"github.com/xraph/steward/id"
)

// Type is a building-scoped role, independent of global roles.
type Type string

const (
	// TypeBuildingAdmin has unconditional read and write on the building.
	TypeBuildingAdmin Type = "building_admin"

	// TypeManager has read; write only where the endpoint opts in.
	TypeManager Type = "manager"

	// TypeStaff has read; never write through the generic decision path.
	TypeStaff Type = "staff"
)

// Valid reports whether t is a known assignment type.
func (t Type) Valid() bool {
	return t == TypeBuildingAdmin || t == TypeManager || t == TypeStaff
}

// TypePriority is the fixed priority order used to collapse multiple
// simultaneous assignment rows into one effective type. Earlier wins.
var TypePriority = []Type{TypeBuildingAdmin, TypeManager, TypeStaff}

// HighestPriority reduces a set of assignment types to the single
// effective type per TypePriority. The second return is false when
// types is empty or contains no known type.
func HighestPriority(types []Type) (Type, bool) {
	present := make(map[Type]bool, len(types))
	for _, t := range types {
		present[t] = true
	}
	for _, t := range TypePriority {
		if present[t] {
			return t, true
		}
	}
	return "", false
}

// BuildingAssignment binds a user to a building under one assignment type.
// A (building, user, type) triple is unique; a user may hold several types
// on the same building at once.
type BuildingAssignment struct {
	ID         id.AssignmentID `json:"id" db:"id"`
	OrgID      id.OrgID        `json:"org_id" db:"org_id"`
	BuildingID id.BuildingID   `json:"building_id" db:"building_id"`
	UserID     id.UserID       `json:"user_id" db:"user_id"`
	Type       Type            `json:"type" db:"type"`
	GrantedBy  id.UserID       `json:"granted_by,omitempty" db:"granted_by"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// ListFilter contains filters for listing building assignments.
type ListFilter struct {
	OrgID      id.OrgID      `json:"org_id,omitempty"`
	BuildingID id.BuildingID `json:"building_id,omitempty"`
	UserID     id.UserID     `json:"user_id,omitempty"`
	Type       *Type         `json:"type,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	Offset     int           `json:"offset,omitempty"`
}
