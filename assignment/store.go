package assignment

import (
	"context"

	"github.com/xraph/steward/id"
)

// Store defines persistence operations for building assignments.
type Store interface {
	// CreateAssignment persists a new assignment. The (building, user, type)
	// triple is unique; duplicates return store.ErrDuplicateAssignment.
	CreateAssignment(ctx context.Context, a *BuildingAssignment) error

	// GetAssignment retrieves an assignment by ID.
	GetAssignment(ctx context.Context, assignmentID id.AssignmentID) (*BuildingAssignment, error)

	// DeleteAssignment removes an assignment by ID.
	DeleteAssignment(ctx context.Context, assignmentID id.AssignmentID) error

	// ListAssignmentsForBuildingUser returns all assignments a user holds on
	// a building. Empty slice when none, never an error.
	ListAssignmentsForBuildingUser(ctx context.Context, buildingID id.BuildingID, userID id.UserID) ([]*BuildingAssignment, error)

	// ListAssignments returns assignments matching the filter.
	ListAssignments(ctx context.Context, filter *ListFilter) ([]*BuildingAssignment, error)

	// CountAssignments returns the number of assignments matching the filter.
	CountAssignments(ctx context.Context, filter *ListFilter) (int64, error)
}
