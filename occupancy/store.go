package occupancy

import (
	"context"

	"github.com/xraph/steward/id"
)

// Store defines persistence operations for occupancies.
type Store interface {
	// CreateOccupancy persists a new occupancy. A second active occupancy
	// on the same unit returns store.ErrActiveOccupancyExists, whoever
	// the resident is.
	CreateOccupancy(ctx context.Context, o *Occupancy) error

	// GetOccupancy retrieves an occupancy by ID.
	GetOccupancy(ctx context.Context, occupancyID id.OccupancyID) (*Occupancy, error)

	// EndOccupancy transitions an occupancy to ended and stamps EndedAt.
	// Ending an already-ended occupancy is a no-op.
	EndOccupancy(ctx context.Context, occupancyID id.OccupancyID) error

	// HasActiveOccupancy reports whether the user has any active occupancy
	// in the building.
	HasActiveOccupancy(ctx context.Context, buildingID id.BuildingID, userID id.UserID) (bool, error)

	// ListOccupancies returns occupancies matching the filter.
	ListOccupancies(ctx context.Context, filter *ListFilter) ([]*Occupancy, error)

	// CountOccupancies returns the number of occupancies matching the filter.
	CountOccupancies(ctx context.Context, filter *ListFilter) (int64, error)
}
