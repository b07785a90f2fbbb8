package building

import (
	"context"

	"github.com/xraph/steward/id"
)

// Store defines persistence operations for buildings.
type Store interface {
	// CreateBuilding persists a new building.
	CreateBuilding(ctx context.Context, b *Building) error

	// GetBuilding retrieves a building by ID, regardless of org.
	GetBuilding(ctx context.Context, buildingID id.BuildingID) (*Building, error)

	// GetBuildingInOrg retrieves a building by ID constrained to an org in a
	// single lookup. A building that exists in another org is store.ErrNotFound,
	// indistinguishable from one that does not exist at all.
	GetBuildingInOrg(ctx context.Context, orgID id.OrgID, buildingID id.BuildingID) (*Building, error)

	// UpdateBuilding persists changes to a building.
	UpdateBuilding(ctx context.Context, b *Building) error

	// DeleteBuilding removes a building by ID.
	DeleteBuilding(ctx context.Context, buildingID id.BuildingID) error

	// ListBuildings returns buildings matching the filter.
	ListBuildings(ctx context.Context, filter *ListFilter) ([]*Building, error)

	// CountBuildings returns the number of buildings matching the filter.
	CountBuildings(ctx context.Context, filter *ListFilter) (int64, error)
}
