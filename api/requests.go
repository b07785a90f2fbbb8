package api

// ──────────────────────────────────────────────────
// Access requests
// ──────────────────────────────────────────────────

// AccessRequest is the request body for a building access decision.
type AccessRequest struct {
	UserID              string   `json:"user_id" description:"User identifier"`
	OrgID               string   `json:"org_id,omitempty" description:"Org identifier (falls back to request scope)"`
	BuildingID          string   `json:"building_id" description:"Building identifier"`
	RequiredPermissions []string `json:"required_permissions,omitempty" description:"Permission keys that grant access globally"`
	AllowResident       bool     `json:"allow_resident,omitempty" description:"Whether active residents may read"`
	AllowManagerWrite   bool     `json:"allow_manager_write,omitempty" description:"Whether managers may write"`
}

// AuthorizeRequest is the request body for a full pipeline decision.
type AuthorizeRequest struct {
	UserID     string `json:"user_id" description:"User identifier"`
	OrgID      string `json:"org_id,omitempty" description:"Org identifier (falls back to request scope)"`
	BuildingID string `json:"building_id" description:"Building identifier"`
	Gate       string `json:"gate,omitempty" description:"Gate name for logging"`

	Permissions       []string `json:"permissions,omitempty" description:"Permission keys that grant access globally"`
	Write             bool     `json:"write,omitempty" description:"Write decision instead of read"`
	AllowResident     bool     `json:"allow_resident,omitempty" description:"Whether active residents may read"`
	AllowManagerWrite bool     `json:"allow_manager_write,omitempty" description:"Whether managers may write"`
}

// GetUserPermissionsRequest is the path parameter for effective permissions.
type GetUserPermissionsRequest struct {
	UserID string `path:"userId" description:"User ID"`
}

// ──────────────────────────────────────────────────
// Building requests
// ──────────────────────────────────────────────────

// CreateBuildingRequest is the body for creating a building.
type CreateBuildingRequest struct {
	OrgID   string `json:"org_id" description:"Owning org ID"`
	Name    string `json:"name" description:"Building name"`
	Address string `json:"address,omitempty" description:"Street address"`
}

// UpdateBuildingRequest is the body for updating a building.
type UpdateBuildingRequest struct {
	Name    string `json:"name,omitempty" description:"Building name"`
	Address string `json:"address,omitempty" description:"Street address"`
}

// GetBuildingRequest is the path parameter for getting a building.
type GetBuildingRequest struct {
	BuildingID string `path:"buildingId" description:"Building ID"`
}

// ListBuildingsRequest holds query parameters for listing buildings.
type ListBuildingsRequest struct {
	OrgID  string `query:"org_id" description:"Filter by org ID"`
	Search string `query:"search" description:"Search by name"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Role requests
// ──────────────────────────────────────────────────

// CreateRoleRequest is the body for creating a role.
type CreateRoleRequest struct {
	OrgID       string `json:"org_id" description:"Owning org ID"`
	Key         string `json:"key" description:"Stable role key (e.g. org-manager)"`
	Name        string `json:"name" description:"Role name"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
}

// UpdateRoleRequest is the body for updating a role.
type UpdateRoleRequest struct {
	Name        string `json:"name,omitempty" description:"Role name"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
}

// GetRoleRequest is the path parameter for getting a role.
type GetRoleRequest struct {
	RoleID string `path:"roleId" description:"Role ID"`
}

// ListRolesRequest holds query parameters for listing roles.
type ListRolesRequest struct {
	OrgID  string `query:"org_id" description:"Filter by org ID"`
	Search string `query:"search" description:"Search by name"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// SetRolePermissionsRequest replaces the permission keys attached to a role.
type SetRolePermissionsRequest struct {
	PermissionKeys []string `json:"permission_keys" description:"Catalog keys to attach"`
}

// AssignRoleRequest is the body for granting a role to a user.
type AssignRoleRequest struct {
	UserID string `json:"user_id" description:"User to grant the role to"`
}

// ListPermissionsRequest holds query parameters for listing permissions.
type ListPermissionsRequest struct {
	Category string `query:"category" description:"Filter by category"`
	Search   string `query:"search" description:"Search by name"`
	Limit    int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Override requests
// ──────────────────────────────────────────────────

// SetOverrideRequest is the body for setting a per-user override.
type SetOverrideRequest struct {
	OrgID         string `json:"org_id" description:"Owning org ID"`
	PermissionKey string `json:"permission_key" description:"Catalog permission key"`
	Effect        string `json:"effect" description:"allow or deny"`
	GrantedBy     string `json:"granted_by,omitempty" description:"Administrator user ID"`
}

// ClearOverrideRequest is the path parameters for clearing an override.
type ClearOverrideRequest struct {
	UserID        string `path:"userId" description:"User ID"`
	PermissionKey string `path:"permissionKey" description:"Permission key"`
}

// ListOverridesRequest holds query parameters for listing overrides.
type ListOverridesRequest struct {
	OrgID         string `query:"org_id" description:"Filter by org ID"`
	UserID        string `query:"user_id" description:"Filter by user ID"`
	PermissionKey string `query:"permission_key" description:"Filter by permission key"`
	Effect        string `query:"effect" description:"Filter by effect (allow/deny)"`
	Limit         int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset        int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Assignment requests
// ──────────────────────────────────────────────────

// CreateAssignmentRequest is the body for assigning a user to a building.
type CreateAssignmentRequest struct {
	OrgID     string `json:"org_id" description:"Owning org ID"`
	UserID    string `json:"user_id" description:"User to assign"`
	Type      string `json:"type" description:"Assignment type (building_admin, manager, staff)"`
	GrantedBy string `json:"granted_by,omitempty" description:"Administrator user ID"`
}

// GetAssignmentRequest is the path parameter for an assignment.
type GetAssignmentRequest struct {
	AssignmentID string `path:"assignmentId" description:"Assignment ID"`
}

// ListAssignmentsRequest holds query parameters for listing assignments.
type ListAssignmentsRequest struct {
	OrgID      string `query:"org_id" description:"Filter by org ID"`
	BuildingID string `query:"building_id" description:"Filter by building ID"`
	UserID     string `query:"user_id" description:"Filter by user ID"`
	Type       string `query:"type" description:"Filter by assignment type"`
	Limit      int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset     int    `query:"offset" description:"Results to skip"`
}

// GetAssignmentTypeRequest is the path parameters for the collapsed type.
type GetAssignmentTypeRequest struct {
	BuildingID string `path:"buildingId" description:"Building ID"`
	UserID     string `path:"userId" description:"User ID"`
}

// ──────────────────────────────────────────────────
// Occupancy requests
// ──────────────────────────────────────────────────

// CreateOccupancyRequest is the body for starting an occupancy.
type CreateOccupancyRequest struct {
	OrgID      string `json:"org_id" description:"Owning org ID"`
	BuildingID string `json:"building_id" description:"Building ID"`
	UnitID     string `json:"unit_id" description:"Unit ID"`
	UserID     string `json:"user_id" description:"Resident user ID"`
}

// GetOccupancyRequest is the path parameter for an occupancy.
type GetOccupancyRequest struct {
	OccupancyID string `path:"occupancyId" description:"Occupancy ID"`
}

// ListOccupanciesRequest holds query parameters for listing occupancies.
type ListOccupanciesRequest struct {
	OrgID      string `query:"org_id" description:"Filter by org ID"`
	BuildingID string `query:"building_id" description:"Filter by building ID"`
	UnitID     string `query:"unit_id" description:"Filter by unit ID"`
	UserID     string `query:"user_id" description:"Filter by user ID"`
	Status     string `query:"status" description:"Filter by status (active/ended)"`
	Limit      int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset     int    `query:"offset" description:"Results to skip"`
}
