package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/building"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/occupancy"
	"github.com/xraph/steward/override"
	"github.com/xraph/steward/permission"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/user"
)

// ──────────────────────────────────────────────────
// Building model
// ──────────────────────────────────────────────────

type buildingModel struct {
	grove.BaseModel `grove:"table:steward_buildings"`
	ID              string    `grove:"id,pk"`
	OrgID           string    `grove:"org_id,notnull"`
	Name            string    `grove:"name,notnull"`
	Address         string    `grove:"address"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func buildingToModel(b *building.Building) *buildingModel {
	return &buildingModel{
		ID:        b.ID.String(),
		OrgID:     b.OrgID.String(),
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func buildingFromModel(m *buildingModel) *building.Building {
	bid, _ := id.ParseBuildingID(m.ID) //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrgID(m.OrgID)   //nolint:errcheck // stored IDs are always valid
	return &building.Building{
		ID:        bid,
		OrgID:     oid,
		Name:      m.Name,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// User model
// ──────────────────────────────────────────────────

type userModel struct {
	grove.BaseModel `grove:"table:steward_users"`
	ID              string    `grove:"id,pk"`
	OrgID           string    `grove:"org_id,notnull"`
	Email           string    `grove:"email,notnull"`
	Name            string    `grove:"name"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func userToModel(u *user.User) *userModel {
	return &userModel{
		ID:        u.ID.String(),
		OrgID:     u.OrgID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func userFromModel(m *userModel) *user.User {
	uid, _ := id.ParseUserID(m.ID)   //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrgID(m.OrgID) //nolint:errcheck // stored IDs are always valid
	return &user.User{
		ID:        uid,
		OrgID:     oid,
		Email:     m.Email,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Role model
// ──────────────────────────────────────────────────

type roleModel struct {
	grove.BaseModel `grove:"table:steward_roles"`
	ID              string    `grove:"id,pk"`
	OrgID           string    `grove:"org_id,notnull"`
	Key             string    `grove:"key,notnull"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	IsSystem        bool      `grove:"is_system,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func roleToModel(r *role.Role) *roleModel {
	return &roleModel{
		ID:          r.ID.String(),
		OrgID:       r.OrgID.String(),
		Key:         r.Key,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func roleFromModel(m *roleModel) *role.Role {
	rid, _ := id.ParseRoleID(m.ID)   //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrgID(m.OrgID) //nolint:errcheck // stored IDs are always valid
	return &role.Role{
		ID:          rid,
		OrgID:       oid,
		Key:         m.Key,
		Name:        m.Name,
		Description: m.Description,
		IsSystem:    m.IsSystem,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Permission model
// ──────────────────────────────────────────────────

type permissionModel struct {
	grove.BaseModel `grove:"table:steward_permissions"`
	ID              string    `grove:"id,pk"`
	Key             string    `grove:"key,notnull"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	Category        string    `grove:"category"`
	IsSystem        bool      `grove:"is_system,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func permissionToModel(p *permission.Permission) *permissionModel {
	return &permissionModel{
		ID:          p.ID.String(),
		Key:         p.Key,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		IsSystem:    p.IsSystem,
		CreatedAt:   p.CreatedAt,
	}
}

func permissionFromModel(m *permissionModel) *permission.Permission {
	pid, _ := id.ParsePermissionID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &permission.Permission{
		ID:          pid,
		Key:         m.Key,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		IsSystem:    m.IsSystem,
		CreatedAt:   m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Role-Permission junction model
// ──────────────────────────────────────────────────

type rolePermissionModel struct {
	grove.BaseModel `grove:"table:steward_role_permissions"`
	RoleID          string `grove:"role_id,pk"`
	PermissionID    string `grove:"permission_id,pk"`
}

// ──────────────────────────────────────────────────
// User-Role junction model
// ──────────────────────────────────────────────────

type userRoleModel struct {
	grove.BaseModel `grove:"table:steward_user_roles"`
	UserID          string `grove:"user_id,pk"`
	RoleID          string `grove:"role_id,pk"`
}

// ──────────────────────────────────────────────────
// Override model
// ──────────────────────────────────────────────────

type overrideModel struct {
	grove.BaseModel `grove:"table:steward_overrides"`
	ID              string    `grove:"id,pk"`
	OrgID           string    `grove:"org_id,notnull"`
	UserID          string    `grove:"user_id,notnull"`
	PermissionKey   string    `grove:"permission_key,notnull"`
	Effect          string    `grove:"effect,notnull"`
	GrantedBy       string    `grove:"granted_by"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func overrideToModel(o *override.Override) *overrideModel {
	m := &overrideModel{
		ID:            o.ID.String(),
		OrgID:         o.OrgID.String(),
		UserID:        o.UserID.String(),
		PermissionKey: o.PermissionKey,
		Effect:        string(o.Effect),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if !o.GrantedBy.IsNil() {
		m.GrantedBy = o.GrantedBy.String()
	}
	return m
}

func overrideFromModel(m *overrideModel) *override.Override {
	ovid, _ := id.ParseOverrideID(m.ID)  //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrgID(m.OrgID)     //nolint:errcheck // stored IDs are always valid
	uid, _ := id.ParseUserID(m.UserID)   //nolint:errcheck // stored IDs are always valid
	o := &override.Override{
		ID:            ovid,
		OrgID:         oid,
		UserID:        uid,
		PermissionKey: m.PermissionKey,
		Effect:        permission.Effect(m.Effect),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.GrantedBy != "" {
		gb, err := id.ParseUserID(m.GrantedBy)
		if err == nil {
			o.GrantedBy = gb
		}
	}
	return o
}

// ──────────────────────────────────────────────────
// Assignment model
// ──────────────────────────────────────────────────

type assignmentModel struct {
	grove.BaseModel `grove:"table:steward_assignments"`
	ID              string    `grove:"id,pk"`
	OrgID           string    `grove:"org_id,notnull"`
	BuildingID      string    `grove:"building_id,notnull"`
	UserID          string    `grove:"user_id,notnull"`
	Type            string    `grove:"type,notnull"`
	GrantedBy       string    `grove:"granted_by"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func assignmentToModel(a *assignment.BuildingAssignment) *assignmentModel {
	m := &assignmentModel{
		ID:         a.ID.String(),
		OrgID:      a.OrgID.String(),
		BuildingID: a.BuildingID.String(),
		UserID:     a.UserID.String(),
		Type:       string(a.Type),
		CreatedAt:  a.CreatedAt,
	}
	if !a.GrantedBy.IsNil() {
		m.GrantedBy = a.GrantedBy.String()
	}
	return m
}

func assignmentFromModel(m *assignmentModel) *assignment.BuildingAssignment {
	aid, _ := id.ParseAssignmentID(m.ID)       //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrgID(m.OrgID)           //nolint:errcheck // stored IDs are always valid
	bid, _ := id.ParseBuildingID(m.BuildingID) //nolint:errcheck // stored IDs are always valid
	uid, _ := id.ParseUserID(m.UserID)         //nolint:errcheck // stored IDs are always valid
	a := &assignment.BuildingAssignment{
		ID:         aid,
		OrgID:      oid,
		BuildingID: bid,
		UserID:     uid,
		Type:       assignment.Type(m.Type),
		CreatedAt:  m.CreatedAt,
	}
	if m.GrantedBy != "" {
		gb, err := id.ParseUserID(m.GrantedBy)
		if err == nil {
			a.GrantedBy = gb
		}
	}
	return a
}

// ──────────────────────────────────────────────────
// Occupancy model
// ──────────────────────────────────────────────────

type occupancyModel struct {
	grove.BaseModel `grove:"table:steward_occupancies"`
	ID              string     `grove:"id,pk"`
	OrgID           string     `grove:"org_id,notnull"`
	BuildingID      string     `grove:"building_id,notnull"`
	UnitID          string     `grove:"unit_id,notnull"`
	UserID          string     `grove:"user_id,notnull"`
	Status          string     `grove:"status,notnull"`
	StartedAt       time.Time  `grove:"started_at,notnull"`
	EndedAt         *time.Time `grove:"ended_at"`
	CreatedAt       time.Time  `grove:"created_at,notnull"`
	UpdatedAt       time.Time  `grove:"updated_at,notnull"`
}

func occupancyToModel(o *occupancy.Occupancy) *occupancyModel {
	return &occupancyModel{
		ID:         o.ID.String(),
		OrgID:      o.OrgID.String(),
		BuildingID: o.BuildingID.String(),
		UnitID:     o.UnitID.String(),
		UserID:     o.UserID.String(),
		Status:     string(o.Status),
		StartedAt:  o.StartedAt,
		EndedAt:    o.EndedAt,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func occupancyFromModel(m *occupancyModel) *occupancy.Occupancy {
	ocid, _ := id.ParseOccupancyID(m.ID)       //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrgID(m.OrgID)           //nolint:errcheck // stored IDs are always valid
	bid, _ := id.ParseBuildingID(m.BuildingID) //nolint:errcheck // stored IDs are always valid
	unid, _ := id.ParseUnitID(m.UnitID)        //nolint:errcheck // stored IDs are always valid
	uid, _ := id.ParseUserID(m.UserID)         //nolint:errcheck // stored IDs are always valid
	return &occupancy.Occupancy{
		ID:         ocid,
		OrgID:      oid,
		BuildingID: bid,
		UnitID:     unid,
		UserID:     uid,
		Status:     occupancy.Status(m.Status),
		StartedAt:  m.StartedAt,
		EndedAt:    m.EndedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
