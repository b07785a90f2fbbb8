package mongo

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
	ID              string    `grove:"id,pk"        bson:"_id"`
	OrgID           string    `grove:"org_id"       bson:"org_id"`
	Name            string    `grove:"name"         bson:"name"`
	Address         string    `grove:"address"      bson:"address"`
	CreatedAt       time.Time `grove:"created_at"   bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"   bson:"updated_at"`
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
	ID              string    `grove:"id,pk"        bson:"_id"`
	OrgID           string    `grove:"org_id"       bson:"org_id"`
	Email           string    `grove:"email"        bson:"email"`
	Name            string    `grove:"name"         bson:"name"`
	CreatedAt       time.Time `grove:"created_at"   bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"   bson:"updated_at"`
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
	ID              string    `grove:"id,pk"        bson:"_id"`
	OrgID           string    `grove:"org_id"       bson:"org_id"`
	Key             string    `grove:"key"          bson:"key"`
	Name            string    `grove:"name"         bson:"name"`
	Description     string    `grove:"description"  bson:"description"`
	IsSystem        bool      `grove:"is_system"    bson:"is_system"`
	CreatedAt       time.Time `grove:"created_at"   bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"   bson:"updated_at"`
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
	ID              string    `grove:"id,pk"        bson:"_id"`
	Key             string    `grove:"key"          bson:"key"`
	Name            string    `grove:"name"         bson:"name"`
	Description     string    `grove:"description"  bson:"description"`
	Category        string    `grove:"category"     bson:"category"`
	IsSystem        bool      `grove:"is_system"    bson:"is_system"`
	CreatedAt       time.Time `grove:"created_at"   bson:"created_at"`
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
// Junction models
// ──────────────────────────────────────────────────

type rolePermissionModel struct {
	grove.BaseModel `grove:"table:steward_role_permissions"`
	RoleID          string `grove:"role_id,pk"       bson:"role_id"`
	PermissionID    string `grove:"permission_id,pk" bson:"permission_id"`
}

type userRoleModel struct {
	grove.BaseModel `grove:"table:steward_user_roles"`
	UserID          string `grove:"user_id,pk" bson:"user_id"`
	RoleID          string `grove:"role_id,pk" bson:"role_id"`
}

// ──────────────────────────────────────────────────
// Override model
// ──────────────────────────────────────────────────

type overrideModel struct {
	grove.BaseModel `grove:"table:steward_overrides"`
	ID              string    `grove:"id,pk"          bson:"_id"`
	OrgID           string    `grove:"org_id"         bson:"org_id"`
	UserID          string    `grove:"user_id"        bson:"user_id"`
	PermissionKey   string    `grove:"permission_key" bson:"permission_key"`
	Effect          string    `grove:"effect"         bson:"effect"`
	GrantedBy       string    `grove:"granted_by"     bson:"granted_by,omitempty"`
	CreatedAt       time.Time `grove:"created_at"     bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"     bson:"updated_at"`
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
	ovid, _ := id.ParseOverrideID(m.ID) //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrgID(m.OrgID)    //nolint:errcheck // stored IDs are always valid
	uid, _ := id.ParseUserID(m.UserID)  //nolint:errcheck // stored IDs are always valid
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
	ID              string    `grove:"id,pk"        bson:"_id"`
	OrgID           string    `grove:"org_id"       bson:"org_id"`
	BuildingID      string    `grove:"building_id"  bson:"building_id"`
	UserID          string    `grove:"user_id"      bson:"user_id"`
	Type            string    `grove:"type"         bson:"type"`
	GrantedBy       string    `grove:"granted_by"   bson:"granted_by,omitempty"`
	CreatedAt       time.Time `grove:"created_at"   bson:"created_at"`
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
	ID              string     `grove:"id,pk"        bson:"_id"`
	OrgID           string     `grove:"org_id"       bson:"org_id"`
	BuildingID      string     `grove:"building_id"  bson:"building_id"`
	UnitID          string     `grove:"unit_id"      bson:"unit_id"`
	UserID          string     `grove:"user_id"      bson:"user_id"`
	Status          string     `grove:"status"       bson:"status"`
	StartedAt       time.Time  `grove:"started_at"   bson:"started_at"`
	EndedAt         *time.Time `grove:"ended_at"     bson:"ended_at,omitempty"`
	CreatedAt       time.Time  `grove:"created_at"   bson:"created_at"`
	UpdatedAt       time.Time  `grove:"updated_at"   bson:"updated_at"`
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
