// Package mongo provides a MongoDB implementation of the Steward composite
// store using grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/building"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/occupancy"
	"github.com/xraph/steward/override"
	"github.com/xraph/steward/permission"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/user"
)

// Collection name constants.
const (
	colBuildings       = "steward_buildings"
	colUsers           = "steward_users"
	colRoles           = "steward_roles"
	colPermissions     = "steward_permissions"
	colRolePermissions = "steward_role_permissions"
	colUserRoles       = "steward_user_roles"
	colOverrides       = "steward_overrides"
	colAssignments     = "steward_assignments"
	colOccupancies     = "steward_occupancies"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of the composite Steward store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for all steward collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()
	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("steward/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all steward collections.
// The partial index on occupancies constrains only rows still active, so
// history accumulates freely once an occupancy ends.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colBuildings: {
			{Keys: bson.D{{Key: "org_id", Value: 1}}},
		},
		colUsers: {
			{
				Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "org_id", Value: 1}}},
		},
		colRoles: {
			{
				Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "is_system", Value: 1}}},
		},
		colPermissions: {
			{
				Keys:    bson.D{{Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		colRolePermissions: {
			{
				Keys:    bson.D{{Key: "role_id", Value: 1}, {Key: "permission_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "permission_id", Value: 1}}},
		},
		colUserRoles: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "role_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "role_id", Value: 1}}},
		},
		colOverrides: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "permission_key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "org_id", Value: 1}}},
		},
		colAssignments: {
			{
				Keys:    bson.D{{Key: "building_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "type", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "org_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		colOccupancies: {
			{
				Keys: bson.D{{Key: "unit_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "active"}),
			},
			{Keys: bson.D{{Key: "building_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "org_id", Value: 1}}},
		},
	}
}

// ──────────────────────────────────────────────────
// Building operations
// ──────────────────────────────────────────────────

func (s *Store) CreateBuilding(ctx context.Context, b *building.Building) error {
	t := now()
	b.CreatedAt = t
	b.UpdatedAt = t
	m := buildingToModel(b)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("steward: create building: %w", err)
	}
	return nil
}

func (s *Store) GetBuilding(ctx context.Context, buildingID id.BuildingID) (*building.Building, error) {
	var m buildingModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": buildingID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("building %s: %w", buildingID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get building: %w", err)
	}
	return buildingFromModel(&m), nil
}

func (s *Store) GetBuildingInOrg(ctx context.Context, orgID id.OrgID, buildingID id.BuildingID) (*building.Building, error) {
	// Single predicate over both id and org; cross-org rows never match.
	var m buildingModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": buildingID.String(), "org_id": orgID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("building %s: %w", buildingID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get building in org: %w", err)
	}
	return buildingFromModel(&m), nil
}

func (s *Store) UpdateBuilding(ctx context.Context, b *building.Building) error {
	b.UpdatedAt = now()
	m := buildingToModel(b)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: update building: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("building %s: %w", b.ID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteBuilding(ctx context.Context, buildingID id.BuildingID) error {
	_, err := s.mdb.NewDelete((*buildingModel)(nil)).
		Filter(bson.M{"_id": buildingID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete building: %w", err)
	}
	return nil
}

func (s *Store) ListBuildings(ctx context.Context, filter *building.ListFilter) ([]*building.Building, error) {
	var models []buildingModel
	f := bson.M{}
	if filter != nil {
		if !filter.OrgID.IsNil() {
			f["org_id"] = filter.OrgID.String()
		}
		if filter.Search != "" {
			f["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list buildings: %w", err)
	}
	result := make([]*building.Building, len(models))
	for i := range models {
		result[i] = buildingFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountBuildings(ctx context.Context, filter *building.ListFilter) (int64, error) {
	f := bson.M{}
	if filter != nil {
		if !filter.OrgID.IsNil() {
			f["org_id"] = filter.OrgID.String()
		}
		if filter.Search != "" {
			f["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
		}
	}
	count, err := s.mdb.NewFind((*buildingModel)(nil)).
		Filter(f).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count buildings: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// User operations
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	t := now()
	u.CreatedAt = t
	u.UpdatedAt = t
	m := userToModel(u)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("steward: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	var m userModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": userID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get user: %w", err)
	}
	return userFromModel(&m), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, orgID id.OrgID, email string) (*user.User, error) {
	var m userModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{
			"org_id": orgID.String(),
			"email":  bson.M{"$regex": "^" + email + "$", "$options": "i"},
		}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("user %q: %w", email, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get user by email: %w", err)
	}
	return userFromModel(&m), nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	u.UpdatedAt = now()
	m := userToModel(u)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: update user: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("user %s: %w", u.ID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID id.UserID) error {
	_, err := s.mdb.NewDelete((*userModel)(nil)).
		Filter(bson.M{"_id": userID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete user: %w", err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, filter *user.ListFilter) ([]*user.User, error) {
	var models []userModel
	f := bson.M{}
	if filter != nil {
		if !filter.OrgID.IsNil() {
			f["org_id"] = filter.OrgID.String()
		}
		if filter.Search != "" {
			rx := bson.M{"$regex": filter.Search, "$options": "i"}
			f["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list users: %w", err)
	}
	result := make([]*user.User, len(models))
	for i := range models {
		result[i] = userFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountUsers(ctx context.Context, filter *user.ListFilter) (int64, error) {
	f := bson.M{}
	if filter != nil {
		if !filter.OrgID.IsNil() {
			f["org_id"] = filter.OrgID.String()
		}
		if filter.Search != "" {
			rx := bson.M{"$regex": filter.Search, "$options": "i"}
			f["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
		}
	}
	count, err := s.mdb.NewFind((*userModel)(nil)).
		Filter(f).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count users: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Role operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(ctx context.Context, r *role.Role) error {
	t := now()
	r.CreatedAt = t
	r.UpdatedAt = t
	m := roleToModel(r)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("steward: create role: %w", err)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	var m roleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": roleID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("role %s: %w", roleID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get role: %w", err)
	}
	return roleFromModel(&m), nil
}

func (s *Store) GetRoleByKey(ctx context.Context, orgID id.OrgID, key string) (*role.Role, error) {
	var m roleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"org_id": orgID.String(), "key": key}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("role key %q: %w", key, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get role by key: %w", err)
	}
	return roleFromModel(&m), nil
}

func (s *Store) UpdateRole(ctx context.Context, r *role.Role) error {
	r.UpdatedAt = now()
	m := roleToModel(r)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: update role: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("role %s: %w", r.ID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	_, err := s.mdb.NewDelete((*roleModel)(nil)).
		Filter(bson.M{"_id": roleID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete role: %w", err)
	}
	// Junction rows do not cascade in MongoDB.
	_, err = s.mdb.NewDelete((*rolePermissionModel)(nil)).
		Filter(bson.M{"role_id": roleID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete role permissions: %w", err)
	}
	_, err = s.mdb.NewDelete((*userRoleModel)(nil)).
		Filter(bson.M{"role_id": roleID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete role grants: %w", err)
	}
	return nil
}

func (s *Store) ListRoles(ctx context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	var models []roleModel
	f := bson.M{}
	if filter != nil {
		if !filter.OrgID.IsNil() {
			f["org_id"] = filter.OrgID.String()
		}
		if filter.IsSystem != nil {
			f["is_system"] = *filter.IsSystem
		}
		if filter.Search != "" {
			f["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list roles: %w", err)
	}
	result := make([]*role.Role, len(models))
	for i := range models {
		result[i] = roleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountRoles(ctx context.Context, filter *role.ListFilter) (int64, error) {
	f := bson.M{}
	if filter != nil {
		if !filter.OrgID.IsNil() {
			f["org_id"] = filter.OrgID.String()
		}
		if filter.IsSystem != nil {
			f["is_system"] = *filter.IsSystem
		}
		if filter.Search != "" {
			f["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
		}
	}
	count, err := s.mdb.NewFind((*roleModel)(nil)).
		Filter(f).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count roles: %w", err)
	}
	return count, nil
}

func (s *Store) AttachPermission(ctx context.Context, roleID id.RoleID, permID id.PermissionID) error {
	m := &rolePermissionModel{
		RoleID:       roleID.String(),
		PermissionID: permID.String(),
	}
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("steward: attach permission: %w", err)
	}
	return nil
}

func (s *Store) DetachPermission(ctx context.Context, roleID id.RoleID, permID id.PermissionID) error {
	_, err := s.mdb.NewDelete((*rolePermissionModel)(nil)).
		Filter(bson.M{"role_id": roleID.String(), "permission_id": permID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: detach permission: %w", err)
	}
	return nil
}

func (s *Store) SetRolePermissions(ctx context.Context, roleID id.RoleID, permIDs []id.PermissionID) error {
	_, err := s.mdb.NewDelete((*rolePermissionModel)(nil)).
		Filter(bson.M{"role_id": roleID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: clear role permissions: %w", err)
	}
	if len(permIDs) == 0 {
		return nil
	}
	models := make([]rolePermissionModel, len(permIDs))
	for i, pid := range permIDs {
		models[i] = rolePermissionModel{
			RoleID:       roleID.String(),
			PermissionID: pid.String(),
		}
	}
	if _, err := s.mdb.NewInsert(&models).Exec(ctx); err != nil {
		return fmt.Errorf("steward: set role permissions: %w", err)
	}
	return nil
}

func (s *Store) ListRolePermissionKeys(ctx context.Context, roleID id.RoleID) ([]string, error) {
	var rpModels []rolePermissionModel
	if err := s.mdb.NewFind(&rpModels).
		Filter(bson.M{"role_id": roleID.String()}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list role permission keys: %w", err)
	}
	if len(rpModels) == 0 {
		return []string{}, nil
	}
	permIDs := make([]string, len(rpModels))
	for i, rp := range rpModels {
		permIDs[i] = rp.PermissionID
	}
	var models []permissionModel
	if err := s.mdb.NewFind(&models).
		Filter(bson.M{"_id": bson.M{"$in": permIDs}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list role permission keys: %w", err)
	}
	keys := make([]string, 0, len(models))
	for i := range models {
		keys = append(keys, models[i].Key)
	}
	return keys, nil
}

func (s *Store) AssignRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error {
	m := &userRoleModel{
		UserID: userID.String(),
		RoleID: roleID.String(),
	}
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("steward: assign role: %w", err)
	}
	return nil
}

func (s *Store) UnassignRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error {
	_, err := s.mdb.NewDelete((*userRoleModel)(nil)).
		Filter(bson.M{"user_id": userID.String(), "role_id": roleID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: unassign role: %w", err)
	}
	return nil
}

func (s *Store) ListRolesForUser(ctx context.Context, userID id.UserID) ([]*role.Role, error) {
	var urModels []userRoleModel
	if err := s.mdb.NewFind(&urModels).
		Filter(bson.M{"user_id": userID.String()}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list roles for user: %w", err)
	}
	if len(urModels) == 0 {
		return []*role.Role{}, nil
	}
	roleIDs := make([]string, len(urModels))
	for i, ur := range urModels {
		roleIDs[i] = ur.RoleID
	}
	var models []roleModel
	if err := s.mdb.NewFind(&models).
		Filter(bson.M{"_id": bson.M{"$in": roleIDs}}).
		Sort(bson.D{{Key: "created_at", Value: 1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list roles for user: %w", err)
	}
	result := make([]*role.Role, len(models))
	for i := range models {
		result[i] = roleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListPermissionKeysForUser(ctx context.Context, userID id.UserID) ([]string, error) {
	// Step 1: roles held by the user.
	var urModels []userRoleModel
	if err := s.mdb.NewFind(&urModels).
		Filter(bson.M{"user_id": userID.String()}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list permission keys for user: %w", err)
	}
	if len(urModels) == 0 {
		return []string{}, nil
	}
	roleIDs := make([]string, len(urModels))
	for i, ur := range urModels {
		roleIDs[i] = ur.RoleID
	}

	// Step 2: permission ids attached to those roles, deduplicated.
	var rpModels []rolePermissionModel
	if err := s.mdb.NewFind(&rpModels).
		Filter(bson.M{"role_id": bson.M{"$in": roleIDs}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list permission keys for user: %w", err)
	}
	if len(rpModels) == 0 {
		return []string{}, nil
	}
	seen := make(map[string]struct{}, len(rpModels))
	permIDs := make([]string, 0, len(rpModels))
	for _, rp := range rpModels {
		if _, ok := seen[rp.PermissionID]; ok {
			continue
		}
		seen[rp.PermissionID] = struct{}{}
		permIDs = append(permIDs, rp.PermissionID)
	}

	// Step 3: resolve ids to keys.
	var models []permissionModel
	if err := s.mdb.NewFind(&models).
		Filter(bson.M{"_id": bson.M{"$in": permIDs}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list permission keys for user: %w", err)
	}
	keys := make([]string, 0, len(models))
	for i := range models {
		keys = append(keys, models[i].Key)
	}
	return keys, nil
}

// ──────────────────────────────────────────────────
// Permission operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePermission(ctx context.Context, p *permission.Permission) error {
	p.CreatedAt = now()
	m := permissionToModel(p)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("steward: create permission: %w", err)
	}
	return nil
}

func (s *Store) GetPermission(ctx context.Context, permID id.PermissionID) (*permission.Permission, error) {
	var m permissionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": permID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("permission %s: %w", permID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get permission: %w", err)
	}
	return permissionFromModel(&m), nil
}

func (s *Store) GetPermissionByKey(ctx context.Context, key string) (*permission.Permission, error) {
	var m permissionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"key": key}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("permission %q: %w", key, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get permission by key: %w", err)
	}
	return permissionFromModel(&m), nil
}

func (s *Store) DeletePermission(ctx context.Context, permID id.PermissionID) error {
	_, err := s.mdb.NewDelete((*permissionModel)(nil)).
		Filter(bson.M{"_id": permID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete permission: %w", err)
	}
	_, err = s.mdb.NewDelete((*rolePermissionModel)(nil)).
		Filter(bson.M{"permission_id": permID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete permission attachments: %w", err)
	}
	return nil
}

func (s *Store) ListPermissions(ctx context.Context, filter *permission.ListFilter) ([]*permission.Permission, error) {
	var models []permissionModel
	f := bson.M{}
	if filter != nil {
		if filter.Category != "" {
			f["category"] = filter.Category
		}
		if filter.IsSystem != nil {
			f["is_system"] = *filter.IsSystem
		}
		if filter.Search != "" {
			rx := bson.M{"$regex": filter.Search, "$options": "i"}
			f["$or"] = bson.A{bson.M{"key": rx}, bson.M{"name": rx}}
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "key", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list permissions: %w", err)
	}
	result := make([]*permission.Permission, len(models))
	for i := range models {
		result[i] = permissionFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountPermissions(ctx context.Context, filter *permission.ListFilter) (int64, error) {
	f := bson.M{}
	if filter != nil {
		if filter.Category != "" {
			f["category"] = filter.Category
		}
		if filter.IsSystem != nil {
			f["is_system"] = *filter.IsSystem
		}
		if filter.Search != "" {
			rx := bson.M{"$regex": filter.Search, "$options": "i"}
			f["$or"] = bson.A{bson.M{"key": rx}, bson.M{"name": rx}}
		}
	}
	count, err := s.mdb.NewFind((*permissionModel)(nil)).
		Filter(f).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count permissions: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Override operations
// ──────────────────────────────────────────────────

func (s *Store) SetOverride(ctx context.Context, o *override.Override) error {
	t := now()
	o.CreatedAt = t
	o.UpdatedAt = t
	m := overrideToModel(o)
	// Replace semantics: update in place when the pair already exists,
	// otherwise insert.
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"user_id": m.UserID, "permission_key": m.PermissionKey}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: set override: %w", err)
	}
	if res.MatchedCount() > 0 {
		return nil
	}
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("steward: set override: %w", err)
	}
	return nil
}

func (s *Store) ClearOverride(ctx context.Context, userID id.UserID, permissionKey string) error {
	_, err := s.mdb.NewDelete((*overrideModel)(nil)).
		Filter(bson.M{"user_id": userID.String(), "permission_key": permissionKey}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: clear override: %w", err)
	}
	return nil
}

func (s *Store) GetOverride(ctx context.Context, userID id.UserID, permissionKey string) (*override.Override, error) {
	var m overrideModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"user_id": userID.String(), "permission_key": permissionKey}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("override %s/%s: %w", userID, permissionKey, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get override: %w", err)
	}
	return overrideFromModel(&m), nil
}

func (s *Store) ListOverridesForUser(ctx context.Context, userID id.UserID) ([]*override.Override, error) {
	var models []overrideModel
	if err := s.mdb.NewFind(&models).
		Filter(bson.M{"user_id": userID.String()}).
		Sort(bson.D{{Key: "permission_key", Value: 1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list overrides for user: %w", err)
	}
	result := make([]*override.Override, len(models))
	for i := range models {
		result[i] = overrideFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListOverrides(ctx context.Context, filter *override.ListFilter) ([]*override.Override, error) {
	var models []overrideModel
	f := bson.M{}
	if filter != nil {
		if !filter.OrgID.IsNil() {
			f["org_id"] = filter.OrgID.String()
		}
		if !filter.UserID.IsNil() {
			f["user_id"] = filter.UserID.String()
		}
		if filter.PermissionKey != "" {
			f["permission_key"] = filter.PermissionKey
		}
		if filter.Effect != nil {
			f["effect"] = string(*filter.Effect)
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list overrides: %w", err)
	}
	result := make([]*override.Override, len(models))
	for i := range models {
		result[i] = overrideFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Assignment operations
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(ctx context.Context, a *assignment.BuildingAssignment) error {
	a.CreatedAt = now()
	m := assignmentToModel(a)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return fmt.Errorf("assignment %s/%s/%s: %w", a.BuildingID, a.UserID, a.Type, store.ErrDuplicateAssignment)
		}
		return fmt.Errorf("steward: create assignment: %w", err)
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, assignmentID id.AssignmentID) (*assignment.BuildingAssignment, error) {
	var m assignmentModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": assignmentID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("assignment %s: %w", assignmentID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get assignment: %w", err)
	}
	return assignmentFromModel(&m), nil
}

func (s *Store) DeleteAssignment(ctx context.Context, assignmentID id.AssignmentID) error {
	_, err := s.mdb.NewDelete((*assignmentModel)(nil)).
		Filter(bson.M{"_id": assignmentID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete assignment: %w", err)
	}
	return nil
}

func (s *Store) ListAssignmentsForBuildingUser(ctx context.Context, buildingID id.BuildingID, userID id.UserID) ([]*assignment.BuildingAssignment, error) {
	var models []assignmentModel
	if err := s.mdb.NewFind(&models).
		Filter(bson.M{"building_id": buildingID.String(), "user_id": userID.String()}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list assignments for building user: %w", err)
	}
	result := make([]*assignment.BuildingAssignment, len(models))
	for i := range models {
		result[i] = assignmentFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListAssignments(ctx context.Context, filter *assignment.ListFilter) ([]*assignment.BuildingAssignment, error) {
	var models []assignmentModel
	f := assignmentFilter(filter)
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list assignments: %w", err)
	}
	result := make([]*assignment.BuildingAssignment, len(models))
	for i := range models {
		result[i] = assignmentFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountAssignments(ctx context.Context, filter *assignment.ListFilter) (int64, error) {
	count, err := s.mdb.NewFind((*assignmentModel)(nil)).
		Filter(assignmentFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count assignments: %w", err)
	}
	return count, nil
}

func assignmentFilter(filter *assignment.ListFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if !filter.OrgID.IsNil() {
		f["org_id"] = filter.OrgID.String()
	}
	if !filter.BuildingID.IsNil() {
		f["building_id"] = filter.BuildingID.String()
	}
	if !filter.UserID.IsNil() {
		f["user_id"] = filter.UserID.String()
	}
	if filter.Type != nil {
		f["type"] = string(*filter.Type)
	}
	return f
}

// ──────────────────────────────────────────────────
// Occupancy operations
// ──────────────────────────────────────────────────

func (s *Store) CreateOccupancy(ctx context.Context, o *occupancy.Occupancy) error {
	t := now()
	o.CreatedAt = t
	o.UpdatedAt = t
	if o.StartedAt.IsZero() {
		o.StartedAt = t
	}
	m := occupancyToModel(o)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return fmt.Errorf("occupancy unit %s: %w", o.UnitID, store.ErrActiveOccupancyExists)
		}
		return fmt.Errorf("steward: create occupancy: %w", err)
	}
	return nil
}

func (s *Store) GetOccupancy(ctx context.Context, occupancyID id.OccupancyID) (*occupancy.Occupancy, error) {
	var m occupancyModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": occupancyID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("occupancy %s: %w", occupancyID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get occupancy: %w", err)
	}
	return occupancyFromModel(&m), nil
}

func (s *Store) EndOccupancy(ctx context.Context, occupancyID id.OccupancyID) error {
	var m occupancyModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": occupancyID.String(), "status": string(occupancy.StatusActive)}).
		Scan(ctx)
	if err != nil {
		// Missing or already ended: ending is idempotent.
		if isNoDocuments(err) {
			return nil
		}
		return fmt.Errorf("steward: end occupancy: %w", err)
	}
	t := now()
	m.Status = string(occupancy.StatusEnded)
	m.EndedAt = &t
	m.UpdatedAt = t
	if _, err := s.mdb.NewUpdate(&m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx); err != nil {
		return fmt.Errorf("steward: end occupancy: %w", err)
	}
	return nil
}

func (s *Store) HasActiveOccupancy(ctx context.Context, buildingID id.BuildingID, userID id.UserID) (bool, error) {
	count, err := s.mdb.NewFind((*occupancyModel)(nil)).
		Filter(bson.M{
			"building_id": buildingID.String(),
			"user_id":     userID.String(),
			"status":      string(occupancy.StatusActive),
		}).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("steward: has active occupancy: %w", err)
	}
	return count > 0, nil
}

func (s *Store) ListOccupancies(ctx context.Context, filter *occupancy.ListFilter) ([]*occupancy.Occupancy, error) {
	var models []occupancyModel
	q := s.mdb.NewFind(&models).
		Filter(occupancyFilter(filter)).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward: list occupancies: %w", err)
	}
	result := make([]*occupancy.Occupancy, len(models))
	for i := range models {
		result[i] = occupancyFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountOccupancies(ctx context.Context, filter *occupancy.ListFilter) (int64, error) {
	count, err := s.mdb.NewFind((*occupancyModel)(nil)).
		Filter(occupancyFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count occupancies: %w", err)
	}
	return count, nil
}

func occupancyFilter(filter *occupancy.ListFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if !filter.OrgID.IsNil() {
		f["org_id"] = filter.OrgID.String()
	}
	if !filter.BuildingID.IsNil() {
		f["building_id"] = filter.BuildingID.String()
	}
	if !filter.UnitID.IsNil() {
		f["unit_id"] = filter.UnitID.String()
	}
	if !filter.UserID.IsNil() {
		f["user_id"] = filter.UserID.String()
	}
	if filter.Status != nil {
		f["status"] = string(*filter.Status)
	}
	return f
}
