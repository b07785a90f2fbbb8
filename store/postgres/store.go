// Package postgres provides a PostgreSQL implementation of the Steward
// composite store using grove ORM with Go-based migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

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

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a PostgreSQL implementation of the composite Steward store.
type Store struct {
	db   *grove.DB
	pgdb *pgdriver.PgDB
}

// New creates a new PostgreSQL store.
func New(db *grove.DB) *Store {
	return &Store{
		db:   db,
		pgdb: pgdriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pgdb)
	if err != nil {
		return fmt.Errorf("steward: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("steward: migration failed: %w", err)
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

// ──────────────────────────────────────────────────
// Building operations
// ──────────────────────────────────────────────────

func (s *Store) CreateBuilding(ctx context.Context, b *building.Building) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	m := buildingToModel(b)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: create building: %w", err)
	}
	return nil
}

func (s *Store) GetBuilding(ctx context.Context, buildingID id.BuildingID) (*building.Building, error) {
	m := new(buildingModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", buildingID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("building %s: %w", buildingID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get building: %w", err)
	}
	return buildingFromModel(m), nil
}

func (s *Store) GetBuildingInOrg(ctx context.Context, orgID id.OrgID, buildingID id.BuildingID) (*building.Building, error) {
	// Single predicate over both id and org; cross-org rows never match.
	m := new(buildingModel)
	err := s.pgdb.NewSelect(m).
		Where("id = ?", buildingID.String()).
		Where("org_id = ?", orgID.String()).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("building %s: %w", buildingID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get building in org: %w", err)
	}
	return buildingFromModel(m), nil
}

func (s *Store) UpdateBuilding(ctx context.Context, b *building.Building) error {
	b.UpdatedAt = time.Now().UTC()
	m := buildingToModel(b)
	_, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: update building: %w", err)
	}
	return nil
}

func (s *Store) DeleteBuilding(ctx context.Context, buildingID id.BuildingID) error {
	_, err := s.pgdb.NewDelete((*buildingModel)(nil)).
		Where("id = ?", buildingID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete building: %w", err)
	}
	return nil
}

func (s *Store) ListBuildings(ctx context.Context, filter *building.ListFilter) ([]*building.Building, error) {
	var models []buildingModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	q := s.pgdb.NewSelect((*buildingModel)(nil))
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count buildings: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// User operations
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m := userToModel(u)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	m := new(userModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", userID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get user: %w", err)
	}
	return userFromModel(m), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, orgID id.OrgID, email string) (*user.User, error) {
	m := new(userModel)
	err := s.pgdb.NewSelect(m).
		Where("org_id = ?", orgID.String()).
		Where("LOWER(email) = LOWER(?)", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", email, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get user by email: %w", err)
	}
	return userFromModel(m), nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	m := userToModel(u)
	_, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: update user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID id.UserID) error {
	_, err := s.pgdb.NewDelete((*userModel)(nil)).
		Where("id = ?", userID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete user: %w", err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, filter *user.ListFilter) ([]*user.User, error) {
	var models []userModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	q := s.pgdb.NewSelect((*userModel)(nil))
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count users: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Role operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(ctx context.Context, r *role.Role) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	m := roleToModel(r)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: create role: %w", err)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	m := new(roleModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", roleID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role %s: %w", roleID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get role: %w", err)
	}
	return roleFromModel(m), nil
}

func (s *Store) GetRoleByKey(ctx context.Context, orgID id.OrgID, key string) (*role.Role, error) {
	m := new(roleModel)
	err := s.pgdb.NewSelect(m).
		Where("org_id = ?", orgID.String()).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role key %q: %w", key, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get role by key: %w", err)
	}
	return roleFromModel(m), nil
}

func (s *Store) UpdateRole(ctx context.Context, r *role.Role) error {
	r.UpdatedAt = time.Now().UTC()
	m := roleToModel(r)
	_, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: update role: %w", err)
	}
	return nil
}

func (s *Store) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	_, err := s.pgdb.NewDelete((*roleModel)(nil)).
		Where("id = ?", roleID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete role: %w", err)
	}
	return nil
}

func (s *Store) ListRoles(ctx context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	var models []roleModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if filter.IsSystem != nil {
			q = q.Where("is_system = ?", *filter.IsSystem)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	q := s.pgdb.NewSelect((*roleModel)(nil))
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if filter.IsSystem != nil {
			q = q.Where("is_system = ?", *filter.IsSystem)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
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
	_, err := s.pgdb.NewInsert(m).
		OnConflict("(role_id, permission_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: attach permission: %w", err)
	}
	return nil
}

func (s *Store) DetachPermission(ctx context.Context, roleID id.RoleID, permID id.PermissionID) error {
	_, err := s.pgdb.NewDelete((*rolePermissionModel)(nil)).
		Where("role_id = ?", roleID.String()).
		Where("permission_id = ?", permID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: detach permission: %w", err)
	}
	return nil
}

func (s *Store) SetRolePermissions(ctx context.Context, roleID id.RoleID, permIDs []id.PermissionID) error {
	tx, err := s.pgdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("steward: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	_, err = tx.NewDelete((*rolePermissionModel)(nil)).
		Where("role_id = ?", roleID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: clear role permissions: %w", err)
	}

	if len(permIDs) > 0 {
		models := make([]rolePermissionModel, len(permIDs))
		for i, pid := range permIDs {
			models[i] = rolePermissionModel{
				RoleID:       roleID.String(),
				PermissionID: pid.String(),
			}
		}
		_, err = tx.NewInsert(&models).Exec(ctx)
		if err != nil {
			return fmt.Errorf("steward: set role permissions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("steward: commit tx: %w", err)
	}
	return nil
}

func (s *Store) ListRolePermissionKeys(ctx context.Context, roleID id.RoleID) ([]string, error) {
	var models []permissionModel
	err := s.pgdb.NewSelect(&models).
		Join("JOIN", "steward_role_permissions AS rp", "rp.permission_id = steward_permissions.id").
		Where("rp.role_id = ?", roleID.String()).
		Scan(ctx)
	if err != nil {
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
	_, err := s.pgdb.NewInsert(m).
		OnConflict("(user_id, role_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: assign role: %w", err)
	}
	return nil
}

func (s *Store) UnassignRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error {
	_, err := s.pgdb.NewDelete((*userRoleModel)(nil)).
		Where("user_id = ?", userID.String()).
		Where("role_id = ?", roleID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: unassign role: %w", err)
	}
	return nil
}

func (s *Store) ListRolesForUser(ctx context.Context, userID id.UserID) ([]*role.Role, error) {
	var models []roleModel
	err := s.pgdb.NewSelect(&models).
		Join("JOIN", "steward_user_roles AS ur", "ur.role_id = steward_roles.id").
		Where("ur.user_id = ?", userID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("steward: list roles for user: %w", err)
	}
	result := make([]*role.Role, len(models))
	for i := range models {
		result[i] = roleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListPermissionKeysForUser(ctx context.Context, userID id.UserID) ([]string, error) {
	// Join user_roles -> role_permissions -> permissions for the union of
	// keys reachable through every role the user holds.
	var models []permissionModel
	err := s.pgdb.NewSelect(&models).
		DistinctOn("steward_permissions.key").
		Join("JOIN", "steward_role_permissions AS rp", "rp.permission_id = steward_permissions.id").
		Join("JOIN", "steward_user_roles AS ur", "ur.role_id = rp.role_id").
		Where("ur.user_id = ?", userID.String()).
		Scan(ctx)
	if err != nil {
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
	p.CreatedAt = time.Now().UTC()
	m := permissionToModel(p)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: create permission: %w", err)
	}
	return nil
}

func (s *Store) GetPermission(ctx context.Context, permID id.PermissionID) (*permission.Permission, error) {
	m := new(permissionModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", permID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("permission %s: %w", permID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get permission: %w", err)
	}
	return permissionFromModel(m), nil
}

func (s *Store) GetPermissionByKey(ctx context.Context, key string) (*permission.Permission, error) {
	m := new(permissionModel)
	err := s.pgdb.NewSelect(m).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("permission %q: %w", key, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get permission by key: %w", err)
	}
	return permissionFromModel(m), nil
}

func (s *Store) DeletePermission(ctx context.Context, permID id.PermissionID) error {
	_, err := s.pgdb.NewDelete((*permissionModel)(nil)).
		Where("id = ?", permID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete permission: %w", err)
	}
	return nil
}

func (s *Store) ListPermissions(ctx context.Context, filter *permission.ListFilter) ([]*permission.Permission, error) {
	var models []permissionModel
	q := s.pgdb.NewSelect(&models).OrderExpr("key ASC")
	if filter != nil {
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if filter.IsSystem != nil {
			q = q.Where("is_system = ?", *filter.IsSystem)
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(key) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	q := s.pgdb.NewSelect((*permissionModel)(nil))
	if filter != nil {
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if filter.IsSystem != nil {
			q = q.Where("is_system = ?", *filter.IsSystem)
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(key) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count permissions: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Override operations
// ──────────────────────────────────────────────────

func (s *Store) SetOverride(ctx context.Context, o *override.Override) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	m := overrideToModel(o)
	// Replace semantics: a later write for the same (user, key) pair
	// overwrites the prior effect.
	_, err := s.pgdb.NewInsert(m).
		OnConflict("(user_id, permission_key) DO UPDATE SET effect = EXCLUDED.effect, granted_by = EXCLUDED.granted_by, updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: set override: %w", err)
	}
	return nil
}

func (s *Store) ClearOverride(ctx context.Context, userID id.UserID, permissionKey string) error {
	_, err := s.pgdb.NewDelete((*overrideModel)(nil)).
		Where("user_id = ?", userID.String()).
		Where("permission_key = ?", permissionKey).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: clear override: %w", err)
	}
	return nil
}

func (s *Store) GetOverride(ctx context.Context, userID id.UserID, permissionKey string) (*override.Override, error) {
	m := new(overrideModel)
	err := s.pgdb.NewSelect(m).
		Where("user_id = ?", userID.String()).
		Where("permission_key = ?", permissionKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("override %s/%s: %w", userID, permissionKey, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get override: %w", err)
	}
	return overrideFromModel(m), nil
}

func (s *Store) ListOverridesForUser(ctx context.Context, userID id.UserID) ([]*override.Override, error) {
	var models []overrideModel
	err := s.pgdb.NewSelect(&models).
		Where("user_id = ?", userID.String()).
		OrderExpr("permission_key ASC").
		Scan(ctx)
	if err != nil {
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
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if !filter.UserID.IsNil() {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.PermissionKey != "" {
			q = q.Where("permission_key = ?", filter.PermissionKey)
		}
		if filter.Effect != nil {
			q = q.Where("effect = ?", string(*filter.Effect))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	a.CreatedAt = time.Now().UTC()
	m := assignmentToModel(a)
	res, err := s.pgdb.NewInsert(m).
		OnConflict("(building_id, user_id, type) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: create assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("steward: create assignment rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assignment %s/%s/%s: %w", a.BuildingID, a.UserID, a.Type, store.ErrDuplicateAssignment)
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, assignmentID id.AssignmentID) (*assignment.BuildingAssignment, error) {
	m := new(assignmentModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", assignmentID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment %s: %w", assignmentID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get assignment: %w", err)
	}
	return assignmentFromModel(m), nil
}

func (s *Store) DeleteAssignment(ctx context.Context, assignmentID id.AssignmentID) error {
	_, err := s.pgdb.NewDelete((*assignmentModel)(nil)).
		Where("id = ?", assignmentID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: delete assignment: %w", err)
	}
	return nil
}

func (s *Store) ListAssignmentsForBuildingUser(ctx context.Context, buildingID id.BuildingID, userID id.UserID) ([]*assignment.BuildingAssignment, error) {
	var models []assignmentModel
	err := s.pgdb.NewSelect(&models).
		Where("building_id = ?", buildingID.String()).
		Where("user_id = ?", userID.String()).
		Scan(ctx)
	if err != nil {
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
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if !filter.BuildingID.IsNil() {
			q = q.Where("building_id = ?", filter.BuildingID.String())
		}
		if !filter.UserID.IsNil() {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.Type != nil {
			q = q.Where("type = ?", string(*filter.Type))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	q := s.pgdb.NewSelect((*assignmentModel)(nil))
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if !filter.BuildingID.IsNil() {
			q = q.Where("building_id = ?", filter.BuildingID.String())
		}
		if !filter.UserID.IsNil() {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.Type != nil {
			q = q.Where("type = ?", string(*filter.Type))
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count assignments: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Occupancy operations
// ──────────────────────────────────────────────────

func (s *Store) CreateOccupancy(ctx context.Context, o *occupancy.Occupancy) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.StartedAt.IsZero() {
		o.StartedAt = now
	}
	if o.Status == occupancy.StatusActive {
		count, err := s.pgdb.NewSelect((*occupancyModel)(nil)).
			Where("unit_id = ?", o.UnitID.String()).
			Where("status = ?", string(occupancy.StatusActive)).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("steward: check active occupancy: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("occupancy unit %s: %w", o.UnitID, store.ErrActiveOccupancyExists)
		}
	}
	m := occupancyToModel(o)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: create occupancy: %w", err)
	}
	return nil
}

func (s *Store) GetOccupancy(ctx context.Context, occupancyID id.OccupancyID) (*occupancy.Occupancy, error) {
	m := new(occupancyModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", occupancyID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("occupancy %s: %w", occupancyID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward: get occupancy: %w", err)
	}
	return occupancyFromModel(m), nil
}

func (s *Store) EndOccupancy(ctx context.Context, occupancyID id.OccupancyID) error {
	now := time.Now().UTC()
	_, err := s.pgdb.NewUpdate((*occupancyModel)(nil)).
		Set("status = ?", string(occupancy.StatusEnded)).
		Set("ended_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", occupancyID.String()).
		Where("status = ?", string(occupancy.StatusActive)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward: end occupancy: %w", err)
	}
	return nil
}

func (s *Store) HasActiveOccupancy(ctx context.Context, buildingID id.BuildingID, userID id.UserID) (bool, error) {
	count, err := s.pgdb.NewSelect((*occupancyModel)(nil)).
		Where("building_id = ?", buildingID.String()).
		Where("user_id = ?", userID.String()).
		Where("status = ?", string(occupancy.StatusActive)).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("steward: has active occupancy: %w", err)
	}
	return count > 0, nil
}

func (s *Store) ListOccupancies(ctx context.Context, filter *occupancy.ListFilter) ([]*occupancy.Occupancy, error) {
	var models []occupancyModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if !filter.BuildingID.IsNil() {
			q = q.Where("building_id = ?", filter.BuildingID.String())
		}
		if !filter.UnitID.IsNil() {
			q = q.Where("unit_id = ?", filter.UnitID.String())
		}
		if !filter.UserID.IsNil() {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.Status != nil {
			q = q.Where("status = ?", string(*filter.Status))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	q := s.pgdb.NewSelect((*occupancyModel)(nil))
	if filter != nil {
		if !filter.OrgID.IsNil() {
			q = q.Where("org_id = ?", filter.OrgID.String())
		}
		if !filter.BuildingID.IsNil() {
			q = q.Where("building_id = ?", filter.BuildingID.String())
		}
		if !filter.UnitID.IsNil() {
			q = q.Where("unit_id = ?", filter.UnitID.String())
		}
		if !filter.UserID.IsNil() {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.Status != nil {
			q = q.Where("status = ?", string(*filter.Status))
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward: count occupancies: %w", err)
	}
	return count, nil
}
