// Package memory provides an in-memory implementation of the Steward
// composite store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

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

// Compile-time interface checks.
var (
	_ building.Store   = (*Store)(nil)
	_ user.Store       = (*Store)(nil)
	_ role.Store       = (*Store)(nil)
	_ permission.Store = (*Store)(nil)
	_ override.Store   = (*Store)(nil)
	_ assignment.Store = (*Store)(nil)
	_ occupancy.Store  = (*Store)(nil)
	_ store.Store      = (*Store)(nil)
)

// Store is a thread-safe in-memory store for all Steward entities.
type Store struct {
	mu sync.RWMutex

	buildings       map[string]*building.Building
	users           map[string]*user.User
	roles           map[string]*role.Role
	permissions     map[string]*permission.Permission
	rolePermissions map[string]map[string]struct{} // roleID -> set of permIDs
	userRoles       map[string]map[string]struct{} // userID -> set of roleIDs
	overrides       map[string]*override.Override  // userID + "\x00" + permKey
	assignments     map[string]*assignment.BuildingAssignment
	occupancies     map[string]*occupancy.Occupancy
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		buildings:       make(map[string]*building.Building),
		users:           make(map[string]*user.User),
		roles:           make(map[string]*role.Role),
		permissions:     make(map[string]*permission.Permission),
		rolePermissions: make(map[string]map[string]struct{}),
		userRoles:       make(map[string]map[string]struct{}),
		overrides:       make(map[string]*override.Override),
		assignments:     make(map[string]*assignment.BuildingAssignment),
		occupancies:     make(map[string]*occupancy.Occupancy),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Building Store
// ──────────────────────────────────────────────────

func (s *Store) CreateBuilding(_ context.Context, b *building.Building) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buildings[b.ID.String()] = copyBuilding(b)
	return nil
}

func (s *Store) GetBuilding(_ context.Context, buildingID id.BuildingID) (*building.Building, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buildings[buildingID.String()]
	if !ok {
		return nil, fmt.Errorf("building %s: %w", buildingID, store.ErrNotFound)
	}
	return copyBuilding(b), nil
}

func (s *Store) GetBuildingInOrg(_ context.Context, orgID id.OrgID, buildingID id.BuildingID) (*building.Building, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Single predicate: id and org match together, so a cross-org building
	// is indistinguishable from a missing one.
	b, ok := s.buildings[buildingID.String()]
	if !ok || b.OrgID.String() != orgID.String() {
		return nil, fmt.Errorf("building %s: %w", buildingID, store.ErrNotFound)
	}
	return copyBuilding(b), nil
}

func (s *Store) UpdateBuilding(_ context.Context, b *building.Building) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buildings[b.ID.String()]; !ok {
		return fmt.Errorf("building %s: %w", b.ID, store.ErrNotFound)
	}
	s.buildings[b.ID.String()] = copyBuilding(b)
	return nil
}

func (s *Store) DeleteBuilding(_ context.Context, buildingID id.BuildingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buildings, buildingID.String())
	return nil
}

func (s *Store) ListBuildings(_ context.Context, filter *building.ListFilter) ([]*building.Building, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*building.Building, 0, len(s.buildings))
	for _, b := range s.buildings {
		if filter != nil {
			if !filter.OrgID.IsNil() && b.OrgID.String() != filter.OrgID.String() {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(filter.Search)) {
				continue
			}
		}
		result = append(result, copyBuilding(b))
	}
	return applyPagination(result, paginationOptsBldg(filter)), nil
}

func (s *Store) CountBuildings(ctx context.Context, filter *building.ListFilter) (int64, error) {
	list, err := s.ListBuildings(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// User Store
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID.String()] = copyUser(u)
	return nil
}

func (s *Store) GetUser(_ context.Context, userID id.UserID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID.String()]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, orgID id.OrgID, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.OrgID.String() == orgID.String() && strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, store.ErrNotFound)
}

func (s *Store) UpdateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID.String()]; !ok {
		return fmt.Errorf("user %s: %w", u.ID, store.ErrNotFound)
	}
	s.users[u.ID.String()] = copyUser(u)
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID.String())
	delete(s.userRoles, userID.String())
	return nil
}

func (s *Store) ListUsers(_ context.Context, filter *user.ListFilter) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		if filter != nil {
			if !filter.OrgID.IsNil() && u.OrgID.String() != filter.OrgID.String() {
				continue
			}
			if filter.Search != "" {
				needle := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(u.Name), needle) &&
					!strings.Contains(strings.ToLower(u.Email), needle) {
					continue
				}
			}
		}
		result = append(result, copyUser(u))
	}
	return applyPagination(result, paginationOptsUser(filter)), nil
}

func (s *Store) CountUsers(ctx context.Context, filter *user.ListFilter) (int64, error) {
	list, err := s.ListUsers(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// Role Store
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[r.ID.String()] = copyRole(r)
	return nil
}

func (s *Store) GetRole(_ context.Context, roleID id.RoleID) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[roleID.String()]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleID, store.ErrNotFound)
	}
	return copyRole(r), nil
}

func (s *Store) GetRoleByKey(_ context.Context, orgID id.OrgID, key string) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.OrgID.String() == orgID.String() && r.Key == key {
			return copyRole(r), nil
		}
	}
	return nil, fmt.Errorf("role key %q: %w", key, store.ErrNotFound)
}

func (s *Store) UpdateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[r.ID.String()]; !ok {
		return fmt.Errorf("role %s: %w", r.ID, store.ErrNotFound)
	}
	s.roles[r.ID.String()] = copyRole(r)
	return nil
}

func (s *Store) DeleteRole(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rk := roleID.String()
	delete(s.roles, rk)
	delete(s.rolePermissions, rk)
	for _, roleSet := range s.userRoles {
		delete(roleSet, rk)
	}
	return nil
}

func (s *Store) ListRoles(_ context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*role.Role, 0, len(s.roles))
	for _, r := range s.roles {
		if filter != nil {
			if !filter.OrgID.IsNil() && r.OrgID.String() != filter.OrgID.String() {
				continue
			}
			if filter.IsSystem != nil && r.IsSystem != *filter.IsSystem {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filter.Search)) {
				continue
			}
		}
		result = append(result, copyRole(r))
	}
	return applyPagination(result, paginationOptsRole(filter)), nil
}

func (s *Store) CountRoles(ctx context.Context, filter *role.ListFilter) (int64, error) {
	list, err := s.ListRoles(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) AttachPermission(_ context.Context, roleID id.RoleID, permID id.PermissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rk := roleID.String()
	if s.rolePermissions[rk] == nil {
		s.rolePermissions[rk] = make(map[string]struct{})
	}
	s.rolePermissions[rk][permID.String()] = struct{}{}
	return nil
}

func (s *Store) DetachPermission(_ context.Context, roleID id.RoleID, permID id.PermissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if perms, ok := s.rolePermissions[roleID.String()]; ok {
		delete(perms, permID.String())
	}
	return nil
}

func (s *Store) SetRolePermissions(_ context.Context, roleID id.RoleID, permIDs []id.PermissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	perms := make(map[string]struct{}, len(permIDs))
	for _, pid := range permIDs {
		perms[pid.String()] = struct{}{}
	}
	s.rolePermissions[roleID.String()] = perms
	return nil
}

func (s *Store) ListRolePermissionKeys(_ context.Context, roleID id.RoleID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rolePermissionKeysLocked(roleID.String()), nil
}

func (s *Store) AssignRole(_ context.Context, userID id.UserID, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uk := userID.String()
	if s.userRoles[uk] == nil {
		s.userRoles[uk] = make(map[string]struct{})
	}
	s.userRoles[uk][roleID.String()] = struct{}{}
	return nil
}

func (s *Store) UnassignRole(_ context.Context, userID id.UserID, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if roleSet, ok := s.userRoles[userID.String()]; ok {
		delete(roleSet, roleID.String())
	}
	return nil
}

func (s *Store) ListRolesForUser(_ context.Context, userID id.UserID) ([]*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roleSet, ok := s.userRoles[userID.String()]
	if !ok {
		return nil, nil
	}
	result := make([]*role.Role, 0, len(roleSet))
	for rk := range roleSet {
		if r, ok := s.roles[rk]; ok {
			result = append(result, copyRole(r))
		}
	}
	return result, nil
}

func (s *Store) ListPermissionKeysForUser(_ context.Context, userID id.UserID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	result := []string{}
	for rk := range s.userRoles[userID.String()] {
		for _, key := range s.rolePermissionKeysLocked(rk) {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, key)
		}
	}
	return result, nil
}

// rolePermissionKeysLocked resolves a role's permission ids to keys.
// Callers hold at least the read lock.
func (s *Store) rolePermissionKeysLocked(roleKey string) []string {
	perms, ok := s.rolePermissions[roleKey]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(perms))
	for pid := range perms {
		if p, ok := s.permissions[pid]; ok {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// ──────────────────────────────────────────────────
// Permission Store
// ──────────────────────────────────────────────────

func (s *Store) CreatePermission(_ context.Context, p *permission.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permissions[p.ID.String()] = copyPermission(p)
	return nil
}

func (s *Store) GetPermission(_ context.Context, permID id.PermissionID) (*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.permissions[permID.String()]
	if !ok {
		return nil, fmt.Errorf("permission %s: %w", permID, store.ErrNotFound)
	}
	return copyPermission(p), nil
}

func (s *Store) GetPermissionByKey(_ context.Context, key string) (*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.permissions {
		if p.Key == key {
			return copyPermission(p), nil
		}
	}
	return nil, fmt.Errorf("permission %q: %w", key, store.ErrNotFound)
}

func (s *Store) DeletePermission(_ context.Context, permID id.PermissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pk := permID.String()
	delete(s.permissions, pk)
	for _, perms := range s.rolePermissions {
		delete(perms, pk)
	}
	return nil
}

func (s *Store) ListPermissions(_ context.Context, filter *permission.ListFilter) ([]*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*permission.Permission, 0, len(s.permissions))
	for _, p := range s.permissions {
		if filter != nil {
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			if filter.IsSystem != nil && p.IsSystem != *filter.IsSystem {
				continue
			}
			if filter.Search != "" {
				needle := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(p.Key), needle) &&
					!strings.Contains(strings.ToLower(p.Name), needle) {
					continue
				}
			}
		}
		result = append(result, copyPermission(p))
	}
	return applyPagination(result, paginationOptsPerm(filter)), nil
}

func (s *Store) CountPermissions(ctx context.Context, filter *permission.ListFilter) (int64, error) {
	list, err := s.ListPermissions(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// Override Store
// ──────────────────────────────────────────────────

func (s *Store) SetOverride(_ context.Context, o *override.Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Replace semantics per (user, permission key).
	s.overrides[overrideKey(o.UserID, o.PermissionKey)] = copyOverride(o)
	return nil
}

func (s *Store) ClearOverride(_ context.Context, userID id.UserID, permissionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, overrideKey(userID, permissionKey))
	return nil
}

func (s *Store) GetOverride(_ context.Context, userID id.UserID, permissionKey string) (*override.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[overrideKey(userID, permissionKey)]
	if !ok {
		return nil, fmt.Errorf("override %s/%s: %w", userID, permissionKey, store.ErrNotFound)
	}
	return copyOverride(o), nil
}

func (s *Store) ListOverridesForUser(_ context.Context, userID id.UserID) ([]*override.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*override.Override
	uk := userID.String()
	for _, o := range s.overrides {
		if o.UserID.String() == uk {
			result = append(result, copyOverride(o))
		}
	}
	return result, nil
}

func (s *Store) ListOverrides(_ context.Context, filter *override.ListFilter) ([]*override.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*override.Override, 0, len(s.overrides))
	for _, o := range s.overrides {
		if filter != nil {
			if !filter.OrgID.IsNil() && o.OrgID.String() != filter.OrgID.String() {
				continue
			}
			if !filter.UserID.IsNil() && o.UserID.String() != filter.UserID.String() {
				continue
			}
			if filter.PermissionKey != "" && o.PermissionKey != filter.PermissionKey {
				continue
			}
			if filter.Effect != nil && o.Effect != *filter.Effect {
				continue
			}
		}
		result = append(result, copyOverride(o))
	}
	return applyPagination(result, paginationOptsOvr(filter)), nil
}

// ──────────────────────────────────────────────────
// Assignment Store
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(_ context.Context, a *assignment.BuildingAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.BuildingID.String() == a.BuildingID.String() &&
			existing.UserID.String() == a.UserID.String() &&
			existing.Type == a.Type {
			return fmt.Errorf("assignment %s/%s/%s: %w", a.BuildingID, a.UserID, a.Type, store.ErrDuplicateAssignment)
		}
	}
	s.assignments[a.ID.String()] = copyAssignment(a)
	return nil
}

func (s *Store) GetAssignment(_ context.Context, assignmentID id.AssignmentID) (*assignment.BuildingAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[assignmentID.String()]
	if !ok {
		return nil, fmt.Errorf("assignment %s: %w", assignmentID, store.ErrNotFound)
	}
	return copyAssignment(a), nil
}

func (s *Store) DeleteAssignment(_ context.Context, assignmentID id.AssignmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, assignmentID.String())
	return nil
}

func (s *Store) ListAssignmentsForBuildingUser(_ context.Context, buildingID id.BuildingID, userID id.UserID) ([]*assignment.BuildingAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*assignment.BuildingAssignment
	bk, uk := buildingID.String(), userID.String()
	for _, a := range s.assignments {
		if a.BuildingID.String() == bk && a.UserID.String() == uk {
			result = append(result, copyAssignment(a))
		}
	}
	return result, nil
}

func (s *Store) ListAssignments(_ context.Context, filter *assignment.ListFilter) ([]*assignment.BuildingAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*assignment.BuildingAssignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		if filter != nil {
			if !filter.OrgID.IsNil() && a.OrgID.String() != filter.OrgID.String() {
				continue
			}
			if !filter.BuildingID.IsNil() && a.BuildingID.String() != filter.BuildingID.String() {
				continue
			}
			if !filter.UserID.IsNil() && a.UserID.String() != filter.UserID.String() {
				continue
			}
			if filter.Type != nil && a.Type != *filter.Type {
				continue
			}
		}
		result = append(result, copyAssignment(a))
	}
	return applyPagination(result, paginationOptsAssign(filter)), nil
}

func (s *Store) CountAssignments(ctx context.Context, filter *assignment.ListFilter) (int64, error) {
	list, err := s.ListAssignments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// Occupancy Store
// ──────────────────────────────────────────────────

func (s *Store) CreateOccupancy(_ context.Context, o *occupancy.Occupancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Status == occupancy.StatusActive {
		for _, existing := range s.occupancies {
			if existing.Status == occupancy.StatusActive &&
				existing.UnitID.String() == o.UnitID.String() {
				return fmt.Errorf("occupancy unit %s: %w", o.UnitID, store.ErrActiveOccupancyExists)
			}
		}
	}
	s.occupancies[o.ID.String()] = copyOccupancy(o)
	return nil
}

func (s *Store) GetOccupancy(_ context.Context, occupancyID id.OccupancyID) (*occupancy.Occupancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.occupancies[occupancyID.String()]
	if !ok {
		return nil, fmt.Errorf("occupancy %s: %w", occupancyID, store.ErrNotFound)
	}
	return copyOccupancy(o), nil
}

func (s *Store) EndOccupancy(_ context.Context, occupancyID id.OccupancyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.occupancies[occupancyID.String()]
	if !ok {
		return fmt.Errorf("occupancy %s: %w", occupancyID, store.ErrNotFound)
	}
	if o.Status == occupancy.StatusEnded {
		return nil
	}
	now := time.Now()
	o.Status = occupancy.StatusEnded
	o.EndedAt = &now
	o.UpdatedAt = now
	return nil
}

func (s *Store) HasActiveOccupancy(_ context.Context, buildingID id.BuildingID, userID id.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bk, uk := buildingID.String(), userID.String()
	for _, o := range s.occupancies {
		if o.Status == occupancy.StatusActive &&
			o.BuildingID.String() == bk &&
			o.UserID.String() == uk {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListOccupancies(_ context.Context, filter *occupancy.ListFilter) ([]*occupancy.Occupancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*occupancy.Occupancy, 0, len(s.occupancies))
	for _, o := range s.occupancies {
		if filter != nil {
			if !filter.OrgID.IsNil() && o.OrgID.String() != filter.OrgID.String() {
				continue
			}
			if !filter.BuildingID.IsNil() && o.BuildingID.String() != filter.BuildingID.String() {
				continue
			}
			if !filter.UnitID.IsNil() && o.UnitID.String() != filter.UnitID.String() {
				continue
			}
			if !filter.UserID.IsNil() && o.UserID.String() != filter.UserID.String() {
				continue
			}
			if filter.Status != nil && o.Status != *filter.Status {
				continue
			}
		}
		result = append(result, copyOccupancy(o))
	}
	return applyPagination(result, paginationOptsOcc(filter)), nil
}

func (s *Store) CountOccupancies(ctx context.Context, filter *occupancy.ListFilter) (int64, error) {
	list, err := s.ListOccupancies(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func overrideKey(userID id.UserID, permissionKey string) string {
	return userID.String() + "\x00" + permissionKey
}

func copyBuilding(b *building.Building) *building.Building {
	c := *b
	return &c
}

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}

func copyRole(r *role.Role) *role.Role {
	c := *r
	return &c
}

func copyPermission(p *permission.Permission) *permission.Permission {
	c := *p
	return &c
}

func copyOverride(o *override.Override) *override.Override {
	c := *o
	return &c
}

func copyAssignment(a *assignment.BuildingAssignment) *assignment.BuildingAssignment {
	c := *a
	return &c
}

func copyOccupancy(o *occupancy.Occupancy) *occupancy.Occupancy {
	c := *o
	if o.EndedAt != nil {
		t := *o.EndedAt
		c.EndedAt = &t
	}
	return &c
}

// Pagination helpers for each entity type.
type pagOpts struct{ limit, offset int }

func applyPagination[T any](items []*T, p pagOpts) []*T {
	if p.offset > 0 && p.offset < len(items) {
		items = items[p.offset:]
	} else if p.offset >= len(items) && p.offset > 0 {
		return nil
	}
	if p.limit > 0 && p.limit < len(items) {
		items = items[:p.limit]
	}
	return items
}

func paginationOptsBldg(f *building.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsUser(f *user.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsRole(f *role.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsPerm(f *permission.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsOvr(f *override.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsAssign(f *assignment.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsOcc(f *occupancy.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}
