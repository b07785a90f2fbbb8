package memory

import (
	"context"
	"errors"
	"testing"

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

// Compile-time check that *Store implements store.Store.
var _ store.Store = (*Store)(nil)

func TestBuildingCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrgID()
	b := &building.Building{
		ID:    id.NewBuildingID(),
		OrgID: orgID,
		Name:  "Harbor Tower",
	}

	// Create
	if err := s.CreateBuilding(ctx, b); err != nil {
		t.Fatal(err)
	}

	// Get
	got, err := s.GetBuilding(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Harbor Tower" {
		t.Fatalf("expected Harbor Tower, got %s", got.Name)
	}

	// Update
	b.Name = "Harbor Tower West"
	if err := s.UpdateBuilding(ctx, b); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetBuilding(ctx, b.ID)
	if got.Name != "Harbor Tower West" {
		t.Fatal("update failed")
	}

	// List
	list, _ := s.ListBuildings(ctx, &building.ListFilter{OrgID: orgID})
	if len(list) != 1 {
		t.Fatalf("expected 1 building, got %d", len(list))
	}

	// Count
	count, _ := s.CountBuildings(ctx, &building.ListFilter{OrgID: orgID})
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Delete
	if err := s.DeleteBuilding(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	_, err = s.GetBuilding(ctx, b.ID)
	if err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestGetBuildingInOrg(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgA := id.NewOrgID()
	orgB := id.NewOrgID()
	b := &building.Building{ID: id.NewBuildingID(), OrgID: orgA, Name: "Elm Court"}
	_ = s.CreateBuilding(ctx, b)

	// Matching org resolves.
	got, err := s.GetBuildingInOrg(ctx, orgA, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != b.ID {
		t.Fatal("lookup mismatch")
	}

	// Cross-org lookup is not found, same kind as a missing id.
	_, err = s.GetBuildingInOrg(ctx, orgB, b.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-org, got %v", err)
	}
	_, err = s.GetBuildingInOrg(ctx, orgA, id.NewBuildingID())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrgID()
	u := &user.User{
		ID:    id.NewUserID(),
		OrgID: orgID,
		Email: "manager@example.com",
		Name:  "Pat Manager",
	}

	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "manager@example.com" {
		t.Fatal("mismatch")
	}

	got, err = s.GetUserByEmail(ctx, orgID, "Manager@Example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatal("email lookup mismatch")
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	_, err = s.GetUser(ctx, u.ID)
	if err == nil {
		t.Fatal("expected not found")
	}
}

func TestRolePermissionKeys(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrgID()
	roleID := id.NewRoleID()
	perm1 := id.NewPermissionID()
	perm2 := id.NewPermissionID()

	_ = s.CreateRole(ctx, &role.Role{ID: roleID, OrgID: orgID, Key: "viewer", Name: "Viewer"})
	_ = s.CreatePermission(ctx, &permission.Permission{ID: perm1, Key: permission.BuildingsRead, Name: "Read buildings"})
	_ = s.CreatePermission(ctx, &permission.Permission{ID: perm2, Key: permission.UnitsRead, Name: "Read units"})

	// Attach
	_ = s.AttachPermission(ctx, roleID, perm1)
	_ = s.AttachPermission(ctx, roleID, perm2)

	keys, _ := s.ListRolePermissionKeys(ctx, roleID)
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}

	// Detach
	_ = s.DetachPermission(ctx, roleID, perm1)
	keys, _ = s.ListRolePermissionKeys(ctx, roleID)
	if len(keys) != 1 {
		t.Fatalf("expected 1 key after detach, got %d", len(keys))
	}

	// SetRolePermissions (replace all)
	_ = s.SetRolePermissions(ctx, roleID, []id.PermissionID{perm1})
	keys, _ = s.ListRolePermissionKeys(ctx, roleID)
	if len(keys) != 1 || keys[0] != permission.BuildingsRead {
		t.Fatalf("expected [%s], got %v", permission.BuildingsRead, keys)
	}
}

func TestUserRoleUnion(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrgID()
	userID := id.NewUserID()
	roleA := id.NewRoleID()
	roleB := id.NewRoleID()
	permRead := id.NewPermissionID()
	permWrite := id.NewPermissionID()

	_ = s.CreateRole(ctx, &role.Role{ID: roleA, OrgID: orgID, Key: "reader", Name: "Reader"})
	_ = s.CreateRole(ctx, &role.Role{ID: roleB, OrgID: orgID, Key: "editor", Name: "Editor"})
	_ = s.CreatePermission(ctx, &permission.Permission{ID: permRead, Key: permission.UnitsRead, Name: "Read units"})
	_ = s.CreatePermission(ctx, &permission.Permission{ID: permWrite, Key: permission.UnitsWrite, Name: "Write units"})

	// Both roles share the read permission; the union must collapse it.
	_ = s.AttachPermission(ctx, roleA, permRead)
	_ = s.AttachPermission(ctx, roleB, permRead)
	_ = s.AttachPermission(ctx, roleB, permWrite)

	_ = s.AssignRole(ctx, userID, roleA)
	_ = s.AssignRole(ctx, userID, roleB)

	keys, err := s.ListPermissionKeysForUser(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 distinct keys, got %v", keys)
	}

	// No roles yields an empty slice, not an error.
	keys, err = s.ListPermissionKeysForUser(ctx, id.NewUserID())
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty, got %v", keys)
	}

	// Unassign removes the role's keys.
	_ = s.UnassignRole(ctx, userID, roleB)
	keys, _ = s.ListPermissionKeysForUser(ctx, userID)
	if len(keys) != 1 || keys[0] != permission.UnitsRead {
		t.Fatalf("expected [%s], got %v", permission.UnitsRead, keys)
	}
}

func TestOverrideReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrgID()
	userID := id.NewUserID()

	allow := &override.Override{
		ID:            id.NewOverrideID(),
		OrgID:         orgID,
		UserID:        userID,
		PermissionKey: permission.UnitsWrite,
		Effect:        permission.EffectAllow,
	}
	if err := s.SetOverride(ctx, allow); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetOverride(ctx, userID, permission.UnitsWrite)
	if err != nil {
		t.Fatal(err)
	}
	if got.Effect != permission.EffectAllow {
		t.Fatal("expected allow")
	}

	// A later write for the same pair replaces the effect.
	deny := &override.Override{
		ID:            id.NewOverrideID(),
		OrgID:         orgID,
		UserID:        userID,
		PermissionKey: permission.UnitsWrite,
		Effect:        permission.EffectDeny,
	}
	if err := s.SetOverride(ctx, deny); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetOverride(ctx, userID, permission.UnitsWrite)
	if got.Effect != permission.EffectDeny {
		t.Fatal("expected deny after replace")
	}

	list, _ := s.ListOverridesForUser(ctx, userID)
	if len(list) != 1 {
		t.Fatalf("expected 1 override, got %d", len(list))
	}

	if err := s.ClearOverride(ctx, userID, permission.UnitsWrite); err != nil {
		t.Fatal(err)
	}
	_, err = s.GetOverride(ctx, userID, permission.UnitsWrite)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignmentUniqueTriple(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrgID()
	buildingID := id.NewBuildingID()
	userID := id.NewUserID()

	a := &assignment.BuildingAssignment{
		ID:         id.NewAssignmentID(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UserID:     userID,
		Type:       assignment.TypeManager,
	}
	if err := s.CreateAssignment(ctx, a); err != nil {
		t.Fatal(err)
	}

	// Same triple again is rejected.
	dup := &assignment.BuildingAssignment{
		ID:         id.NewAssignmentID(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UserID:     userID,
		Type:       assignment.TypeManager,
	}
	err := s.CreateAssignment(ctx, dup)
	if !errors.Is(err, store.ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}

	// A different type for the same (building, user) is fine.
	staff := &assignment.BuildingAssignment{
		ID:         id.NewAssignmentID(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UserID:     userID,
		Type:       assignment.TypeStaff,
	}
	if err := s.CreateAssignment(ctx, staff); err != nil {
		t.Fatal(err)
	}

	rows, _ := s.ListAssignmentsForBuildingUser(ctx, buildingID, userID)
	if len(rows) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(rows))
	}

	if err := s.DeleteAssignment(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	rows, _ = s.ListAssignmentsForBuildingUser(ctx, buildingID, userID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 assignment after delete, got %d", len(rows))
	}
}

func TestOccupancyLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrgID()
	buildingID := id.NewBuildingID()
	unitID := id.NewUnitID()
	userID := id.NewUserID()

	o := &occupancy.Occupancy{
		ID:         id.NewOccupancyID(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UnitID:     unitID,
		UserID:     userID,
		Status:     occupancy.StatusActive,
	}
	if err := s.CreateOccupancy(ctx, o); err != nil {
		t.Fatal(err)
	}

	occupied, err := s.HasActiveOccupancy(ctx, buildingID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !occupied {
		t.Fatal("expected active occupancy")
	}

	// A second active occupancy on the same unit is rejected for the same
	// user and for a different one; the unit is singly occupied.
	dup := &occupancy.Occupancy{
		ID:         id.NewOccupancyID(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UnitID:     unitID,
		UserID:     userID,
		Status:     occupancy.StatusActive,
	}
	err = s.CreateOccupancy(ctx, dup)
	if !errors.Is(err, store.ErrActiveOccupancyExists) {
		t.Fatalf("expected ErrActiveOccupancyExists, got %v", err)
	}

	other := &occupancy.Occupancy{
		ID:         id.NewOccupancyID(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UnitID:     unitID,
		UserID:     id.NewUserID(),
		Status:     occupancy.StatusActive,
	}
	err = s.CreateOccupancy(ctx, other)
	if !errors.Is(err, store.ErrActiveOccupancyExists) {
		t.Fatalf("expected ErrActiveOccupancyExists for second resident, got %v", err)
	}

	// A different unit is free for anyone.
	elsewhere := &occupancy.Occupancy{
		ID:         id.NewOccupancyID(),
		OrgID:      orgID,
		BuildingID: id.NewBuildingID(),
		UnitID:     id.NewUnitID(),
		UserID:     userID,
		Status:     occupancy.StatusActive,
	}
	if err := s.CreateOccupancy(ctx, elsewhere); err != nil {
		t.Fatalf("different unit should accept an active occupancy: %v", err)
	}

	// Ending removes the read grant.
	if err := s.EndOccupancy(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	occupied, _ = s.HasActiveOccupancy(ctx, buildingID, userID)
	if occupied {
		t.Fatal("expected no active occupancy after end")
	}
	got, _ := s.GetOccupancy(ctx, o.ID)
	if got.Status != occupancy.StatusEnded || got.EndedAt == nil {
		t.Fatal("ended occupancy not stamped")
	}

	// Ending twice is a no-op.
	if err := s.EndOccupancy(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrgID()
	for i := 0; i < 5; i++ {
		_ = s.CreateBuilding(ctx, &building.Building{ID: id.NewBuildingID(), OrgID: orgID, Name: "B"})
	}

	list, _ := s.ListBuildings(ctx, &building.ListFilter{OrgID: orgID, Limit: 2})
	if len(list) != 2 {
		t.Fatalf("expected 2, got %d", len(list))
	}
	list, _ = s.ListBuildings(ctx, &building.ListFilter{OrgID: orgID, Offset: 4})
	if len(list) != 1 {
		t.Fatalf("expected 1, got %d", len(list))
	}
	list, _ = s.ListBuildings(ctx, &building.ListFilter{OrgID: orgID, Offset: 10})
	if len(list) != 0 {
		t.Fatalf("expected 0, got %d", len(list))
	}
}

func TestMigratePingClose(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
