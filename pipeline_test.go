package steward

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/occupancy"
	"github.com/xraph/steward/permission"
)

func TestAuthorize_Unauthenticated(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.Authorize(context.Background(), Identity{}, id.NewBuildingID(), Gate{})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorize_OrgScopeRequired(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.Authorize(context.Background(),
		Identity{UserID: id.NewUserID()}, id.NewBuildingID(), Gate{})
	if !errors.Is(err, ErrOrgScopeRequired) {
		t.Fatalf("expected ErrOrgScopeRequired, got %v", err)
	}
}

func TestAuthorize_ExistenceBeforePermission(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgA := id.NewOrgID()
	orgB := id.NewOrgID()
	buildingB := createBuilding(t, s, orgB)

	userID := id.NewUserID()
	grantRole(t, s, orgA, userID, "ops", permission.UnitsRead, permission.UnitsWrite)

	_, err := eng.Authorize(ctx,
		Identity{UserID: userID, OrgID: orgA}, buildingB,
		Gate{Permissions: []string{permission.UnitsRead}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-org building, got %v", err)
	}
}

func TestAuthorize_ReadGate(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	staff := id.NewUserID()
	assign(t, s, orgID, buildingID, staff, assignment.TypeStaff)

	verdict, err := eng.Authorize(ctx,
		Identity{UserID: staff, OrgID: orgID}, buildingID,
		Gate{Name: "units.list"})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.Allowed || verdict.Decision != DecisionAllowAssignment {
		t.Fatalf("expected allow_assignment, got %+v", verdict)
	}
}

func TestAuthorize_ResidentGate(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	resident := id.NewUserID()
	err := s.CreateOccupancy(ctx, &occupancy.Occupancy{
		ID: id.NewOccupancyID(), OrgID: orgID, BuildingID: buildingID,
		UnitID: id.NewUnitID(), UserID: resident, Status: occupancy.StatusActive,
	})
	if err != nil {
		t.Fatal(err)
	}

	ident := Identity{UserID: resident, OrgID: orgID}

	verdict, err := eng.Authorize(ctx, ident, buildingID,
		Gate{Name: "announcements.list", AllowResident: true})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.Allowed || verdict.Decision != DecisionAllowResident {
		t.Fatalf("expected allow_resident, got %+v", verdict)
	}

	// Same caller on a gate without the opt-in.
	verdict, err = eng.Authorize(ctx, ident, buildingID,
		Gate{Name: "units.list"})
	if err != nil {
		t.Fatal(err)
	}
	if verdict.Allowed {
		t.Fatalf("resident allowed without opt-in: %+v", verdict)
	}
	if verdict.Decision != DecisionDenyDefault {
		t.Fatalf("expected deny_default, got %s", verdict.Decision)
	}
}

func TestAuthorize_WriteGate(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	admin := id.NewUserID()
	manager := id.NewUserID()
	assign(t, s, orgID, buildingID, admin, assignment.TypeBuildingAdmin)
	assign(t, s, orgID, buildingID, manager, assignment.TypeManager)

	verdict, err := eng.Authorize(ctx,
		Identity{UserID: admin, OrgID: orgID}, buildingID,
		Gate{Name: "units.update", Write: true})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.Allowed || verdict.Decision != DecisionAllowBuildingAdmin {
		t.Fatalf("expected allow_building_admin, got %+v", verdict)
	}

	verdict, err = eng.Authorize(ctx,
		Identity{UserID: manager, OrgID: orgID}, buildingID,
		Gate{Name: "units.update", Write: true})
	if err != nil {
		t.Fatal(err)
	}
	if verdict.Allowed {
		t.Fatalf("manager write allowed without opt-in: %+v", verdict)
	}

	verdict, err = eng.Authorize(ctx,
		Identity{UserID: manager, OrgID: orgID}, buildingID,
		Gate{Name: "requests.update", Write: true, AllowManagerWrite: true})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.Allowed || verdict.Decision != DecisionAllowManager {
		t.Fatalf("expected allow_manager, got %+v", verdict)
	}
}

func TestAuthorize_PermissionGateWithOverrides(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	userID := id.NewUserID()
	grantRole(t, s, orgID, userID, "support", permission.UnitsRead)

	gate := Gate{Name: "units.list", Permissions: []string{permission.UnitsRead}}
	ident := Identity{UserID: userID, OrgID: orgID}

	verdict, err := eng.Authorize(ctx, ident, buildingID, gate)
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.Allowed || verdict.Decision != DecisionAllowPermission {
		t.Fatalf("expected allow_permission, got %+v", verdict)
	}

	// A deny override on the required key flips the verdict.
	setOverride(t, s, orgID, userID, permission.UnitsRead, permission.EffectDeny)

	verdict, err = eng.Authorize(ctx, ident, buildingID, gate)
	if err != nil {
		t.Fatal(err)
	}
	if verdict.Allowed {
		t.Fatalf("deny override did not flip the verdict: %+v", verdict)
	}
}

func TestAuthorize_ValidateGateKeys(t *testing.T) {
	eng, s := newTestEngine(t, WithConfig(Config{ValidateGateKeys: true}))

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	_, err := eng.Authorize(context.Background(),
		Identity{UserID: id.NewUserID(), OrgID: orgID}, buildingID,
		Gate{Permissions: []string{"bogus.key"}})
	if !errors.Is(err, ErrUnknownPermissionKey) {
		t.Fatalf("expected ErrUnknownPermissionKey, got %v", err)
	}
}

func TestEnforce(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	admin := id.NewUserID()
	assign(t, s, orgID, buildingID, admin, assignment.TypeBuildingAdmin)

	if err := eng.Enforce(ctx,
		Identity{UserID: admin, OrgID: orgID}, buildingID,
		Gate{Name: "units.update", Write: true}); err != nil {
		t.Fatalf("expected admin write to pass, got %v", err)
	}

	err := eng.Enforce(ctx,
		Identity{UserID: id.NewUserID(), OrgID: orgID}, buildingID,
		Gate{Name: "units.update", Write: true})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
