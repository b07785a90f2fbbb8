package steward

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/building"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/occupancy"
	"github.com/xraph/steward/override"
	"github.com/xraph/steward/permission"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store/memory"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *memory.Store) {
	t.Helper()
	s := memory.New()
	eng, err := NewEngine(append([]Option{WithStore(s)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return eng, s
}

// grantRole creates a role carrying the given catalog keys and assigns it
// to the user.
func grantRole(t *testing.T, s *memory.Store, orgID id.OrgID, userID id.UserID, roleKey string, permKeys ...string) id.RoleID {
	t.Helper()
	ctx := context.Background()

	r := &role.Role{ID: id.NewRoleID(), OrgID: orgID, Key: roleKey, Name: roleKey}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	for _, key := range permKeys {
		p, err := s.GetPermissionByKey(ctx, key)
		if err != nil {
			p = &permission.Permission{ID: id.NewPermissionID(), Key: key, Name: key}
			if err := s.CreatePermission(ctx, p); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.AttachPermission(ctx, r.ID, p.ID); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.AssignRole(ctx, userID, r.ID); err != nil {
		t.Fatal(err)
	}
	return r.ID
}

func setOverride(t *testing.T, s *memory.Store, orgID id.OrgID, userID id.UserID, key string, effect permission.Effect) {
	t.Helper()
	err := s.SetOverride(context.Background(), &override.Override{
		ID: id.NewOverrideID(), OrgID: orgID, UserID: userID,
		PermissionKey: key, Effect: effect,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func createBuilding(t *testing.T, s *memory.Store, orgID id.OrgID) id.BuildingID {
	t.Helper()
	b := &building.Building{ID: id.NewBuildingID(), OrgID: orgID, Name: "test"}
	if err := s.CreateBuilding(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	return b.ID
}

func assign(t *testing.T, s *memory.Store, orgID id.OrgID, buildingID id.BuildingID, userID id.UserID, typ assignment.Type) {
	t.Helper()
	err := s.CreateAssignment(context.Background(), &assignment.BuildingAssignment{
		ID: id.NewAssignmentID(), OrgID: orgID,
		BuildingID: buildingID, UserID: userID, Type: typ,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestNewEngine_RequiresStore(t *testing.T) {
	if _, err := NewEngine(); err == nil {
		t.Fatal("expected error when store is nil")
	}
}

func TestResolveEffectivePermissions_OverridePrecedence(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	userID := id.NewUserID()
	grantRole(t, s, orgID, userID, "support", permission.UsersRead, permission.RolesRead)
	setOverride(t, s, orgID, userID, permission.UsersWrite, permission.EffectAllow)
	setOverride(t, s, orgID, userID, permission.RolesRead, permission.EffectDeny)

	set, err := eng.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{permission.UsersRead, permission.UsersWrite}
	if len(set) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), set.Keys())
	}
	for _, key := range want {
		if !set.Has(key) {
			t.Errorf("missing %s in %v", key, set.Keys())
		}
	}
	if set.Has(permission.RolesRead) {
		t.Error("deny override did not remove roles.read")
	}
}

func TestResolveEffectivePermissions_DenyBeatsAllow(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	userA := id.NewUserID()
	userB := id.NewUserID()

	// Same key denied on one user must not leak into another's set.
	grantRole(t, s, orgID, userA, "viewer", permission.UnitsRead)
	grantRole(t, s, orgID, userB, "viewer-b", permission.UnitsRead)
	setOverride(t, s, orgID, userA, permission.UnitsRead, permission.EffectDeny)

	setA, err := eng.ResolveEffectivePermissions(ctx, userA)
	if err != nil {
		t.Fatal(err)
	}
	if setA.Has(permission.UnitsRead) {
		t.Error("deny override survived for user A")
	}

	setB, err := eng.ResolveEffectivePermissions(ctx, userB)
	if err != nil {
		t.Fatal(err)
	}
	if !setB.Has(permission.UnitsRead) {
		t.Error("user B lost a grant it still holds")
	}
}

func TestResolveEffectivePermissions_UnknownUser(t *testing.T) {
	eng, _ := newTestEngine(t)

	set, err := eng.ResolveEffectivePermissions(context.Background(), id.NewUserID())
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set.Keys())
	}
}

func TestResolveAssignmentType_PriorityCollapse(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)
	userID := id.NewUserID()

	assign(t, s, orgID, buildingID, userID, assignment.TypeStaff)
	assign(t, s, orgID, buildingID, userID, assignment.TypeManager)

	typ, ok, err := eng.ResolveAssignmentType(ctx, buildingID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || typ != assignment.TypeManager {
		t.Fatalf("expected manager, got %q (assigned=%v)", typ, ok)
	}

	assign(t, s, orgID, buildingID, userID, assignment.TypeBuildingAdmin)

	typ, ok, err = eng.ResolveAssignmentType(ctx, buildingID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || typ != assignment.TypeBuildingAdmin {
		t.Fatalf("expected building_admin, got %q (assigned=%v)", typ, ok)
	}
}

func TestResolveAssignmentType_None(t *testing.T) {
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	_, ok, err := eng.ResolveAssignmentType(context.Background(), buildingID, id.NewUserID())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected no assignment")
	}
}

func TestRequireOrgID(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	orgID := id.NewOrgID()
	got, err := eng.RequireOrgID(ctx, Identity{UserID: id.NewUserID(), OrgID: orgID})
	if err != nil {
		t.Fatal(err)
	}
	if got != orgID {
		t.Fatalf("expected identity org, got %s", got)
	}

	_, err = eng.RequireOrgID(ctx, Identity{UserID: id.NewUserID()})
	if !errors.Is(err, ErrOrgScopeRequired) {
		t.Fatalf("expected ErrOrgScopeRequired, got %v", err)
	}
}

func TestRequireBuildingInOrg_CrossOrgIndistinguishable(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgA := id.NewOrgID()
	orgB := id.NewOrgID()
	buildingB := createBuilding(t, s, orgB)

	_, errCross := eng.RequireBuildingInOrg(ctx, orgA, buildingB)
	if !errors.Is(errCross, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-org building, got %v", errCross)
	}

	_, errMissing := eng.RequireBuildingInOrg(ctx, orgA, id.NewBuildingID())
	if !errors.Is(errMissing, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing building, got %v", errMissing)
	}
}

func TestCanReadBuildingResource_GrantPaths(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	// Global permission superset.
	globalUser := id.NewUserID()
	grantRole(t, s, orgID, globalUser, "ops", permission.UnitsRead)
	allowed, err := eng.CanReadBuildingResource(ctx,
		Identity{UserID: globalUser, OrgID: orgID}, buildingID,
		ReadOptions{RequiredPermissions: []string{permission.UnitsRead}})
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("permission superset did not grant read")
	}

	// Any assignment grants read, staff included.
	staffUser := id.NewUserID()
	assign(t, s, orgID, buildingID, staffUser, assignment.TypeStaff)
	allowed, err = eng.CanReadBuildingResource(ctx,
		Identity{UserID: staffUser, OrgID: orgID}, buildingID, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("staff assignment did not grant read")
	}

	// Resident path requires the endpoint to opt in.
	resident := id.NewUserID()
	err = s.CreateOccupancy(ctx, &occupancy.Occupancy{
		ID: id.NewOccupancyID(), OrgID: orgID, BuildingID: buildingID,
		UnitID: id.NewUnitID(), UserID: resident, Status: occupancy.StatusActive,
	})
	if err != nil {
		t.Fatal(err)
	}

	allowed, err = eng.CanReadBuildingResource(ctx,
		Identity{UserID: resident, OrgID: orgID}, buildingID, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("resident read allowed without opt-in")
	}

	allowed, err = eng.CanReadBuildingResource(ctx,
		Identity{UserID: resident, OrgID: orgID}, buildingID,
		ReadOptions{AllowResident: true})
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("active occupancy did not grant opted-in read")
	}

	// No path at all.
	allowed, err = eng.CanReadBuildingResource(ctx,
		Identity{UserID: id.NewUserID(), OrgID: orgID}, buildingID,
		ReadOptions{AllowResident: true})
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("stranger granted read")
	}
}

func TestCanWriteBuildingResource_GrantPaths(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	buildingID := createBuilding(t, s, orgID)

	admin := id.NewUserID()
	manager := id.NewUserID()
	staff := id.NewUserID()
	assign(t, s, orgID, buildingID, admin, assignment.TypeBuildingAdmin)
	assign(t, s, orgID, buildingID, manager, assignment.TypeManager)
	assign(t, s, orgID, buildingID, staff, assignment.TypeStaff)

	cases := []struct {
		name    string
		userID  id.UserID
		opts    WriteOptions
		allowed bool
	}{
		{"admin always writes", admin, WriteOptions{}, true},
		{"manager without opt-in", manager, WriteOptions{}, false},
		{"manager with opt-in", manager, WriteOptions{AllowManagerWrite: true}, true},
		{"staff never writes", staff, WriteOptions{AllowManagerWrite: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := eng.CanWriteBuildingResource(ctx,
				Identity{UserID: tc.userID, OrgID: orgID}, buildingID, tc.opts)
			if err != nil {
				t.Fatal(err)
			}
			if allowed != tc.allowed {
				t.Errorf("expected allowed=%v, got %v", tc.allowed, allowed)
			}
		})
	}
}

func TestTenantIsolationPrecedesPermission(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)

	orgA := id.NewOrgID()
	orgB := id.NewOrgID()
	buildingB := createBuilding(t, s, orgB)

	// Full permissions in org A must not even reveal org B's building.
	userID := id.NewUserID()
	keys := make([]string, 0)
	for _, def := range permission.Catalog() {
		keys = append(keys, def.Key)
	}
	grantRole(t, s, orgA, userID, "super", keys...)

	_, err := eng.CanReadBuildingResource(ctx,
		Identity{UserID: userID, OrgID: orgA}, buildingB,
		ReadOptions{RequiredPermissions: []string{permission.UnitsRead}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any permission check, got %v", err)
	}
}

func TestPermissionMemo_SingleResolution(t *testing.T) {
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	userID := id.NewUserID()
	grantRole(t, s, orgID, userID, "viewer", permission.UnitsRead)

	ctx := WithPermissionMemo(context.Background())
	first, err := eng.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Has(permission.UnitsRead) {
		t.Fatal("expected units.read in first resolution")
	}

	// A mutation mid-request is invisible to the same memoized context.
	grantRole(t, s, orgID, userID, "editor", permission.UnitsWrite)
	second, err := eng.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if second.Has(permission.UnitsWrite) {
		t.Error("memoized context observed a mid-request mutation")
	}

	// A fresh context observes the new grant.
	fresh, err := eng.ResolveEffectivePermissions(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if !fresh.Has(permission.UnitsWrite) {
		t.Error("fresh context missed the new grant")
	}
}

func TestPermissionMemo_ReturnsCopy(t *testing.T) {
	eng, s := newTestEngine(t)

	orgID := id.NewOrgID()
	userID := id.NewUserID()
	grantRole(t, s, orgID, userID, "viewer", permission.UnitsRead)

	ctx := WithPermissionMemo(context.Background())
	set, err := eng.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the returned set must not pollute later checks on the
	// same request.
	set[permission.UnitsWrite] = struct{}{}
	delete(set, permission.UnitsRead)

	again, err := eng.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Has(permission.UnitsWrite) {
		t.Error("caller mutation leaked into the memoized set")
	}
	if !again.Has(permission.UnitsRead) {
		t.Error("caller deletion leaked into the memoized set")
	}
}

// failingShutdownPlugin always errors on shutdown so tests can observe
// which logger the registry reports through.
type failingShutdownPlugin struct{}

func (failingShutdownPlugin) Name() string { return "failing-shutdown" }

func (failingShutdownPlugin) OnShutdown(context.Context) error {
	return errors.New("flush failed")
}

func TestWithPlugin_UsesFinalLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	// WithPlugin before WithLogger: the registry must still report hook
	// errors through the logger set later.
	eng, err := NewEngine(
		WithStore(memory.New()),
		WithPlugin(failingShutdownPlugin{}),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "plugin hook error") || !strings.Contains(out, "failing-shutdown") {
		t.Fatalf("expected hook error on the configured logger, got %q", out)
	}
}

// stubCache counts lookups so tests can observe cache traffic.
type stubCache struct {
	entries map[id.UserID]PermissionSet
	hits    int
	misses  int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[id.UserID]PermissionSet)}
}

func (c *stubCache) GetPermissions(_ context.Context, userID id.UserID) (PermissionSet, bool) {
	set, ok := c.entries[userID]
	if ok {
		c.hits++
		return set.Clone(), true
	}
	c.misses++
	return nil, false
}

func (c *stubCache) SetPermissions(_ context.Context, _ id.OrgID, userID id.UserID, set PermissionSet, _ time.Duration) {
	c.entries[userID] = set.Clone()
}

func (c *stubCache) InvalidateUser(_ context.Context, userID id.UserID) {
	delete(c.entries, userID)
}

func (c *stubCache) InvalidateOrg(_ context.Context, _ id.OrgID) {
	c.entries = make(map[id.UserID]PermissionSet)
}

func TestCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	cache := newStubCache()
	eng, s := newTestEngine(t, WithCache(cache))

	orgID := id.NewOrgID()
	userID := id.NewUserID()
	grantRole(t, s, orgID, userID, "viewer", permission.UnitsRead)

	if _, err := eng.ResolveEffectivePermissions(ctx, userID); err != nil {
		t.Fatal(err)
	}
	if cache.misses != 1 {
		t.Fatalf("expected 1 miss, got %d", cache.misses)
	}

	// Second resolution is served from cache, hiding the new grant.
	grantRole(t, s, orgID, userID, "editor", permission.UnitsWrite)
	set, err := eng.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected 1 hit, got %d", cache.hits)
	}
	if set.Has(permission.UnitsWrite) {
		t.Error("cached set observed an uninvalidated mutation")
	}

	eng.InvalidateUserPermissions(ctx, userID)
	set, err = eng.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !set.Has(permission.UnitsWrite) {
		t.Error("invalidation did not surface the new grant")
	}
}

func TestCacheDisabledWithZeroTTL(t *testing.T) {
	cache := newStubCache()
	eng, s := newTestEngine(t, WithCache(cache), WithConfig(Config{CacheTTL: 0}))

	orgID := id.NewOrgID()
	userID := id.NewUserID()
	grantRole(t, s, orgID, userID, "viewer", permission.UnitsRead)

	if _, err := eng.ResolveEffectivePermissions(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	if len(cache.entries) != 0 {
		t.Error("zero TTL must bypass the cache entirely")
	}
	if cache.hits != 0 || cache.misses != 0 {
		t.Errorf("zero TTL must not touch the cache, got hits=%d misses=%d", cache.hits, cache.misses)
	}
}
