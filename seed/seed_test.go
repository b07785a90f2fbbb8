package seed

import (
	"context"
	"testing"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/permission"
	"github.com/xraph/steward/store/memory"
)

func TestPermissionsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := Permissions(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := Permissions(ctx, s); err != nil {
		t.Fatalf("second run: %v", err)
	}

	perms, err := s.ListPermissions(ctx, &permission.ListFilter{Limit: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if len(perms) != len(permission.Catalog()) {
		t.Fatalf("expected %d permissions, got %d", len(permission.Catalog()), len(perms))
	}
	for _, p := range perms {
		if !p.IsSystem {
			t.Errorf("seeded permission %s not marked system", p.Key)
		}
	}
}

func TestOrgRoles(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	orgID := id.NewOrgID()

	if err := All(ctx, s, orgID); err != nil {
		t.Fatal(err)
	}
	if err := All(ctx, s, orgID); err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, sys := range SystemRoles() {
		r, err := s.GetRoleByKey(ctx, orgID, sys.Key)
		if err != nil {
			t.Fatalf("role %s: %v", sys.Key, err)
		}
		if !r.IsSystem {
			t.Errorf("role %s not marked system", sys.Key)
		}

		keys, err := s.ListRolePermissionKeys(ctx, r.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(keys) != len(sys.Permissions) {
			t.Errorf("role %s: expected %d keys, got %d", sys.Key, len(sys.Permissions), len(keys))
		}
	}
}

func TestOrgAdminCoversCatalog(t *testing.T) {
	var admin SystemRole
	for _, sys := range SystemRoles() {
		if sys.Key == RoleOrgAdmin {
			admin = sys
		}
	}
	if len(admin.Permissions) != len(permission.Catalog()) {
		t.Fatalf("org-admin bundles %d keys, catalog has %d",
			len(admin.Permissions), len(permission.Catalog()))
	}
}
