package cache

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/steward"
	"github.com/xraph/steward/id"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	orgID := id.NewOrgID()
	userID := id.NewUserID()

	// Miss
	_, ok := c.GetPermissions(ctx, userID)
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	set := steward.NewPermissionSet("units.read", "units.write")
	c.SetPermissions(ctx, orgID, userID, set, time.Minute)
	got, ok := c.GetPermissions(ctx, userID)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !got.Has("units.read") || !got.Has("units.write") {
		t.Fatalf("unexpected cached set: %v", got.Keys())
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	userID := id.NewUserID()

	c.SetPermissions(ctx, id.NewOrgID(), userID, steward.NewPermissionSet("units.read"), 1*time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.GetPermissions(ctx, userID); ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	userID := id.NewUserID()

	c.SetPermissions(ctx, id.NewOrgID(), userID, steward.NewPermissionSet("units.read"), time.Minute)
	got, _ := c.GetPermissions(ctx, userID)
	got["units.write"] = struct{}{}

	again, _ := c.GetPermissions(ctx, userID)
	if again.Has("units.write") {
		t.Fatal("mutating a returned set must not affect the cached entry")
	}
}

func TestMemoryCacheInvalidateUser(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	orgID := id.NewOrgID()
	u1 := id.NewUserID()
	u2 := id.NewUserID()

	c.SetPermissions(ctx, orgID, u1, steward.NewPermissionSet("units.read"), time.Minute)
	c.SetPermissions(ctx, orgID, u2, steward.NewPermissionSet("units.read"), time.Minute)

	c.InvalidateUser(ctx, u1)

	if _, ok := c.GetPermissions(ctx, u1); ok {
		t.Fatal("u1 should be invalidated")
	}
	if _, ok := c.GetPermissions(ctx, u2); !ok {
		t.Fatal("u2 should still be cached")
	}
}

func TestMemoryCacheInvalidateOrg(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	org1 := id.NewOrgID()
	org2 := id.NewOrgID()
	u1 := id.NewUserID()
	u2 := id.NewUserID()
	u3 := id.NewUserID()

	c.SetPermissions(ctx, org1, u1, steward.NewPermissionSet("units.read"), time.Minute)
	c.SetPermissions(ctx, org1, u2, steward.NewPermissionSet("units.read"), time.Minute)
	c.SetPermissions(ctx, org2, u3, steward.NewPermissionSet("units.read"), time.Minute)

	c.InvalidateOrg(ctx, org1)

	if _, ok := c.GetPermissions(ctx, u1); ok {
		t.Fatal("u1 should be invalidated")
	}
	if _, ok := c.GetPermissions(ctx, u2); ok {
		t.Fatal("u2 should be invalidated")
	}
	if _, ok := c.GetPermissions(ctx, u3); !ok {
		t.Fatal("u3 belongs to another org and should still be cached")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))
	orgID := id.NewOrgID()

	for i := 0; i < 5; i++ {
		c.SetPermissions(ctx, orgID, id.NewUserID(), steward.NewPermissionSet("units.read"), time.Minute)
	}

	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	if size > 2 {
		t.Fatalf("expected max 2 entries, got %d", size)
	}
}
