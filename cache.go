package steward

import (
	"context"
	"time"

	"github.com/xraph/steward/id"
)

// Cache provides cross-request caching of effective-permission sets.
// Role and override mutations must invalidate through it, otherwise stale
// grants survive until TTL expiry.
type Cache interface {
	// GetPermissions returns a cached permission set, if available.
	GetPermissions(ctx context.Context, userID id.UserID) (PermissionSet, bool)

	// SetPermissions stores a permission set with the given TTL. The org id
	// indexes the entry for org-wide invalidation.
	SetPermissions(ctx context.Context, orgID id.OrgID, userID id.UserID, set PermissionSet, ttl time.Duration)

	// InvalidateUser removes the cached set for a user.
	InvalidateUser(ctx context.Context, userID id.UserID)

	// InvalidateOrg removes all cached sets for an org.
	InvalidateOrg(ctx context.Context, orgID id.OrgID)
}
