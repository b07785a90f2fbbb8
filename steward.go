// Package steward provides tenant-scoped building-access authorization for Go.
//
// Steward decides, per request, whether an actor may read or write a
// building-scoped resource. Decisions combine org-level tenant isolation,
// role-based permissions with per-user allow/deny overrides, and
// building-scoped assignment roles layered on top. It is tenant-scoped by
// default via forge.Scope and integrates with the Forge ecosystem.
//
//	eng, err := steward.NewEngine(
//	    steward.WithStore(memStore),
//	)
//	verdict, err := eng.Authorize(ctx, ident, buildingID, steward.Gate{
//	    Permissions:   []string{permission.UnitsWrite},
//	    Write:         true,
//	    AllowManagerWrite: true,
//	})
package steward

import (
	"sort"

	"github.com/xraph/steward/id"
)

// Identity is the authenticated caller of an authorization decision.
// A zero OrgID denotes a platform-level identity; tenant-scoped operations
// reject it with ErrOrgScopeRequired unless a forge scope supplies the org.
type Identity struct {
	UserID id.UserID `json:"user_id"`
	OrgID  id.OrgID  `json:"org_id,omitempty"`
}

// Authenticated reports whether the identity carries a user.
func (i Identity) Authenticated() bool { return !i.UserID.IsNil() }

// PermissionSet is the final, post-override set of permission keys a user
// holds for a single decision.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given keys.
func NewPermissionSet(keys ...string) PermissionSet {
	s := make(PermissionSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether the set contains key.
func (s PermissionSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// HasAll reports whether the set is a superset of keys.
// Vacuously false for an empty keys slice; callers gate on len(keys) first.
func (s PermissionSet) HasAll(keys []string) bool {
	for _, k := range keys {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Keys returns the set's keys in sorted order.
func (s PermissionSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy of the set.
func (s PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// ReadOptions parameterizes a read decision per endpoint.
type ReadOptions struct {
	// RequiredPermissions grants access when the caller's effective
	// permissions are a superset. Empty means no global escape hatch.
	RequiredPermissions []string `json:"required_permissions,omitempty"`

	// AllowResident grants read to users with an active occupancy in the
	// building.
	AllowResident bool `json:"allow_resident,omitempty"`
}

// WriteOptions parameterizes a write decision per endpoint.
type WriteOptions struct {
	// RequiredPermissions grants access when the caller's effective
	// permissions are a superset. Empty means no global escape hatch.
	RequiredPermissions []string `json:"required_permissions,omitempty"`

	// AllowManagerWrite extends write access to manager assignments.
	// Building admins always have write; staff never do through this path.
	AllowManagerWrite bool `json:"allow_manager_write,omitempty"`
}

// Gate is the static per-endpoint authorization declaration. Call sites
// construct it directly; nothing is discovered at request time.
type Gate struct {
	// Name identifies the gate in logs and plugin hooks.
	Name string `json:"name,omitempty"`

	// Permissions are the global permission keys that bypass
	// building-local assignment checks when all are held.
	Permissions []string `json:"permissions,omitempty"`

	// Write selects the write decision; false selects read.
	Write bool `json:"write,omitempty"`

	// AllowResident applies to read gates only.
	AllowResident bool `json:"allow_resident,omitempty"`

	// AllowManagerWrite applies to write gates only.
	AllowManagerWrite bool `json:"allow_manager_write,omitempty"`
}

// Decision is the authorization outcome.
type Decision string

const (
	// DecisionAllowPermission means the caller's effective permissions
	// covered the gate's required set.
	DecisionAllowPermission Decision = "allow_permission"

	// DecisionAllowAssignment means a building assignment granted read.
	DecisionAllowAssignment Decision = "allow_assignment"

	// DecisionAllowResident means an active occupancy granted read.
	DecisionAllowResident Decision = "allow_resident"

	// DecisionAllowBuildingAdmin means a building admin assignment granted write.
	DecisionAllowBuildingAdmin Decision = "allow_building_admin"

	// DecisionAllowManager means a manager assignment granted an opted-in write.
	DecisionAllowManager Decision = "allow_manager"

	// DecisionDenyDefault means no grant path matched.
	DecisionDenyDefault Decision = "deny_default"
)

// Verdict is the outcome of an authorization pipeline run.
type Verdict struct {
	Allowed    bool     `json:"allowed"`
	Decision   Decision `json:"decision"`
	Reason     string   `json:"reason,omitempty"`
	EvalTimeNs int64    `json:"eval_time_ns"`
}
