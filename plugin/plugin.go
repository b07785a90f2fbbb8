// Package plugin defines the plugin system for Steward.
// Plugins are notified of lifecycle events (decision evaluated, role
// assigned, override set, occupancy started, etc.) and can react —
// logging, metrics, tracing, etc.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/occupancy"
	"github.com/xraph/steward/override"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Decision lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeDecision is called before an access decision is evaluated.
// The req parameter is *steward.DecisionRequest (passed as any to avoid import cycle).
type BeforeDecision interface {
	OnBeforeDecision(ctx context.Context, req any) error
}

// AfterDecision is called after an access decision completes.
// The req parameter is *steward.DecisionRequest; verdict is *steward.Verdict.
type AfterDecision interface {
	OnAfterDecision(ctx context.Context, req, verdict any) error
}

// ──────────────────────────────────────────────────
// Role lifecycle hooks
// ──────────────────────────────────────────────────

// RoleAssigned is called after a role is assigned to a user.
type RoleAssigned interface {
	OnRoleAssigned(ctx context.Context, userID id.UserID, roleID id.RoleID) error
}

// RoleUnassigned is called after a role is unassigned from a user.
type RoleUnassigned interface {
	OnRoleUnassigned(ctx context.Context, userID id.UserID, roleID id.RoleID) error
}

// ──────────────────────────────────────────────────
// Override lifecycle hooks
// ──────────────────────────────────────────────────

// OverrideSet is called after a permission override is created or replaced.
type OverrideSet interface {
	OnOverrideSet(ctx context.Context, o *override.Override) error
}

// OverrideCleared is called after a permission override is removed.
type OverrideCleared interface {
	OnOverrideCleared(ctx context.Context, userID id.UserID, permissionKey string) error
}

// ──────────────────────────────────────────────────
// Assignment lifecycle hooks
// ──────────────────────────────────────────────────

// AssignmentCreated is called after a building assignment is created.
type AssignmentCreated interface {
	OnAssignmentCreated(ctx context.Context, a *assignment.BuildingAssignment) error
}

// AssignmentDeleted is called after a building assignment is deleted.
type AssignmentDeleted interface {
	OnAssignmentDeleted(ctx context.Context, assignmentID id.AssignmentID) error
}

// ──────────────────────────────────────────────────
// Occupancy lifecycle hooks
// ──────────────────────────────────────────────────

// OccupancyStarted is called after an occupancy is created.
type OccupancyStarted interface {
	OnOccupancyStarted(ctx context.Context, o *occupancy.Occupancy) error
}

// OccupancyEnded is called after an occupancy transitions to ended.
type OccupancyEnded interface {
	OnOccupancyEnded(ctx context.Context, occupancyID id.OccupancyID) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
