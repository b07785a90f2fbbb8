package plugin

import (
	"context"
	"log/slog"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/occupancy"
	"github.com/xraph/steward/override"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeDecisionEntry struct {
	name string
	hook BeforeDecision
}
type afterDecisionEntry struct {
	name string
	hook AfterDecision
}
type roleAssignedEntry struct {
	name string
	hook RoleAssigned
}
type roleUnassignedEntry struct {
	name string
	hook RoleUnassigned
}
type overrideSetEntry struct {
	name string
	hook OverrideSet
}
type overrideClearedEntry struct {
	name string
	hook OverrideCleared
}
type assignmentCreatedEntry struct {
	name string
	hook AssignmentCreated
}
type assignmentDeletedEntry struct {
	name string
	hook AssignmentDeleted
}
type occupancyStartedEntry struct {
	name string
	hook OccupancyStarted
}
type occupancyEndedEntry struct {
	name string
	hook OccupancyEnded
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeDecision    []beforeDecisionEntry
	afterDecision     []afterDecisionEntry
	roleAssigned      []roleAssignedEntry
	roleUnassigned    []roleUnassignedEntry
	overrideSet       []overrideSetEntry
	overrideCleared   []overrideClearedEntry
	assignmentCreated []assignmentCreatedEntry
	assignmentDeleted []assignmentDeletedEntry
	occupancyStarted  []occupancyStartedEntry
	occupancyEnded    []occupancyEndedEntry
	shutdown          []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeDecision); ok {
		r.beforeDecision = append(r.beforeDecision, beforeDecisionEntry{name, h})
	}
	if h, ok := p.(AfterDecision); ok {
		r.afterDecision = append(r.afterDecision, afterDecisionEntry{name, h})
	}
	if h, ok := p.(RoleAssigned); ok {
		r.roleAssigned = append(r.roleAssigned, roleAssignedEntry{name, h})
	}
	if h, ok := p.(RoleUnassigned); ok {
		r.roleUnassigned = append(r.roleUnassigned, roleUnassignedEntry{name, h})
	}
	if h, ok := p.(OverrideSet); ok {
		r.overrideSet = append(r.overrideSet, overrideSetEntry{name, h})
	}
	if h, ok := p.(OverrideCleared); ok {
		r.overrideCleared = append(r.overrideCleared, overrideClearedEntry{name, h})
	}
	if h, ok := p.(AssignmentCreated); ok {
		r.assignmentCreated = append(r.assignmentCreated, assignmentCreatedEntry{name, h})
	}
	if h, ok := p.(AssignmentDeleted); ok {
		r.assignmentDeleted = append(r.assignmentDeleted, assignmentDeletedEntry{name, h})
	}
	if h, ok := p.(OccupancyStarted); ok {
		r.occupancyStarted = append(r.occupancyStarted, occupancyStartedEntry{name, h})
	}
	if h, ok := p.(OccupancyEnded); ok {
		r.occupancyEnded = append(r.occupancyEnded, occupancyEndedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Decision event emitters
// ──────────────────────────────────────────────────

// EmitBeforeDecision notifies all plugins that implement BeforeDecision.
func (r *Registry) EmitBeforeDecision(ctx context.Context, req any) {
	for _, e := range r.beforeDecision {
		if err := e.hook.OnBeforeDecision(ctx, req); err != nil {
			r.logHookError("OnBeforeDecision", e.name, err)
		}
	}
}

// EmitAfterDecision notifies all plugins that implement AfterDecision.
func (r *Registry) EmitAfterDecision(ctx context.Context, req, verdict any) {
	for _, e := range r.afterDecision {
		if err := e.hook.OnAfterDecision(ctx, req, verdict); err != nil {
			r.logHookError("OnAfterDecision", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Role event emitters
// ──────────────────────────────────────────────────

// EmitRoleAssigned notifies all plugins that implement RoleAssigned.
func (r *Registry) EmitRoleAssigned(ctx context.Context, userID id.UserID, roleID id.RoleID) {
	for _, e := range r.roleAssigned {
		if err := e.hook.OnRoleAssigned(ctx, userID, roleID); err != nil {
			r.logHookError("OnRoleAssigned", e.name, err)
		}
	}
}

// EmitRoleUnassigned notifies all plugins that implement RoleUnassigned.
func (r *Registry) EmitRoleUnassigned(ctx context.Context, userID id.UserID, roleID id.RoleID) {
	for _, e := range r.roleUnassigned {
		if err := e.hook.OnRoleUnassigned(ctx, userID, roleID); err != nil {
			r.logHookError("OnRoleUnassigned", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Override event emitters
// ──────────────────────────────────────────────────

// EmitOverrideSet notifies all plugins that implement OverrideSet.
func (r *Registry) EmitOverrideSet(ctx context.Context, o *override.Override) {
	for _, e := range r.overrideSet {
		if err := e.hook.OnOverrideSet(ctx, o); err != nil {
			r.logHookError("OnOverrideSet", e.name, err)
		}
	}
}

// EmitOverrideCleared notifies all plugins that implement OverrideCleared.
func (r *Registry) EmitOverrideCleared(ctx context.Context, userID id.UserID, permissionKey string) {
	for _, e := range r.overrideCleared {
		if err := e.hook.OnOverrideCleared(ctx, userID, permissionKey); err != nil {
			r.logHookError("OnOverrideCleared", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Assignment event emitters
// ──────────────────────────────────────────────────

// EmitAssignmentCreated notifies all plugins that implement AssignmentCreated.
func (r *Registry) EmitAssignmentCreated(ctx context.Context, a *assignment.BuildingAssignment) {
	for _, e := range r.assignmentCreated {
		if err := e.hook.OnAssignmentCreated(ctx, a); err != nil {
			r.logHookError("OnAssignmentCreated", e.name, err)
		}
	}
}

// EmitAssignmentDeleted notifies all plugins that implement AssignmentDeleted.
func (r *Registry) EmitAssignmentDeleted(ctx context.Context, assignmentID id.AssignmentID) {
	for _, e := range r.assignmentDeleted {
		if err := e.hook.OnAssignmentDeleted(ctx, assignmentID); err != nil {
			r.logHookError("OnAssignmentDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Occupancy event emitters
// ──────────────────────────────────────────────────

// EmitOccupancyStarted notifies all plugins that implement OccupancyStarted.
func (r *Registry) EmitOccupancyStarted(ctx context.Context, o *occupancy.Occupancy) {
	for _, e := range r.occupancyStarted {
		if err := e.hook.OnOccupancyStarted(ctx, o); err != nil {
			r.logHookError("OnOccupancyStarted", e.name, err)
		}
	}
}

// EmitOccupancyEnded notifies all plugins that implement OccupancyEnded.
func (r *Registry) EmitOccupancyEnded(ctx context.Context, occupancyID id.OccupancyID) {
	for _, e := range r.occupancyEnded {
		if err := e.hook.OnOccupancyEnded(ctx, occupancyID); err != nil {
			r.logHookError("OnOccupancyEnded", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Shutdown emitter
// ──────────────────────────────────────────────────

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the pipeline.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
