package steward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/building"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/permission"
	"github.com/xraph/steward/plugin"
	"github.com/xraph/steward/store"
)

// Engine is the central authorization engine. It resolves effective
// permissions, enforces org scope, collapses building assignments, and
// composes them into read/write decisions. The engine never mutates the
// entities it reads — it is a pure decision function over stored state.
type Engine struct {
	store   store.Store
	cache   Cache
	plugins *plugin.Registry
	logger  *slog.Logger
	config  Config

	// pluginList accumulates WithPlugin options until NewEngine builds
	// the registry with the final logger.
	pluginList []plugin.Plugin
}

// NewEngine creates a new Steward engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("steward: store is required")
	}
	if len(e.pluginList) > 0 {
		e.plugins = plugin.NewRegistry(e.logger)
		for _, x := range e.pluginList {
			e.plugins.Register(x)
		}
	}
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// InvalidateUserPermissions drops the cached permission set for a user.
// Role and override mutations must call this, or stale grants survive
// until TTL expiry.
func (e *Engine) InvalidateUserPermissions(ctx context.Context, userID id.UserID) {
	if e.cache != nil {
		e.cache.InvalidateUser(ctx, userID)
	}
}

// InvalidateOrgPermissions drops every cached permission set for an org.
// Use after role-definition changes that affect an unknown set of users.
func (e *Engine) InvalidateOrgPermissions(ctx context.Context, orgID id.OrgID) {
	if e.cache != nil {
		e.cache.InvalidateOrg(ctx, orgID)
	}
}

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// ResolveEffectivePermissions computes the set of permission keys the user
// currently holds: the union of role-derived grants, plus allow overrides,
// minus deny overrides. A user with no roles and no overrides yields the
// empty set, never an error.
//
// Within one request, installing WithPermissionMemo on the context collapses
// repeated calls into a single store round-trip. Across requests the result
// is cached only when a Cache is installed and CacheTTL is positive; role
// and override mutations must invalidate through the cache.
func (e *Engine) ResolveEffectivePermissions(ctx context.Context, userID id.UserID) (PermissionSet, error) {
	memo := memoFromContext(ctx)
	if memo != nil {
		if set, ok := memo.get(userID); ok {
			return set, nil
		}
	}

	if e.cache != nil && e.config.CacheTTL > 0 {
		if set, ok := e.cache.GetPermissions(ctx, userID); ok {
			if memo != nil {
				memo.set(userID, set)
			}
			return set, nil
		}
	}

	set, err := e.resolvePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	if memo != nil {
		memo.set(userID, set)
	}
	if e.cache != nil && e.config.CacheTTL > 0 {
		e.cache.SetPermissions(ctx, e.orgForCache(ctx), userID, set, e.config.CacheTTL)
	}
	return set, nil
}

// resolvePermissions does the actual store work. Role grants and overrides
// have no data dependency, so both reads run concurrently.
func (e *Engine) resolvePermissions(ctx context.Context, userID id.UserID) (PermissionSet, error) {
	var (
		roleKeys  []string
		overrides []*overrideRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keys, err := e.store.ListPermissionKeysForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("steward: resolve role permissions: %w", err)
		}
		roleKeys = keys
		return nil
	})
	g.Go(func() error {
		rows, err := e.store.ListOverridesForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("steward: resolve overrides: %w", err)
		}
		overrides = make([]*overrideRow, 0, len(rows))
		for _, o := range rows {
			overrides = append(overrides, &overrideRow{key: o.PermissionKey, effect: o.Effect})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := NewPermissionSet(roleKeys...)
	for _, o := range overrides {
		if o.effect == permission.EffectAllow {
			set[o.key] = struct{}{}
		}
	}
	// Deny wins over any role grant or allow, applied last.
	for _, o := range overrides {
		if o.effect == permission.EffectDeny {
			delete(set, o.key)
		}
	}
	return set, nil
}

type overrideRow struct {
	key    string
	effect permission.Effect
}

// orgForCache derives the org to index a cache entry under, from the
// identity or forge scope on the context. Zero when neither is present.
func (e *Engine) orgForCache(ctx context.Context) id.OrgID {
	if ident, ok := IdentityFromContext(ctx); ok && !ident.OrgID.IsNil() {
		return ident.OrgID
	}
	return scopeOrgID(ctx)
}

// RequireOrgID establishes the org scope for a tenant-scoped operation.
// The identity's own org wins; a forge scope on the context is the
// fallback for platform identities operating with an explicit scope.
// An absent or empty org id fails with ErrOrgScopeRequired.
func (e *Engine) RequireOrgID(ctx context.Context, ident Identity) (id.OrgID, error) {
	if !ident.OrgID.IsNil() {
		return ident.OrgID, nil
	}
	if orgID := scopeOrgID(ctx); !orgID.IsNil() {
		return orgID, nil
	}
	return id.Nil, ErrOrgScopeRequired
}

// RequireBuildingInOrg looks up a building constrained to the org in a
// single predicate. A building that does not exist and a building owned by
// another org both fail with ErrNotFound; callers cannot tell them apart.
// Every building-scoped decision routes through here before any permission
// check runs.
func (e *Engine) RequireBuildingInOrg(ctx context.Context, orgID id.OrgID, buildingID id.BuildingID) (*building.Building, error) {
	b, err := e.store.GetBuildingInOrg(ctx, orgID, buildingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("building %s: %w", buildingID, ErrNotFound)
		}
		return nil, fmt.Errorf("steward: building lookup: %w", err)
	}
	return b, nil
}

// ResolveAssignmentType returns the user's single effective assignment type
// on the building, collapsing multiple rows by fixed priority
// (building_admin > manager > staff). The second return is false when the
// user holds no assignment. Resource-specific policies (e.g. staff acting
// only on their own tickets) consume this output; they are not part of the
// generic decision.
func (e *Engine) ResolveAssignmentType(ctx context.Context, buildingID id.BuildingID, userID id.UserID) (assignment.Type, bool, error) {
	rows, err := e.store.ListAssignmentsForBuildingUser(ctx, buildingID, userID)
	if err != nil {
		return "", false, fmt.Errorf("steward: resolve assignment: %w", err)
	}
	types := make([]assignment.Type, 0, len(rows))
	for _, a := range rows {
		types = append(types, a.Type)
	}
	typ, ok := assignment.HighestPriority(types)
	return typ, ok, nil
}

// HasActiveOccupancy reports whether the user has an active occupancy in
// the building.
func (e *Engine) HasActiveOccupancy(ctx context.Context, buildingID id.BuildingID, userID id.UserID) (bool, error) {
	ok, err := e.store.HasActiveOccupancy(ctx, buildingID, userID)
	if err != nil {
		return false, fmt.Errorf("steward: occupancy lookup: %w", err)
	}
	return ok, nil
}

// CanReadBuildingResource decides read access to a building-scoped
// resource. Grant paths, in order: global permission superset, any
// building assignment, active occupancy when the endpoint allows
// residents. Org scope and building tenancy are proven first; a cross-org
// building is ErrNotFound regardless of the caller's permissions.
func (e *Engine) CanReadBuildingResource(ctx context.Context, ident Identity, buildingID id.BuildingID, opts ReadOptions) (bool, error) {
	orgID, err := e.RequireOrgID(ctx, ident)
	if err != nil {
		return false, err
	}
	if _, err := e.RequireBuildingInOrg(ctx, orgID, buildingID); err != nil {
		return false, err
	}
	v, err := e.decideRead(ctx, ident.UserID, buildingID, opts)
	if err != nil {
		return false, err
	}
	return v.Allowed, nil
}

// CanWriteBuildingResource decides write access to a building-scoped
// resource. Grant paths, in order: global permission superset, building
// admin assignment, manager assignment when the endpoint opts in. Staff
// never gains write here.
func (e *Engine) CanWriteBuildingResource(ctx context.Context, ident Identity, buildingID id.BuildingID, opts WriteOptions) (bool, error) {
	orgID, err := e.RequireOrgID(ctx, ident)
	if err != nil {
		return false, err
	}
	if _, err := e.RequireBuildingInOrg(ctx, orgID, buildingID); err != nil {
		return false, err
	}
	v, err := e.decideWrite(ctx, ident.UserID, buildingID, opts)
	if err != nil {
		return false, err
	}
	return v.Allowed, nil
}

// decideRead assumes org scope and building tenancy are already proven.
func (e *Engine) decideRead(ctx context.Context, userID id.UserID, buildingID id.BuildingID, opts ReadOptions) (*Verdict, error) {
	if len(opts.RequiredPermissions) > 0 {
		perms, err := e.ResolveEffectivePermissions(ctx, userID)
		if err != nil {
			return nil, err
		}
		if perms.HasAll(opts.RequiredPermissions) {
			return &Verdict{Allowed: true, Decision: DecisionAllowPermission}, nil
		}
	}

	// Any assignment type grants read.
	if _, ok, err := e.ResolveAssignmentType(ctx, buildingID, userID); err != nil {
		return nil, err
	} else if ok {
		return &Verdict{Allowed: true, Decision: DecisionAllowAssignment}, nil
	}

	if opts.AllowResident {
		occupied, err := e.HasActiveOccupancy(ctx, buildingID, userID)
		if err != nil {
			return nil, err
		}
		if occupied {
			return &Verdict{Allowed: true, Decision: DecisionAllowResident}, nil
		}
	}

	return &Verdict{Decision: DecisionDenyDefault, Reason: "no read grant path matched"}, nil
}

// decideWrite assumes org scope and building tenancy are already proven.
func (e *Engine) decideWrite(ctx context.Context, userID id.UserID, buildingID id.BuildingID, opts WriteOptions) (*Verdict, error) {
	if len(opts.RequiredPermissions) > 0 {
		perms, err := e.ResolveEffectivePermissions(ctx, userID)
		if err != nil {
			return nil, err
		}
		if perms.HasAll(opts.RequiredPermissions) {
			return &Verdict{Allowed: true, Decision: DecisionAllowPermission}, nil
		}
	}

	typ, ok, err := e.ResolveAssignmentType(ctx, buildingID, userID)
	if err != nil {
		return nil, err
	}
	if ok && typ == assignment.TypeBuildingAdmin {
		return &Verdict{Allowed: true, Decision: DecisionAllowBuildingAdmin}, nil
	}
	if ok && typ == assignment.TypeManager && opts.AllowManagerWrite {
		return &Verdict{Allowed: true, Decision: DecisionAllowManager}, nil
	}

	return &Verdict{Decision: DecisionDenyDefault, Reason: "no write grant path matched"}, nil
}
