package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/override"
	"github.com/xraph/steward/permission"
)

func (a *API) registerOverrideRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("overrides"))

	if err := g.PUT("/users/:userId/overrides", a.setOverride,
		forge.WithSummary("Set override"),
		forge.WithDescription("Creates or replaces the per-user override for a permission key."),
		forge.WithOperationID("setOverride"),
		forge.WithRequestSchema(SetOverrideRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Stored override", &override.Override{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/users/:userId/overrides/:permissionKey", a.clearOverride,
		forge.WithSummary("Clear override"),
		forge.WithDescription("Removes the per-user override for a permission key."),
		forge.WithOperationID("clearOverride"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/users/:userId/overrides", a.listUserOverrides,
		forge.WithSummary("List user overrides"),
		forge.WithDescription("Returns all overrides held by a user."),
		forge.WithOperationID("listUserOverrides"),
		forge.WithResponseSchema(http.StatusOK, "Override list", []*override.Override{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/overrides", a.listOverrides,
		forge.WithSummary("List overrides"),
		forge.WithDescription("Lists overrides with optional filters."),
		forge.WithOperationID("listOverrides"),
		forge.WithRequestSchema(ListOverridesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Override list", []*override.Override{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) setOverride(ctx forge.Context, req *SetOverrideRequest) (*override.Override, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}
	orgID, err := id.ParseOrgID(req.OrgID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org ID: %v", err))
	}

	if !permission.IsKnown(req.PermissionKey) {
		return nil, mapError(fmt.Errorf("%w: %s", steward.ErrUnknownPermissionKey, req.PermissionKey))
	}
	effect := permission.Effect(req.Effect)
	if !effect.Valid() {
		return nil, mapError(fmt.Errorf("%w: %q", steward.ErrInvalidEffect, req.Effect))
	}

	o := &override.Override{
		ID:            id.NewOverrideID(),
		OrgID:         orgID,
		UserID:        userID,
		PermissionKey: req.PermissionKey,
		Effect:        effect,
	}
	if req.GrantedBy != "" {
		grantedBy, err := id.ParseUserID(req.GrantedBy)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid granted_by ID: %v", err))
		}
		o.GrantedBy = grantedBy
	}

	if err := a.eng.Store().SetOverride(ctx.Context(), o); err != nil {
		return nil, mapError(err)
	}

	a.eng.InvalidateUserPermissions(ctx.Context(), userID)
	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitOverrideSet(ctx.Context(), o)
	}

	return o, ctx.JSON(http.StatusOK, o)
}

func (a *API) clearOverride(ctx forge.Context, _ *ClearOverrideRequest) (*struct{}, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}
	key := ctx.Param("permissionKey")
	if key == "" {
		return nil, forge.BadRequest("permission key is required")
	}

	if err := a.eng.Store().ClearOverride(ctx.Context(), userID, key); err != nil {
		return nil, mapError(err)
	}

	a.eng.InvalidateUserPermissions(ctx.Context(), userID)
	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitOverrideCleared(ctx.Context(), userID, key)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listUserOverrides(ctx forge.Context, _ *struct{}) ([]*override.Override, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	overrides, err := a.eng.Store().ListOverridesForUser(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	return overrides, ctx.JSON(http.StatusOK, overrides)
}

func (a *API) listOverrides(ctx forge.Context, req *ListOverridesRequest) ([]*override.Override, error) {
	filter := &override.ListFilter{
		PermissionKey: req.PermissionKey,
		Limit:         defaultLimit(req.Limit),
		Offset:        req.Offset,
	}
	if req.OrgID != "" {
		orgID, err := id.ParseOrgID(req.OrgID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid org ID: %v", err))
		}
		filter.OrgID = orgID
	}
	if req.UserID != "" {
		userID, err := id.ParseUserID(req.UserID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
		}
		filter.UserID = userID
	}
	if req.Effect != "" {
		effect := permission.Effect(req.Effect)
		if !effect.Valid() {
			return nil, forge.BadRequest(fmt.Sprintf("invalid effect: %q", req.Effect))
		}
		filter.Effect = &effect
	}

	overrides, err := a.eng.Store().ListOverrides(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return overrides, ctx.JSON(http.StatusOK, overrides)
}
