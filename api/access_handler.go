package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/id"
)

func (a *API) registerAccessRoutes(router forge.Router) error {
	g := router.Group("/v1/access", forge.WithGroupTags("access"))

	if err := g.POST("/can-read", a.canRead,
		forge.WithSummary("Read access decision"),
		forge.WithDescription("Decides whether the user can read a building-scoped resource."),
		forge.WithOperationID("accessCanRead"),
		forge.WithRequestSchema(AccessRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Decision", AccessResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/can-write", a.canWrite,
		forge.WithSummary("Write access decision"),
		forge.WithDescription("Decides whether the user can write a building-scoped resource."),
		forge.WithOperationID("accessCanWrite"),
		forge.WithRequestSchema(AccessRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Decision", AccessResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/authorize", a.authorize,
		forge.WithSummary("Full authorization decision"),
		forge.WithDescription("Runs the request pipeline and returns the verdict with its decision code."),
		forge.WithOperationID("accessAuthorize"),
		forge.WithRequestSchema(AuthorizeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Verdict", VerdictResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return router.Group("/v1", forge.WithGroupTags("access")).GET(
		"/users/:userId/permissions", a.getUserPermissions,
		forge.WithSummary("Effective permissions"),
		forge.WithDescription("Returns the user's effective permission keys after overrides."),
		forge.WithOperationID("getUserPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Permission keys", PermissionsResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) canRead(ctx forge.Context, req *AccessRequest) (*AccessResponse, error) {
	ident, buildingID, err := accessTarget(req.UserID, req.OrgID, req.BuildingID)
	if err != nil {
		return nil, err
	}

	allowed, err := a.eng.CanReadBuildingResource(
		steward.WithPermissionMemo(ctx.Context()), ident, buildingID,
		steward.ReadOptions{
			RequiredPermissions: req.RequiredPermissions,
			AllowResident:       req.AllowResident,
		})
	if err != nil {
		return nil, mapError(err)
	}

	resp := &AccessResponse{Allowed: allowed}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) canWrite(ctx forge.Context, req *AccessRequest) (*AccessResponse, error) {
	ident, buildingID, err := accessTarget(req.UserID, req.OrgID, req.BuildingID)
	if err != nil {
		return nil, err
	}

	allowed, err := a.eng.CanWriteBuildingResource(
		steward.WithPermissionMemo(ctx.Context()), ident, buildingID,
		steward.WriteOptions{
			RequiredPermissions: req.RequiredPermissions,
			AllowManagerWrite:   req.AllowManagerWrite,
		})
	if err != nil {
		return nil, mapError(err)
	}

	resp := &AccessResponse{Allowed: allowed}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) authorize(ctx forge.Context, req *AuthorizeRequest) (*VerdictResponse, error) {
	ident, buildingID, err := accessTarget(req.UserID, req.OrgID, req.BuildingID)
	if err != nil {
		return nil, err
	}

	gate := steward.Gate{
		Name:              req.Gate,
		Permissions:       req.Permissions,
		Write:             req.Write,
		AllowResident:     req.AllowResident,
		AllowManagerWrite: req.AllowManagerWrite,
	}

	verdict, err := a.eng.Authorize(ctx.Context(), ident, buildingID, gate)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &VerdictResponse{
		Allowed:    verdict.Allowed,
		Decision:   string(verdict.Decision),
		Reason:     verdict.Reason,
		EvalTimeNs: verdict.EvalTimeNs,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) getUserPermissions(ctx forge.Context, _ *GetUserPermissionsRequest) (*PermissionsResponse, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	set, err := a.eng.ResolveEffectivePermissions(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &PermissionsResponse{
		UserID:      userID.String(),
		Permissions: set.Keys(),
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

// accessTarget parses the identity and building out of an access request.
func accessTarget(userID, orgID, buildingID string) (steward.Identity, id.BuildingID, error) {
	var ident steward.Identity

	if userID == "" || buildingID == "" {
		return ident, id.Nil, forge.BadRequest("user_id and building_id are required")
	}

	uid, err := id.ParseUserID(userID)
	if err != nil {
		return ident, id.Nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}
	ident.UserID = uid

	if orgID != "" {
		oid, err := id.ParseOrgID(orgID)
		if err != nil {
			return ident, id.Nil, forge.BadRequest(fmt.Sprintf("invalid org ID: %v", err))
		}
		ident.OrgID = oid
	}

	bid, err := id.ParseBuildingID(buildingID)
	if err != nil {
		return ident, id.Nil, forge.BadRequest(fmt.Sprintf("invalid building ID: %v", err))
	}
	return ident, bid, nil
}
