package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/id"
)

func (a *API) registerAssignmentRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("assignments"))

	if err := g.POST("/buildings/:buildingId/assignments", a.createAssignment,
		forge.WithSummary("Create assignment"),
		forge.WithDescription("Assigns a user to the building under one assignment type."),
		forge.WithOperationID("createAssignment"),
		forge.WithRequestSchema(CreateAssignmentRequest{}),
		forge.WithCreatedResponse(&assignment.BuildingAssignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/assignments/:assignmentId", a.getAssignment,
		forge.WithSummary("Get assignment"),
		forge.WithDescription("Returns details of a specific assignment."),
		forge.WithOperationID("getAssignment"),
		forge.WithResponseSchema(http.StatusOK, "Assignment details", &assignment.BuildingAssignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/assignments/:assignmentId", a.deleteAssignment,
		forge.WithSummary("Delete assignment"),
		forge.WithDescription("Removes a building assignment."),
		forge.WithOperationID("deleteAssignment"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/assignments", a.listAssignments,
		forge.WithSummary("List assignments"),
		forge.WithDescription("Lists assignments with optional filters."),
		forge.WithOperationID("listAssignments"),
		forge.WithRequestSchema(ListAssignmentsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Assignment list", []*assignment.BuildingAssignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/buildings/:buildingId/users/:userId/assignment-type", a.getAssignmentType,
		forge.WithSummary("Effective assignment type"),
		forge.WithDescription("Collapses a user's assignments on a building to the highest-priority type."),
		forge.WithOperationID("getAssignmentType"),
		forge.WithResponseSchema(http.StatusOK, "Effective type", AssignmentTypeResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createAssignment(ctx forge.Context, req *CreateAssignmentRequest) (*assignment.BuildingAssignment, error) {
	orgID, err := id.ParseOrgID(req.OrgID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org ID: %v", err))
	}
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}
	buildingID, err := id.ParseBuildingID(ctx.Param("buildingId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid building ID: %v", err))
	}

	typ := assignment.Type(req.Type)
	if !typ.Valid() {
		return nil, mapError(fmt.Errorf("%w: %q", steward.ErrInvalidAssignmentType, req.Type))
	}

	// The building must exist in the caller's org before any grant lands.
	if _, err := a.eng.Store().GetBuildingInOrg(ctx.Context(), orgID, buildingID); err != nil {
		return nil, mapError(err)
	}

	ba := &assignment.BuildingAssignment{
		ID:         id.NewAssignmentID(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UserID:     userID,
		Type:       typ,
	}
	if req.GrantedBy != "" {
		grantedBy, err := id.ParseUserID(req.GrantedBy)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid granted_by ID: %v", err))
		}
		ba.GrantedBy = grantedBy
	}

	if err := a.eng.Store().CreateAssignment(ctx.Context(), ba); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitAssignmentCreated(ctx.Context(), ba)
	}

	return ba, ctx.JSON(http.StatusCreated, ba)
}

func (a *API) getAssignment(ctx forge.Context, _ *GetAssignmentRequest) (*assignment.BuildingAssignment, error) {
	assignmentID, err := id.ParseAssignmentID(ctx.Param("assignmentId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid assignment ID: %v", err))
	}

	ba, err := a.eng.Store().GetAssignment(ctx.Context(), assignmentID)
	if err != nil {
		return nil, mapError(err)
	}

	return ba, ctx.JSON(http.StatusOK, ba)
}

func (a *API) deleteAssignment(ctx forge.Context, _ *GetAssignmentRequest) (*struct{}, error) {
	assignmentID, err := id.ParseAssignmentID(ctx.Param("assignmentId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid assignment ID: %v", err))
	}

	if err := a.eng.Store().DeleteAssignment(ctx.Context(), assignmentID); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitAssignmentDeleted(ctx.Context(), assignmentID)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listAssignments(ctx forge.Context, req *ListAssignmentsRequest) ([]*assignment.BuildingAssignment, error) {
	filter := &assignment.ListFilter{
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}
	if req.OrgID != "" {
		orgID, err := id.ParseOrgID(req.OrgID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid org ID: %v", err))
		}
		filter.OrgID = orgID
	}
	if req.BuildingID != "" {
		buildingID, err := id.ParseBuildingID(req.BuildingID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid building ID: %v", err))
		}
		filter.BuildingID = buildingID
	}
	if req.UserID != "" {
		userID, err := id.ParseUserID(req.UserID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
		}
		filter.UserID = userID
	}
	if req.Type != "" {
		typ := assignment.Type(req.Type)
		if !typ.Valid() {
			return nil, forge.BadRequest(fmt.Sprintf("invalid assignment type: %q", req.Type))
		}
		filter.Type = &typ
	}

	assignments, err := a.eng.Store().ListAssignments(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return assignments, ctx.JSON(http.StatusOK, assignments)
}

func (a *API) getAssignmentType(ctx forge.Context, _ *GetAssignmentTypeRequest) (*AssignmentTypeResponse, error) {
	buildingID, err := id.ParseBuildingID(ctx.Param("buildingId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid building ID: %v", err))
	}
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	typ, assigned, err := a.eng.ResolveAssignmentType(ctx.Context(), buildingID, userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &AssignmentTypeResponse{Assigned: assigned}
	if assigned {
		resp.Type = string(typ)
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
