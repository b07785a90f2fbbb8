package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/occupancy"
)

func (a *API) registerOccupancyRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("occupancies"))

	if err := g.POST("/occupancies", a.createOccupancy,
		forge.WithSummary("Start occupancy"),
		forge.WithDescription("Starts an active occupancy tying a resident to a unit."),
		forge.WithOperationID("createOccupancy"),
		forge.WithRequestSchema(CreateOccupancyRequest{}),
		forge.WithCreatedResponse(&occupancy.Occupancy{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/occupancies/:occupancyId", a.getOccupancy,
		forge.WithSummary("Get occupancy"),
		forge.WithDescription("Returns details of a specific occupancy."),
		forge.WithOperationID("getOccupancy"),
		forge.WithResponseSchema(http.StatusOK, "Occupancy details", &occupancy.Occupancy{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/occupancies/:occupancyId/end", a.endOccupancy,
		forge.WithSummary("End occupancy"),
		forge.WithDescription("Transitions an active occupancy to ended. Ending twice is a no-op."),
		forge.WithOperationID("endOccupancy"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/occupancies", a.listOccupancies,
		forge.WithSummary("List occupancies"),
		forge.WithDescription("Lists occupancies with optional filters."),
		forge.WithOperationID("listOccupancies"),
		forge.WithRequestSchema(ListOccupanciesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Occupancy list", []*occupancy.Occupancy{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createOccupancy(ctx forge.Context, req *CreateOccupancyRequest) (*occupancy.Occupancy, error) {
	orgID, err := id.ParseOrgID(req.OrgID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org ID: %v", err))
	}
	buildingID, err := id.ParseBuildingID(req.BuildingID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid building ID: %v", err))
	}
	unitID, err := id.ParseUnitID(req.UnitID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid unit ID: %v", err))
	}
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	if _, err := a.eng.Store().GetBuildingInOrg(ctx.Context(), orgID, buildingID); err != nil {
		return nil, mapError(err)
	}

	o := &occupancy.Occupancy{
		ID:         id.NewOccupancyID(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UnitID:     unitID,
		UserID:     userID,
		Status:     occupancy.StatusActive,
	}
	if err := a.eng.Store().CreateOccupancy(ctx.Context(), o); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitOccupancyStarted(ctx.Context(), o)
	}

	return o, ctx.JSON(http.StatusCreated, o)
}

func (a *API) getOccupancy(ctx forge.Context, _ *GetOccupancyRequest) (*occupancy.Occupancy, error) {
	occupancyID, err := id.ParseOccupancyID(ctx.Param("occupancyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid occupancy ID: %v", err))
	}

	o, err := a.eng.Store().GetOccupancy(ctx.Context(), occupancyID)
	if err != nil {
		return nil, mapError(err)
	}

	return o, ctx.JSON(http.StatusOK, o)
}

func (a *API) endOccupancy(ctx forge.Context, _ *GetOccupancyRequest) (*struct{}, error) {
	occupancyID, err := id.ParseOccupancyID(ctx.Param("occupancyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid occupancy ID: %v", err))
	}

	if err := a.eng.Store().EndOccupancy(ctx.Context(), occupancyID); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitOccupancyEnded(ctx.Context(), occupancyID)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listOccupancies(ctx forge.Context, req *ListOccupanciesRequest) ([]*occupancy.Occupancy, error) {
	filter := &occupancy.ListFilter{
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
	if req.UnitID != "" {
		unitID, err := id.ParseUnitID(req.UnitID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid unit ID: %v", err))
		}
		filter.UnitID = unitID
	}
	if req.UserID != "" {
		userID, err := id.ParseUserID(req.UserID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
		}
		filter.UserID = userID
	}
	if req.Status != "" {
		status := occupancy.Status(req.Status)
		if !status.Valid() {
			return nil, forge.BadRequest(fmt.Sprintf("invalid status: %q", req.Status))
		}
		filter.Status = &status
	}

	occupancies, err := a.eng.Store().ListOccupancies(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return occupancies, ctx.JSON(http.StatusOK, occupancies)
}
