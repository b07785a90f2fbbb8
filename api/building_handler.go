package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward/building"
	"github.com/xraph/steward/id"
)

func (a *API) registerBuildingRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("buildings"))

	if err := g.POST("/buildings", a.createBuilding,
		forge.WithSummary("Create building"),
		forge.WithDescription("Creates a new building in an org."),
		forge.WithOperationID("createBuilding"),
		forge.WithRequestSchema(CreateBuildingRequest{}),
		forge.WithCreatedResponse(&building.Building{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/buildings/:buildingId", a.getBuilding,
		forge.WithSummary("Get building"),
		forge.WithDescription("Returns details of a specific building."),
		forge.WithOperationID("getBuilding"),
		forge.WithResponseSchema(http.StatusOK, "Building details", &building.Building{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/buildings/:buildingId", a.updateBuilding,
		forge.WithSummary("Update building"),
		forge.WithDescription("Updates an existing building."),
		forge.WithOperationID("updateBuilding"),
		forge.WithRequestSchema(UpdateBuildingRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated building", &building.Building{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/buildings/:buildingId", a.deleteBuilding,
		forge.WithSummary("Delete building"),
		forge.WithDescription("Deletes a building and its grants."),
		forge.WithOperationID("deleteBuilding"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/buildings", a.listBuildings,
		forge.WithSummary("List buildings"),
		forge.WithDescription("Lists buildings with optional filters."),
		forge.WithOperationID("listBuildings"),
		forge.WithRequestSchema(ListBuildingsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Building list", []*building.Building{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createBuilding(ctx forge.Context, req *CreateBuildingRequest) (*building.Building, error) {
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}
	orgID, err := id.ParseOrgID(req.OrgID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org ID: %v", err))
	}

	b := &building.Building{
		ID:      id.NewBuildingID(),
		OrgID:   orgID,
		Name:    req.Name,
		Address: req.Address,
	}
	if err := a.eng.Store().CreateBuilding(ctx.Context(), b); err != nil {
		return nil, mapError(err)
	}

	return b, ctx.JSON(http.StatusCreated, b)
}

func (a *API) getBuilding(ctx forge.Context, _ *GetBuildingRequest) (*building.Building, error) {
	buildingID, err := id.ParseBuildingID(ctx.Param("buildingId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid building ID: %v", err))
	}

	b, err := a.eng.Store().GetBuilding(ctx.Context(), buildingID)
	if err != nil {
		return nil, mapError(err)
	}

	return b, ctx.JSON(http.StatusOK, b)
}

func (a *API) updateBuilding(ctx forge.Context, req *UpdateBuildingRequest) (*building.Building, error) {
	buildingID, err := id.ParseBuildingID(ctx.Param("buildingId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid building ID: %v", err))
	}

	b, err := a.eng.Store().GetBuilding(ctx.Context(), buildingID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Name != "" {
		b.Name = req.Name
	}
	if req.Address != "" {
		b.Address = req.Address
	}

	if err := a.eng.Store().UpdateBuilding(ctx.Context(), b); err != nil {
		return nil, mapError(err)
	}

	return b, ctx.JSON(http.StatusOK, b)
}

func (a *API) deleteBuilding(ctx forge.Context, _ *GetBuildingRequest) (*struct{}, error) {
	buildingID, err := id.ParseBuildingID(ctx.Param("buildingId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid building ID: %v", err))
	}

	if err := a.eng.Store().DeleteBuilding(ctx.Context(), buildingID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listBuildings(ctx forge.Context, req *ListBuildingsRequest) ([]*building.Building, error) {
	filter := &building.ListFilter{
		Search: req.Search,
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

	buildings, err := a.eng.Store().ListBuildings(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return buildings, ctx.JSON(http.StatusOK, buildings)
}
