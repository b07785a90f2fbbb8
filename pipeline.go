package steward

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/permission"
)

// DecisionRequest is the input to a full pipeline run, surfaced to plugin
// hooks and the decision API.
type DecisionRequest struct {
	Identity   Identity      `json:"identity"`
	BuildingID id.BuildingID `json:"building_id"`
	Gate       Gate          `json:"gate"`
}

// Authorize runs the full request authorization pipeline:
// authenticate → org scope → building-in-org → permission decision.
//
// The ordering is load-bearing: existence and tenancy are proven before any
// permission check runs, so a cross-org probe observes ErrNotFound no
// matter what permissions the caller holds. A denied decision is not an
// error; callers get a Verdict with Allowed=false. Use Enforce for the
// error-returning form.
func (e *Engine) Authorize(ctx context.Context, ident Identity, buildingID id.BuildingID, gate Gate) (*Verdict, error) {
	start := time.Now()

	if !ident.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if e.config.ValidateGateKeys {
		for _, key := range gate.Permissions {
			if !permission.IsKnown(key) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownPermissionKey, key)
			}
		}
	}

	req := &DecisionRequest{Identity: ident, BuildingID: buildingID, Gate: gate}
	if e.plugins != nil {
		e.plugins.EmitBeforeDecision(ctx, req)
	}

	// Reuse one permission resolution across the gate's checks.
	ctx = WithPermissionMemo(ctx)

	orgID, err := e.RequireOrgID(ctx, ident)
	if err != nil {
		return nil, err
	}
	if _, err := e.RequireBuildingInOrg(ctx, orgID, buildingID); err != nil {
		return nil, err
	}

	var verdict *Verdict
	if gate.Write {
		verdict, err = e.decideWrite(ctx, ident.UserID, buildingID, WriteOptions{
			RequiredPermissions: gate.Permissions,
			AllowManagerWrite:   gate.AllowManagerWrite,
		})
	} else {
		verdict, err = e.decideRead(ctx, ident.UserID, buildingID, ReadOptions{
			RequiredPermissions: gate.Permissions,
			AllowResident:       gate.AllowResident,
		})
	}
	if err != nil {
		return nil, err
	}
	verdict.EvalTimeNs = time.Since(start).Nanoseconds()

	e.logger.Debug("access decision",
		slog.String("gate", gate.Name),
		slog.String("user_id", ident.UserID.String()),
		slog.String("building_id", buildingID.String()),
		slog.Bool("write", gate.Write),
		slog.Bool("allowed", verdict.Allowed),
		slog.String("decision", string(verdict.Decision)),
	)

	if e.plugins != nil {
		e.plugins.EmitAfterDecision(ctx, req, verdict)
	}
	return verdict, nil
}

// Enforce returns an error when the pipeline denies the request.
func (e *Engine) Enforce(ctx context.Context, ident Identity, buildingID id.BuildingID, gate Gate) error {
	verdict, err := e.Authorize(ctx, ident, buildingID, gate)
	if err != nil {
		return err
	}
	if !verdict.Allowed {
		return fmt.Errorf("%w: %s: %s", ErrForbidden, verdict.Decision, verdict.Reason)
	}
	return nil
}
