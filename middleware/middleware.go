// Package middleware provides HTTP authorization middleware for Steward.
package middleware

import (
	"encoding/json"
	"errors"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/id"
)

// Protect enforces a gate against the building named by the "buildingID"
// route parameter. The caller identity comes from the Forge auth context,
// the org from the request scope.
func Protect(eng *steward.Engine, gate steward.Gate) forge.Middleware {
	return ProtectParam(eng, gate, "buildingID")
}

// ProtectParam is Protect with a custom route parameter for the building id.
func ProtectParam(eng *steward.Engine, gate steward.Gate, param string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			ident := resolveIdentity(ctx)

			buildingID, err := id.ParseBuildingID(ctx.Param(param))
			if err != nil {
				return errResponse(ctx, 404, "building not found")
			}

			verdict, err := eng.Authorize(ctx.Context(), ident, buildingID, gate)
			if err != nil {
				return mapError(ctx, err)
			}
			if !verdict.Allowed {
				return errResponse(ctx, 403, verdict.Reason)
			}
			return next(ctx)
		}
	}
}

// resolveIdentity extracts the caller from the Forge auth context. The org
// is left empty so the engine falls back to the request scope.
func resolveIdentity(ctx forge.Context) steward.Identity {
	var ident steward.Identity
	if userID := forge.UserIDFromContext(ctx.Context()); userID != "" {
		if uid, err := id.ParseUserID(userID); err == nil {
			ident.UserID = uid
		}
	}
	return ident
}

// mapError translates engine errors into HTTP responses. Org-scope failures
// are the caller's request being malformed, not a permission denial, so
// they map to 400 rather than 403.
func mapError(ctx forge.Context, err error) error {
	switch {
	case errors.Is(err, steward.ErrUnauthenticated):
		return errResponse(ctx, 401, "authentication required")
	case errors.Is(err, steward.ErrOrgScopeRequired):
		return errResponse(ctx, 400, "organization scope required")
	case errors.Is(err, steward.ErrNotFound):
		return errResponse(ctx, 404, "not found")
	case errors.Is(err, steward.ErrUnknownPermissionKey):
		return errResponse(ctx, 500, "unknown permission key")
	case errors.Is(err, steward.ErrForbidden):
		return errResponse(ctx, 403, "access denied")
	default:
		return errResponse(ctx, 500, "authorization failed")
	}
}

func errResponse(ctx forge.Context, status int, msg string) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(status)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": msg})
}
