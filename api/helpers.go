package api

import (
	"errors"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/store"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, steward.ErrNotFound) || errors.Is(err, store.ErrNotFound) {
		return forge.NotFound(err.Error())
	}
	if errors.Is(err, steward.ErrUnauthenticated) || errors.Is(err, steward.ErrForbidden) {
		return forge.Forbidden(err.Error())
	}
	if errors.Is(err, steward.ErrOrgScopeRequired) ||
		errors.Is(err, steward.ErrUnknownPermissionKey) ||
		errors.Is(err, steward.ErrUnknownRoleKey) ||
		errors.Is(err, steward.ErrSystemRoleImmutable) ||
		errors.Is(err, steward.ErrInvalidEffect) ||
		errors.Is(err, steward.ErrInvalidAssignmentType) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, steward.ErrDuplicateAssignment) ||
		errors.Is(err, steward.ErrActiveOccupancyExists) ||
		errors.Is(err, store.ErrDuplicateAssignment) ||
		errors.Is(err, store.ErrActiveOccupancyExists) {
		return forge.BadRequest(err.Error())
	}
	return err
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
