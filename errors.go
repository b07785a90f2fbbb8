package steward

import "errors"

var (
	// ErrUnauthenticated is returned when no verifiable identity is present.
	ErrUnauthenticated = errors.New("steward: unauthenticated")

	// ErrOrgScopeRequired is returned when an identity carries no org id
	// where one is mandatory. An empty org id is treated as absent.
	ErrOrgScopeRequired = errors.New("steward: org scope required")

	// ErrNotFound is returned when a resource does not exist or belongs to
	// another org. The two cases are intentionally indistinguishable.
	ErrNotFound = errors.New("steward: not found")

	// ErrForbidden is returned when identity and resource both resolved but
	// the access decision evaluated to deny.
	ErrForbidden = errors.New("steward: forbidden")

	// ErrUnknownPermissionKey is returned when a mutation references a
	// permission key outside the catalog.
	ErrUnknownPermissionKey = errors.New("steward: unknown permission key")

	// ErrUnknownRoleKey is returned when a mutation references a role key
	// that does not exist in the org.
	ErrUnknownRoleKey = errors.New("steward: unknown role key")

	// ErrSystemRoleImmutable is returned when trying to modify or delete a
	// system role.
	ErrSystemRoleImmutable = errors.New("steward: system role cannot be modified")

	// ErrDuplicateAssignment is returned when a (building, user, type)
	// assignment already exists.
	ErrDuplicateAssignment = errors.New("steward: assignment already exists")

	// ErrActiveOccupancyExists is returned when a unit already has an active
	// occupancy for the user.
	ErrActiveOccupancyExists = errors.New("steward: active occupancy already exists")

	// ErrInvalidEffect is returned when an override effect is neither allow
	// nor deny.
	ErrInvalidEffect = errors.New("steward: invalid override effect")

	// ErrInvalidAssignmentType is returned when an assignment type is not
	// building_admin, manager, or staff.
	ErrInvalidAssignmentType = errors.New("steward: invalid assignment type")
)
