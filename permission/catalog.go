package permission

// Permission keys for the built-in catalog. Keys are stable strings and are
// the unit of grant everywhere in Steward: roles bundle them, overrides
// allow or deny them per user, and endpoint gates require them.
const (
	OrgsRead  = "orgs.read"
	OrgsWrite = "orgs.write"

	BuildingsRead  = "buildings.read"
	BuildingsWrite = "buildings.write"

	UnitsRead  = "units.read"
	UnitsWrite = "units.write"

	UsersRead  = "users.read"
	UsersWrite = "users.write"

	RolesRead  = "roles.read"
	RolesWrite = "roles.write"

	OverridesRead  = "overrides.read"
	OverridesWrite = "overrides.write"

	AssignmentsRead  = "assignments.read"
	AssignmentsWrite = "assignments.write"

	OccupanciesRead  = "occupancies.read"
	OccupanciesWrite = "occupancies.write"

	RequestsRead   = "requests.read"
	RequestsWrite  = "requests.write"
	RequestsAssign = "requests.assign"
)

// Definition describes one catalog entry for seeding and validation.
type Definition struct {
	Key      string
	Name     string
	Category string
}

// Catalog returns the full built-in permission catalog in a stable order.
func Catalog() []Definition {
	return []Definition{
		{OrgsRead, "View organization", "orgs"},
		{OrgsWrite, "Manage organization", "orgs"},
		{BuildingsRead, "View buildings", "buildings"},
		{BuildingsWrite, "Manage buildings", "buildings"},
		{UnitsRead, "View units", "units"},
		{UnitsWrite, "Manage units", "units"},
		{UsersRead, "View users", "users"},
		{UsersWrite, "Manage users", "users"},
		{RolesRead, "View roles", "roles"},
		{RolesWrite, "Manage roles", "roles"},
		{OverridesRead, "View permission overrides", "overrides"},
		{OverridesWrite, "Manage permission overrides", "overrides"},
		{AssignmentsRead, "View building assignments", "assignments"},
		{AssignmentsWrite, "Manage building assignments", "assignments"},
		{OccupanciesRead, "View occupancies", "occupancies"},
		{OccupanciesWrite, "Manage occupancies", "occupancies"},
		{RequestsRead, "View maintenance requests", "requests"},
		{RequestsWrite, "Manage maintenance requests", "requests"},
		{RequestsAssign, "Assign maintenance requests", "requests"},
	}
}

var catalogKeys = func() map[string]struct{} {
	keys := make(map[string]struct{})
	for _, def := range Catalog() {
		keys[def.Key] = struct{}{}
	}
	return keys
}()

// IsKnown reports whether key is part of the built-in catalog.
func IsKnown(key string) bool {
	_, ok := catalogKeys[key]
	return ok
}
