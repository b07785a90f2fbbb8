// Package seed installs the built-in permission catalog and the system
// roles into a store. All functions are idempotent: re-running against an
// already seeded store is a no-op.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/permission"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
)

// System role keys. System roles are created per org, marked IsSystem, and
// cannot be modified or deleted through the API.
const (
	RoleOrgAdmin         = "org-admin"
	RoleOrgManager       = "org-manager"
	RoleResidentServices = "resident-services"
	RoleViewer           = "viewer"
)

// SystemRole describes one seeded role and the catalog keys it bundles.
type SystemRole struct {
	Key         string
	Name        string
	Description string
	Permissions []string
}

// SystemRoles returns the built-in role set in a stable order.
func SystemRoles() []SystemRole {
	all := make([]string, 0, len(permission.Catalog()))
	reads := make([]string, 0, len(permission.Catalog()))
	for _, def := range permission.Catalog() {
		all = append(all, def.Key)
		if strings.HasSuffix(def.Key, ".read") {
			reads = append(reads, def.Key)
		}
	}

	return []SystemRole{
		{
			Key:         RoleOrgAdmin,
			Name:        "Organization Admin",
			Description: "Full access to every resource in the org.",
			Permissions: all,
		},
		{
			Key:         RoleOrgManager,
			Name:        "Organization Manager",
			Description: "Day-to-day management of buildings, units, and requests.",
			Permissions: []string{
				permission.OrgsRead,
				permission.BuildingsRead, permission.BuildingsWrite,
				permission.UnitsRead, permission.UnitsWrite,
				permission.UsersRead,
				permission.AssignmentsRead, permission.AssignmentsWrite,
				permission.OccupanciesRead, permission.OccupanciesWrite,
				permission.RequestsRead, permission.RequestsWrite, permission.RequestsAssign,
			},
		},
		{
			Key:         RoleResidentServices,
			Name:        "Resident Services",
			Description: "Occupancy administration and request handling.",
			Permissions: []string{
				permission.BuildingsRead,
				permission.UnitsRead,
				permission.UsersRead,
				permission.OccupanciesRead, permission.OccupanciesWrite,
				permission.RequestsRead, permission.RequestsWrite,
			},
		},
		{
			Key:         RoleViewer,
			Name:        "Viewer",
			Description: "Read-only access across the org.",
			Permissions: reads,
		},
	}
}

// Permissions ensures every catalog entry exists in the store.
func Permissions(ctx context.Context, s store.Store) error {
	for _, def := range permission.Catalog() {
		_, err := s.GetPermissionByKey(ctx, def.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed: lookup permission %s: %w", def.Key, err)
		}

		p := &permission.Permission{
			ID:       id.NewPermissionID(),
			Key:      def.Key,
			Name:     def.Name,
			Category: def.Category,
			IsSystem: true,
		}
		if err := s.CreatePermission(ctx, p); err != nil {
			return fmt.Errorf("seed: create permission %s: %w", def.Key, err)
		}
	}
	return nil
}

// OrgRoles ensures every system role exists for the org with its full
// permission bundle attached. Existing roles keep their identity; missing
// permission links are re-attached.
func OrgRoles(ctx context.Context, s store.Store, orgID id.OrgID) error {
	for _, sys := range SystemRoles() {
		r, err := s.GetRoleByKey(ctx, orgID, sys.Key)
		if errors.Is(err, store.ErrNotFound) {
			r = &role.Role{
				ID:          id.NewRoleID(),
				OrgID:       orgID,
				Key:         sys.Key,
				Name:        sys.Name,
				Description: sys.Description,
				IsSystem:    true,
			}
			if err := s.CreateRole(ctx, r); err != nil {
				return fmt.Errorf("seed: create role %s: %w", sys.Key, err)
			}
		} else if err != nil {
			return fmt.Errorf("seed: lookup role %s: %w", sys.Key, err)
		}

		for _, key := range sys.Permissions {
			p, err := s.GetPermissionByKey(ctx, key)
			if err != nil {
				return fmt.Errorf("seed: resolve permission %s: %w", key, err)
			}
			if err := s.AttachPermission(ctx, r.ID, p.ID); err != nil {
				return fmt.Errorf("seed: attach %s to %s: %w", key, sys.Key, err)
			}
		}
	}
	return nil
}

// All seeds the permission catalog and, for each given org, the system
// roles.
func All(ctx context.Context, s store.Store, orgIDs ...id.OrgID) error {
	if err := Permissions(ctx, s); err != nil {
		return err
	}
	for _, orgID := range orgIDs {
		if err := OrgRoles(ctx, s, orgID); err != nil {
			return err
		}
	}
	return nil
}
