package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// DDL statements are kept as package constants so integration tests can
// apply the exact shipped schema without a grove handle.
const ddlBuildings = `
CREATE TABLE IF NOT EXISTS steward_buildings (
    id              TEXT PRIMARY KEY,
    org_id          TEXT NOT NULL,
    name            TEXT NOT NULL,
    address         TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_steward_buildings_org ON steward_buildings (org_id);
CREATE INDEX IF NOT EXISTS idx_steward_buildings_org_id ON steward_buildings (org_id, id);
`

const ddlUsers = `
CREATE TABLE IF NOT EXISTS steward_users (
    id              TEXT PRIMARY KEY,
    org_id          TEXT NOT NULL,
    email           TEXT NOT NULL,
    name            TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(org_id, email)
);

CREATE INDEX IF NOT EXISTS idx_steward_users_org ON steward_users (org_id);
`

const ddlRoles = `
CREATE TABLE IF NOT EXISTS steward_roles (
    id              TEXT PRIMARY KEY,
    org_id          TEXT NOT NULL,
    key             TEXT NOT NULL,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    is_system       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(org_id, key)
);

CREATE INDEX IF NOT EXISTS idx_steward_roles_org ON steward_roles (org_id);
CREATE INDEX IF NOT EXISTS idx_steward_roles_system ON steward_roles (org_id, is_system);
`

const ddlPermissions = `
CREATE TABLE IF NOT EXISTS steward_permissions (
    id              TEXT PRIMARY KEY,
    key             TEXT NOT NULL UNIQUE,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    category        TEXT NOT NULL DEFAULT '',
    is_system       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_steward_permissions_category ON steward_permissions (category);
`

const ddlRolePermissions = `
CREATE TABLE IF NOT EXISTS steward_role_permissions (
    role_id         TEXT NOT NULL REFERENCES steward_roles(id) ON DELETE CASCADE,
    permission_id   TEXT NOT NULL REFERENCES steward_permissions(id) ON DELETE CASCADE,

    PRIMARY KEY (role_id, permission_id)
);

CREATE INDEX IF NOT EXISTS idx_steward_role_perms_role ON steward_role_permissions (role_id);
CREATE INDEX IF NOT EXISTS idx_steward_role_perms_perm ON steward_role_permissions (permission_id);
`

const ddlUserRoles = `
CREATE TABLE IF NOT EXISTS steward_user_roles (
    user_id         TEXT NOT NULL,
    role_id         TEXT NOT NULL REFERENCES steward_roles(id) ON DELETE CASCADE,

    PRIMARY KEY (user_id, role_id)
);

CREATE INDEX IF NOT EXISTS idx_steward_user_roles_user ON steward_user_roles (user_id);
CREATE INDEX IF NOT EXISTS idx_steward_user_roles_role ON steward_user_roles (role_id);
`

const ddlOverrides = `
CREATE TABLE IF NOT EXISTS steward_overrides (
    id              TEXT PRIMARY KEY,
    org_id          TEXT NOT NULL,
    user_id         TEXT NOT NULL,
    permission_key  TEXT NOT NULL,
    effect          TEXT NOT NULL,
    granted_by      TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(user_id, permission_key)
);

CREATE INDEX IF NOT EXISTS idx_steward_overrides_user ON steward_overrides (user_id);
CREATE INDEX IF NOT EXISTS idx_steward_overrides_org ON steward_overrides (org_id);
`

const ddlAssignments = `
CREATE TABLE IF NOT EXISTS steward_assignments (
    id              TEXT PRIMARY KEY,
    org_id          TEXT NOT NULL,
    building_id     TEXT NOT NULL REFERENCES steward_buildings(id) ON DELETE CASCADE,
    user_id         TEXT NOT NULL,
    type            TEXT NOT NULL,
    granted_by      TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(building_id, user_id, type)
);

CREATE INDEX IF NOT EXISTS idx_steward_assign_building_user ON steward_assignments (building_id, user_id);
CREATE INDEX IF NOT EXISTS idx_steward_assign_org ON steward_assignments (org_id);
CREATE INDEX IF NOT EXISTS idx_steward_assign_user ON steward_assignments (user_id);
`

const ddlOccupancies = `
CREATE TABLE IF NOT EXISTS steward_occupancies (
    id              TEXT PRIMARY KEY,
    org_id          TEXT NOT NULL,
    building_id     TEXT NOT NULL REFERENCES steward_buildings(id) ON DELETE CASCADE,
    unit_id         TEXT NOT NULL,
    user_id         TEXT NOT NULL,
    status          TEXT NOT NULL,
    started_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    ended_at        TIMESTAMPTZ,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_steward_occ_active_unit
    ON steward_occupancies (unit_id) WHERE status = 'active';
CREATE INDEX IF NOT EXISTS idx_steward_occ_building_user ON steward_occupancies (building_id, user_id, status);
CREATE INDEX IF NOT EXISTS idx_steward_occ_org ON steward_occupancies (org_id);
`

// Migrations is the grove migration group for the Steward store (PostgreSQL).
var Migrations = migrate.NewGroup("steward")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_buildings",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlBuildings)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_buildings`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_users",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlUsers)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_users`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_roles",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlRoles)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_roles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_permissions",
			Version: "20250101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlPermissions)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_permissions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_role_permissions",
			Version: "20250101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlRolePermissions)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_role_permissions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_user_roles",
			Version: "20250101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlUserRoles)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_user_roles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_overrides",
			Version: "20250101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlOverrides)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_overrides`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_assignments",
			Version: "20250101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlAssignments)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_assignments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_occupancies",
			Version: "20250101000009",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, ddlOccupancies)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS steward_occupancies`)
				return err
			},
		},
	)
}
