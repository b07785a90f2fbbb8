//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupSchema starts a throwaway PostgreSQL container and applies the shipped
// DDL in migration order. Tests run against the exact schema the migrations
// produce, including the partial unique index on active occupancies.
func setupSchema(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("steward_test"),
		tcpostgres.WithUsername("steward"),
		tcpostgres.WithPassword("steward"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	for _, ddl := range []string{
		ddlBuildings,
		ddlUsers,
		ddlRoles,
		ddlPermissions,
		ddlRolePermissions,
		ddlUserRoles,
		ddlOverrides,
		ddlAssignments,
		ddlOccupancies,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			t.Fatalf("apply ddl: %v", err)
		}
	}
	return db
}

func TestAssignmentUniqueTripleConstraint(t *testing.T) {
	db := setupSchema(t)
	ctx := context.Background()

	mustExec(t, db, `INSERT INTO steward_buildings (id, org_id, name) VALUES ('bld_1', 'org_1', 'North Tower')`)

	res, err := db.ExecContext(ctx, `
		INSERT INTO steward_assignments (id, org_id, building_id, user_id, type)
		VALUES ('asg_1', 'org_1', 'bld_1', 'usr_1', 'manager')
		ON CONFLICT (building_id, user_id, type) DO NOTHING`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}

	// Same triple again: conflict, zero rows.
	res, err = db.ExecContext(ctx, `
		INSERT INTO steward_assignments (id, org_id, building_id, user_id, type)
		VALUES ('asg_2', 'org_1', 'bld_1', 'usr_1', 'manager')
		ON CONFLICT (building_id, user_id, type) DO NOTHING`)
	if err != nil {
		t.Fatalf("insert conflict: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 0 {
		t.Fatalf("expected conflict to affect 0 rows, got %d", n)
	}

	// Different type for the same building and user is a distinct grant.
	res, err = db.ExecContext(ctx, `
		INSERT INTO steward_assignments (id, org_id, building_id, user_id, type)
		VALUES ('asg_3', 'org_1', 'bld_1', 'usr_1', 'staff')
		ON CONFLICT (building_id, user_id, type) DO NOTHING`)
	if err != nil {
		t.Fatalf("insert staff: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("expected staff insert to affect 1 row, got %d", n)
	}
}

func TestActiveOccupancyPartialIndex(t *testing.T) {
	db := setupSchema(t)
	ctx := context.Background()

	mustExec(t, db, `INSERT INTO steward_buildings (id, org_id, name) VALUES ('bld_1', 'org_1', 'North Tower')`)
	mustExec(t, db, `
		INSERT INTO steward_occupancies (id, org_id, building_id, unit_id, user_id, status)
		VALUES ('occ_1', 'org_1', 'bld_1', 'unit_4b', 'usr_1', 'active')`)

	// A second active occupancy on the same unit violates the partial
	// unique index, same resident or not.
	_, err := db.ExecContext(ctx, `
		INSERT INTO steward_occupancies (id, org_id, building_id, unit_id, user_id, status)
		VALUES ('occ_2', 'org_1', 'bld_1', 'unit_4b', 'usr_1', 'active')`)
	if err == nil {
		t.Fatal("expected second active occupancy to violate partial unique index")
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO steward_occupancies (id, org_id, building_id, unit_id, user_id, status)
		VALUES ('occ_2b', 'org_1', 'bld_1', 'unit_4b', 'usr_2', 'active')`)
	if err == nil {
		t.Fatal("expected active occupancy for a second resident to violate partial unique index")
	}

	// An ended row for another resident does not occupy the slot.
	mustExec(t, db, `
		INSERT INTO steward_occupancies (id, org_id, building_id, unit_id, user_id, status, ended_at)
		VALUES ('occ_hist', 'org_1', 'bld_1', 'unit_4b', 'usr_2', 'ended', now())`)

	// Ending the first frees the slot.
	mustExec(t, db, `UPDATE steward_occupancies SET status = 'ended', ended_at = now() WHERE id = 'occ_1'`)
	mustExec(t, db, `
		INSERT INTO steward_occupancies (id, org_id, building_id, unit_id, user_id, status)
		VALUES ('occ_3', 'org_1', 'bld_1', 'unit_4b', 'usr_1', 'active')`)

	// Ended rows are not constrained, history accumulates freely.
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM steward_occupancies WHERE unit_id = 'unit_4b'`).
		Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 occupancy rows for the unit, got %d", count)
	}
}

func TestOverrideUpsertReplaces(t *testing.T) {
	db := setupSchema(t)
	ctx := context.Background()

	upsert := `
		INSERT INTO steward_overrides (id, org_id, user_id, permission_key, effect)
		VALUES ($1, 'org_1', 'usr_1', 'units.read', $2)
		ON CONFLICT (user_id, permission_key) DO UPDATE SET effect = EXCLUDED.effect, updated_at = now()`

	if _, err := db.ExecContext(ctx, upsert, "ovr_1", "allow"); err != nil {
		t.Fatalf("upsert allow: %v", err)
	}
	if _, err := db.ExecContext(ctx, upsert, "ovr_2", "deny"); err != nil {
		t.Fatalf("upsert deny: %v", err)
	}

	var effect string
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT effect FROM steward_overrides WHERE user_id = 'usr_1' AND permission_key = 'units.read'`).
		Scan(&effect); err != nil {
		t.Fatalf("select effect: %v", err)
	}
	if effect != "deny" {
		t.Fatalf("expected replaced effect deny, got %q", effect)
	}
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM steward_overrides WHERE user_id = 'usr_1'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single override row after replace, got %d", count)
	}
}

func TestBuildingCascadeDeletesGrants(t *testing.T) {
	db := setupSchema(t)
	ctx := context.Background()

	mustExec(t, db, `INSERT INTO steward_buildings (id, org_id, name) VALUES ('bld_1', 'org_1', 'North Tower')`)
	mustExec(t, db, `
		INSERT INTO steward_assignments (id, org_id, building_id, user_id, type)
		VALUES ('asg_1', 'org_1', 'bld_1', 'usr_1', 'building_admin')`)
	mustExec(t, db, `
		INSERT INTO steward_occupancies (id, org_id, building_id, unit_id, user_id, status)
		VALUES ('occ_1', 'org_1', 'bld_1', 'unit_1a', 'usr_2', 'active')`)

	mustExec(t, db, `DELETE FROM steward_buildings WHERE id = 'bld_1'`)

	var assignments, occupancies int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM steward_assignments`).Scan(&assignments); err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM steward_occupancies`).Scan(&occupancies); err != nil {
		t.Fatalf("count occupancies: %v", err)
	}
	if assignments != 0 || occupancies != 0 {
		t.Fatalf("expected cascade to remove grants, got %d assignments, %d occupancies", assignments, occupancies)
	}
}

func TestPermissionKeyUnionQuery(t *testing.T) {
	db := setupSchema(t)
	ctx := context.Background()

	mustExec(t, db, `INSERT INTO steward_permissions (id, key, name) VALUES
		('prm_1', 'units.read', 'Read units'),
		('prm_2', 'units.write', 'Write units'),
		('prm_3', 'leases.read', 'Read leases')`)
	mustExec(t, db, `INSERT INTO steward_roles (id, org_id, key, name) VALUES
		('rol_1', 'org_1', 'manager', 'Manager'),
		('rol_2', 'org_1', 'viewer', 'Viewer')`)
	mustExec(t, db, `INSERT INTO steward_role_permissions (role_id, permission_id) VALUES
		('rol_1', 'prm_1'), ('rol_1', 'prm_2'),
		('rol_2', 'prm_1'), ('rol_2', 'prm_3')`)
	mustExec(t, db, `INSERT INTO steward_user_roles (user_id, role_id) VALUES
		('usr_1', 'rol_1'), ('usr_1', 'rol_2')`)

	// Shared keys collapse: the union across both roles is three keys.
	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT p.key
		FROM steward_permissions p
		JOIN steward_role_permissions rp ON rp.permission_id = p.id
		JOIN steward_user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = 'usr_1'
		ORDER BY p.key`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			t.Fatalf("scan: %v", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	want := []string{"leases.read", "units.read", "units.write"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("expected key %q at %d, got %q", k, i, keys[i])
		}
	}
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("exec: %v", err)
	}
}
