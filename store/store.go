// Package store defines the aggregate persistence interface. Each subsystem
// (building, user, role, permission, override, assignment, occupancy) defines
// its own store interface. The composite Store composes them all.
// Backends: Postgres, SQLite, Mongo, and Memory.
package store

import (
	"context"
	"errors"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/building"
	"github.com/xraph/steward/occupancy"
	"github.com/xraph/steward/override"
	"github.com/xraph/steward/permission"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/user"
)

var (
	// ErrNotFound is returned when a record does not exist. An org-constrained
	// lookup also returns it for records owned by another org.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateAssignment is returned when a (building, user, type)
	// assignment already exists.
	ErrDuplicateAssignment = errors.New("store: assignment already exists")

	// ErrActiveOccupancyExists is returned when a unit already has an
	// active occupancy.
	ErrActiveOccupancyExists = errors.New("store: active occupancy already exists")
)

// Store is the aggregate persistence interface.
// Each subsystem store is a composable interface; a single backend
// (postgres, sqlite, mongo, memory) implements all of them.
type Store interface {
	building.Store
	user.Store
	role.Store
	permission.Store
	override.Store
	assignment.Store
	occupancy.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
