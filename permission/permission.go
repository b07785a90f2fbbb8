// Package permission defines the Permission catalog entry and its store interface.
package permission

import (
	"time"

	"github.com/xraph/steward/id"
)

// Permission is an immutable catalog entry describing an atomic capability,
// identified by a stable dotted key such as "units.write".
type Permission struct {
	ID          id.PermissionID `json:"id" db:"id"`
	Key         string          `json:"key" db:"key"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Category    string          `json:"category" db:"category"`
	IsSystem    bool            `json:"is_system" db:"is_system"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Effect is the polarity of a per-user permission override.
type Effect string

const (
	// EffectAllow grants the permission regardless of role membership.
	EffectAllow Effect = "allow"

	// EffectDeny removes the permission even when a role grants it.
	EffectDeny Effect = "deny"
)

// Valid reports whether e is a known effect.
func (e Effect) Valid() bool {
	return e == EffectAllow || e == EffectDeny
}

// ListFilter contains filters for listing permissions.
type ListFilter struct {
	Category string `json:"category,omitempty"`
	IsSystem *bool  `json:"is_system,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
