package steward

import "time"

// Config holds configuration for the Steward engine.
type Config struct {
	// CacheTTL is the time-to-live for cached effective-permission sets.
	// Zero means no cross-request caching even when a Cache is installed.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// ValidateGateKeys rejects gates referencing permission keys outside
	// the catalog with ErrUnknownPermissionKey. Defaults to false: custom
	// deployments may carry keys beyond the seeded catalog.
	ValidateGateKeys bool `json:"validate_gate_keys,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL: 30 * time.Second,
	}
}
