package api

// AccessResponse is the response for a can-read / can-write decision.
type AccessResponse struct {
	Allowed bool `json:"allowed" description:"Whether the request is allowed"`
}

// VerdictResponse is the response for a full pipeline decision.
type VerdictResponse struct {
	Allowed    bool   `json:"allowed" description:"Whether the request is allowed"`
	Decision   string `json:"decision" description:"Decision code"`
	Reason     string `json:"reason,omitempty" description:"Human-readable reason"`
	EvalTimeNs int64  `json:"eval_time_ns" description:"Evaluation time in nanoseconds"`
}

// PermissionsResponse lists a user's effective permission keys.
type PermissionsResponse struct {
	UserID      string   `json:"user_id" description:"User identifier"`
	Permissions []string `json:"permissions" description:"Effective permission keys, sorted"`
}

// AssignmentTypeResponse is the collapsed assignment type for a user on a
// building.
type AssignmentTypeResponse struct {
	Assigned bool   `json:"assigned" description:"Whether the user holds any assignment"`
	Type     string `json:"type,omitempty" description:"Highest-priority assignment type"`
}

// ListResponse wraps a list of items with pagination metadata.
type ListResponse[T any] struct {
	Items  []T   `json:"items" description:"List of items"`
	Total  int64 `json:"total" description:"Total count"`
	Limit  int   `json:"limit" description:"Page size"`
	Offset int   `json:"offset" description:"Page offset"`
}
