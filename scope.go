package steward

import (
	"context"

	"github.com/xraph/forge"

	"github.com/xraph/steward/id"
)

// scopeOrgID extracts an org id from forge.Scope when present. Falls back
// to the zero id so the caller can apply its own org-scope rule.
func scopeOrgID(ctx context.Context) id.OrgID {
	s, ok := forge.ScopeFrom(ctx)
	if !ok {
		return id.Nil
	}
	orgID, err := id.ParseOrgID(s.OrgID())
	if err != nil {
		return id.Nil
	}
	return orgID
}
