package authzmock

import (
	"context"

	"loanguard-backend/internal/authz"
)

var (
	_ authz.AdminResolver   = (*Resolver)(nil)
	_ authz.LoanOwnerLookup = (*LoanOwners)(nil)
)

// Resolver is a function-backed AdminResolver. The zero value answers
// false for everyone, matching the fail-closed contract.
type Resolver struct {
	IsAdminFn func(ctx context.Context, identityID string) bool
	// Calls counts resolver invocations, for per-request memoization tests.
	Calls int
}

func (m *Resolver) IsAdmin(ctx context.Context, identityID string) bool {
	m.Calls++
	if m.IsAdminFn != nil {
		return m.IsAdminFn(ctx, identityID)
	}
	return false
}

// Admins builds a resolver that answers true for exactly the given ids.
func Admins(ids ...string) *Resolver {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Resolver{IsAdminFn: func(_ context.Context, id string) bool {
		_, ok := set[id]
		return ok
	}}
}

// LoanOwners is a map-backed LoanOwnerLookup.
type LoanOwners struct {
	Owners map[string]string
}

func (m *LoanOwners) LoanOwner(_ context.Context, loanID string) (string, bool) {
	owner, ok := m.Owners[loanID]
	return owner, ok
}
