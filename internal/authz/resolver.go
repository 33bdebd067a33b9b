package authz

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// AdminResolver answers "does this identity hold the admin role" without
// ever re-entering the policy evaluator. It returns a plain bool: on a
// missing profile, a NULL flag, or any store error the answer is false
// (fail closed, never "retry as admin").
type AdminResolver interface {
	IsAdmin(ctx context.Context, identityID string) bool
}

// StoreResolver reads profiles.is_admin directly against storage with a
// single statement. This is the one privileged read path in the system:
// routing it through the generic owner-or-admin predicate would recurse
// (the predicate needs is_admin, and a policy-gated profile read needs the
// predicate again).
type StoreResolver struct{ db *gorm.DB }

func NewStoreResolver(db *gorm.DB) *StoreResolver { return &StoreResolver{db: db} }

func (r *StoreResolver) IsAdmin(ctx context.Context, identityID string) bool {
	if identityID == "" {
		return false
	}
	var flags []sql.NullBool
	err := r.db.WithContext(ctx).
		Table("profiles").
		Where("id = ?", identityID).
		Limit(1).
		Pluck("is_admin", &flags).Error
	if err != nil || len(flags) == 0 || !flags[0].Valid {
		return false
	}
	return flags[0].Bool
}

// LoanOwnerLookup resolves a loan's owner for transitive payment
// ownership. Like AdminResolver it is a direct read, not a policy-gated
// one; absence reports ok=false and the predicate fails closed.
type LoanOwnerLookup interface {
	LoanOwner(ctx context.Context, loanID string) (ownerID string, ok bool)
}
