package authz

import (
	"context"
	"errors"
)

// ErrNotAuthorized is the uniform deny outcome. Callers at the service
// boundary must surface it exactly like a missing row for reads so that
// denied and nonexistent are indistinguishable to the caller.
var ErrNotAuthorized = errors.New("not authorized")

type operation string

const (
	opSelect operation = "select"
	opInsert operation = "insert"
	opUpdate operation = "update"
)

type ruleKey struct {
	col Collection
	op  operation
}

// predicate decides one (collection, operation) pair. existing is nil for
// inserts; proposed is nil for selects.
type predicate func(v *View, ctx context.Context, caller Identity, existing, proposed Row) bool

// rules is the single source of truth for the policy: one entry per
// (collection, operation), owner-or-admin as the base rule plus the
// collection-specific refinements. Missing entries deny.
var rules = map[ruleKey]predicate{
	{Profiles, opSelect}: ownerOrAdmin,
	{Profiles, opInsert}: profileInsert,
	{Profiles, opUpdate}: profileUpdate,

	{Loans, opSelect}: ownerOrAdmin,
	{Loans, opInsert}: loanInsert,
	{Loans, opUpdate}: loanUpdate,

	{Payments, opSelect}: paymentSelect,
	{Payments, opInsert}: adminOnly,
	{Payments, opUpdate}: adminOnly,

	{Activities, opSelect}: ownerOrAdmin,
	{Activities, opInsert}: activityInsert,
	// Activity records are append-only; no update rule exists.
}

// Evaluator composes ownership checks with the admin resolver. It holds no
// per-request state and is safe for concurrent use; Begin returns the
// request-scoped view callers actually evaluate against.
type Evaluator struct {
	admins AdminResolver
	loans  LoanOwnerLookup
}

func NewEvaluator(admins AdminResolver, loans LoanOwnerLookup) *Evaluator {
	return &Evaluator{admins: admins, loans: loans}
}

// View memoizes admin lookups for the span of one request. It must never
// outlive the request that created it: an admin demotion has to be visible
// on the next request.
type View struct {
	ev   *Evaluator
	memo map[string]bool
}

func (e *Evaluator) Begin() *View {
	return &View{ev: e, memo: make(map[string]bool, 1)}
}

func (v *View) IsAdmin(ctx context.Context, caller Identity) bool {
	if caller.IsAnonymous() {
		return false
	}
	if got, ok := v.memo[caller.ID]; ok {
		return got
	}
	got := v.ev.admins.IsAdmin(ctx, caller.ID)
	v.memo[caller.ID] = got
	return got
}

func (v *View) CanSelect(ctx context.Context, caller Identity, row Row) bool {
	return v.eval(ctx, opSelect, caller, row, nil)
}

func (v *View) CanInsert(ctx context.Context, caller Identity, proposed Row) bool {
	return v.eval(ctx, opInsert, caller, nil, proposed)
}

func (v *View) CanUpdate(ctx context.Context, caller Identity, existing, proposed Row) bool {
	return v.eval(ctx, opUpdate, caller, existing, proposed)
}

func (v *View) eval(ctx context.Context, op operation, caller Identity, existing, proposed Row) bool {
	if caller.IsAnonymous() {
		return false
	}
	row := existing
	if row == nil {
		row = proposed
	}
	if row == nil {
		return false
	}
	rule, ok := rules[ruleKey{row.Collection(), op}]
	if !ok {
		return false
	}
	return rule(v, ctx, caller, existing, proposed)
}

func subjectRow(existing, proposed Row) Row {
	if existing != nil {
		return existing
	}
	return proposed
}

// ---- predicates ----

func ownerOrAdmin(v *View, ctx context.Context, caller Identity, existing, proposed Row) bool {
	row := subjectRow(existing, proposed)
	if row.OwnerID() != "" && row.OwnerID() == caller.ID {
		return true
	}
	return v.IsAdmin(ctx, caller)
}

func adminOnly(v *View, ctx context.Context, caller Identity, _, _ Row) bool {
	return v.IsAdmin(ctx, caller)
}

// profileInsert permits self-registration (row id equals the caller) or an
// admin provisioning someone else. A self-registered profile must not
// arrive with the admin flag already set; the only way to mint an admin is
// the operator seed path or an existing admin's update.
func profileInsert(v *View, ctx context.Context, caller Identity, _, proposed Row) bool {
	if af, ok := proposed.(AdminFlagged); ok && af.AdminFlag() {
		return v.IsAdmin(ctx, caller)
	}
	if proposed.OwnerID() == caller.ID {
		return true
	}
	return v.IsAdmin(ctx, caller)
}

// profileUpdate layers the field-level admin-flag rule on top of the row
// rule: flipping is_admin always requires an existing admin, so a caller
// cannot self-grant through the generic "update own profile" path.
func profileUpdate(v *View, ctx context.Context, caller Identity, existing, proposed Row) bool {
	if !ownerOrAdmin(v, ctx, caller, existing, proposed) {
		return false
	}
	cur, okCur := existing.(AdminFlagged)
	next, okNext := proposed.(AdminFlagged)
	if okCur && okNext && cur.AdminFlag() != next.AdminFlag() {
		return v.IsAdmin(ctx, caller)
	}
	return true
}

func loanInsert(v *View, ctx context.Context, caller Identity, _, proposed Row) bool {
	if proposed.OwnerID() == caller.ID {
		return true
	}
	return v.IsAdmin(ctx, caller)
}

// loanUpdate keeps the owner-or-admin row rule but gates any status change
// behind the admin role: owners must not self-approve.
func loanUpdate(v *View, ctx context.Context, caller Identity, existing, proposed Row) bool {
	if !ownerOrAdmin(v, ctx, caller, existing, proposed) {
		return false
	}
	cur, okCur := existing.(Statused)
	next, okNext := proposed.(Statused)
	if okCur && okNext && cur.StatusValue() != next.StatusValue() {
		return v.IsAdmin(ctx, caller)
	}
	return true
}

// paymentSelect resolves ownership transitively through the referenced
// loan. An unresolvable loan reference fails closed to admin-only.
func paymentSelect(v *View, ctx context.Context, caller Identity, existing, proposed Row) bool {
	row := subjectRow(existing, proposed)
	if ref, ok := row.(LoanRef); ok && v.ev.loans != nil {
		if owner, found := v.ev.loans.LoanOwner(ctx, ref.LoanRefID()); found && owner == caller.ID {
			return true
		}
	}
	return v.IsAdmin(ctx, caller)
}

// activityInsert matches the general rule: both self-logged entries and
// admin-triggered entries recorded on behalf of a user occur.
func activityInsert(v *View, ctx context.Context, caller Identity, _, proposed Row) bool {
	if proposed.OwnerID() == caller.ID {
		return true
	}
	return v.IsAdmin(ctx, caller)
}
