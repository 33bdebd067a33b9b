package authz

// Collection names one of the policy-governed resource collections.
type Collection string

const (
	Profiles   Collection = "profiles"
	Loans      Collection = "loans"
	Payments   Collection = "payments"
	Activities Collection = "activities"
)

// Row is the minimal view of a candidate record the evaluator needs.
// Domain entities implement it; the evaluator never reaches back into
// repositories except through the two direct-read lookups it is built with.
type Row interface {
	Collection() Collection
	// OwnerID returns the identity the row is attributed to. Payments
	// return "" here; their ownership is transitive via the referenced
	// loan (see LoanOwnerLookup).
	OwnerID() string
}

// AdminFlagged is implemented by profile rows so the evaluator can apply
// the field-level rule on admin-flag changes.
type AdminFlagged interface {
	Row
	AdminFlag() bool
}

// Statused is implemented by loan rows so the evaluator can tell whether
// an update changes the loan status.
type Statused interface {
	Row
	StatusValue() string
}

// LoanRef is implemented by payment rows.
type LoanRef interface {
	Row
	LoanRefID() string
}
