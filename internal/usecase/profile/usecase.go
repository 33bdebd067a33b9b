package profile

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"loanguard-backend/internal/authz"
	domain "loanguard-backend/internal/domain/profile"
)

type Usecase struct {
	repo             domain.Repository
	az               *authz.Evaluator
	defaultLoanLimit float64
}

func NewUsecase(r domain.Repository, az *authz.Evaluator, defaultLoanLimit float64) *Usecase {
	return &Usecase{repo: r, az: az, defaultLoanLimit: defaultLoanLimit}
}

type ProfileDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone"`
	AvatarURL   string    `json:"avatar_url"`
	CreditScore int       `json:"credit_score"`
	LoanLimit   float64   `json:"loan_limit"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDTO(p *domain.Profile) *ProfileDTO {
	return &ProfileDTO{
		ID: p.ID, Email: p.Email, DisplayName: p.DisplayName, Phone: p.Phone,
		AvatarURL: p.AvatarURL, CreditScore: p.CreditScore, LoanLimit: p.LoanLimit,
		IsAdmin: p.IsAdmin, CreatedAt: p.CreatedAt,
	}
}

// EnsureProfile provisions a row for a newly seen identity. Idempotent: an
// existing profile is returned untouched. New rows always start with
// is_admin=false; the only way to mint the first admin is the operator
// seed command.
func (u *Usecase) EnsureProfile(ctx context.Context, caller authz.Identity) (*ProfileDTO, error) {
	if caller.IsAnonymous() {
		return nil, authz.ErrNotAuthorized
	}
	if p, err := u.repo.GetByID(ctx, caller.ID); err == nil {
		return toDTO(p), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &domain.Profile{
		ID:        caller.ID,
		Email:     caller.Email,
		LoanLimit: u.defaultLoanLimit,
		IsAdmin:   false,
	}
	if !u.az.Begin().CanInsert(ctx, caller, p) {
		return nil, authz.ErrNotAuthorized
	}
	if err := u.repo.Create(ctx, p); err != nil {
		// Two first contacts can race; the insert is atomic, so on a
		// duplicate key the other request won and we read its row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, gerr := u.repo.GetByID(ctx, caller.ID); gerr == nil {
				return toDTO(existing), nil
			}
		}
		return nil, err
	}
	return toDTO(p), nil
}

// Get surfaces denied and nonexistent identically as ErrNotFound so an
// unauthorized caller cannot probe for row existence.
func (u *Usecase) Get(ctx context.Context, caller authz.Identity, id string) (*ProfileDTO, error) {
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if !u.az.Begin().CanSelect(ctx, caller, p) {
		return nil, domain.ErrNotFound
	}
	return toDTO(p), nil
}

// List returns every profile for admins and only the caller's own row
// otherwise — the WHERE-clause equivalent of the select predicate.
func (u *Usecase) List(ctx context.Context, caller authz.Identity) ([]ProfileDTO, error) {
	if caller.IsAnonymous() {
		return nil, authz.ErrNotAuthorized
	}
	if u.az.Begin().IsAdmin(ctx, caller) {
		all, err := u.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]ProfileDTO, 0, len(all))
		for i := range all {
			out = append(out, *toDTO(&all[i]))
		}
		return out, nil
	}
	p, err := u.repo.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []ProfileDTO{}, nil
		}
		return nil, err
	}
	return []ProfileDTO{*toDTO(p)}, nil
}

type UpdateInput struct {
	TargetID    string
	DisplayName *string
	Phone       *string
	AvatarURL   *string
	CreditScore *int
	LoanLimit   *float64
	IsAdmin     *bool
}

// Update applies self-service fields for owners and any field, including
// the admin flag, for admins. The field-level rule lives in the evaluator:
// a flag flip is only ever granted to an existing admin.
func (u *Usecase) Update(ctx context.Context, caller authz.Identity, in UpdateInput) (*ProfileDTO, error) {
	existing, err := u.repo.GetByID(ctx, in.TargetID)
	if err != nil {
		// Writes against missing rows get the same rejection as denied
		// ones; reporting "not found" here would leak existence.
		return nil, authz.ErrNotAuthorized
	}

	proposed := *existing
	if in.DisplayName != nil {
		proposed.DisplayName = *in.DisplayName
	}
	if in.Phone != nil {
		proposed.Phone = *in.Phone
	}
	if in.AvatarURL != nil {
		proposed.AvatarURL = *in.AvatarURL
	}
	if in.CreditScore != nil {
		proposed.CreditScore = *in.CreditScore
	}
	if in.LoanLimit != nil {
		proposed.LoanLimit = *in.LoanLimit
	}
	if in.IsAdmin != nil {
		proposed.IsAdmin = *in.IsAdmin
	}

	if err := proposed.ValidateBounds(); err != nil {
		return nil, err
	}
	az := u.az.Begin()
	if !az.CanUpdate(ctx, caller, existing, &proposed) {
		return nil, authz.ErrNotAuthorized
	}
	// Credit score and loan limit are underwriting attributes; owners do
	// not self-assess them.
	if (in.CreditScore != nil || in.LoanLimit != nil) && !az.IsAdmin(ctx, caller) {
		return nil, authz.ErrNotAuthorized
	}
	if err := u.repo.Save(ctx, &proposed); err != nil {
		return nil, err
	}
	return toDTO(&proposed), nil
}
