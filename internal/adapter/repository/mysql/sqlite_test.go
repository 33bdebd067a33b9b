package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM, no MySQL types) ---

type profileSQLite struct {
	ID          string    `gorm:"primaryKey;size:32;column:id"`
	Email       string    `gorm:"column:email"`
	DisplayName string    `gorm:"column:display_name"`
	Phone       string    `gorm:"column:phone"`
	AvatarURL   string    `gorm:"column:avatar_url"`
	CreditScore int       `gorm:"column:credit_score"`
	LoanLimit   float64   `gorm:"column:loan_limit"`
	IsAdmin     bool      `gorm:"column:is_admin"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (profileSQLite) TableName() string { return "profiles" }

type loanSQLite struct {
	ID             uint64         `gorm:"primaryKey;column:id"`
	LoanID         string         `gorm:"size:32;uniqueIndex;column:loan_id"`
	OwnerID        string         `gorm:"size:32;column:owner_id"`
	Principal      float64        `gorm:"column:principal"`
	Rate           float64        `gorm:"column:rate"`
	TermMonths     int            `gorm:"column:term_months"`
	MonthlyPayment float64        `gorm:"column:monthly_payment"`
	Status         string         `gorm:"type:text;column:status"` // ← no enum
	AppliedAt      time.Time      `gorm:"column:applied_at"`
	ApprovedAt     *time.Time     `gorm:"column:approved_at"`
	DisbursedAt    *time.Time     `gorm:"column:disbursed_at"`
	DueAt          *time.Time     `gorm:"column:due_at"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type paymentSQLite struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	PaymentID string         `gorm:"size:32;uniqueIndex;column:payment_id"`
	LoanID    string         `gorm:"size:32;column:loan_id"`
	Amount    float64        `gorm:"column:amount"`
	PaidAt    time.Time      `gorm:"column:paid_at"`
	Method    string         `gorm:"column:method"`
	Status    string         `gorm:"type:text;column:status"` // ← no enum
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (paymentSQLite) TableName() string { return "payments" }

type activitySQLite struct {
	ID          uint64    `gorm:"primaryKey;column:id"`
	RecordID    string    `gorm:"size:32;uniqueIndex;column:record_id"`
	ActorID     string    `gorm:"size:32;column:actor_id"`
	OwnerID     string    `gorm:"size:32;column:owner_id"`
	Type        string    `gorm:"column:activity_type"`
	Description string    `gorm:"column:description"`
	Amount      *float64  `gorm:"column:amount"`
	Metadata    string    `gorm:"type:text;column:metadata"` // ← plain text, not json
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (activitySQLite) TableName() string { return "activities" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schemas. TranslateError matches the production gorm config so
// duplicate keys surface as gorm.ErrDuplicatedKey here too.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&profileSQLite{}, &loanSQLite{}, &paymentSQLite{}, &activitySQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
