package activity

import (
	"errors"
	"time"

	"gorm.io/datatypes"

	"loanguard-backend/internal/authz"
)

var ErrNotFound = errors.New("activity record not found")

// Record is an append-only audit entry. The owner is the identity the
// event was recorded for, which differs from the actor when an admin acts
// on a user's behalf. Rows are never mutated or deleted by normal flow.
type Record struct {
	ID          uint64            `gorm:"primaryKey;column:id" json:"-"`
	RecordID    string            `gorm:"size:32;column:record_id;uniqueIndex:ux_activities_record_id" json:"record_id"`
	ActorID     string            `gorm:"size:32;column:actor_id" json:"actor_id"`
	Owner       string            `gorm:"size:32;column:owner_id;index:idx_activities_owner" json:"owner_id"`
	Type        string            `gorm:"size:64;column:activity_type" json:"activity_type"`
	Description string            `gorm:"type:text" json:"description"`
	Amount      *float64          `gorm:"type:decimal(18,2)" json:"amount,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (Record) TableName() string { return "activities" }

func (r *Record) Collection() authz.Collection { return authz.Activities }
func (r *Record) OwnerID() string              { return r.Owner }
