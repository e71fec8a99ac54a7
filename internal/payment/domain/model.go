package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment is the money record of one stay. StayID is nil on orphaned rows
// and on rows derived from a split, which carry SplitID instead.
type Payment struct {
	ID                    snowflake.ID                       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OrgID                 snowflake.ID                       `json:"org_id" gorm:"not null;index"`
	StayID                *snowflake.ID                      `json:"stay_id,omitempty" gorm:"index"`
	SplitID               *snowflake.ID                      `json:"split_id,omitempty" gorm:"index"`
	FamilyGroup           string                             `json:"family_group" gorm:"type:varchar(255);not null"`
	Amount                decimal.Decimal                    `json:"amount" gorm:"type:numeric(14,4);not null;default:0"`
	AmountPaid            decimal.Decimal                    `json:"amount_paid" gorm:"type:numeric(14,4);not null;default:0"`
	DailyOccupancy        datatypes.JSONSlice[occupancy.Day] `json:"daily_occupancy"`
	ManualAdjustment      decimal.Decimal                    `json:"manual_adjustment" gorm:"type:numeric(14,4);not null;default:0"`
	AdjustmentNotes       string                             `json:"adjustment_notes,omitempty" gorm:"type:text"`
	Status                PaymentStatus                      `json:"status" gorm:"type:varchar(20);not null"`
	CreditAppliedToFuture bool                               `json:"credit_applied_to_future" gorm:"not null;default:false"`
	CreditNotes           string                             `json:"credit_notes,omitempty" gorm:"type:text"`
	BillingLocked         bool                               `json:"billing_locked" gorm:"not null;default:false"`
	CreatedAt             time.Time                          `json:"created_at"`
	UpdatedAt             time.Time                          `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

func (p Payment) Occupancy() []occupancy.Day {
	return []occupancy.Day(p.DailyOccupancy)
}

// Due is the billed amount plus any manual adjustment.
func (p Payment) Due() decimal.Decimal {
	return p.Amount.Add(p.ManualAdjustment)
}

// DeriveStatus reports pending until money arrives and paid once the due
// amount is covered.
func DeriveStatus(due, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.IsPositive() && paid.GreaterThanOrEqual(due):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// Clone copies p including its occupancy snapshot.
func (p Payment) Clone() Payment {
	out := p
	if p.DailyOccupancy != nil {
		days := make([]occupancy.Day, len(p.DailyOccupancy))
		copy(days, p.DailyOccupancy)
		out.DailyOccupancy = days
	}
	if p.StayID != nil {
		id := *p.StayID
		out.StayID = &id
	}
	if p.SplitID != nil {
		id := *p.SplitID
		out.SplitID = &id
	}
	return out
}

// PaymentSplit reassigns part of a stay's charge to another family or host.
// DailyOccupancy is the recipient's claim and SourceDailyOccupancy the
// source occupant's residual claim at the time of the split.
type PaymentSplit struct {
	ID                   snowflake.ID                       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OrgID                snowflake.ID                       `json:"org_id" gorm:"not null;index"`
	SourcePaymentID      snowflake.ID                       `json:"source_payment_id" gorm:"not null;index"`
	SourceStayID         snowflake.ID                       `json:"source_stay_id" gorm:"not null;index"`
	SplitPaymentID       *snowflake.ID                      `json:"split_payment_id,omitempty"`
	SourceFamilyGroup    string                             `json:"source_family_group" gorm:"type:varchar(255);not null"`
	RecipientFamilyGroup string                             `json:"recipient_family_group" gorm:"type:varchar(255);not null"`
	RecipientHostEmail   string                             `json:"recipient_host_email,omitempty" gorm:"type:varchar(255)"`
	RecipientUserID      string                             `json:"recipient_user_id,omitempty" gorm:"type:varchar(255)"`
	DailyOccupancy       datatypes.JSONSlice[occupancy.Day] `json:"daily_occupancy"`
	SourceDailyOccupancy datatypes.JSONSlice[occupancy.Day] `json:"source_daily_occupancy"`
	Imbalanced           bool                               `json:"imbalanced" gorm:"not null;default:false"`
	CreatedAt            time.Time                          `json:"created_at"`
}

func (PaymentSplit) TableName() string { return "payment_splits" }

// VirtualStayRef names the read-time stay derived from a split.
func (s PaymentSplit) VirtualStayRef() string {
	return "split:" + s.ID.String()
}
