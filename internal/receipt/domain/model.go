package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Receipt is a reimbursable expense a family group paid on behalf of the
// property. It is credited once, against the group's newest stay.
type Receipt struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OrgID       snowflake.ID    `json:"org_id" gorm:"not null;index"`
	FamilyGroup string          `json:"family_group" gorm:"type:varchar(255);not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(14,4);not null;default:0"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	ReceiptDate time.Time       `json:"receipt_date" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Receipt) TableName() string { return "receipts" }
