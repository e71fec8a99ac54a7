package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Payment, error)
	// ListByOrg returns every payment row, duplicates and orphans included.
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]Payment, error)
	UpdateAmountPaid(ctx context.Context, db *gorm.DB, payment *Payment) error
	UpdateCredit(ctx context.Context, db *gorm.DB, payment *Payment) error
	UpdateBilling(ctx context.Context, db *gorm.DB, payment *Payment) error

	InsertSplit(ctx context.Context, db *gorm.DB, split *PaymentSplit) error
	ListSplitsByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]PaymentSplit, error)
}
