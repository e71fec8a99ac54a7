package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Payment, error) {
	var p domain.Payment
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]domain.Payment, error) {
	var items []domain.Payment
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateAmountPaid(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("org_id = ? AND id = ?", payment.OrgID, payment.ID).
		Updates(map[string]any{
			"amount_paid": payment.AmountPaid,
			"status":      payment.Status,
			"updated_at":  payment.UpdatedAt,
		}).Error
}

func (r *repo) UpdateCredit(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("org_id = ? AND id = ?", payment.OrgID, payment.ID).
		Updates(map[string]any{
			"credit_applied_to_future": payment.CreditAppliedToFuture,
			"credit_notes":             payment.CreditNotes,
			"updated_at":               payment.UpdatedAt,
		}).Error
}

// UpdateBilling writes the charge and occupancy snapshot. It never touches
// amount_paid.
func (r *repo) UpdateBilling(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("org_id = ? AND id = ?", payment.OrgID, payment.ID).
		Updates(map[string]any{
			"amount":          payment.Amount,
			"daily_occupancy": payment.DailyOccupancy,
			"status":          payment.Status,
			"updated_at":      payment.UpdatedAt,
		}).Error
}

func (r *repo) InsertSplit(ctx context.Context, db *gorm.DB, split *domain.PaymentSplit) error {
	return db.WithContext(ctx).Create(split).Error
}

func (r *repo) ListSplitsByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]domain.PaymentSplit, error) {
	var items []domain.PaymentSplit
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
