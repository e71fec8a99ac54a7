package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, receipt *domain.Receipt) error {
	return db.WithContext(ctx).Create(receipt).Error
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListRequest) ([]domain.Receipt, error) {
	var items []domain.Receipt
	stmt := db.WithContext(ctx).Where("org_id = ?", orgID)
	if group := strings.TrimSpace(filter.FamilyGroup); group != "" {
		stmt = stmt.Where("family_group = ?", group)
	}
	if err := stmt.Order("receipt_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
