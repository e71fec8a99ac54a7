package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, stay *domain.Stay) error {
	return db.WithContext(ctx).Create(stay).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Stay, error) {
	var stay domain.Stay
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&stay).Error
	if err != nil {
		return nil, err
	}
	if stay.ID == 0 {
		return nil, nil
	}
	return &stay, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListRequest) ([]domain.Stay, error) {
	var items []domain.Stay
	stmt := db.WithContext(ctx).Where("org_id = ?", orgID)
	if group := strings.TrimSpace(filter.FamilyGroup); group != "" {
		stmt = stmt.Where("family_group = ?", group)
	}
	if err := stmt.Order("start_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateOccupancy(ctx context.Context, db *gorm.DB, stay *domain.Stay) error {
	return db.WithContext(ctx).
		Model(&domain.Stay{}).
		Where("org_id = ? AND id = ?", stay.OrgID, stay.ID).
		Updates(map[string]any{
			"daily_occupancy": stay.DailyOccupancy,
			"updated_at":      stay.UpdatedAt,
		}).Error
}
