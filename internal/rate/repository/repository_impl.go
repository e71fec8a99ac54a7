package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.RateConfig, error) {
	var cfg domain.RateConfig
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Limit(1).
		Find(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cfg *domain.RateConfig) error {
	return db.WithContext(ctx).Create(cfg).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, cfg *domain.RateConfig) error {
	return db.WithContext(ctx).
		Model(&domain.RateConfig{}).
		Where("org_id = ? AND id = ?", cfg.OrgID, cfg.ID).
		Updates(map[string]any{
			"method":         cfg.Method,
			"amount":         cfg.Amount,
			"tax_rate":       cfg.TaxRate,
			"cleaning_fee":   cfg.CleaningFee,
			"pet_fee":        cfg.PetFee,
			"damage_deposit": cfg.DamageDeposit,
			"seasons":        cfg.Seasons,
			"updated_at":     cfg.UpdatedAt,
		}).Error
}
