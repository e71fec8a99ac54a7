package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*RateConfig, error)
	Insert(ctx context.Context, db *gorm.DB, cfg *RateConfig) error
	Update(ctx context.Context, db *gorm.DB, cfg *RateConfig) error
}
