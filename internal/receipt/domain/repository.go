package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, receipt *Receipt) error
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListRequest) ([]Receipt, error)
}
