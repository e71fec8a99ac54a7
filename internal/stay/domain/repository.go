package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, stay *Stay) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Stay, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListRequest) ([]Stay, error)
	UpdateOccupancy(ctx context.Context, db *gorm.DB, stay *Stay) error
}
