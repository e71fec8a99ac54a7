package domain

import (
	"context"
	"time"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Stay, error)
	Get(ctx context.Context, id string) (*Stay, error)
	List(ctx context.Context, req ListRequest) ([]Stay, error)
	// UpdateDailyOccupancy replaces the whole occupancy sequence and re-bills
	// the stay's payment unless its billing is locked.
	UpdateDailyOccupancy(ctx context.Context, req UpdateOccupancyRequest) (*Stay, error)
}

type CreateRequest struct {
	FamilyGroup     string              `json:"family_group"`
	HostAssignments []HostAssignment    `json:"host_assignments"`
	OwnerUserID     string              `json:"owner_user_id"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	DailyOccupancy  []occupancy.Day     `json:"daily_occupancy"`
	Status          Status              `json:"status"`
	HasPets         bool                `json:"has_pets"`
	RateOverride    decimal.NullDecimal `json:"rate_override"`
}

type ListRequest struct {
	FamilyGroup string
}

type UpdateOccupancyRequest struct {
	StayID string          `json:"stay_id"`
	Days   []occupancy.Day `json:"daily_occupancy"`
}

// OccupancySync propagates an occupancy edit to the stay's payment inside the
// caller's transaction.
type OccupancySync interface {
	SyncStayOccupancy(ctx context.Context, tx *gorm.DB, stay *Stay) error
}
