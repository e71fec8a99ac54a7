package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusTentative Status = "tentative"
	StatusConfirmed Status = "confirmed"
)

func (s Status) Valid() bool {
	return s == StatusTentative || s == StatusConfirmed
}

type HostAssignment struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Stay is one continuous reservation of the property by a family group.
// EndDate is the checkout day and is not billed.
type Stay struct {
	ID              snowflake.ID                        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OrgID           snowflake.ID                        `json:"org_id" gorm:"not null;index"`
	FamilyGroup     string                              `json:"family_group" gorm:"type:varchar(255);not null"`
	HostAssignments datatypes.JSONSlice[HostAssignment] `json:"host_assignments"`
	OwnerUserID     string                              `json:"owner_user_id,omitempty" gorm:"type:varchar(255)"`
	StartDate       time.Time                           `json:"start_date" gorm:"not null"`
	EndDate         time.Time                           `json:"end_date" gorm:"not null"`
	DailyOccupancy  datatypes.JSONSlice[occupancy.Day]  `json:"daily_occupancy"`
	Status          Status                              `json:"status" gorm:"type:varchar(20);not null"`
	HasPets         bool                                `json:"has_pets" gorm:"not null;default:false"`
	RateOverride    decimal.NullDecimal                 `json:"rate_override" gorm:"type:numeric(14,4)"`
	CreatedAt       time.Time                           `json:"created_at"`
	UpdatedAt       time.Time                           `json:"updated_at"`
}

func (Stay) TableName() string { return "stays" }

func (s Stay) Nights() int {
	return dates.DaysBetween(s.StartDate, s.EndDate)
}

// ValidRange reports whether the stay covers at least one night.
func (s Stay) ValidRange() bool {
	return s.Nights() > 0
}

func (s Stay) Occupancy() []occupancy.Day {
	return []occupancy.Day(s.DailyOccupancy)
}

// Descriptor describes the stay to the rate calculator using days as its
// occupancy.
func (s Stay) Descriptor(days []occupancy.Day) ratedomain.StayDescriptor {
	normalized := occupancy.Normalize(s.StartDate, s.EndDate, days)
	return ratedomain.StayDescriptor{
		CheckIn:  dates.Truncate(s.StartDate),
		CheckOut: dates.Truncate(s.EndDate),
		Guests:   occupancy.MaxGuests(normalized),
		Days:     normalized,
		HasPets:  s.HasPets,
		Override: s.RateOverride,
	}
}
