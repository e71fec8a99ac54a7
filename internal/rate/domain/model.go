package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Method string

const (
	MethodFlatRate          Method = "flat_rate"
	MethodPerNight          Method = "per_night"
	MethodPerPersonPerNight Method = "per_person_per_night"
	MethodSeasonal          Method = "seasonal"
	MethodCustom            Method = "custom"
)

func (m Method) Valid() bool {
	switch m {
	case MethodFlatRate, MethodPerNight, MethodPerPersonPerNight, MethodSeasonal, MethodCustom:
		return true
	}
	return false
}

// ScalesWithGuestNights reports whether the base charge is a direct function
// of guest-nights, so a share can be priced from the occupant's own days.
func (m Method) ScalesWithGuestNights() bool {
	return m == MethodPerPersonPerNight
}

// RateConfig is the organization-wide billing configuration.
type RateConfig struct {
	ID            snowflake.ID                `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OrgID         snowflake.ID                `json:"org_id" gorm:"not null;uniqueIndex"`
	Method        Method                      `json:"method" gorm:"type:varchar(32);not null"`
	Amount        decimal.Decimal             `json:"amount" gorm:"type:numeric(14,4);not null;default:0"`
	TaxRate       decimal.Decimal             `json:"tax_rate" gorm:"type:numeric(8,6);not null;default:0"`
	CleaningFee   decimal.Decimal             `json:"cleaning_fee" gorm:"type:numeric(14,4);not null;default:0"`
	PetFee        decimal.Decimal             `json:"pet_fee" gorm:"type:numeric(14,4);not null;default:0"`
	DamageDeposit decimal.Decimal             `json:"damage_deposit" gorm:"type:numeric(14,4);not null;default:0"`
	Seasons       datatypes.JSONSlice[Season] `json:"seasons"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (RateConfig) TableName() string { return "rate_configs" }

// Season is a recurring calendar window, inclusive on both ends. A window
// whose start is after its end wraps over the new year.
type Season struct {
	Name   string          `json:"name"`
	Start  string          `json:"start"`
	End    string          `json:"end"`
	Amount decimal.Decimal `json:"amount"`
}

func (s Season) Validate() error {
	if _, err := parseMonthDay(s.Start); err != nil {
		return err
	}
	if _, err := parseMonthDay(s.End); err != nil {
		return err
	}
	if s.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (s Season) Contains(t time.Time) bool {
	start, err := parseMonthDay(s.Start)
	if err != nil {
		return false
	}
	end, err := parseMonthDay(s.End)
	if err != nil {
		return false
	}
	md := int(t.Month())*100 + t.Day()
	if start <= end {
		return md >= start && md <= end
	}
	return md >= start || md <= end
}

func parseMonthDay(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return 0, ErrInvalidSeason
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, ErrInvalidSeason
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return 0, ErrInvalidSeason
	}
	return month*100 + day, nil
}

// StayDescriptor is what the calculator needs to know about a stay.
type StayDescriptor struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Days     []occupancy.Day
	HasPets  bool
	Override decimal.NullDecimal
}

func (d StayDescriptor) Nights() int {
	n := dates.DaysBetween(d.CheckIn, d.CheckOut)
	if n < 0 {
		return 0
	}
	return n
}

// CostBreakdown carries full-precision amounts. Use Rounded for display.
type CostBreakdown struct {
	Method        Method          `json:"method"`
	Priced        bool            `json:"priced"`
	Nights        int             `json:"nights"`
	GuestNights   int             `json:"guest_nights"`
	Base          decimal.Decimal `json:"base"`
	CleaningFee   decimal.Decimal `json:"cleaning_fee"`
	PetFee        decimal.Decimal `json:"pet_fee"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Tax           decimal.Decimal `json:"tax"`
	DamageDeposit decimal.Decimal `json:"damage_deposit"`
	Total         decimal.Decimal `json:"total"`
	Explanation   string          `json:"explanation"`
}

func (b CostBreakdown) Rounded() CostBreakdown {
	b.Base = money.Round(b.Base)
	b.CleaningFee = money.Round(b.CleaningFee)
	b.PetFee = money.Round(b.PetFee)
	b.Subtotal = money.Round(b.Subtotal)
	b.Tax = money.Round(b.Tax)
	b.DamageDeposit = money.Round(b.DamageDeposit)
	b.Total = money.Round(b.Total)
	return b
}

// Finalize derives subtotal, tax and total from the components.
func (b CostBreakdown) Finalize() CostBreakdown {
	b.Subtotal = b.Base.Add(b.CleaningFee).Add(b.PetFee)
	b.Tax = b.TaxRate.Mul(b.Subtotal)
	b.Total = b.Subtotal.Add(b.Tax).Add(b.DamageDeposit)
	return b
}

func (b CostBreakdown) String() string {
	return fmt.Sprintf("%s: %s", b.Explanation, money.Format(b.Total))
}
