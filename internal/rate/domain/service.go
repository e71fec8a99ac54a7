package domain

import (
	"context"
	"time"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/shopspring/decimal"
)

type Service interface {
	Get(ctx context.Context) (*RateConfig, error)
	// Current returns the organization's config, or nil when none is set.
	Current(ctx context.Context) (*RateConfig, error)
	Upsert(ctx context.Context, req UpsertRequest) (*RateConfig, error)
	Quote(ctx context.Context, req QuoteRequest) (CostBreakdown, error)
}

type UpsertRequest struct {
	Method        Method          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	CleaningFee   decimal.Decimal `json:"cleaning_fee"`
	PetFee        decimal.Decimal `json:"pet_fee"`
	DamageDeposit decimal.Decimal `json:"damage_deposit"`
	Seasons       []Season        `json:"seasons"`
}

type QuoteRequest struct {
	CheckIn  time.Time           `json:"check_in"`
	CheckOut time.Time           `json:"check_out"`
	Guests   int                 `json:"guests"`
	Days     []occupancy.Day     `json:"daily_occupancy"`
	HasPets  bool                `json:"has_pets"`
	Override decimal.NullDecimal `json:"rate_override"`
}
