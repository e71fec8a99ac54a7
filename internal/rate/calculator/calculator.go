// Package calculator prices a stay from an organization's rate configuration.
// It is pure: no I/O and no errors. Missing configuration yields an unpriced
// zero breakdown.
package calculator

import (
	"fmt"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/money"
	"github.com/shopspring/decimal"
)

const notPriced = "Not yet priced: no rate configured"

// ForConfig prices desc with the config's own method.
func ForConfig(cfg *domain.RateConfig, desc domain.StayDescriptor) domain.CostBreakdown {
	if cfg == nil {
		return Unpriced("")
	}
	return Calculate(cfg.Method, cfg, desc)
}

// Calculate prices desc with method. Tax applies to base, cleaning and pet
// fees; the damage deposit is added after tax.
func Calculate(method domain.Method, cfg *domain.RateConfig, desc domain.StayDescriptor) domain.CostBreakdown {
	if cfg == nil {
		return Unpriced(method)
	}

	nights := desc.Nights()
	guestNights := occupancy.GuestNights(desc.Days)
	out := domain.CostBreakdown{
		Method:      method,
		Priced:      true,
		Nights:      nights,
		GuestNights: guestNights,
		TaxRate:     cfg.TaxRate,
	}

	switch method {
	case domain.MethodFlatRate:
		if !cfg.Amount.IsPositive() {
			return Unpriced(method)
		}
		out.Base = cfg.Amount
		out.Explanation = "Flat rate per stay"
	case domain.MethodPerNight:
		if !cfg.Amount.IsPositive() {
			return Unpriced(method)
		}
		out.Base = cfg.Amount.Mul(decimal.NewFromInt(int64(nights)))
		out.Explanation = fmt.Sprintf("%d nights × %s", nights, money.Format(cfg.Amount))
	case domain.MethodPerPersonPerNight:
		if !cfg.Amount.IsPositive() {
			return Unpriced(method)
		}
		if occupancy.HasValidData(desc.Days) {
			out.Base = cfg.Amount.Mul(decimal.NewFromInt(int64(guestNights)))
			out.Explanation = fmt.Sprintf("%d guest-nights × %s", guestNights, money.Format(cfg.Amount))
		} else {
			out.GuestNights = desc.Guests * nights
			out.Base = cfg.Amount.Mul(decimal.NewFromInt(int64(out.GuestNights)))
			out.Explanation = fmt.Sprintf("%d guests × %d nights × %s", desc.Guests, nights, money.Format(cfg.Amount))
		}
	case domain.MethodSeasonal:
		season, ok := seasonFor(cfg.Seasons, desc)
		switch {
		case ok && season.Amount.IsPositive():
			out.Base = season.Amount
			out.Explanation = fmt.Sprintf("Flat seasonal rate (%s)", season.Name)
		case cfg.Amount.IsPositive():
			out.Base = cfg.Amount.Mul(decimal.NewFromInt(int64(nights)))
			out.Explanation = fmt.Sprintf("Off-season: %d nights × %s", nights, money.Format(cfg.Amount))
		default:
			return Unpriced(method)
		}
	case domain.MethodCustom:
		amount := cfg.Amount
		if desc.Override.Valid {
			amount = desc.Override.Decimal
		}
		if !amount.IsPositive() {
			return Unpriced(method)
		}
		out.Base = amount
		out.Explanation = fmt.Sprintf("Custom rate %s", money.Format(amount))
	default:
		out = Unpriced(method)
		out.Explanation = fmt.Sprintf("Not yet priced: unknown billing method %q", method)
		return out
	}

	out.CleaningFee = cfg.CleaningFee
	if desc.HasPets {
		out.PetFee = cfg.PetFee
	}
	out.DamageDeposit = cfg.DamageDeposit
	return out.Finalize()
}

// Recorded wraps a previously billed amount as an untaxed flat base so it can
// still be allocated when no rate applies.
func Recorded(amount decimal.Decimal) domain.CostBreakdown {
	return domain.CostBreakdown{
		Priced:      true,
		Base:        amount,
		Explanation: "Recorded charge " + money.Format(amount),
	}.Finalize()
}

// Unpriced is the zero breakdown reported when no rate applies.
func Unpriced(method domain.Method) domain.CostBreakdown {
	return domain.CostBreakdown{
		Method:      method,
		Explanation: notPriced,
	}
}

func seasonFor(seasons []domain.Season, desc domain.StayDescriptor) (domain.Season, bool) {
	checkIn := desc.CheckIn
	if checkIn.IsZero() {
		if first, _, ok := occupancy.Span(desc.Days); ok {
			checkIn = first
		}
	}
	for _, s := range seasons {
		if s.Contains(checkIn) {
			return s, true
		}
	}
	return domain.Season{}, false
}
