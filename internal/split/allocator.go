// Package split prorates a stay's cost across the people sharing it. The
// unit of proration is the guest-night.
package split

import (
	"sort"
	"time"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/calculator"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/money"
	"github.com/shopspring/decimal"
)

// Claim is one occupant's per-day guest count.
type Claim struct {
	Key  string
	Days []occupancy.Day
}

type Share struct {
	Key         string                   `json:"key"`
	GuestNights int                      `json:"guest_nights"`
	Proportion  decimal.Decimal          `json:"proportion"`
	Breakdown   ratedomain.CostBreakdown `json:"breakdown"`
}

type Allocation struct {
	TotalGuestNights int     `json:"total_guest_nights"`
	Shares           []Share `json:"shares"`
}

// Share returns the share for key.
func (a Allocation) Share(key string) (Share, bool) {
	for _, s := range a.Shares {
		if s.Key == key {
			return s, true
		}
	}
	return Share{}, false
}

// Allocate splits total across claims. Proportions are taken over the
// guest-nights actually claimed, so partial claims still allocate. Fixed fees
// and the deposit are prorated. The base is repriced from the claim's own
// days when the method scales with guest-nights, and prorated otherwise. Tax
// is recomputed on each share's own subtotal. Shares come back rounded to
// cents, and the last claim with guest-nights absorbs the rounding remainder
// so the shares add up to the rounded sum of their exact amounts.
func Allocate(total ratedomain.CostBreakdown, cfg *ratedomain.RateConfig, desc ratedomain.StayDescriptor, claims []Claim) Allocation {
	out := Allocation{Shares: make([]Share, 0, len(claims))}
	for _, c := range claims {
		out.TotalGuestNights += occupancy.GuestNights(c.Days)
	}
	whole := decimal.NewFromInt(int64(out.TotalGuestNights))

	for _, c := range claims {
		guestNights := occupancy.GuestNights(c.Days)
		p := money.Ratio(decimal.NewFromInt(int64(guestNights)), whole)

		b := ratedomain.CostBreakdown{
			Method:        total.Method,
			Priced:        total.Priced,
			Nights:        total.Nights,
			GuestNights:   guestNights,
			TaxRate:       total.TaxRate,
			CleaningFee:   total.CleaningFee.Mul(p),
			PetFee:        total.PetFee.Mul(p),
			DamageDeposit: total.DamageDeposit.Mul(p),
			Explanation:   total.Explanation,
		}
		if total.Method.ScalesWithGuestNights() && cfg != nil && total.Priced {
			own := desc
			own.Days = c.Days
			own.Guests = 0
			repriced := calculator.Calculate(total.Method, cfg, own)
			b.Base = repriced.Base
			b.Explanation = repriced.Explanation
		} else {
			b.Base = total.Base.Mul(p)
		}

		out.Shares = append(out.Shares, Share{
			Key:         c.Key,
			GuestNights: guestNights,
			Proportion:  p,
			Breakdown:   b.Finalize(),
		})
	}
	settleCents(out.Shares)
	return out
}

func settleCents(shares []Share) {
	if len(shares) == 0 {
		return
	}
	exact := make([]decimal.Decimal, 0, len(shares))
	rounded := make([]decimal.Decimal, 0, len(shares))
	last := len(shares) - 1
	for i := range shares {
		exact = append(exact, shares[i].Breakdown.Total)
		shares[i].Breakdown = shares[i].Breakdown.Rounded()
		rounded = append(rounded, shares[i].Breakdown.Total)
		if shares[i].GuestNights > 0 {
			last = i
		}
	}

	remainder := money.Round(money.Sum(exact...)).Sub(money.Sum(rounded...))
	if remainder.IsZero() {
		return
	}
	b := shares[last].Breakdown
	if b.Tax.IsZero() {
		b.Base = b.Base.Add(remainder)
		b.Subtotal = b.Subtotal.Add(remainder)
	} else {
		b.Tax = b.Tax.Add(remainder)
	}
	b.Total = b.Total.Add(remainder)
	shares[last].Breakdown = b
}

type Imbalance struct {
	Date     time.Time `json:"date"`
	Expected int       `json:"expected"`
	Claimed  int       `json:"claimed"`
}

// CheckBalance compares, per date, the original guest count with the sum of
// every claim. Dates claimed but absent from the original count as zero.
func CheckBalance(original []occupancy.Day, claims []Claim) []Imbalance {
	expected := occupancy.ByDate(original)
	claimed := make(map[string]int, len(expected))
	when := make(map[string]time.Time, len(expected))
	for _, d := range original {
		when[dates.Key(d.Date)] = dates.Truncate(d.Date)
	}
	for _, c := range claims {
		for _, d := range c.Days {
			key := dates.Key(d.Date)
			claimed[key] += d.Guests
			if _, ok := when[key]; !ok {
				when[key] = dates.Truncate(d.Date)
			}
		}
	}

	var out []Imbalance
	for key, at := range when {
		if expected[key] != claimed[key] {
			out = append(out, Imbalance{Date: at, Expected: expected[key], Claimed: claimed[key]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
