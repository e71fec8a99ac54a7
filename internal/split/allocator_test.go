package split

import (
	"testing"
	"time"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/calculator"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkIn = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func days(guests ...int) []occupancy.Day {
	out := make([]occupancy.Day, 0, len(guests))
	for i, g := range guests {
		out = append(out, occupancy.Day{Date: checkIn.AddDate(0, 0, i), Guests: g})
	}
	return out
}

func config(method ratedomain.Method) *ratedomain.RateConfig {
	return &ratedomain.RateConfig{
		Method:        method,
		Amount:        decimal.RequireFromString("33.33"),
		TaxRate:       decimal.RequireFromString("0.0825"),
		CleaningFee:   decimal.RequireFromString("75"),
		PetFee:        decimal.RequireFromString("15"),
		DamageDeposit: decimal.RequireFromString("200"),
	}
}

func descriptor(original []occupancy.Day) ratedomain.StayDescriptor {
	return ratedomain.StayDescriptor{
		CheckIn:  checkIn,
		CheckOut: checkIn.AddDate(0, 0, len(original)),
		Days:     original,
		HasPets:  true,
	}
}

func sumTotals(a Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, s := range a.Shares {
		total = total.Add(s.Breakdown.Rounded().Total)
	}
	return total
}

func TestAllocateSharesSumToWhole(t *testing.T) {
	original := days(7, 5, 3)
	claims := []Claim{
		{Key: "source", Days: days(4, 2, 1)},
		{Key: "smith", Days: days(2, 2, 2)},
		{Key: "jones", Days: days(1, 1, 0)},
	}

	for _, method := range []ratedomain.Method{
		ratedomain.MethodPerPersonPerNight,
		ratedomain.MethodPerNight,
		ratedomain.MethodFlatRate,
	} {
		t.Run(string(method), func(t *testing.T) {
			cfg := config(method)
			desc := descriptor(original)
			total := calculator.Calculate(method, cfg, desc)

			alloc := Allocate(total, cfg, desc, claims)
			require.Len(t, alloc.Shares, 3)
			assert.Equal(t, 15, alloc.TotalGuestNights)

			diff := sumTotals(alloc).Sub(total.Rounded().Total).Abs()
			tolerance := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(len(claims))))
			assert.True(t, diff.LessThanOrEqual(tolerance), "diff %s", diff)
		})
	}
}

func TestAllocateRoundedSharesSumExactlyToTotal(t *testing.T) {
	cfg := &ratedomain.RateConfig{Method: ratedomain.MethodFlatRate, Amount: decimal.NewFromInt(100)}
	desc := descriptor(days(3))
	desc.HasPets = false
	total := calculator.Calculate(ratedomain.MethodFlatRate, cfg, desc)

	alloc := Allocate(total, cfg, desc, []Claim{
		{Key: "a", Days: days(1)},
		{Key: "b", Days: days(1)},
		{Key: "c", Days: days(1)},
	})

	assert.True(t, sumTotals(alloc).Equal(decimal.NewFromInt(100)), "sum %s", sumTotals(alloc))
	a, _ := alloc.Share("a")
	c, _ := alloc.Share("c")
	assert.True(t, a.Breakdown.Total.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, c.Breakdown.Total.Equal(decimal.RequireFromString("33.34")))
	assert.True(t, c.Breakdown.Base.Equal(c.Breakdown.Total))
}

func TestAllocateRemainderSkipsEmptyTrailingClaim(t *testing.T) {
	cfg := &ratedomain.RateConfig{Method: ratedomain.MethodFlatRate, Amount: decimal.NewFromInt(100)}
	desc := descriptor(days(3))
	desc.HasPets = false
	total := calculator.Calculate(ratedomain.MethodFlatRate, cfg, desc)

	alloc := Allocate(total, cfg, desc, []Claim{
		{Key: "a", Days: days(1)},
		{Key: "b", Days: days(2)},
		{Key: "empty", Days: days(0)},
	})

	assert.True(t, sumTotals(alloc).Equal(decimal.NewFromInt(100)))
	empty, _ := alloc.Share("empty")
	assert.True(t, empty.Breakdown.Total.IsZero())
}

func TestAllocateRepricesPerGuestNightBase(t *testing.T) {
	cfg := config(ratedomain.MethodPerPersonPerNight)
	cfg.Amount = decimal.NewFromInt(20)
	original := days(3, 3)
	desc := descriptor(original)
	total := calculator.Calculate(ratedomain.MethodPerPersonPerNight, cfg, desc)

	alloc := Allocate(total, cfg, desc, []Claim{
		{Key: "source", Days: days(2, 2)},
		{Key: "guest", Days: days(1, 1)},
	})

	guest, ok := alloc.Share("guest")
	require.True(t, ok)
	assert.True(t, guest.Breakdown.Base.Equal(decimal.NewFromInt(40)))
	assert.True(t, guest.Breakdown.CleaningFee.Round(2).Equal(decimal.NewFromInt(25)))
	cent := decimal.RequireFromString("0.01")
	assert.True(t, guest.Breakdown.Tax.Sub(cfg.TaxRate.Mul(guest.Breakdown.Subtotal)).Abs().LessThanOrEqual(cent))
	assert.Equal(t, "2 guest-nights × $20.00", guest.Breakdown.Explanation)
}

func TestAllocateZeroGuestNights(t *testing.T) {
	cfg := config(ratedomain.MethodFlatRate)
	desc := descriptor(days(0, 0))
	total := calculator.Calculate(ratedomain.MethodFlatRate, cfg, desc)

	alloc := Allocate(total, cfg, desc, []Claim{
		{Key: "a", Days: days(0, 0)},
		{Key: "b"},
	})
	require.Len(t, alloc.Shares, 2)
	for _, s := range alloc.Shares {
		assert.True(t, s.Proportion.IsZero())
		assert.True(t, s.Breakdown.Total.IsZero())
	}
}

func TestAllocatePartialClaimsStillRun(t *testing.T) {
	cfg := config(ratedomain.MethodPerNight)
	desc := descriptor(days(4, 4))
	total := calculator.Calculate(ratedomain.MethodPerNight, cfg, desc)

	alloc := Allocate(total, cfg, desc, []Claim{{Key: "only", Days: days(1, 0)}})
	only, ok := alloc.Share("only")
	require.True(t, ok)
	assert.True(t, only.Proportion.Equal(decimal.NewFromInt(1)))
	assert.True(t, only.Breakdown.Total.Equal(total.Rounded().Total))
}

func TestCheckBalance(t *testing.T) {
	original := days(4, 4)
	balanced := CheckBalance(original, []Claim{
		{Key: "a", Days: days(3, 1)},
		{Key: "b", Days: days(1, 3)},
	})
	assert.Empty(t, balanced)

	off := CheckBalance(original, []Claim{
		{Key: "a", Days: days(3, 1)},
		{Key: "b", Days: days(2, 3, 1)},
	})
	require.Len(t, off, 2)
	assert.Equal(t, Imbalance{Date: checkIn, Expected: 4, Claimed: 5}, off[0])
	assert.Equal(t, 0, off[1].Expected)
	assert.Equal(t, 1, off[1].Claimed)
}
