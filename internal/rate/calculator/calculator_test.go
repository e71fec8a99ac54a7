package calculator

import (
	"testing"
	"time"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func baseConfig(method domain.Method) *domain.RateConfig {
	return &domain.RateConfig{
		Method:        method,
		Amount:        dec("25"),
		TaxRate:       dec("0.08"),
		CleaningFee:   dec("50"),
		PetFee:        dec("20"),
		DamageDeposit: dec("100"),
		Seasons: []domain.Season{
			{Name: "Summer", Start: "06-01", End: "08-31", Amount: dec("900")},
			{Name: "Holidays", Start: "12-20", End: "01-05", Amount: dec("700")},
		},
	}
}

func stay(checkIn string, nights int, guests ...int) domain.StayDescriptor {
	start, _ := time.Parse("2006-01-02", checkIn)
	days := make([]occupancy.Day, 0, len(guests))
	for i, g := range guests {
		days = append(days, occupancy.Day{Date: start.AddDate(0, 0, i), Guests: g})
	}
	return domain.StayDescriptor{
		CheckIn:  start,
		CheckOut: start.AddDate(0, 0, nights),
		Days:     days,
	}
}

func assertArithmetic(t *testing.T, b domain.CostBreakdown) {
	t.Helper()
	assert.True(t, b.Subtotal.Equal(b.Base.Add(b.CleaningFee).Add(b.PetFee)), "subtotal")
	assert.True(t, b.Tax.Equal(b.TaxRate.Mul(b.Subtotal)), "tax excludes deposit")
	assert.True(t, b.Total.Equal(b.Subtotal.Add(b.Tax).Add(b.DamageDeposit)), "total")
}

func TestCalculateArithmeticForEveryMethod(t *testing.T) {
	desc := stay("2024-07-01", 3, 4, 2, 6)
	desc.HasPets = true
	desc.Override = decimal.NewNullDecimal(dec("333.33"))

	for _, method := range []domain.Method{
		domain.MethodFlatRate,
		domain.MethodPerNight,
		domain.MethodPerPersonPerNight,
		domain.MethodSeasonal,
		domain.MethodCustom,
	} {
		t.Run(string(method), func(t *testing.T) {
			b := Calculate(method, baseConfig(method), desc)
			require.True(t, b.Priced)
			assertArithmetic(t, b)
			assert.True(t, b.PetFee.Equal(dec("20")))
		})
	}
}

func TestPerPersonPerNightSumsDailyOccupancy(t *testing.T) {
	b := Calculate(domain.MethodPerPersonPerNight, baseConfig(domain.MethodPerPersonPerNight), stay("2024-07-01", 3, 4, 2, 6))

	assert.Equal(t, 12, b.GuestNights)
	assert.True(t, b.Base.Equal(dec("300")))
	assert.Equal(t, "12 guest-nights × $25.00", b.Explanation)
	assert.True(t, b.Subtotal.Equal(dec("350")))
	assert.True(t, b.Tax.Equal(dec("28")))
	assert.True(t, b.Total.Equal(dec("478")))
}

func TestPerPersonPerNightFallsBackToGuestCount(t *testing.T) {
	desc := stay("2024-07-01", 4)
	desc.Guests = 3

	b := Calculate(domain.MethodPerPersonPerNight, baseConfig(domain.MethodPerPersonPerNight), desc)
	assert.Equal(t, 12, b.GuestNights)
	assert.True(t, b.Base.Equal(dec("300")))
	assert.Equal(t, "3 guests × 4 nights × $25.00", b.Explanation)
}

func TestPerNight(t *testing.T) {
	cfg := baseConfig(domain.MethodPerNight)
	cfg.Amount = dec("150")
	b := Calculate(domain.MethodPerNight, cfg, stay("2024-07-01", 4, 1, 1, 1, 1))
	assert.True(t, b.Base.Equal(dec("600")))
	assert.Equal(t, "4 nights × $150.00", b.Explanation)
	assert.True(t, b.PetFee.IsZero())
}

func TestSeasonal(t *testing.T) {
	cfg := baseConfig(domain.MethodSeasonal)

	summer := Calculate(domain.MethodSeasonal, cfg, stay("2024-07-10", 2, 2, 2))
	assert.True(t, summer.Base.Equal(dec("900")))
	assert.Equal(t, "Flat seasonal rate (Summer)", summer.Explanation)

	winter := Calculate(domain.MethodSeasonal, cfg, stay("2024-01-02", 2, 2, 2))
	assert.True(t, winter.Base.Equal(dec("700")), "season wraps the new year")

	offSeason := Calculate(domain.MethodSeasonal, cfg, stay("2024-03-02", 2, 2, 2))
	assert.True(t, offSeason.Base.Equal(dec("50")))
}

func TestCustomPrefersOverride(t *testing.T) {
	cfg := baseConfig(domain.MethodCustom)
	desc := stay("2024-07-01", 2, 1, 1)

	assert.True(t, Calculate(domain.MethodCustom, cfg, desc).Base.Equal(dec("25")))

	desc.Override = decimal.NewNullDecimal(dec("410"))
	assert.True(t, Calculate(domain.MethodCustom, cfg, desc).Base.Equal(dec("410")))
}

func TestMissingRateIsNotPriced(t *testing.T) {
	b := ForConfig(nil, stay("2024-07-01", 2, 1, 1))
	assert.False(t, b.Priced)
	assert.True(t, b.Total.IsZero())
	assert.Equal(t, "Not yet priced: no rate configured", b.Explanation)

	cfg := baseConfig(domain.MethodPerNight)
	cfg.Amount = decimal.Zero
	b = ForConfig(cfg, stay("2024-07-01", 2, 1, 1))
	assert.False(t, b.Priced)
	assert.True(t, b.Total.IsZero())
}

func TestUnknownMethodIsNotPriced(t *testing.T) {
	b := Calculate(domain.Method("weekly"), baseConfig(domain.MethodFlatRate), stay("2024-07-01", 2, 1, 1))
	assert.False(t, b.Priced)
	assert.Contains(t, b.Explanation, "weekly")
}

func TestRoundedKeepsPrecisionUntilDisplay(t *testing.T) {
	cfg := baseConfig(domain.MethodPerNight)
	cfg.Amount = dec("33.333")
	cfg.TaxRate = dec("0.0725")
	b := Calculate(domain.MethodPerNight, cfg, stay("2024-07-01", 3, 1, 1, 1))

	assert.True(t, b.Base.Equal(dec("99.999")))
	r := b.Rounded()
	assert.Equal(t, "100.00", r.Base.StringFixed(2))
	assert.True(t, r.Total.Equal(b.Total.Round(2)))
}

func TestRecorded(t *testing.T) {
	b := Recorded(dec("120"))
	assert.True(t, b.Priced)
	assert.True(t, b.Total.Equal(dec("120")))
	assert.True(t, b.Tax.IsZero())
	assert.False(t, b.Method.ScalesWithGuestNights())
}
