package projector

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var july1 = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func id(v int64) *snowflake.ID {
	out := snowflake.ID(v)
	return &out
}

func days(start time.Time, guests ...int) []occupancy.Day {
	out := make([]occupancy.Day, 0, len(guests))
	for i, g := range guests {
		out = append(out, occupancy.Day{Date: start.AddDate(0, 0, i), Guests: g})
	}
	return out
}

func stay(stayID int64, group string, start time.Time, nights int) staydomain.Stay {
	return staydomain.Stay{
		ID:          snowflake.ID(stayID),
		OrgID:       1,
		FamilyGroup: group,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, nights),
	}
}

func TestProjectExactMatch(t *testing.T) {
	stays := []staydomain.Stay{stay(10, "Smith", july1, 2)}
	payments := []domain.Payment{{ID: 100, StayID: id(10), Amount: decimal.NewFromInt(80)}}

	res := Project(stays, payments)
	r := res[10]
	require.True(t, r.Found())
	assert.Equal(t, SourceExact, r.Source)
	assert.Equal(t, snowflake.ID(100), r.Payment.ID)

	r.Payment.Amount = decimal.NewFromInt(1)
	assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(80)), "projection must not alias rows")
}

func TestProjectMergesDuplicates(t *testing.T) {
	stays := []staydomain.Stay{stay(10, "Smith", july1, 3)}
	payments := []domain.Payment{
		{
			ID:             200,
			StayID:         id(10),
			Amount:         decimal.NewFromInt(300),
			DailyOccupancy: days(july1, 4, 4, 2),
			CreatedAt:      july1,
		},
		{
			ID:             201,
			StayID:         id(10),
			AmountPaid:     decimal.NewFromInt(150),
			DailyOccupancy: days(july1, 0, 0, 0),
			BillingLocked:  true,
			CreatedAt:      july1.Add(time.Hour),
		},
	}

	r := Project(stays, payments)[10]
	require.True(t, r.Found())
	assert.Equal(t, SourceMerged, r.Source)
	assert.Equal(t, snowflake.ID(201), r.Payment.ID)
	assert.Equal(t, []snowflake.ID{200}, r.DuplicateIDs)
	assert.True(t, r.Payment.AmountPaid.Equal(decimal.NewFromInt(150)))
	assert.True(t, r.Payment.Amount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 10, occupancy.GuestNights(r.Payment.Occupancy()))
	assert.True(t, r.Payment.BillingLocked)
	assert.Equal(t, domain.PaymentStatusPartial, r.Payment.Status)
}

func TestMergeIsDeterministic(t *testing.T) {
	a := domain.Payment{ID: 1, AmountPaid: decimal.NewFromInt(10), CreatedAt: july1}
	b := domain.Payment{ID: 2, AmountPaid: decimal.NewFromInt(10), CreatedAt: july1}

	first, _ := Merge([]domain.Payment{a, b})
	second, _ := Merge([]domain.Payment{b, a})
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, snowflake.ID(1), first.ID)
}

func TestProjectMatchesOrphansByFamilyAndOverlap(t *testing.T) {
	stays := []staydomain.Stay{
		stay(10, "Smith Family", july1, 4),
		stay(11, "Smith Family", july1.AddDate(0, 0, 10), 4),
		stay(12, "Jones", july1, 4),
	}
	payments := []domain.Payment{
		{ID: 300, FamilyGroup: "smith-family", DailyOccupancy: days(july1.AddDate(0, 0, 2), 2, 2, 2)},
		{ID: 301, FamilyGroup: "Smith Family", DailyOccupancy: days(july1.AddDate(0, 0, 10), 1)},
		{ID: 302, FamilyGroup: "Jones", DailyOccupancy: days(july1.AddDate(0, 0, 3), 1)},
		{ID: 303, FamilyGroup: "Smith Family", SplitID: id(9), DailyOccupancy: days(july1.AddDate(0, 0, 10), 1, 1, 1, 1)},
	}

	res := Project(stays, payments)

	assert.Equal(t, SourceOrphan, res[10].Source)
	assert.Equal(t, snowflake.ID(300), res[10].Payment.ID)
	assert.True(t, res[10].Overlap.Equal(decimal.RequireFromString("0.5")))

	assert.Equal(t, SourceNone, res[11].Source, "one night of four is below the overlap threshold; split rows are ignored")
	assert.Equal(t, SourceNone, res[12].Source)
}

func TestProjectAssignsEachOrphanOnce(t *testing.T) {
	stays := []staydomain.Stay{
		stay(10, "Smith", july1, 2),
		stay(11, "Smith", july1.AddDate(0, 0, 1), 2),
	}
	payments := []domain.Payment{
		{ID: 400, FamilyGroup: "Smith", DailyOccupancy: days(july1, 1, 1)},
	}

	res := Project(stays, payments)
	assert.Equal(t, SourceOrphan, res[10].Source)
	assert.Equal(t, SourceNone, res[11].Source)
}

func TestSameFamilyGroup(t *testing.T) {
	assert.True(t, SameFamilyGroup("The Smiths", "the-smiths"))
	assert.False(t, SameFamilyGroup("", ""))
	assert.False(t, SameFamilyGroup("Smith", "Jones"))
}
