package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/clock"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, context.Context) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.RateConfig{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clock.Fixed(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	})
	return svc, orgcontext.WithOrgID(context.Background(), snowflake.ID(77))
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.Get(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	created, err := svc.Upsert(ctx, domain.UpsertRequest{
		Method:  domain.MethodPerPersonPerNight,
		Amount:  decimal.NewFromInt(25),
		TaxRate: decimal.RequireFromString("0.08"),
	})
	require.NoError(t, err)

	updated, err := svc.Upsert(ctx, domain.UpsertRequest{
		Method:      domain.MethodSeasonal,
		Amount:      decimal.NewFromInt(150),
		CleaningFee: decimal.NewFromInt(40),
		Seasons: []domain.Season{
			{Name: "Summer", Start: "06-01", End: "08-31", Amount: decimal.NewFromInt(900)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodSeasonal, got.Method)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(150)))
	require.Len(t, got.Seasons, 1)
	assert.Equal(t, "Summer", got.Seasons[0].Name)
}

func TestUpsertValidation(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.Upsert(ctx, domain.UpsertRequest{Method: "weekly"})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = svc.Upsert(ctx, domain.UpsertRequest{Method: domain.MethodFlatRate, Amount: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Upsert(ctx, domain.UpsertRequest{Method: domain.MethodFlatRate, TaxRate: decimal.NewFromInt(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)

	_, err = svc.Upsert(ctx, domain.UpsertRequest{
		Method:  domain.MethodSeasonal,
		Seasons: []domain.Season{{Name: "Bad", Start: "13-01", End: "01-01"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSeason)

	_, err = svc.Upsert(context.Background(), domain.UpsertRequest{Method: domain.MethodFlatRate})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestQuote(t *testing.T) {
	svc, ctx := newTestService(t)
	checkIn := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	req := domain.QuoteRequest{
		CheckIn:  checkIn,
		CheckOut: checkIn.AddDate(0, 0, 2),
		Days: []occupancy.Day{
			{Date: checkIn, Guests: 3},
			{Date: checkIn.AddDate(0, 0, 1), Guests: 1},
		},
	}

	unpriced, err := svc.Quote(ctx, req)
	require.NoError(t, err)
	assert.False(t, unpriced.Priced)

	_, err = svc.Upsert(ctx, domain.UpsertRequest{
		Method:  domain.MethodPerPersonPerNight,
		Amount:  decimal.RequireFromString("12.50"),
		TaxRate: decimal.RequireFromString("0.1"),
	})
	require.NoError(t, err)

	quote, err := svc.Quote(ctx, req)
	require.NoError(t, err)
	assert.True(t, quote.Priced)
	assert.True(t, quote.Base.Equal(decimal.NewFromInt(50)))
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(55)))

	req.Days[0].Guests = -1
	_, err = svc.Quote(ctx, req)
	assert.ErrorIs(t, err, occupancy.ErrInvalidGuestCount)

	_, err = svc.Quote(ctx, domain.QuoteRequest{CheckIn: checkIn, CheckOut: checkIn})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
