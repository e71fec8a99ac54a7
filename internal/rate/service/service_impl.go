package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/clock"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/calculator"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("rate.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Get(ctx context.Context) (*domain.RateConfig, error) {
	cfg, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

func (s *Service) Current(ctx context.Context) (*domain.RateConfig, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.FindByOrg(ctx, s.db, orgID)
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (*domain.RateConfig, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if err := validateUpsert(req); err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	var result *domain.RateConfig
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByOrg(ctx, tx, orgID)
		if err != nil {
			return err
		}

		cfg := existing
		if cfg == nil {
			cfg = &domain.RateConfig{
				ID:        s.genID.Generate(),
				OrgID:     orgID,
				CreatedAt: now,
			}
		}
		cfg.Method = req.Method
		cfg.Amount = req.Amount
		cfg.TaxRate = req.TaxRate
		cfg.CleaningFee = req.CleaningFee
		cfg.PetFee = req.PetFee
		cfg.DamageDeposit = req.DamageDeposit
		cfg.Seasons = datatypes.NewJSONSlice(req.Seasons)
		cfg.UpdatedAt = now

		if existing == nil {
			err = s.repo.Insert(ctx, tx, cfg)
		} else {
			err = s.repo.Update(ctx, tx, cfg)
		}
		if err != nil {
			return err
		}
		result = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("rate config saved",
		zap.String("org_id", orgID.String()),
		zap.String("method", string(result.Method)),
	)
	return result, nil
}

func (s *Service) Quote(ctx context.Context, req domain.QuoteRequest) (domain.CostBreakdown, error) {
	checkIn := dates.Truncate(req.CheckIn)
	checkOut := dates.Truncate(req.CheckOut)
	if !checkOut.After(checkIn) {
		return domain.CostBreakdown{}, domain.ErrInvalidDateRange
	}
	if req.Guests < 0 {
		return domain.CostBreakdown{}, occupancy.ErrInvalidGuestCount
	}
	if err := occupancy.Validate(checkIn, checkOut, req.Days); err != nil {
		return domain.CostBreakdown{}, err
	}

	cfg, err := s.Current(ctx)
	if err != nil {
		return domain.CostBreakdown{}, err
	}

	desc := domain.StayDescriptor{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
		HasPets:  req.HasPets,
		Override: req.Override,
	}
	if len(req.Days) > 0 {
		desc.Days = occupancy.Normalize(checkIn, checkOut, req.Days)
	}
	return calculator.ForConfig(cfg, desc).Rounded(), nil
}

func validateUpsert(req domain.UpsertRequest) error {
	if !req.Method.Valid() {
		return domain.ErrInvalidMethod
	}
	for _, v := range []decimal.Decimal{req.Amount, req.CleaningFee, req.PetFee, req.DamageDeposit} {
		if v.IsNegative() {
			return domain.ErrInvalidAmount
		}
	}
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return domain.ErrInvalidTaxRate
	}
	for _, season := range req.Seasons {
		if err := season.Validate(); err != nil {
			return err
		}
	}
	return nil
}
