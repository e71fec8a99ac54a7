package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/clock"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("receipt.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Receipt, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	group := strings.TrimSpace(req.FamilyGroup)
	if group == "" {
		return nil, domain.ErrInvalidFamilyGroup
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now(ctx)
	receiptDate := req.ReceiptDate
	if receiptDate.IsZero() {
		receiptDate = now
	}
	if receiptDate.After(now.AddDate(1, 0, 0)) {
		return nil, domain.ErrInvalidDate
	}

	receipt := &domain.Receipt{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		FamilyGroup: group,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		ReceiptDate: dates.Truncate(receiptDate),
		CreatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, receipt); err != nil {
		return nil, err
	}

	s.log.Info("receipt recorded",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("family_group", group),
		zap.String("amount", receipt.Amount.String()),
	)
	return receipt, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Receipt, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.ListByOrg(ctx, s.db, orgID, req)
}
