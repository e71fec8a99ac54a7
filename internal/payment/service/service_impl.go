package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/clock"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/idempotency"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/observability"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/projector"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	StayRepo    staydomain.Repository
	RateRepo    ratedomain.Repository
	Clock       clock.Clock
	Idempotency idempotency.Store      `optional:"true"`
	Metrics     *observability.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	stayRepo staydomain.Repository
	rateRepo ratedomain.Repository
	clock    clock.Clock
	idem     idempotency.Store
	metrics  *observability.Metrics
}

// New returns the payment service. It also keeps payment snapshots in step
// with stay occupancy edits.
func New(p Params) *Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		stayRepo: p.StayRepo,
		rateRepo: p.RateRepo,
		clock:    p.Clock,
		idem:     p.Idempotency,
		metrics:  p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Payment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.ListByOrg(ctx, s.db, orgID)
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (*domain.Payment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	idemKey := ""
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" && s.idem != nil {
		idemKey = fmt.Sprintf("payments:%s:%s", orgID.String(), key)
		reserved, err := s.idem.Reserve(ctx, idemKey)
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !reserved {
			return s.replay(ctx, orgID, idemKey)
		}
	}

	var result *domain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := s.resolveTarget(ctx, tx, orgID, req)
		if err != nil {
			return err
		}

		now := s.clock.Now(ctx)
		target.AmountPaid = target.AmountPaid.Add(req.Amount)
		target.Status = domain.DeriveStatus(target.Due(), target.AmountPaid)
		target.UpdatedAt = now

		if target.CreatedAt.IsZero() {
			target.CreatedAt = now
			err = s.repo.Insert(ctx, tx, target)
		} else {
			err = s.repo.UpdateAmountPaid(ctx, tx, target)
		}
		if err != nil {
			return err
		}
		result = target
		return nil
	})
	if err != nil {
		if idemKey != "" {
			if rerr := s.idem.Release(ctx, idemKey); rerr != nil {
				s.log.Warn("idempotency release failed", zap.String("key", idemKey), zap.Error(rerr))
			}
		}
		return nil, err
	}

	if idemKey != "" {
		if err := s.idem.Complete(ctx, idemKey, result.ID.String()); err != nil {
			s.log.Warn("idempotency complete failed", zap.String("key", idemKey), zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Inc()
	}
	s.log.Info("payment recorded",
		zap.String("org_id", orgID.String()),
		zap.String("payment_id", result.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(result.Status)),
		zap.String("note", strings.TrimSpace(req.Note)),
	)
	return result, nil
}

// replay answers a request whose key is already held: the first result once it
// has committed, ErrIdempotencyInProgress while it is still running.
func (s *Service) replay(ctx context.Context, orgID snowflake.ID, key string) (*domain.Payment, error) {
	value, found, err := s.idem.Lookup(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	}
	if !found || value == idempotency.Pending {
		return nil, domain.ErrIdempotencyInProgress
	}
	id, err := snowflake.ParseString(value)
	if err != nil {
		return nil, domain.ErrIdempotencyInProgress
	}
	p, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrIdempotencyInProgress
	}
	return p, nil
}

// resolveTarget finds the row a payment is recorded on. A new, unsaved row
// (zero CreatedAt) is returned when the stay has no payment yet.
func (s *Service) resolveTarget(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, req domain.RecordPaymentRequest) (*domain.Payment, error) {
	if strings.TrimSpace(req.PaymentID) != "" {
		id, err := parseID(req.PaymentID)
		if err != nil {
			return nil, err
		}
		p, err := s.repo.FindByID(ctx, tx, orgID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		return p, nil
	}
	if strings.TrimSpace(req.StayID) == "" {
		return nil, domain.ErrInvalidTarget
	}

	stayID, err := parseID(req.StayID)
	if err != nil {
		return nil, err
	}
	stay, err := s.stayRepo.FindByID(ctx, tx, orgID, stayID)
	if err != nil {
		return nil, err
	}
	if stay == nil {
		return nil, domain.ErrStayNotFound
	}

	res, err := s.resolveForStay(ctx, tx, orgID, stay.ID)
	if err != nil {
		return nil, err
	}
	if res.Found() {
		return res.Payment, nil
	}

	cfg, err := s.rateRepo.FindByOrg(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}
	return s.newStayPayment(stay, cfg), nil
}

func (s *Service) resolveForStay(ctx context.Context, tx *gorm.DB, orgID, stayID snowflake.ID) (projector.Resolution, error) {
	stays, err := s.stayRepo.List(ctx, tx, orgID, staydomain.ListRequest{})
	if err != nil {
		return projector.Resolution{}, err
	}
	payments, err := s.repo.ListByOrg(ctx, tx, orgID)
	if err != nil {
		return projector.Resolution{}, err
	}
	return projector.Project(stays, payments)[stayID], nil
}

func (s *Service) ApplyCreditToFuture(ctx context.Context, req domain.ApplyCreditRequest) (*domain.Payment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	id, err := parseID(req.PaymentID)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	p.CreditAppliedToFuture = true
	if note := strings.TrimSpace(req.Note); note != "" {
		p.CreditNotes = note
	}
	p.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.UpdateCredit(ctx, s.db, p); err != nil {
		return nil, err
	}

	s.log.Info("credit applied to future",
		zap.String("payment_id", p.ID.String()),
		zap.String("amount_paid", p.AmountPaid.String()),
	)
	return p, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
