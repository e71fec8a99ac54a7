package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/ledger/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/ledger/engine"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/observability"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	paymentdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	receiptdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tracerName = "cabinbuddy/ledger"

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	StayRepo    staydomain.Repository
	PaymentRepo paymentdomain.Repository
	ReceiptRepo receiptdomain.Repository
	RateRepo    ratedomain.Repository
	Tracer      trace.TracerProvider   `optional:"true"`
	Metrics     *observability.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	stayRepo    staydomain.Repository
	paymentRepo paymentdomain.Repository
	receiptRepo receiptdomain.Repository
	rateRepo    ratedomain.Repository
	tracer      trace.Tracer
	metrics     *observability.Metrics
}

func New(p Params) domain.Service {
	tp := p.Tracer
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("ledger.service"),
		stayRepo:    p.StayRepo,
		paymentRepo: p.PaymentRepo,
		receiptRepo: p.ReceiptRepo,
		rateRepo:    p.RateRepo,
		tracer:      tp.Tracer(tracerName),
		metrics:     p.Metrics,
	}
}

func (s *Service) ComputeOrgLedger(ctx context.Context) (*engine.Result, error) {
	res, err := s.compute(ctx, "org")
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service) ComputeHostLedger(ctx context.Context, hostKey string) (*engine.HostLedger, error) {
	key := staydomain.HostKey(strings.TrimSpace(hostKey))
	if key == "" {
		return nil, domain.ErrInvalidHostKey
	}
	res, err := s.compute(ctx, "host")
	if err != nil {
		return nil, err
	}
	h, ok := res.Host(key)
	if !ok {
		return nil, domain.ErrHostNotFound
	}
	return &h, nil
}

func (s *Service) GetStayFinancials(ctx context.Context, ref string) (*engine.StayFinancialView, error) {
	ref = strings.TrimSpace(ref)
	if !validRef(ref) {
		return nil, domain.ErrInvalidStayRef
	}
	res, err := s.compute(ctx, "stay")
	if err != nil {
		return nil, err
	}
	v, ok := res.Stay(ref)
	if !ok {
		return nil, domain.ErrStayNotFound
	}
	return &v, nil
}

func (s *Service) compute(ctx context.Context, scope string) (engine.Result, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return engine.Result{}, domain.ErrInvalidOrganization
	}

	ctx, span := s.tracer.Start(ctx, "ledger.compute", trace.WithAttributes(
		attribute.String("org_id", orgID.String()),
		attribute.String("scope", scope),
	))
	defer span.End()
	started := time.Now()

	in, err := s.snapshot(ctx, orgID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return engine.Result{}, err
	}
	res := engine.Compute(in)

	span.SetAttributes(
		attribute.Int("ledger.hosts", len(res.Hosts)),
		attribute.Int("ledger.entries", res.Stats.Entries),
		attribute.Int("ledger.invalid", res.Stats.InvalidStays),
	)
	s.observe(scope, res, time.Since(started))

	if res.Stats.InvalidStays > 0 || res.Stats.DuplicatesMerged > 0 || res.Stats.SplitImbalances > 0 {
		s.log.Warn("ledger computed with data-quality issues",
			zap.String("org_id", orgID.String()),
			zap.Int("invalid_stays", res.Stats.InvalidStays),
			zap.Int("duplicates_merged", res.Stats.DuplicatesMerged),
			zap.Int("split_imbalances", res.Stats.SplitImbalances),
		)
	}
	s.log.Debug("ledger computed",
		zap.String("org_id", orgID.String()),
		zap.String("scope", scope),
		zap.Int("hosts", len(res.Hosts)),
		zap.Int("entries", res.Stats.Entries),
	)
	return res, nil
}

// snapshot loads every row the engine needs in one read transaction.
func (s *Service) snapshot(ctx context.Context, orgID snowflake.ID) (engine.Input, error) {
	in := engine.Input{OrgID: orgID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if in.Stays, err = s.stayRepo.List(ctx, tx, orgID, staydomain.ListRequest{}); err != nil {
			return fmt.Errorf("load stays: %w", err)
		}
		if in.Payments, err = s.paymentRepo.ListByOrg(ctx, tx, orgID); err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		if in.Splits, err = s.paymentRepo.ListSplitsByOrg(ctx, tx, orgID); err != nil {
			return fmt.Errorf("load splits: %w", err)
		}
		if in.Receipts, err = s.receiptRepo.ListByOrg(ctx, tx, orgID, receiptdomain.ListRequest{}); err != nil {
			return fmt.Errorf("load receipts: %w", err)
		}
		if in.Rate, err = s.rateRepo.FindByOrg(ctx, tx, orgID); err != nil {
			return fmt.Errorf("load rate config: %w", err)
		}
		return nil
	})
	return in, err
}

func (s *Service) observe(scope string, res engine.Result, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.LedgerComputations.WithLabelValues(scope).Inc()
	s.metrics.LedgerDuration.WithLabelValues(scope).Observe(elapsed.Seconds())
	s.metrics.StaysProcessed.Add(float64(res.Stats.Entries))
	s.metrics.CreditMoved.WithLabelValues(string(engine.DirectionForward)).Add(res.Stats.CreditForward.InexactFloat64())
	s.metrics.CreditMoved.WithLabelValues(string(engine.DirectionBackward)).Add(res.Stats.CreditBackward.InexactFloat64())

	for kind, n := range map[string]int{
		observability.EventDuplicateMerged: res.Stats.DuplicatesMerged,
		observability.EventOrphanMatched:   res.Stats.OrphansMatched,
		observability.EventSplitImbalance:  res.Stats.SplitImbalances,
		observability.EventInvalidStay:     res.Stats.InvalidStays,
		observability.EventNotPriced:       res.Stats.NotPriced,
	} {
		if n > 0 {
			s.metrics.DataQuality.WithLabelValues(kind).Add(float64(n))
		}
	}
}

func validRef(ref string) bool {
	ref = strings.TrimPrefix(ref, "split:")
	id, err := snowflake.ParseString(ref)
	return err == nil && id > 0
}
