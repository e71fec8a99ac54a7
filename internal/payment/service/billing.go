package service

import (
	"context"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/calculator"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/money"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// newStayPayment builds an unsaved payment billed from the stay's own
// occupancy.
func (s *Service) newStayPayment(stay *staydomain.Stay, cfg *ratedomain.RateConfig) *domain.Payment {
	stayID := stay.ID
	b := calculator.ForConfig(cfg, stay.Descriptor(stay.Occupancy()))
	return &domain.Payment{
		ID:             s.genID.Generate(),
		OrgID:          stay.OrgID,
		StayID:         &stayID,
		FamilyGroup:    stay.FamilyGroup,
		Amount:         money.Round(b.Total),
		DailyOccupancy: copyDays(stay.Occupancy()),
		Status:         domain.PaymentStatusPending,
	}
}

// SyncStayOccupancy copies a replaced occupancy sequence onto the stay's
// payment and re-bills it unless billing is locked. Stays that were split
// keep their residual snapshot and split-derived charge.
func (s *Service) SyncStayOccupancy(ctx context.Context, tx *gorm.DB, stay *staydomain.Stay) error {
	splits, err := s.repo.ListSplitsByOrg(ctx, tx, stay.OrgID)
	if err != nil {
		return err
	}
	for _, sp := range splits {
		if sp.SourceStayID == stay.ID {
			s.log.Info("occupancy edited on a split stay; payment left to read-time allocation",
				zap.String("stay_id", stay.ID.String()),
				zap.String("split_id", sp.ID.String()),
			)
			return nil
		}
	}

	res, err := s.resolveForStay(ctx, tx, stay.OrgID, stay.ID)
	if err != nil {
		return err
	}
	if !res.Found() {
		return nil
	}

	p := res.Payment
	p.DailyOccupancy = copyDays(stay.Occupancy())
	if !p.BillingLocked {
		cfg, err := s.rateRepo.FindByOrg(ctx, tx, stay.OrgID)
		if err != nil {
			return err
		}
		if b := calculator.ForConfig(cfg, stay.Descriptor(stay.Occupancy())); b.Priced {
			p.Amount = money.Round(b.Total)
		}
	}
	p.Status = domain.DeriveStatus(p.Due(), p.AmountPaid)
	p.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.UpdateBilling(ctx, tx, p); err != nil {
		return err
	}

	s.log.Info("payment re-billed",
		zap.String("stay_id", stay.ID.String()),
		zap.String("payment_id", p.ID.String()),
		zap.String("amount", p.Amount.String()),
		zap.Bool("billing_locked", p.BillingLocked),
	)
	return nil
}

func copyDays(days []occupancy.Day) datatypes.JSONSlice[occupancy.Day] {
	out := make([]occupancy.Day, len(days))
	copy(out, days)
	return datatypes.NewJSONSlice(out)
}
