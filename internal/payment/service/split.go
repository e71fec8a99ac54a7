package service

import (
	"context"
	"strings"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/calculator"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/split"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/money"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sourceClaimKey = "source"

// CreateSplit reassigns part of a stay's charge to a recipient. The stay's
// cost is allocated over the source's residual claim, every earlier
// recipient's claim and the new one; the source payment is re-billed to its
// share and a derived payment carries the recipient's share.
func (s *Service) CreateSplit(ctx context.Context, req domain.CreateSplitRequest) (*domain.SplitResult, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	recipientGroup := strings.TrimSpace(req.RecipientFamilyGroup)
	if recipientGroup == "" {
		return nil, domain.ErrInvalidRecipient
	}
	stayID, err := parseID(req.SourceStayID)
	if err != nil {
		return nil, err
	}

	var result *domain.SplitResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stay, err := s.stayRepo.FindByID(ctx, tx, orgID, stayID)
		if err != nil {
			return err
		}
		if stay == nil {
			return domain.ErrStayNotFound
		}
		if err := occupancy.Validate(stay.StartDate, stay.EndDate, req.RecipientDays); err != nil {
			return err
		}
		if err := occupancy.Validate(stay.StartDate, stay.EndDate, req.SourceDays); err != nil {
			return err
		}
		recipientDays := occupancy.Normalize(stay.StartDate, stay.EndDate, req.RecipientDays)
		if !occupancy.HasValidData(recipientDays) {
			return domain.ErrInvalidRecipient
		}
		sourceDays := occupancy.Normalize(stay.StartDate, stay.EndDate, req.SourceDays)

		cfg, err := s.rateRepo.FindByOrg(ctx, tx, orgID)
		if err != nil {
			return err
		}

		res, err := s.resolveForStay(ctx, tx, orgID, stay.ID)
		if err != nil {
			return err
		}
		source := res.Payment
		if source != nil && source.BillingLocked {
			return domain.ErrBillingLocked
		}
		now := s.clock.Now(ctx)
		if source == nil {
			source = s.newStayPayment(stay, cfg)
			source.CreatedAt = now
			source.UpdatedAt = now
			if err := s.repo.Insert(ctx, tx, source); err != nil {
				return err
			}
		}

		existing, err := s.repo.ListSplitsByOrg(ctx, tx, orgID)
		if err != nil {
			return err
		}

		splitID := s.genID.Generate()
		claims := []split.Claim{{Key: sourceClaimKey, Days: sourceDays}}
		for _, sp := range existing {
			if sp.SourceStayID == stay.ID {
				claims = append(claims, split.Claim{Key: sp.ID.String(), Days: sp.DailyOccupancy})
			}
		}
		claims = append(claims, split.Claim{Key: splitID.String(), Days: recipientDays})

		desc := stay.Descriptor(stay.Occupancy())
		total := calculator.ForConfig(cfg, desc)
		if !total.Priced && source.Amount.IsPositive() {
			total = calculator.Recorded(source.Amount)
		}
		alloc := split.Allocate(total, cfg, desc, claims)
		sourceShare, _ := alloc.Share(sourceClaimKey)
		recipientShare, _ := alloc.Share(splitID.String())
		imbalances := split.CheckBalance(desc.Days, claims)

		derived := &domain.Payment{
			ID:             s.genID.Generate(),
			OrgID:          orgID,
			SplitID:        &splitID,
			FamilyGroup:    recipientGroup,
			Amount:         money.Round(recipientShare.Breakdown.Total),
			DailyOccupancy: copyDays(recipientDays),
			Status:         domain.PaymentStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		derivedID := derived.ID
		record := &domain.PaymentSplit{
			ID:                   splitID,
			OrgID:                orgID,
			SourcePaymentID:      source.ID,
			SourceStayID:         stay.ID,
			SplitPaymentID:       &derivedID,
			SourceFamilyGroup:    stay.FamilyGroup,
			RecipientFamilyGroup: recipientGroup,
			RecipientHostEmail:   strings.TrimSpace(req.RecipientHostEmail),
			RecipientUserID:      strings.TrimSpace(req.RecipientUserID),
			DailyOccupancy:       copyDays(recipientDays),
			SourceDailyOccupancy: copyDays(sourceDays),
			Imbalanced:           len(imbalances) > 0,
			CreatedAt:            now,
		}

		source.Amount = money.Round(sourceShare.Breakdown.Total)
		source.DailyOccupancy = copyDays(sourceDays)
		source.Status = domain.DeriveStatus(source.Due(), source.AmountPaid)
		source.UpdatedAt = now

		if err := s.repo.Insert(ctx, tx, derived); err != nil {
			return err
		}
		if err := s.repo.InsertSplit(ctx, tx, record); err != nil {
			return err
		}
		if err := s.repo.UpdateBilling(ctx, tx, source); err != nil {
			return err
		}

		if len(imbalances) > 0 {
			s.log.Warn("split guest counts do not match stay occupancy",
				zap.String("stay_id", stay.ID.String()),
				zap.String("split_id", splitID.String()),
				zap.Int("imbalanced_days", len(imbalances)),
			)
		}
		result = &domain.SplitResult{Split: *record, SourcePayment: *source, DerivedPayment: *derived}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("split created",
		zap.String("split_id", result.Split.ID.String()),
		zap.String("source_stay_id", result.Split.SourceStayID.String()),
		zap.String("recipient_family_group", result.Split.RecipientFamilyGroup),
		zap.String("recipient_amount", result.DerivedPayment.Amount.String()),
	)
	return result, nil
}
