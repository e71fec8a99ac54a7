package engine

import (
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	paymentdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/projector"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/calculator"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/split"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	sourceClaim         = "source"
	missingSourceError  = "split source stay is missing or has an invalid date range"
	lockedExplanationAt = "Billing locked at "
)

// biller bills ledger entries from their payment rows. The current rate
// configuration only prices entries that have not been billed yet.
type biller struct {
	orgID   snowflake.ID
	rate    *ratedomain.RateConfig
	splits  map[snowflake.ID][]paymentdomain.PaymentSplit
	derived map[snowflake.ID][]paymentdomain.Payment
	all     []paymentdomain.PaymentSplit
}

func newBiller(in Input) *biller {
	b := &biller{
		orgID:   in.OrgID,
		rate:    in.Rate,
		splits:  make(map[snowflake.ID][]paymentdomain.PaymentSplit),
		derived: make(map[snowflake.ID][]paymentdomain.Payment),
		all:     in.Splits,
	}
	for _, sp := range in.Splits {
		b.splits[sp.SourceStayID] = append(b.splits[sp.SourceStayID], sp)
	}
	for id := range b.splits {
		list := b.splits[id]
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.Before(list[j].CreatedAt)
			}
			return list[i].ID < list[j].ID
		})
	}
	for _, p := range in.Payments {
		if p.SplitID != nil {
			b.derived[*p.SplitID] = append(b.derived[*p.SplitID], p)
		}
	}
	return b
}

// stayEntries returns the stay's own entry followed by one virtual entry per
// split recipient.
func (b *biller) stayEntries(s staydomain.Stay, res projector.Resolution) []StayFinancialView {
	v := baseView(s, res)
	p := res.Payment
	if splits := b.splits[s.ID]; len(splits) > 0 {
		return b.splitEntries(s, v, p, splits)
	}

	days := occupancy.Normalize(s.StartDate, s.EndDate, s.Occupancy())
	if !occupancy.HasValidData(days) && p != nil && occupancy.HasValidData(p.Occupancy()) {
		days = occupancy.Normalize(s.StartDate, s.EndDate, p.Occupancy())
	}
	v.GuestNights = occupancy.GuestNights(days)
	v.HasOccupancy = occupancy.HasValidData(days)

	v.Breakdown = charge(p, calculator.ForConfig(b.rate, s.Descriptor(days)))
	return []StayFinancialView{finish(withBreakdown(v))}
}

// splitEntries bills a split stay's source and recipients from their own
// payments. Shares are allocated from the source's residual claim and every
// recipient claim only for entries that carry no stored charge.
func (b *biller) splitEntries(s staydomain.Stay, source StayFinancialView, p *paymentdomain.Payment, splits []paymentdomain.PaymentSplit) []StayFinancialView {
	residual := occupancy.Normalize(s.StartDate, s.EndDate, splits[len(splits)-1].SourceDailyOccupancy)
	claims := []split.Claim{{Key: sourceClaim, Days: residual}}
	for _, sp := range splits {
		claims = append(claims, split.Claim{
			Key:  sp.ID.String(),
			Days: occupancy.Normalize(s.StartDate, s.EndDate, sp.DailyOccupancy),
		})
	}

	desc := s.Descriptor(s.Occupancy())
	total := calculator.ForConfig(b.rate, desc)
	sourceLocked := p != nil && p.BillingLocked
	var alloc split.Allocation
	allocated := total.Priced && !sourceLocked
	if allocated {
		alloc = split.Allocate(total, b.rate, desc, claims)
	}
	imbalanced := len(split.CheckBalance(desc.Days, claims)) > 0

	source.GuestNights = occupancy.GuestNights(residual)
	source.HasOccupancy = occupancy.HasValidData(residual)
	source.Breakdown = charge(p, b.share(alloc, allocated, sourceClaim))
	if imbalanced {
		source.Warnings = append(source.Warnings, WarningSplitImbalance)
	}

	out := []StayFinancialView{finish(withBreakdown(source))}
	for _, sp := range splits {
		out = append(out, b.virtualEntry(s, sp, alloc, allocated, imbalanced))
	}
	return out
}

func (b *biller) virtualEntry(s staydomain.Stay, sp paymentdomain.PaymentSplit, alloc split.Allocation, allocated, imbalanced bool) StayFinancialView {
	ref := sp.VirtualStayRef()
	splitID := sp.ID
	days := occupancy.Normalize(s.StartDate, s.EndDate, sp.DailyOccupancy)
	v := StayFinancialView{
		StayRef:       ref,
		StayID:        s.ID,
		SplitID:       &splitID,
		Virtual:       true,
		FamilyGroup:   sp.RecipientFamilyGroup,
		HostKey:       staydomain.ResolveHostKey(b.orgID, ref, sp.RecipientHostEmail, sp.RecipientUserID),
		StartDate:     dates.Truncate(s.StartDate),
		EndDate:       dates.Truncate(s.EndDate),
		Nights:        s.Nights(),
		GuestNights:   occupancy.GuestNights(days),
		HasOccupancy:  occupancy.HasValidData(days),
		PaymentSource: string(projector.SourceNone),
	}

	var p *paymentdomain.Payment
	switch rows := b.derived[sp.ID]; len(rows) {
	case 0:
	case 1:
		row := rows[0]
		p = &row
		v.PaymentSource = string(projector.SourceExact)
	default:
		merged, dups := projector.Merge(rows)
		p = &merged
		v.PaymentSource = string(projector.SourceMerged)
		v.DuplicatePaymentIDs = dups
		v.Warnings = append(v.Warnings, WarningDuplicateMerged)
	}
	v = withPayment(v, p)

	v.Breakdown = charge(p, b.share(alloc, allocated, sp.ID.String()))
	if imbalanced {
		v.Warnings = append(v.Warnings, WarningSplitImbalance)
	}
	return finish(withBreakdown(v))
}

// orphanedSplits reports splits whose source stay cannot be billed.
func (b *biller) orphanedSplits(valid []staydomain.Stay) []StayFinancialView {
	known := make(map[snowflake.ID]bool, len(valid))
	for _, s := range valid {
		known[s.ID] = true
	}
	var out []StayFinancialView
	for _, sp := range b.all {
		if known[sp.SourceStayID] {
			continue
		}
		splitID := sp.ID
		ref := sp.VirtualStayRef()
		out = append(out, StayFinancialView{
			StayRef:     ref,
			StayID:      sp.SourceStayID,
			SplitID:     &splitID,
			Virtual:     true,
			FamilyGroup: sp.RecipientFamilyGroup,
			HostKey:     staydomain.ResolveHostKey(b.orgID, ref, sp.RecipientHostEmail, sp.RecipientUserID),
			Status:      StatusError,
			Error:       missingSourceError,
		})
	}
	return out
}

func (b *biller) share(alloc split.Allocation, allocated bool, key string) ratedomain.CostBreakdown {
	if allocated {
		if share, ok := alloc.Share(key); ok {
			return share.Breakdown
		}
	}
	method := ratedomain.Method("")
	if b.rate != nil {
		method = b.rate.Method
	}
	return calculator.Unpriced(method)
}

// charge picks the billed amount for an entry. A stored charge always wins;
// computed is kept for its itemization only when it agrees to the cent, and
// is the charge itself when nothing has been billed yet.
func charge(p *paymentdomain.Payment, computed ratedomain.CostBreakdown) ratedomain.CostBreakdown {
	switch {
	case p != nil && p.BillingLocked:
		return locked(p.Amount)
	case p != nil && !p.Amount.IsZero():
		if computed.Priced && money.NearlyEqual(computed.Total, p.Amount) {
			return computed
		}
		return calculator.Recorded(p.Amount)
	default:
		return computed
	}
}

func baseView(s staydomain.Stay, res projector.Resolution) StayFinancialView {
	v := StayFinancialView{
		StayRef:       s.ID.String(),
		StayID:        s.ID,
		FamilyGroup:   s.FamilyGroup,
		HostKey:       s.HostKey(),
		StartDate:     dates.Truncate(s.StartDate),
		EndDate:       dates.Truncate(s.EndDate),
		Nights:        s.Nights(),
		PaymentSource: string(res.Source),
	}
	if res.Source == "" {
		v.PaymentSource = string(projector.SourceNone)
	}
	switch res.Source {
	case projector.SourceMerged:
		v.DuplicatePaymentIDs = res.DuplicateIDs
		v.Warnings = append(v.Warnings, WarningDuplicateMerged)
	case projector.SourceOrphan:
		v.Warnings = append(v.Warnings, WarningOrphanMatched)
	}
	return withPayment(v, res.Payment)
}

func withPayment(v StayFinancialView, p *paymentdomain.Payment) StayFinancialView {
	if p == nil {
		return v
	}
	id := p.ID
	v.PaymentID = &id
	v.AmountPaid = p.AmountPaid
	v.ManualAdjustment = p.ManualAdjustment
	v.CreditAppliedToFuture = p.CreditAppliedToFuture
	v.BillingLocked = p.BillingLocked
	if p.BillingLocked {
		v.Warnings = append(v.Warnings, WarningBillingLocked)
	}
	return v
}

func withBreakdown(v StayFinancialView) StayFinancialView {
	v.Billed = v.Breakdown.Total
	v.Breakdown = v.Breakdown.Rounded()
	v.Explanation = v.Breakdown.Explanation
	return v
}

func locked(amount decimal.Decimal) ratedomain.CostBreakdown {
	b := calculator.Recorded(amount)
	b.Explanation = lockedExplanationAt + money.Format(amount)
	return b
}
