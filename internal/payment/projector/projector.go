// Package projector resolves the single authoritative payment view of each
// stay from raw payment rows. Rows may be duplicated or missing their stay
// link; the projection tolerates both and never writes anything back.
package projector

import (
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/shopspring/decimal"
)

type Source string

const (
	SourceNone   Source = "none"
	SourceExact  Source = "exact"
	SourceMerged Source = "merged"
	SourceOrphan Source = "orphan"
)

// MinOrphanOverlap is the share of a stay's nights an orphaned payment's
// occupancy must cover to be attributed to it.
var MinOrphanOverlap = decimal.RequireFromString("0.5")

type Resolution struct {
	StayID       snowflake.ID
	Source       Source
	Payment      *domain.Payment
	DuplicateIDs []snowflake.ID
	Overlap      decimal.Decimal
}

func (r Resolution) Found() bool {
	return r.Payment != nil
}

// Project resolves a payment view for every stay. Payments derived from a
// split are not considered; they belong to virtual stays.
func Project(stays []staydomain.Stay, payments []domain.Payment) map[snowflake.ID]Resolution {
	byStay := make(map[snowflake.ID][]domain.Payment)
	var orphans []domain.Payment
	for _, p := range payments {
		if p.SplitID != nil {
			continue
		}
		if p.StayID == nil {
			orphans = append(orphans, p)
			continue
		}
		byStay[*p.StayID] = append(byStay[*p.StayID], p)
	}

	out := make(map[snowflake.ID]Resolution, len(stays))
	var unmatched []staydomain.Stay
	for _, s := range stays {
		rows := byStay[s.ID]
		switch len(rows) {
		case 0:
			unmatched = append(unmatched, s)
			out[s.ID] = Resolution{StayID: s.ID, Source: SourceNone}
		case 1:
			p := rows[0].Clone()
			out[s.ID] = Resolution{StayID: s.ID, Source: SourceExact, Payment: &p}
		default:
			merged, dups := Merge(rows)
			out[s.ID] = Resolution{StayID: s.ID, Source: SourceMerged, Payment: &merged, DuplicateIDs: dups}
		}
	}

	for stayID, match := range matchOrphans(unmatched, orphans) {
		p := match.payment.Clone()
		out[stayID] = Resolution{StayID: stayID, Source: SourceOrphan, Payment: &p, Overlap: match.overlap}
	}
	return out
}

// Merge folds duplicate rows of one stay into a single view. The primary row
// is the one with the highest amount paid, then the oldest, then the lowest
// id. Paid amounts and valid occupancy are never dropped.
func Merge(rows []domain.Payment) (domain.Payment, []snowflake.ID) {
	ordered := make([]domain.Payment, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.AmountPaid.Equal(b.AmountPaid) {
			return a.AmountPaid.GreaterThan(b.AmountPaid)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	merged := ordered[0].Clone()
	dups := make([]snowflake.ID, 0, len(ordered)-1)
	for _, p := range ordered[1:] {
		dups = append(dups, p.ID)
	}

	if !occupancy.HasValidData(merged.Occupancy()) {
		for _, p := range ordered[1:] {
			if occupancy.HasValidData(p.Occupancy()) {
				merged.DailyOccupancy = p.Clone().DailyOccupancy
				break
			}
		}
	}
	if merged.Amount.IsZero() {
		for _, p := range ordered[1:] {
			if !p.Amount.IsZero() {
				merged.Amount = p.Amount
				break
			}
		}
	}
	if merged.ManualAdjustment.IsZero() {
		for _, p := range ordered[1:] {
			if !p.ManualAdjustment.IsZero() {
				merged.ManualAdjustment = p.ManualAdjustment
				merged.AdjustmentNotes = p.AdjustmentNotes
				break
			}
		}
	}
	for _, p := range ordered[1:] {
		merged.CreditAppliedToFuture = merged.CreditAppliedToFuture || p.CreditAppliedToFuture
		merged.BillingLocked = merged.BillingLocked || p.BillingLocked
		if merged.CreditNotes == "" {
			merged.CreditNotes = p.CreditNotes
		}
	}
	merged.Status = domain.DeriveStatus(merged.Due(), merged.AmountPaid)
	return merged, dups
}

// SameFamilyGroup compares family-group names after slug normalization.
func SameFamilyGroup(a, b string) bool {
	sa, sb := slug.Make(a), slug.Make(b)
	return sa != "" && sa == sb
}

type orphanMatch struct {
	payment domain.Payment
	overlap decimal.Decimal
}

type candidate struct {
	stay    staydomain.Stay
	orphan  domain.Payment
	overlap decimal.Decimal
}

// matchOrphans pairs stays without a linked payment with orphaned rows of
// the same family group, best overlap first. Each side is used once.
func matchOrphans(stays []staydomain.Stay, orphans []domain.Payment) map[snowflake.ID]orphanMatch {
	var candidates []candidate
	for _, s := range stays {
		nights := s.Nights()
		if nights <= 0 {
			continue
		}
		for _, o := range orphans {
			if !SameFamilyGroup(s.FamilyGroup, o.FamilyGroup) {
				continue
			}
			covered := occupancy.OverlapNights(o.Occupancy(), s.StartDate, s.EndDate)
			ratio := decimal.NewFromInt(int64(covered)).Div(decimal.NewFromInt(int64(nights)))
			if ratio.LessThan(MinOrphanOverlap) {
				continue
			}
			candidates = append(candidates, candidate{stay: s, orphan: o, overlap: ratio})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.overlap.Equal(b.overlap) {
			return a.overlap.GreaterThan(b.overlap)
		}
		if !a.stay.StartDate.Equal(b.stay.StartDate) {
			return a.stay.StartDate.Before(b.stay.StartDate)
		}
		if a.stay.ID != b.stay.ID {
			return a.stay.ID < b.stay.ID
		}
		return a.orphan.ID < b.orphan.ID
	})

	out := make(map[snowflake.ID]orphanMatch)
	used := make(map[snowflake.ID]bool)
	for _, c := range candidates {
		if _, ok := out[c.stay.ID]; ok || used[c.orphan.ID] {
			continue
		}
		out[c.stay.ID] = orphanMatch{payment: c.orphan, overlap: c.overlap}
		used[c.orphan.ID] = true
	}
	return out
}
