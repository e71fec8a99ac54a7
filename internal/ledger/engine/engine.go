// Package engine reconciles an organization's stays, payments, splits and
// receipts into per-host running ledgers. Compute is a pure function of its
// input snapshot.
package engine

import (
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	paymentdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/projector"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	receiptdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/money"
)

const invalidRangeError = "invalid date range: end date must be after start date"

// Input is a trusted snapshot of one organization's rows.
type Input struct {
	OrgID    snowflake.ID
	Stays    []staydomain.Stay
	Payments []paymentdomain.Payment
	Splits   []paymentdomain.PaymentSplit
	Receipts []receiptdomain.Receipt
	Rate     *ratedomain.RateConfig
}

func Compute(in Input) Result {
	out := Result{OrgID: in.OrgID}

	valid := make([]staydomain.Stay, 0, len(in.Stays))
	for _, s := range in.Stays {
		if !s.ValidRange() {
			out.Invalid = append(out.Invalid, invalidView(s))
			continue
		}
		valid = append(valid, s)
	}

	resolutions := projector.Project(valid, in.Payments)
	entries := make([]StayFinancialView, 0, len(valid)+len(in.Splits))
	b := newBiller(in)
	for _, s := range valid {
		entries = append(entries, b.stayEntries(s, resolutions[s.ID])...)
	}
	out.Invalid = append(out.Invalid, b.orphanedSplits(valid)...)

	entries, out.UnappliedReceipts = applyReceipts(entries, in.Receipts)

	byHost := make(map[staydomain.HostKey][]StayFinancialView)
	for _, v := range entries {
		byHost[v.HostKey] = append(byHost[v.HostKey], v)
	}
	keys := make([]staydomain.HostKey, 0, len(byHost))
	for k := range byHost {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		ordered := byHost[k]
		sortEntries(ordered)
		cascaded := Cascade(ordered)
		out.Hosts = append(out.Hosts, HostLedger{
			HostKey:  k,
			Isolated: k.Isolated(),
			Entries:  cascaded,
			Summary:  summarize(cascaded),
		})
	}

	sort.Slice(out.Invalid, func(i, j int) bool { return out.Invalid[i].StayRef < out.Invalid[j].StayRef })
	out.Stats = collectStats(out)
	return out
}

func sortEntries(entries []StayFinancialView) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.Virtual != b.Virtual {
			return !a.Virtual
		}
		return entryID(a) < entryID(b)
	})
}

func entryID(v StayFinancialView) snowflake.ID {
	if v.SplitID != nil {
		return *v.SplitID
	}
	return v.StayID
}

// applyReceipts credits each family group's receipts to its newest real
// stay. Receipts whose group has no stay are reported back unapplied.
func applyReceipts(entries []StayFinancialView, receipts []receiptdomain.Receipt) ([]StayFinancialView, []snowflake.ID) {
	newest := make(map[string]int)
	for i, v := range entries {
		if v.Virtual {
			continue
		}
		key := slug.Make(v.FamilyGroup)
		cur, ok := newest[key]
		if !ok || laterThan(v, entries[cur]) {
			newest[key] = i
		}
	}

	out := cloneAll(entries)
	var unapplied []snowflake.ID
	for _, r := range receipts {
		i, ok := newest[slug.Make(r.FamilyGroup)]
		if !ok {
			unapplied = append(unapplied, r.ID)
			continue
		}
		out[i].Receipts = out[i].Receipts.Add(r.Amount)
		out[i].StayBalance = out[i].StayBalance.Sub(r.Amount)
		out[i].CurrentBalance = out[i].StayBalance
	}
	return out, unapplied
}

func laterThan(a, b StayFinancialView) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return a.StayID > b.StayID
}

func invalidView(s staydomain.Stay) StayFinancialView {
	return StayFinancialView{
		StayRef:     s.ID.String(),
		StayID:      s.ID,
		FamilyGroup: s.FamilyGroup,
		HostKey:     s.HostKey(),
		StartDate:   dates.Truncate(s.StartDate),
		EndDate:     dates.Truncate(s.EndDate),
		Status:      StatusError,
		Error:       invalidRangeError,
	}
}

func collectStats(r Result) Stats {
	st := Stats{InvalidStays: len(r.Invalid)}
	for _, h := range r.Hosts {
		for _, v := range h.Entries {
			st.Entries++
			for _, w := range v.Warnings {
				switch w {
				case WarningDuplicateMerged:
					st.DuplicatesMerged++
				case WarningOrphanMatched:
					st.OrphansMatched++
				case WarningSplitImbalance:
					st.SplitImbalances++
				case WarningNotPriced:
					st.NotPriced++
				}
			}
			for _, c := range v.CreditReceivedFrom {
				if c.Direction == DirectionForward {
					st.CreditForward = st.CreditForward.Add(c.Amount)
				} else {
					st.CreditBackward = st.CreditBackward.Add(c.Amount)
				}
			}
		}
	}
	return st
}

func finish(v StayFinancialView) StayFinancialView {
	v.Billed = money.Round(v.Billed)
	v.StayBalance = v.Billed.Add(v.ManualAdjustment).Sub(v.AmountPaid).Sub(v.Receipts)
	v.CurrentBalance = v.StayBalance
	v.HasOccupancy = v.HasOccupancy && v.Nights > 0
	if v.HostKey.Isolated() {
		v.Warnings = append(v.Warnings, WarningIsolatedHost)
	}
	if !v.HasOccupancy {
		v.Warnings = append(v.Warnings, WarningNoOccupancy)
	}
	if !v.priced() {
		v.Warnings = append(v.Warnings, WarningNotPriced)
	}
	return v
}
