package engine

import (
	"time"

	"github.com/bwmarrin/snowflake"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	StatusError   Status = "error"
)

// Data-quality warnings attached to views.
const (
	WarningDuplicateMerged = "duplicate_payments_merged"
	WarningOrphanMatched   = "orphan_payment_matched"
	WarningSplitImbalance  = "split_guest_count_mismatch"
	WarningBillingLocked   = "billing_locked"
	WarningNotPriced       = "not_yet_priced"
	WarningNoOccupancy     = "no_occupancy_data"
	WarningIsolatedHost    = "host_unresolved"
)

type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// CreditTransfer is credit one stay received from another.
type CreditTransfer struct {
	From      string          `json:"from"`
	Amount    decimal.Decimal `json:"amount"`
	Direction Direction       `json:"direction"`
}

// StayFinancialView is the money picture of one ledger entry. StayBalance is
// the entry's own balance before any cascade; CurrentBalance is what remains
// after credit moved in or out.
type StayFinancialView struct {
	StayRef      string             `json:"stay_ref"`
	StayID       snowflake.ID       `json:"stay_id"`
	SplitID      *snowflake.ID      `json:"split_id,omitempty"`
	Virtual      bool               `json:"virtual"`
	FamilyGroup  string             `json:"family_group"`
	HostKey      staydomain.HostKey `json:"host_key"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      time.Time          `json:"end_date"`
	Nights       int                `json:"nights"`
	GuestNights  int                `json:"guest_nights"`
	HasOccupancy bool               `json:"has_occupancy"`

	Breakdown        ratedomain.CostBreakdown `json:"breakdown"`
	Explanation      string                   `json:"explanation"`
	Billed           decimal.Decimal          `json:"billed"`
	ManualAdjustment decimal.Decimal          `json:"manual_adjustment"`
	AmountPaid       decimal.Decimal          `json:"amount_paid"`
	Receipts         decimal.Decimal          `json:"receipts"`

	StayBalance     decimal.Decimal `json:"stay_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	AmountDue       decimal.Decimal `json:"amount_due"`

	CreditReceived     decimal.Decimal     `json:"credit_received"`
	CreditReceivedFrom []CreditTransfer    `json:"credit_received_from,omitempty"`
	CreditDistributed  decimal.Decimal     `json:"credit_distributed"`
	PaidViaLaterStay   bool                `json:"paid_via_later_stay"`
	OriginalAmountDue  decimal.NullDecimal `json:"original_amount_due"`
	CreditGivenBack    decimal.Decimal     `json:"credit_given_back"`

	CreditAppliedToFuture bool           `json:"credit_applied_to_future"`
	BillingLocked         bool           `json:"billing_locked"`
	PaymentID             *snowflake.ID  `json:"payment_id,omitempty"`
	PaymentSource         string         `json:"payment_source"`
	DuplicatePaymentIDs   []snowflake.ID `json:"duplicate_payment_ids,omitempty"`

	Status   Status   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func (v StayFinancialView) priced() bool {
	return v.Breakdown.Priced
}

func (v StayFinancialView) clone() StayFinancialView {
	out := v
	if v.CreditReceivedFrom != nil {
		out.CreditReceivedFrom = append([]CreditTransfer(nil), v.CreditReceivedFrom...)
	}
	if v.Warnings != nil {
		out.Warnings = append([]string(nil), v.Warnings...)
	}
	return out
}

type HostSummary struct {
	Stays            int             `json:"stays"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalReceipts    decimal.Decimal `json:"total_receipts"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	AmountDue        decimal.Decimal `json:"amount_due"`
}

// HostLedger is one host's stays in chronological order.
type HostLedger struct {
	HostKey  staydomain.HostKey  `json:"host_key"`
	Isolated bool                `json:"isolated"`
	Entries  []StayFinancialView `json:"entries"`
	Summary  HostSummary         `json:"summary"`
}

// Stats counts what the computation had to tolerate.
type Stats struct {
	Entries          int             `json:"entries"`
	DuplicatesMerged int             `json:"duplicates_merged"`
	OrphansMatched   int             `json:"orphans_matched"`
	SplitImbalances  int             `json:"split_imbalances"`
	InvalidStays     int             `json:"invalid_stays"`
	NotPriced        int             `json:"not_priced"`
	CreditForward    decimal.Decimal `json:"credit_forward"`
	CreditBackward   decimal.Decimal `json:"credit_backward"`
}

type Result struct {
	OrgID             snowflake.ID        `json:"org_id"`
	Hosts             []HostLedger        `json:"hosts"`
	Invalid           []StayFinancialView `json:"invalid,omitempty"`
	UnappliedReceipts []snowflake.ID      `json:"unapplied_receipts,omitempty"`
	Stats             Stats               `json:"stats"`
}

func (r Result) Host(key staydomain.HostKey) (HostLedger, bool) {
	for _, h := range r.Hosts {
		if h.HostKey == key {
			return h, true
		}
	}
	return HostLedger{}, false
}

// Stay finds the view for a stay id or a virtual "split:<id>" reference.
func (r Result) Stay(ref string) (StayFinancialView, bool) {
	for _, h := range r.Hosts {
		for _, v := range h.Entries {
			if v.StayRef == ref {
				return v, true
			}
		}
	}
	for _, v := range r.Invalid {
		if v.StayRef == ref {
			return v, true
		}
	}
	return StayFinancialView{}, false
}
