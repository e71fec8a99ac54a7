package domain

import (
	"context"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/shopspring/decimal"
)

type Service interface {
	// RecordPayment appends an amount to the stay's authoritative payment,
	// creating the payment when the stay has none.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*Payment, error)
	ApplyCreditToFuture(ctx context.Context, req ApplyCreditRequest) (*Payment, error)
	CreateSplit(ctx context.Context, req CreateSplitRequest) (*SplitResult, error)
	List(ctx context.Context) ([]Payment, error)
}

type RecordPaymentRequest struct {
	StayID         string          `json:"stay_id"`
	PaymentID      string          `json:"payment_id"`
	Amount         decimal.Decimal `json:"amount"`
	Note           string          `json:"note"`
	IdempotencyKey string          `json:"-"`
}

type ApplyCreditRequest struct {
	PaymentID string `json:"payment_id"`
	Note      string `json:"note"`
}

type CreateSplitRequest struct {
	SourceStayID         string          `json:"source_stay_id"`
	RecipientFamilyGroup string          `json:"recipient_family_group"`
	RecipientHostEmail   string          `json:"recipient_host_email"`
	RecipientUserID      string          `json:"recipient_user_id"`
	RecipientDays        []occupancy.Day `json:"daily_occupancy"`
	SourceDays           []occupancy.Day `json:"source_daily_occupancy"`
}

type SplitResult struct {
	Split          PaymentSplit `json:"split"`
	SourcePayment  Payment      `json:"source_payment"`
	DerivedPayment Payment      `json:"derived_payment"`
}
