package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Receipt, error)
	List(ctx context.Context, req ListRequest) ([]Receipt, error)
}

type CreateRequest struct {
	FamilyGroup string          `json:"family_group"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReceiptDate time.Time       `json:"receipt_date"`
}

type ListRequest struct {
	FamilyGroup string
}
