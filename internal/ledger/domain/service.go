package domain

import (
	"context"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/ledger/engine"
)

type Service interface {
	// ComputeOrgLedger reconciles every host ledger of the organization from
	// a fresh snapshot.
	ComputeOrgLedger(ctx context.Context) (*engine.Result, error)
	ComputeHostLedger(ctx context.Context, hostKey string) (*engine.HostLedger, error)
	// GetStayFinancials returns one entry by stay id or "split:<id>".
	GetStayFinancials(ctx context.Context, ref string) (*engine.StayFinancialView, error)
}
