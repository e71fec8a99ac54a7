package engine

import (
	"testing"

	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(ref, balance string) StayFinancialView {
	b := dec(balance)
	return StayFinancialView{
		StayRef:        ref,
		HasOccupancy:   true,
		Nights:         1,
		Breakdown:      ratedomain.CostBreakdown{Priced: true},
		StayBalance:    b,
		CurrentBalance: b,
	}
}

func TestCascadeLeavesUnspentCreditOnOriginator(t *testing.T) {
	out := Cascade([]StayFinancialView{entry("a", "-100"), entry("b", "30"), entry("c", "50")})
	require.Len(t, out, 3)

	assertMoney(t, "-20", out[0].CurrentBalance, "a.current")
	assertMoney(t, "80", out[0].CreditDistributed, "a.distributed")
	assertMoney(t, "0", out[1].CurrentBalance, "b.current")
	assertMoney(t, "0", out[2].CurrentBalance, "c.current")
	assertMoney(t, "-20", out[1].PreviousBalance, "b.previous")
	assertMoney(t, "-20", out[2].AmountDue, "c.amount_due")
}

func TestCascadeBackwardPassWalksNewestOlderFirst(t *testing.T) {
	out := Cascade([]StayFinancialView{entry("a", "30"), entry("b", "50"), entry("c", "-60")})

	assertMoney(t, "20", out[0].CurrentBalance, "a.current")
	assertMoney(t, "0", out[1].CurrentBalance, "b.current")
	assert.True(t, out[0].PaidViaLaterStay)
	assert.True(t, out[1].PaidViaLaterStay)
	assertMoney(t, "30", out[0].OriginalAmountDue.Decimal, "a.original")
	assertMoney(t, "80", out[1].OriginalAmountDue.Decimal, "b.original")
	assertMoney(t, "60", out[2].CreditGivenBack, "c.given_back")
	assertMoney(t, "0", out[2].CurrentBalance, "c.current")
	assertMoney(t, "0", out[2].PreviousBalance, "c.previous")

	assert.Equal(t, StatusPartial, out[0].Status)
	assert.Equal(t, StatusPaid, out[1].Status)
	assert.Equal(t, StatusPaid, out[2].Status)
}

func TestCascadeDoesNotModifyInput(t *testing.T) {
	in := []StayFinancialView{entry("a", "-50"), entry("b", "80")}
	_ = Cascade(in)

	assertMoney(t, "-50", in[0].CurrentBalance, "a.current")
	assertMoney(t, "80", in[1].CurrentBalance, "b.current")
	assert.Empty(t, in[1].CreditReceivedFrom)
}

func TestCascadeSingleEntry(t *testing.T) {
	out := Cascade([]StayFinancialView{entry("a", "-10")})
	assertMoney(t, "-10", out[0].AmountDue, "a.amount_due")
	assert.Equal(t, StatusPaid, out[0].Status)
	assert.Empty(t, Cascade(nil))
}
