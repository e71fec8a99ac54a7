package engine

import (
	"github.com/shopspring/decimal"
)

// Cascade folds one host's chronologically ordered entries through the
// forward pass, the backward pass and the running balance chain. Each step
// returns a new slice; the input is never modified.
func Cascade(entries []StayFinancialView) []StayFinancialView {
	out := chain(forwardPass(entries))
	out = chain(backwardPass(out))
	for i := range out {
		out[i].Status = status(out[i])
	}
	return out
}

// forwardPass lets every overpaid entry pay down later entries in date
// order. The originating entry's balance is consumed by what it gave away.
func forwardPass(in []StayFinancialView) []StayFinancialView {
	out := cloneAll(in)
	for i := range out {
		if !out[i].CurrentBalance.IsNegative() {
			continue
		}
		credit := out[i].CurrentBalance.Neg()
		given := decimal.Zero
		for j := i + 1; j < len(out) && credit.IsPositive(); j++ {
			if !out[j].CurrentBalance.IsPositive() {
				continue
			}
			amt := decimal.Min(credit, out[j].CurrentBalance)
			out[j] = receive(out[j], out[i].StayRef, amt, DirectionForward)
			credit = credit.Sub(amt)
			given = given.Add(amt)
		}
		out[i].CreditDistributed = out[i].CreditDistributed.Add(given)
		out[i].CurrentBalance = out[i].CurrentBalance.Add(given)
	}
	return out
}

// backwardPass lets an overpayment left on the newest entry settle older
// unpaid entries, newest first. Credit the host chose to hold for future
// stays stays where it is.
func backwardPass(in []StayFinancialView) []StayFinancialView {
	out := cloneAll(in)
	n := len(out) - 1
	if n < 1 || !out[n].CurrentBalance.IsNegative() || out[n].CreditAppliedToFuture {
		return out
	}

	credit := out[n].CurrentBalance.Neg()
	given := decimal.Zero
	for j := n - 1; j >= 0 && credit.IsPositive(); j-- {
		if !out[j].CurrentBalance.IsPositive() {
			continue
		}
		amt := decimal.Min(credit, out[j].CurrentBalance)
		if !out[j].PaidViaLaterStay {
			out[j].OriginalAmountDue = decimal.NewNullDecimal(out[j].AmountDue)
		}
		out[j] = receive(out[j], out[n].StayRef, amt, DirectionBackward)
		out[j].PaidViaLaterStay = true
		credit = credit.Sub(amt)
		given = given.Add(amt)
	}
	out[n].CreditGivenBack = out[n].CreditGivenBack.Add(given)
	out[n].CurrentBalance = out[n].CurrentBalance.Add(given)
	return out
}

// chain recomputes the running totals from scratch. Entries settled by a
// later stay do not carry their residual into later previous balances.
func chain(in []StayFinancialView) []StayFinancialView {
	out := cloneAll(in)
	running := decimal.Zero
	for i := range out {
		out[i].PreviousBalance = running
		out[i].AmountDue = running.Add(out[i].CurrentBalance)
		if !out[i].PaidViaLaterStay {
			running = out[i].AmountDue
		}
	}
	return out
}

func receive(v StayFinancialView, from string, amt decimal.Decimal, dir Direction) StayFinancialView {
	v.CurrentBalance = v.CurrentBalance.Sub(amt)
	v.CreditReceived = v.CreditReceived.Add(amt)
	v.CreditReceivedFrom = append(v.CreditReceivedFrom, CreditTransfer{From: from, Amount: amt, Direction: dir})
	return v
}

func status(v StayFinancialView) Status {
	switch {
	case v.Error != "":
		return StatusError
	case !v.HasOccupancy || !v.priced():
		return StatusPending
	case !v.CurrentBalance.IsPositive():
		return StatusPaid
	case v.AmountPaid.IsPositive() || v.Receipts.IsPositive() || v.CreditReceived.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

func summarize(entries []StayFinancialView) HostSummary {
	s := HostSummary{Stays: len(entries)}
	for _, v := range entries {
		s.TotalBilled = s.TotalBilled.Add(v.Billed).Add(v.ManualAdjustment)
		s.TotalPaid = s.TotalPaid.Add(v.AmountPaid)
		s.TotalReceipts = s.TotalReceipts.Add(v.Receipts)
		s.TotalOutstanding = s.TotalOutstanding.Add(v.CurrentBalance)
	}
	if len(entries) > 0 {
		s.AmountDue = entries[len(entries)-1].AmountDue
	}
	return s
}

func cloneAll(in []StayFinancialView) []StayFinancialView {
	out := make([]StayFinancialView, len(in))
	for i, v := range in {
		out[i] = v.clone()
	}
	return out
}
