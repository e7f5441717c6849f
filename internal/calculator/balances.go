// Package calculator derives per-member balances from a trip's ledger.
// It is pure: no storage access, no hidden state, same output for the same
// input. Balances are recomputed on every read and never persisted.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/models"
)

// MemberBalance is one member's position in the trip ledger.
type MemberBalance struct {
	MemberID string
	Name     string
	// TotalPaid is the sum of expenses this member paid for the trip.
	TotalPaid decimal.Decimal
	// ShouldPay is the equal per-head share of the trip total. The same
	// value for every member.
	ShouldPay decimal.Decimal
	// Net is TotalPaid - ShouldPay. Positive means the group owes this
	// member money, negative means the member owes the group.
	Net decimal.Decimal
}

// ComputeBalances calculates each member's paid total, equal share and net
// balance. Output order follows the input member order.
//
// The per-head share is a division and can carry more fractional digits than
// the 2 the amounts have; it is kept unrounded here so sums do not compound
// rounding error. Rounding to 2 decimals (half-up) happens only when a value
// is formatted for display.
//
// The function is total over well-formed input: a trip with zero members
// yields an empty result, and zero expenses yield all-zero balances.
// An expense paid by a member of another trip is a precondition violation
// prevented upstream by the mutation service.
func ComputeBalances(trip *models.Trip, members []*models.Member, expenses []*models.Expense) []MemberBalance {
	total := decimal.Zero
	paidBy := make(map[string]decimal.Decimal, len(members))
	for _, e := range expenses {
		total = total.Add(e.Amount)
		paidBy[e.PaidByMemberID] = paidBy[e.PaidByMemberID].Add(e.Amount)
	}

	shouldPay := decimal.Zero
	if trip.MemberCount > 0 {
		shouldPay = total.Div(decimal.NewFromInt(int64(trip.MemberCount)))
	}

	balances := make([]MemberBalance, 0, len(members))
	for _, m := range members {
		paid := paidBy[m.ID]
		balances = append(balances, MemberBalance{
			MemberID:  m.ID,
			Name:      m.Name,
			TotalPaid: paid,
			ShouldPay: shouldPay,
			Net:       paid.Sub(shouldPay),
		})
	}
	return balances
}
