package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func trip(memberCount int) *models.Trip {
	return &models.Trip{ID: "trip-1", OwnerID: "owner-1", Title: "Ski Trip", MemberCount: memberCount}
}

func expense(title, amount, payerID string) *models.Expense {
	return &models.Expense{TripID: "trip-1", Title: title, Amount: dec(amount), PaidByMemberID: payerID}
}

func TestComputeBalances(t *testing.T) {
	alice := &models.Member{ID: "m-alice", TripID: "trip-1", Name: "Alice"}
	bob := &models.Member{ID: "m-bob", TripID: "trip-1", Name: "Bob"}
	carol := &models.Member{ID: "m-carol", TripID: "trip-1", Name: "Carol"}

	tests := []struct {
		name     string
		trip     *models.Trip
		members  []*models.Member
		expenses []*models.Expense
		want     map[string][3]string // name -> paid, shouldPay, net (2dp display)
	}{
		{
			name:     "one expense split two ways",
			trip:     trip(2),
			members:  []*models.Member{alice, bob},
			expenses: []*models.Expense{expense("Hotel", "100.00", "m-alice")},
			want: map[string][3]string{
				"Alice": {"100.00", "50.00", "50.00"},
				"Bob":   {"0.00", "50.00", "-50.00"},
			},
		},
		{
			name:    "second expense shifts both nets",
			trip:    trip(2),
			members: []*models.Member{alice, bob},
			expenses: []*models.Expense{
				expense("Hotel", "100.00", "m-alice"),
				expense("Dinner", "40.00", "m-bob"),
			},
			want: map[string][3]string{
				"Alice": {"100.00", "70.00", "30.00"},
				"Bob":   {"40.00", "70.00", "-30.00"},
			},
		},
		{
			name:    "no expenses means all zero",
			trip:    trip(3),
			members: []*models.Member{alice, bob, carol},
			want: map[string][3]string{
				"Alice": {"0.00", "0.00", "0.00"},
				"Bob":   {"0.00", "0.00", "0.00"},
				"Carol": {"0.00", "0.00", "0.00"},
			},
		},
		{
			name:    "non-terminating share stays unrounded internally",
			trip:    trip(3),
			members: []*models.Member{alice, bob, carol},
			expenses: []*models.Expense{
				expense("Fuel", "100.00", "m-alice"),
			},
			want: map[string][3]string{
				"Alice": {"100.00", "33.33", "66.67"},
				"Bob":   {"0.00", "33.33", "-33.33"},
				"Carol": {"0.00", "33.33", "-33.33"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalances(tt.trip, tt.members, tt.expenses)
			require.Len(t, got, len(tt.members))

			for i, b := range got {
				// Output order follows input member order.
				assert.Equal(t, tt.members[i].ID, b.MemberID)
				want, ok := tt.want[b.Name]
				require.True(t, ok, "unexpected member %q", b.Name)
				assert.Equal(t, want[0], b.TotalPaid.StringFixed(2), "%s paid", b.Name)
				assert.Equal(t, want[1], b.ShouldPay.StringFixed(2), "%s share", b.Name)
				assert.Equal(t, want[2], b.Net.StringFixed(2), "%s net", b.Name)
			}
		})
	}
}

func TestComputeBalancesNetSumIsZero(t *testing.T) {
	members := []*models.Member{
		{ID: "m1", Name: "A"},
		{ID: "m2", Name: "B"},
		{ID: "m3", Name: "C"},
	}
	expenses := []*models.Expense{
		expense("Hotel", "123.45", "m1"),
		expense("Dinner", "67.89", "m2"),
		expense("Taxi", "10.01", "m2"),
		expense("Museum", "33.00", "m3"),
	}

	got := ComputeBalances(trip(3), members, expenses)

	sum := decimal.Zero
	for _, b := range got {
		sum = sum.Add(b.Net)
	}
	// sum(net) == total - memberCount*shouldPay, which is zero up to the
	// division precision carried by the unrounded share.
	assert.True(t, sum.Abs().LessThan(dec("0.000001")), "net sum = %s", sum)
}

func TestComputeBalancesIsPure(t *testing.T) {
	members := []*models.Member{{ID: "m1", Name: "A"}, {ID: "m2", Name: "B"}}
	expenses := []*models.Expense{expense("Hotel", "100.00", "m1")}
	tr := trip(2)

	first := ComputeBalances(tr, members, expenses)
	second := ComputeBalances(tr, members, expenses)
	assert.Equal(t, first, second)
}

func TestComputeBalancesZeroMembers(t *testing.T) {
	// Guarded division: a zero member count must not panic and yields an
	// empty result rather than an infinite share.
	got := ComputeBalances(trip(0), nil, nil)
	assert.Empty(t, got)
}
