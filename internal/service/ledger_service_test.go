package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/storage/memory"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestCreateTripValidation(t *testing.T) {
	svc := NewLedgerService(memory.New())
	ctx := context.Background()

	tests := []struct {
		name    string
		title   string
		members []string
	}{
		{"empty title", "", []string{"Alice"}},
		{"whitespace title", "   ", []string{"Alice"}},
		{"no members", "Ski Trip", nil},
		{"only blank member names", "Ski Trip", []string{"", "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CreateTrip(ctx, "owner-1", tt.title, tt.members)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateTripTrimsRoster(t *testing.T) {
	svc := NewLedgerService(memory.New())

	trip, members, err := svc.CreateTrip(context.Background(), "owner-1", "  Ski Trip  ", []string{" Alice ", "", "Bob"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	if trip.Title != "Ski Trip" {
		t.Errorf("title = %q, want trimmed", trip.Title)
	}
	if trip.MemberCount != 2 || len(members) != 2 {
		t.Errorf("member_count = %d (roster %d), want 2", trip.MemberCount, len(members))
	}
	if members[0].Name != "Alice" {
		t.Errorf("member name = %q, want trimmed Alice", members[0].Name)
	}
}

func TestCreateTripDuplicateTitle(t *testing.T) {
	svc := NewLedgerService(memory.New())
	ctx := context.Background()

	if _, _, err := svc.CreateTrip(ctx, "owner-1", "Ski Trip", []string{"Alice"}); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	if _, _, err := svc.CreateTrip(ctx, "owner-1", "Ski Trip", []string{"Bob"}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	// Another owner is free to reuse the title.
	if _, _, err := svc.CreateTrip(ctx, "owner-2", "Ski Trip", []string{"Carol"}); err != nil {
		t.Errorf("CreateTrip for other owner failed: %v", err)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	svc := NewLedgerService(memory.New())
	ctx := context.Background()

	trip, members, err := svc.CreateTrip(ctx, "owner-1", "Ski Trip", []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	alice := members[0]

	tests := []struct {
		name   string
		title  string
		amount string
		payer  string
	}{
		{"empty title", "", "10.00", alice.ID},
		{"zero amount", "Hotel", "0", alice.ID},
		{"negative amount", "Hotel", "-5.00", alice.ID},
		{"too many decimal places", "Hotel", "10.001", alice.ID},
		{"missing payer", "Hotel", "10.00", ""},
		{"payer not in trip", "Hotel", "10.00", "stranger-member-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExpense(ctx, "owner-1", trip.ID, tt.title, dec(t, tt.amount), tt.payer)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	// Nothing leaked into the ledger.
	expenses, err := svc.ListExpenses(ctx, "owner-1", trip.ID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("expected no expenses, got %d", len(expenses))
	}
}

func TestAddExpenseUnknownTripIsNotFound(t *testing.T) {
	svc := NewLedgerService(memory.New())

	_, err := svc.AddExpense(context.Background(), "owner-1", "no-such-trip", "Hotel", dec(t, "10.00"), "m1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestForeignOwnerLooksLikeNotFound(t *testing.T) {
	svc := NewLedgerService(memory.New())
	ctx := context.Background()

	trip, members, err := svc.CreateTrip(ctx, "owner-a", "Ski Trip", []string{"Alice"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	// Every operation answers the same way whether the trip is missing or
	// merely owned by someone else.
	if _, _, err := svc.GetTrip(ctx, "owner-b", trip.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTrip: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AddExpense(ctx, "owner-b", trip.ID, "Hotel", dec(t, "10.00"), members[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddExpense: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.RenameTrip(ctx, "owner-b", trip.ID, "Stolen"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RenameTrip: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteTrip(ctx, "owner-b", trip.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTrip: expected ErrNotFound, got %v", err)
	}
	if _, _, err := svc.TripBalances(ctx, "owner-b", trip.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("TripBalances: expected ErrNotFound, got %v", err)
	}
}

func TestTripBalancesFlow(t *testing.T) {
	svc := NewLedgerService(memory.New())
	ctx := context.Background()

	trip, members, err := svc.CreateTrip(ctx, "owner-1", "Ski Trip", []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	alice, bob := members[0], members[1]

	if _, err := svc.AddExpense(ctx, "owner-1", trip.ID, "Hotel", dec(t, "100.00"), alice.ID); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	_, balances, err := svc.TripBalances(ctx, "owner-1", trip.ID)
	if err != nil {
		t.Fatalf("TripBalances failed: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	if got := balances[0].Net.StringFixed(2); got != "50.00" {
		t.Errorf("Alice net = %s, want 50.00", got)
	}
	if got := balances[1].Net.StringFixed(2); got != "-50.00" {
		t.Errorf("Bob net = %s, want -50.00", got)
	}

	if _, err := svc.AddExpense(ctx, "owner-1", trip.ID, "Dinner", dec(t, "40.00"), bob.ID); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	gotTrip, balances, err := svc.TripBalances(ctx, "owner-1", trip.ID)
	if err != nil {
		t.Fatalf("TripBalances failed: %v", err)
	}
	if gotTrip.MemberCount != 2 {
		t.Errorf("member_count = %d, want 2 (expenses never touch it)", gotTrip.MemberCount)
	}
	if got := balances[0].ShouldPay.StringFixed(2); got != "70.00" {
		t.Errorf("shouldPay = %s, want 70.00", got)
	}
	if got := balances[0].Net.StringFixed(2); got != "30.00" {
		t.Errorf("Alice net = %s, want 30.00", got)
	}
	if got := balances[1].Net.StringFixed(2); got != "-30.00" {
		t.Errorf("Bob net = %s, want -30.00", got)
	}
}

func TestRenameTripValidation(t *testing.T) {
	svc := NewLedgerService(memory.New())
	ctx := context.Background()

	trip, _, err := svc.CreateTrip(ctx, "owner-1", "Draft", []string{"Alice"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	if _, err := svc.RenameTrip(ctx, "owner-1", trip.ID, "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	renamed, err := svc.RenameTrip(ctx, "owner-1", trip.ID, "Final")
	if err != nil {
		t.Fatalf("RenameTrip failed: %v", err)
	}
	if renamed.Title != "Final" {
		t.Errorf("title = %q, want Final", renamed.Title)
	}
}
