package policy

import (
	"errors"
	"testing"

	"github.com/mmynk/tripledger/internal/models"
)

func TestOwnershipPredicates(t *testing.T) {
	trip := &models.Trip{ID: "t1", OwnerID: "owner-a"}
	member := &models.Member{ID: "m1", TripID: "t1"}
	expense := &models.Expense{ID: "e1", TripID: "t1"}
	foreignMember := &models.Member{ID: "m2", TripID: "t2"}

	if !AllowTrip(trip, "owner-a") {
		t.Error("owner should be allowed on own trip")
	}
	if AllowTrip(trip, "owner-b") {
		t.Error("non-owner must be denied")
	}
	if AllowTrip(trip, "") {
		t.Error("empty identity must be denied")
	}
	if AllowTrip(nil, "owner-a") {
		t.Error("nil trip must be denied")
	}

	// Members and expenses inherit the parent trip's rule.
	if !AllowMember(trip, member, "owner-a") {
		t.Error("owner should be allowed on own trip's member")
	}
	if AllowMember(trip, member, "owner-b") {
		t.Error("non-owner must be denied on member")
	}
	if AllowMember(trip, foreignMember, "owner-a") {
		t.Error("member of another trip must be denied")
	}
	if !AllowExpense(trip, expense, "owner-a") {
		t.Error("owner should be allowed on own trip's expense")
	}
	if AllowExpense(trip, expense, "owner-b") {
		t.Error("non-owner must be denied on expense")
	}

	if err := AuthorizeTrip(trip, "owner-b"); !errors.Is(err, ErrDenied) {
		t.Errorf("expected ErrDenied, got %v", err)
	}
	if err := AuthorizeTrip(trip, "owner-a"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
