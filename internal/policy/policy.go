// Package policy implements the ownership predicates that scope every trip,
// member and expense operation to the requesting user.
//
// The rule is uniform: an operation on a trip is allowed iff the requester
// is the trip's owner, and members and expenses inherit the rule of their
// parent trip. The comparison always uses the identity established
// server-side by the auth middleware, never a client-supplied owner claim.
//
// The sqlite store enforces these predicates as owner-scoped WHERE clauses,
// which evaluates the check atomically with the statement it guards. The
// in-memory store calls the functions here directly. Either way a denied row
// must surface as not-found so trip IDs cannot be probed across owners.
package policy

import (
	"errors"

	"github.com/mmynk/tripledger/internal/models"
)

// ErrDenied marks an operation on a resource the requester does not own.
// Callers outside the storage layer never see it; it is collapsed into
// not-found before crossing the service boundary.
var ErrDenied = errors.New("requester does not own this trip")

// AllowTrip reports whether the requester may read or mutate the trip.
func AllowTrip(t *models.Trip, requesterID string) bool {
	return t != nil && requesterID != "" && t.OwnerID == requesterID
}

// AllowMember reports whether the requester may read or mutate the member.
// The member's parent trip must be supplied.
func AllowMember(parent *models.Trip, m *models.Member, requesterID string) bool {
	return m != nil && parent != nil && m.TripID == parent.ID && AllowTrip(parent, requesterID)
}

// AllowExpense reports whether the requester may read or mutate the expense.
// The expense's parent trip must be supplied.
func AllowExpense(parent *models.Trip, e *models.Expense, requesterID string) bool {
	return e != nil && parent != nil && e.TripID == parent.ID && AllowTrip(parent, requesterID)
}

// AuthorizeTrip is AllowTrip as an error return.
func AuthorizeTrip(t *models.Trip, requesterID string) error {
	if !AllowTrip(t, requesterID) {
		return ErrDenied
	}
	return nil
}
