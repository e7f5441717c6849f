// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripledger/internal/models"
)

// Sentinel errors returned by Store implementations. Service code matches
// them with errors.Is and translates them into its own taxonomy.
var (
	// ErrTripNotFound covers both a trip id that does not exist and one
	// that exists but belongs to another owner. The two cases are
	// deliberately indistinguishable.
	ErrTripNotFound = errors.New("trip not found")

	// ErrDuplicateTrip marks a (owner, title) pair that is already taken.
	ErrDuplicateTrip = errors.New("trip title already in use")

	// ErrPayerNotInTrip marks an expense whose paid_by member does not
	// belong to the expense's trip.
	ErrPayerNotInTrip = errors.New("payer is not a member of this trip")
)

// Store defines the interface for ledger and user storage operations.
// This abstraction allows swapping storage backends (SQLite for production,
// in-memory for tests) without changing the service layer.
//
// Every trip-scoped method takes the requesting user's id and must evaluate
// the ownership predicate atomically with the operation it guards; see the
// policy package.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns (nil, nil) if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	// Returns (nil, nil) if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateTrip persists a trip and its initial members as one atomic
	// unit. Either all rows land or none do. The trip's MemberCount must
	// already equal len(members). Returns ErrDuplicateTrip if the owner
	// already has a trip with the same title.
	CreateTrip(ctx context.Context, trip *models.Trip, members []*models.Member) error

	// GetTrip retrieves a trip owned by the requester.
	GetTrip(ctx context.Context, requesterID, tripID string) (*models.Trip, error)

	// ListTrips retrieves all trips of the requester, newest first.
	ListTrips(ctx context.Context, requesterID string) ([]*models.Trip, error)

	// RenameTrip updates a trip's title and returns the updated row.
	// Returns ErrDuplicateTrip if the new title collides.
	RenameTrip(ctx context.Context, requesterID, tripID, title string) (*models.Trip, error)

	// DeleteTrip removes a trip and, transactionally, all of its members
	// and expenses.
	DeleteTrip(ctx context.Context, requesterID, tripID string) error

	// ListMembers retrieves a trip's members ordered by name ascending.
	ListMembers(ctx context.Context, requesterID, tripID string) ([]*models.Member, error)

	// CreateExpense persists an expense after verifying, in the same
	// transaction, that the trip is owned by the requester and that the
	// payer belongs to the trip. Returns ErrPayerNotInTrip otherwise.
	CreateExpense(ctx context.Context, requesterID string, expense *models.Expense) error

	// ListExpenses retrieves a trip's expenses newest first, each with
	// PayerName populated from the member table.
	ListExpenses(ctx context.Context, requesterID, tripID string) ([]*models.Expense, error)

	// GetTripLedger reads the trip, its members (name ascending) and its
	// expenses (newest first) from a single consistent snapshot, so a
	// concurrent expense insert cannot produce a balance view that mixes
	// states.
	GetTripLedger(ctx context.Context, requesterID, tripID string) (*models.Trip, []*models.Member, []*models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
