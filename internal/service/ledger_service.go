package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// LedgerService is the only legal entry point for creating trips and
// expenses and for reading balance views. It validates input, delegates the
// ownership checks to the storage layer, and translates storage errors into
// the service taxonomy.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreateTrip creates a trip together with its initial member roster as one
// atomic unit. Member names are trimmed and empty names dropped; the roster
// must not end up empty. No trip ever exists with zero members.
func (s *LedgerService) CreateTrip(ctx context.Context, ownerID, title string, memberNames []string) (*models.Trip, []*models.Member, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	var members []*models.Member
	for _, name := range memberNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		members = append(members, &models.Member{Name: name})
	}
	if len(members) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one member name is required", ErrValidation)
	}

	trip := &models.Trip{
		OwnerID:     ownerID,
		Title:       title,
		MemberCount: len(members),
	}

	if err := s.store.CreateTrip(ctx, trip, members); err != nil {
		if errors.Is(err, storage.ErrDuplicateTrip) {
			return nil, nil, fmt.Errorf("%w: trip %q", ErrConflict, title)
		}
		slog.Error("CreateTrip failed", "owner_id", ownerID, "error", err)
		return nil, nil, err
	}

	slog.Info("Trip created", "trip_id", trip.ID, "owner_id", ownerID, "members", len(members))
	return trip, members, nil
}

// ListTrips returns the owner's trips, newest first.
func (s *LedgerService) ListTrips(ctx context.Context, ownerID string) ([]*models.Trip, error) {
	trips, err := s.store.ListTrips(ctx, ownerID)
	if err != nil {
		slog.Error("ListTrips failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return trips, nil
}

// GetTrip returns a trip with its member roster (names ascending).
func (s *LedgerService) GetTrip(ctx context.Context, ownerID, tripID string) (*models.Trip, []*models.Member, error) {
	trip, err := s.store.GetTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, nil, s.translate(err, "GetTrip", ownerID, tripID)
	}
	members, err := s.store.ListMembers(ctx, ownerID, tripID)
	if err != nil {
		return nil, nil, s.translate(err, "GetTrip", ownerID, tripID)
	}
	return trip, members, nil
}

// RenameTrip updates a trip's title under the same rules as creation.
func (s *LedgerService) RenameTrip(ctx context.Context, ownerID, tripID, title string) (*models.Trip, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	trip, err := s.store.RenameTrip(ctx, ownerID, tripID, title)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateTrip) {
			return nil, fmt.Errorf("%w: trip %q", ErrConflict, title)
		}
		return nil, s.translate(err, "RenameTrip", ownerID, tripID)
	}

	slog.Info("Trip renamed", "trip_id", tripID, "owner_id", ownerID)
	return trip, nil
}

// DeleteTrip removes a trip and everything under it.
func (s *LedgerService) DeleteTrip(ctx context.Context, ownerID, tripID string) error {
	if err := s.store.DeleteTrip(ctx, ownerID, tripID); err != nil {
		return s.translate(err, "DeleteTrip", ownerID, tripID)
	}
	slog.Info("Trip deleted", "trip_id", tripID, "owner_id", ownerID)
	return nil
}

// AddExpense appends one immutable expense to a trip. The payer must belong
// to the trip; amounts are positive with at most 2 fractional digits.
// MemberCount is untouched: expenses never change the roster.
func (s *LedgerService) AddExpense(ctx context.Context, ownerID, tripID, title string, amount decimal.Decimal, paidByMemberID string) (*models.Expense, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	if amount.Exponent() < -2 {
		return nil, fmt.Errorf("%w: amount cannot have more than 2 decimal places", ErrValidation)
	}
	if paidByMemberID == "" {
		return nil, fmt.Errorf("%w: paid_by_member_id is required", ErrValidation)
	}

	expense := &models.Expense{
		TripID:         tripID,
		Title:          title,
		Amount:         amount,
		PaidByMemberID: paidByMemberID,
	}

	if err := s.store.CreateExpense(ctx, ownerID, expense); err != nil {
		if errors.Is(err, storage.ErrPayerNotInTrip) {
			return nil, fmt.Errorf("%w: payer is not a member of this trip", ErrValidation)
		}
		return nil, s.translate(err, "AddExpense", ownerID, tripID)
	}

	slog.Info("Expense added",
		"trip_id", tripID,
		"expense_id", expense.ID,
		"amount", amount.String(),
	)
	return expense, nil
}

// ListExpenses returns a trip's expenses newest first, each carrying its
// payer's member name.
func (s *LedgerService) ListExpenses(ctx context.Context, ownerID, tripID string) ([]*models.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx, ownerID, tripID)
	if err != nil {
		return nil, s.translate(err, "ListExpenses", ownerID, tripID)
	}
	return expenses, nil
}

// TripBalances reads the trip ledger from one consistent snapshot and
// derives per-member balances. Nothing is cached: the computation is cheap
// and any write would invalidate it.
func (s *LedgerService) TripBalances(ctx context.Context, ownerID, tripID string) (*models.Trip, []calculator.MemberBalance, error) {
	trip, members, expenses, err := s.store.GetTripLedger(ctx, ownerID, tripID)
	if err != nil {
		return nil, nil, s.translate(err, "TripBalances", ownerID, tripID)
	}
	return trip, calculator.ComputeBalances(trip, members, expenses), nil
}

// translate maps storage errors to the service taxonomy, logging anything
// unexpected.
func (s *LedgerService) translate(err error, op, ownerID, tripID string) error {
	if errors.Is(err, storage.ErrTripNotFound) {
		return fmt.Errorf("%w: trip %s", ErrNotFound, tripID)
	}
	slog.Error(op+" failed", "owner_id", ownerID, "trip_id", tripID, "error", err)
	return err
}
