package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the read helpers can
// run standalone or inside the snapshot transaction of GetTripLedger.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateTrip persists a trip and its initial members as a single transaction.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip, members []*models.Member) error {
	now := time.Now().Unix()
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = now
	}
	if trip.UpdatedAt == 0 {
		trip.UpdatedAt = trip.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, owner_id, title, member_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.OwnerID, trip.Title, trip.MemberCount, trip.CreatedAt, trip.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicateTrip
	}
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for _, m := range members {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		m.TripID = trip.ID
		if m.CreatedAt == 0 {
			m.CreatedAt = now
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO members (id, trip_id, name, created_at) VALUES (?, ?, ?, ?)",
			m.ID, m.TripID, m.Name, m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip owned by the requester.
func (s *SQLiteStore) GetTrip(ctx context.Context, requesterID, tripID string) (*models.Trip, error) {
	return getTrip(ctx, s.db, requesterID, tripID)
}

func getTrip(ctx context.Context, q querier, requesterID, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := q.QueryRowContext(ctx,
		`SELECT id, owner_id, title, member_count, created_at, updated_at
		 FROM trips WHERE id = ? AND owner_id = ?`,
		tripID, requesterID,
	).Scan(&trip.ID, &trip.OwnerID, &trip.Title, &trip.MemberCount, &trip.CreatedAt, &trip.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// ListTrips retrieves all trips of the requester, newest first.
func (s *SQLiteStore) ListTrips(ctx context.Context, requesterID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, member_count, created_at, updated_at
		 FROM trips WHERE owner_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		requesterID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		if err := rows.Scan(&trip.ID, &trip.OwnerID, &trip.Title, &trip.MemberCount, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	return trips, nil
}

// RenameTrip updates a trip's title. The updated_at re-stamp happens in the
// trigger, so the row is re-read to return fresh timestamps.
func (s *SQLiteStore) RenameTrip(ctx context.Context, requesterID, tripID, title string) (*models.Trip, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE trips SET title = ? WHERE id = ? AND owner_id = ?",
		title, tripID, requesterID,
	)
	if isUniqueViolation(err) {
		return nil, storage.ErrDuplicateTrip
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rename trip: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rename result: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrTripNotFound
	}

	return s.GetTrip(ctx, requesterID, tripID)
}

// DeleteTrip removes a trip; members and expenses cascade away with it.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, requesterID, tripID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM trips WHERE id = ? AND owner_id = ?",
		tripID, requesterID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrTripNotFound
	}

	return nil
}

// ListMembers retrieves a trip's members ordered by name ascending.
func (s *SQLiteStore) ListMembers(ctx context.Context, requesterID, tripID string) ([]*models.Member, error) {
	// Resolve the trip first so an unowned trip reads as not-found rather
	// than an empty roster.
	if _, err := getTrip(ctx, s.db, requesterID, tripID); err != nil {
		return nil, err
	}
	return listMembers(ctx, s.db, tripID)
}

func listMembers(ctx context.Context, q querier, tripID string) ([]*models.Member, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, trip_id, name, created_at
		 FROM members WHERE trip_id = ?
		 ORDER BY name ASC, rowid ASC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.ID, &m.TripID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// GetTripLedger reads the trip, its members and its expenses inside one
// transaction so the balance computation sees a single consistent snapshot.
func (s *SQLiteStore) GetTripLedger(ctx context.Context, requesterID, tripID string) (*models.Trip, []*models.Member, []*models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	trip, err := getTrip(ctx, tx, requesterID, tripID)
	if err != nil {
		return nil, nil, nil, err
	}

	members, err := listMembers(ctx, tx, tripID)
	if err != nil {
		return nil, nil, nil, err
	}

	expenses, err := listExpenses(ctx, tx, tripID)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return trip, members, expenses, nil
}
