package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// CreateExpense persists an expense. The ownership check and the
// payer-belongs-to-trip check run in the same transaction as the insert.
func (s *SQLiteStore) CreateExpense(ctx context.Context, requesterID string, expense *models.Expense) error {
	now := time.Now().Unix()
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := getTrip(ctx, tx, requesterID, expense.TripID); err != nil {
		return err
	}

	var payerName string
	err = tx.QueryRowContext(ctx,
		"SELECT name FROM members WHERE id = ? AND trip_id = ?",
		expense.PaidByMemberID, expense.TripID,
	).Scan(&payerName)
	if err == sql.ErrNoRows {
		return storage.ErrPayerNotInTrip
	}
	if err != nil {
		return fmt.Errorf("failed to resolve payer: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, title, amount, paid_by_member_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.TripID, expense.Title, expense.Amount.String(),
		expense.PaidByMemberID, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	expense.PayerName = payerName
	return nil
}

// ListExpenses retrieves a trip's expenses newest first, joined with the
// paying member's name.
func (s *SQLiteStore) ListExpenses(ctx context.Context, requesterID, tripID string) ([]*models.Expense, error) {
	if _, err := getTrip(ctx, s.db, requesterID, tripID); err != nil {
		return nil, err
	}
	return listExpenses(ctx, s.db, tripID)
}

func listExpenses(ctx context.Context, q querier, tripID string) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT e.id, e.trip_id, e.title, e.amount, e.paid_by_member_id, m.name, e.created_at, e.updated_at
		 FROM expenses e
		 JOIN members m ON m.id = e.paid_by_member_id
		 WHERE e.trip_id = ?
		 ORDER BY e.created_at DESC, e.rowid DESC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		var amount string
		if err := rows.Scan(&e.ID, &e.TripID, &e.Title, &amount, &e.PaidByMemberID, &e.PayerName, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expense amount %q: %w", amount, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
