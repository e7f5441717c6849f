package models

import "github.com/shopspring/decimal"

// Expense is an immutable record of one payment made by one member on behalf
// of the trip. Once created it can only disappear via trip deletion.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// Title describes what was paid for (e.g. "Hotel", "Dinner").
	Title string

	// Amount is the amount paid. Always > 0, at most 2 fractional digits.
	Amount decimal.Decimal

	// PaidByMemberID references the member who paid. The member always
	// belongs to the same trip as the expense.
	PaidByMemberID string

	// PayerName is the paying member's name, populated on reads that join
	// the member table. Not persisted on the expense row.
	PayerName string

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last update, maintained by the
	// storage layer. Equals CreatedAt in practice since expenses are
	// immutable.
	UpdatedAt int64
}
