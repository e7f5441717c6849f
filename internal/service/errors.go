package service

import "errors"

// Error taxonomy of the mutation service. Every failure a caller can act on
// wraps one of these sentinels; match with errors.Is.
var (
	// ErrValidation marks malformed or missing input: empty title,
	// non-positive or over-precise amount, empty member roster, or a payer
	// that is not a member of the trip.
	ErrValidation = errors.New("invalid input")

	// ErrConflict marks a duplicate (owner, title) pair.
	ErrConflict = errors.New("already exists")

	// ErrNotFound marks an id that does not resolve for the requester.
	// A trip owned by someone else reports the same error, so trip ids
	// cannot be probed across owners.
	ErrNotFound = errors.New("not found")
)
