package models

// Trip is a named expense-sharing session owned by exactly one user.
// The member roster is fixed at creation time: there is no operation that
// adds or removes members afterwards, which is what keeps MemberCount a
// safe denormalized value.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// OwnerID references the user who created the trip. All access to the
	// trip and everything under it is scoped to this user.
	OwnerID string

	// Title is the display name of the trip. Unique per owner.
	Title string

	// MemberCount always equals the number of members belonging to this
	// trip. Set once inside the trip-creation transaction.
	MemberCount int

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last trip update, maintained
	// by the storage layer.
	UpdatedAt int64
}

// Member is a participant in a trip's expense split. Members are identified
// by name only and are not user accounts. Duplicate names within a trip are
// legal (ambiguous in display only).
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// TripID is the trip this member belongs to.
	TripID string

	// Name is the member's display name.
	Name string

	// CreatedAt is the Unix timestamp when the member was created.
	CreatedAt int64
}
