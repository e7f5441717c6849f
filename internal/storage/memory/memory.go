// Package memory provides a mutex-guarded in-memory implementation of the
// storage.Store interface, used by service-level tests. It enforces the same
// ownership rules as the sqlite store by calling the policy predicates
// directly, and reports denied rows as not-found just like production.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/policy"
	"github.com/mmynk/tripledger/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with in-process maps.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	trips    map[string]*models.Trip
	members  map[string][]*models.Member  // keyed by trip id
	expenses map[string][]*models.Expense // keyed by trip id
	seq      int64                        // insertion order tiebreaker for equal timestamps
	order    map[string]int64             // row id -> insertion sequence
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*models.User),
		trips:    make(map[string]*models.Trip),
		members:  make(map[string][]*models.Member),
		expenses: make(map[string][]*models.Expense),
		order:    make(map[string]int64),
	}
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// CreateUser stores a new user.
func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

// GetUserByEmail returns the user with the given email, or (nil, nil).
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// GetUserByID returns the user with the given id, or (nil, nil).
func (m *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

// CreateTrip stores a trip and its members atomically under one lock hold.
func (m *MemoryStore) CreateTrip(ctx context.Context, trip *models.Trip, members []*models.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.trips {
		if t.OwnerID == trip.OwnerID && t.Title == trip.Title {
			return storage.ErrDuplicateTrip
		}
	}

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

	for _, mem := range members {
		if mem.ID == "" {
			mem.ID = uuid.New().String()
		}
		mem.TripID = trip.ID
		if mem.CreatedAt == 0 {
			mem.CreatedAt = now
		}
	}

	m.trips[trip.ID] = trip
	m.members[trip.ID] = append([]*models.Member(nil), members...)
	m.seq++
	m.order[trip.ID] = m.seq
	return nil
}

// getTrip resolves an owned trip. Caller must hold the lock.
func (m *MemoryStore) getTrip(requesterID, tripID string) (*models.Trip, error) {
	trip := m.trips[tripID]
	if err := policy.AuthorizeTrip(trip, requesterID); err != nil {
		// Denied and missing are the same answer to the caller.
		return nil, storage.ErrTripNotFound
	}
	return trip, nil
}

// GetTrip retrieves a trip owned by the requester.
func (m *MemoryStore) GetTrip(ctx context.Context, requesterID, tripID string) (*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, err := m.getTrip(requesterID, tripID)
	if err != nil {
		return nil, err
	}
	cp := *trip
	return &cp, nil
}

// ListTrips retrieves the requester's trips, newest first.
func (m *MemoryStore) ListTrips(ctx context.Context, requesterID string) ([]*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var trips []*models.Trip
	for _, t := range m.trips {
		if policy.AllowTrip(t, requesterID) {
			cp := *t
			trips = append(trips, &cp)
		}
	}
	sort.Slice(trips, func(i, j int) bool {
		if trips[i].CreatedAt != trips[j].CreatedAt {
			return trips[i].CreatedAt > trips[j].CreatedAt
		}
		return m.order[trips[i].ID] > m.order[trips[j].ID]
	})
	return trips, nil
}

// RenameTrip updates a trip's title and re-stamps updated_at.
func (m *MemoryStore) RenameTrip(ctx context.Context, requesterID, tripID, title string) (*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trip, err := m.getTrip(requesterID, tripID)
	if err != nil {
		return nil, err
	}
	for _, t := range m.trips {
		if t.ID != trip.ID && t.OwnerID == requesterID && t.Title == title {
			return nil, storage.ErrDuplicateTrip
		}
	}

	trip.Title = title
	trip.UpdatedAt = time.Now().Unix()
	cp := *trip
	return &cp, nil
}

// DeleteTrip removes a trip with its members and expenses.
func (m *MemoryStore) DeleteTrip(ctx context.Context, requesterID, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getTrip(requesterID, tripID); err != nil {
		return err
	}
	delete(m.trips, tripID)
	delete(m.members, tripID)
	delete(m.expenses, tripID)
	delete(m.order, tripID)
	return nil
}

// ListMembers retrieves a trip's members ordered by name ascending.
func (m *MemoryStore) ListMembers(ctx context.Context, requesterID, tripID string) ([]*models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getTrip(requesterID, tripID); err != nil {
		return nil, err
	}
	return m.sortedMembers(tripID), nil
}

func (m *MemoryStore) sortedMembers(tripID string) []*models.Member {
	members := make([]*models.Member, 0, len(m.members[tripID]))
	for _, mem := range m.members[tripID] {
		cp := *mem
		members = append(members, &cp)
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Name < members[j].Name
	})
	return members
}

// CreateExpense stores an expense after the ownership and payer checks.
func (m *MemoryStore) CreateExpense(ctx context.Context, requesterID string, expense *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getTrip(requesterID, expense.TripID); err != nil {
		return err
	}

	var payer *models.Member
	for _, mem := range m.members[expense.TripID] {
		if mem.ID == expense.PaidByMemberID {
			payer = mem
			break
		}
	}
	if payer == nil {
		return storage.ErrPayerNotInTrip
	}

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
	expense.PayerName = payer.Name

	cp := *expense
	m.expenses[expense.TripID] = append(m.expenses[expense.TripID], &cp)
	m.seq++
	m.order[expense.ID] = m.seq
	return nil
}

// ListExpenses retrieves a trip's expenses, newest first.
func (m *MemoryStore) ListExpenses(ctx context.Context, requesterID, tripID string) ([]*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getTrip(requesterID, tripID); err != nil {
		return nil, err
	}
	return m.sortedExpenses(tripID), nil
}

func (m *MemoryStore) sortedExpenses(tripID string) []*models.Expense {
	expenses := make([]*models.Expense, 0, len(m.expenses[tripID]))
	for _, e := range m.expenses[tripID] {
		cp := *e
		expenses = append(expenses, &cp)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].CreatedAt != expenses[j].CreatedAt {
			return expenses[i].CreatedAt > expenses[j].CreatedAt
		}
		return m.order[expenses[i].ID] > m.order[expenses[j].ID]
	})
	return expenses
}

// GetTripLedger returns trip, members and expenses under one lock hold,
// mirroring the sqlite store's single-snapshot read.
func (m *MemoryStore) GetTripLedger(ctx context.Context, requesterID, tripID string) (*models.Trip, []*models.Member, []*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trip, err := m.getTrip(requesterID, tripID)
	if err != nil {
		return nil, nil, nil, err
	}
	cp := *trip
	return &cp, m.sortedMembers(tripID), m.sortedExpenses(tripID), nil
}
