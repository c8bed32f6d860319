// Package recordstore layers live change notification on top of the record
// repository. It is the durable-store boundary of the system: consumers open
// a server-side filtered subscription and receive the full matching set as
// an ordered sequence of snapshots, one per committed mutation.
//
// Delivery contract:
//   - The filter (user, optional status) is pushed down to the query; no
//     client-side filtering happens when a narrower query is available.
//   - Each notification carries the complete matching set, authoritative for
//     that filter. Consumers replace their cached copy wholesale.
//   - Snapshots for a given subscription are delivered in commit order,
//     synchronously with the mutation that caused them, never overlapping.
//   - Closing a subscription stops delivery immediately; a notification
//     racing with Close is discarded, not buffered.
package recordstore

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
	"github.com/tverros/go-jobtrack-backend/internal/repo"
)

// Query scopes a subscription or listing. UserID is mandatory; an empty
// Status selects all statuses for that user.
type Query struct {
	UserID string
	Status domain.Status
}

// SnapshotFunc receives the full matching set after each committed mutation.
// It runs synchronously on the mutator's goroutine; keep it fast.
type SnapshotFunc func([]domain.ApplicationRecord)

// Store is the SQLite-backed record store with snapshot fan-out.
// All methods are safe for concurrent use.
type Store struct {
	db *gorm.DB

	mu   sync.Mutex // guards subs
	subs map[uint64]*Subscription
	next uint64

	// notifyMu serializes query+fan-out per mutation so every subscription
	// observes snapshots in commit order.
	notifyMu sync.Mutex
}

// New constructs a Store over an opened and migrated database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db, subs: make(map[uint64]*Subscription)}
}

// Subscription is the handle returned by Subscribe. Close is the only
// cancellation primitive.
type Subscription struct {
	store *Store
	id    uint64
	query Query
	fn    SnapshotFunc

	mu     sync.Mutex // serializes deliveries and guards closed
	closed bool
}

// Close unregisters the subscription and stops further deliveries. It is
// safe to call more than once. A delivery already racing with Close will be
// dropped by the closed check, never observed by the consumer.
func (sub *Subscription) Close() {
	sub.mu.Lock()
	sub.closed = true
	sub.mu.Unlock()

	sub.store.mu.Lock()
	delete(sub.store.subs, sub.id)
	sub.store.mu.Unlock()
}

// deliver invokes the callback unless the subscription is closed.
func (sub *Subscription) deliver(snapshot []domain.ApplicationRecord) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.fn(snapshot)
}

// Subscribe registers fn for q and synchronously delivers the initial
// snapshot before returning, so the consumer never observes a gap between
// "subscribed" and "first data".
func (s *Store) Subscribe(ctx context.Context, q Query, fn SnapshotFunc) (*Subscription, error) {
	sub := &Subscription{store: s, query: q, fn: fn}

	s.mu.Lock()
	s.next++
	sub.id = s.next
	s.subs[sub.id] = sub
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	snapshot, err := repo.ListRecords(ctx, s.db, q.UserID, q.Status)
	if err != nil {
		sub.Close()
		return nil, err
	}
	sub.deliver(snapshot)
	return sub, nil
}

// Upsert writes a record and notifies matching subscriptions.
func (s *Store) Upsert(ctx context.Context, rec *domain.ApplicationRecord) error {
	if err := repo.UpsertRecord(ctx, s.db, rec); err != nil {
		return err
	}
	s.notify(ctx, rec.UserID)
	return nil
}

// Delete removes a record and notifies matching subscriptions.
func (s *Store) Delete(ctx context.Context, id, userID string) error {
	if err := repo.DeleteRecord(ctx, s.db, id, userID); err != nil {
		return err
	}
	s.notify(ctx, userID)
	return nil
}

// notify re-queries and fans out snapshots to every subscription scoped to
// userID. It holds notifyMu for the whole pass: notifications are globally
// ordered by commit, and no subscription sees two snapshots concurrently.
func (s *Store) notify(ctx context.Context, userID string) {
	s.mu.Lock()
	targets := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.query.UserID == userID {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	for _, sub := range targets {
		snapshot, err := repo.ListRecords(ctx, s.db, sub.query.UserID, sub.query.Status)
		if err != nil {
			// Skip this delivery; the next mutation will retry the query.
			log.Warn().Err(err).Str("user_id", userID).Msg("record store: snapshot query failed")
			continue
		}
		sub.deliver(snapshot)
	}
}
