// Package aggregate maintains the live derived view of a user's application
// records. Given an identity, it opens a filtered subscription on the record
// store and recomputes the view (ordered records + per-status counters)
// wholesale on every snapshot, publishing the result to observers in
// delivery order. Two subscription shapes are supported: counts across all
// statuses, or a single-status narrowed list.
package aggregate

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
	"github.com/tverros/go-jobtrack-backend/internal/recordstore"
)

// malformedRecords counts records dropped from the derived view because
// they carried no status. This is the side channel that keeps Total honest.
var malformedRecords = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "aggregator_malformed_records_total",
	Help: "Records excluded from the derived view for missing a status.",
})

func init() {
	prometheus.MustRegister(malformedRecords)
}

// Config selects the subscription shape. An empty Status subscribes to all
// of the identity's records (counts-across-all-statuses mode); a non-empty
// Status narrows the feed server-side to that single status.
type Config struct {
	Status domain.Status
}

// Aggregator owns one live subscription at a time and the view derived from
// it. It is the single writer of that view; readers get copies.
type Aggregator struct {
	store *recordstore.Store

	mu       sync.Mutex // guards sub + identity (subscription lifecycle)
	sub      *recordstore.Subscription
	identity string

	viewMu    sync.Mutex // guards view + observers
	view      domain.DerivedView
	observers []func(domain.DerivedView)
}

// New returns an aggregator with an empty view and no open subscription.
func New(store *recordstore.Store) *Aggregator {
	return &Aggregator{store: store, view: domain.BuildView(nil)}
}

// Open subscribes for identity with the given shape. Any previously open
// subscription is closed first, so exactly one subscription is ever active
// and no notification from the old identity's feed is applied afterwards.
// The initial snapshot is applied before Open returns.
func (a *Aggregator) Open(ctx context.Context, identity string, cfg Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closeLocked()

	sub, err := a.store.Subscribe(ctx, recordstore.Query{UserID: identity, Status: cfg.Status}, a.apply)
	if err != nil {
		// The old feed is already closed; the view must not keep serving
		// the previous identity's records to the new one.
		a.apply(nil)
		return err
	}
	a.sub = sub
	a.identity = identity
	return nil
}

// Close releases the active subscription, if any, and resets the view so a
// signed-out session does not keep showing the previous identity's records.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
	a.apply(nil)
}

func (a *Aggregator) closeLocked() {
	if a.sub != nil {
		a.sub.Close()
		a.sub = nil
		a.identity = ""
	}
}

// View returns a copy of the current derived view.
func (a *Aggregator) View() domain.DerivedView {
	a.viewMu.Lock()
	defer a.viewMu.Unlock()
	return a.view.Clone()
}

// OnChange registers fn to receive every recomputed view, in order.
func (a *Aggregator) OnChange(fn func(domain.DerivedView)) {
	a.viewMu.Lock()
	defer a.viewMu.Unlock()
	a.observers = append(a.observers, fn)
}

// apply replaces the cached view from a full snapshot. Snapshot deliveries
// are already serialized by the subscription, so recomputes never overlap;
// observers run outside the view lock and may read View() safely.
func (a *Aggregator) apply(snapshot []domain.ApplicationRecord) {
	next := domain.BuildView(snapshot)
	if next.Malformed > 0 {
		malformedRecords.Add(float64(next.Malformed))
		log.Warn().
			Int("malformed", next.Malformed).
			Int("total", next.Total).
			Msg("aggregator: snapshot contained records without a status")
	}

	a.viewMu.Lock()
	a.view = next
	observers := append(make([]func(domain.DerivedView), 0, len(a.observers)), a.observers...)
	a.viewMu.Unlock()

	for _, fn := range observers {
		fn(next.Clone())
	}
}
