// Package services – Orchestrator
//
// This file implements the task orchestrator that wraps the two external
// automation workflows (mailbox sync, auto-apply) behind a single-flight
// guard and a tri-state lifecycle per task kind:
//
//	Idle -> Running -> {Idle, Failed(reason)}
//
// Failed is terminal only until the next explicit start; failures are not
// sticky and there is no automatic retry. A start while Running is rejected
// with ErrAlreadyInProgress and does not queue, retry, or cancel anything.
// The two kinds are independent: a running sync never blocks auto-apply,
// and neither blocks the live record feed.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
)

// taskTransitions counts state-machine transitions per task kind.
var taskTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "orchestrator_task_transitions_total",
		Help: "Task state transitions by kind and resulting status.",
	},
	[]string{"kind", "status"},
)

func init() {
	prometheus.MustRegister(taskTransitions)
}

// MailboxScanner is the consumed contract of the mailbox-scan backend.
type MailboxScanner interface {
	// Scan triggers one scan of userID's mailbox with the given credential.
	Scan(ctx context.Context, credential, userID string) error
}

// ApplyDispatcher is the consumed contract of the apply-bot backend.
type ApplyDispatcher interface {
	// Dispatch sends the normalized filter and returns the service's
	// optional confirmation message.
	Dispatch(ctx context.Context, f domain.AutomationFilter) (string, error)
}

// taskSlot is one single-flight state cell. Only its owning orchestrator
// mutates it; readers get snapshots.
type taskSlot struct {
	kind  domain.TaskKind
	mu    sync.Mutex
	state domain.TaskState
}

// begin flips Idle/Failed to Running. It reports false when the task is
// already running; nothing else changes in that case.
func (s *taskSlot) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == domain.TaskRunning {
		return false
	}
	s.state = domain.TaskState{Status: domain.TaskRunning, UpdatedAt: time.Now().UTC()}
	taskTransitions.WithLabelValues(string(s.kind), string(domain.TaskRunning)).Inc()
	return true
}

// finish resolves Running to Idle or Failed(reason).
func (s *taskSlot) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := domain.TaskState{Status: domain.TaskIdle, UpdatedAt: time.Now().UTC()}
	if err != nil {
		next.Status = domain.TaskFailed
		next.Reason = err.Error()
	}
	s.state = next
	taskTransitions.WithLabelValues(string(s.kind), string(next.Status)).Inc()
}

func (s *taskSlot) snapshot() domain.TaskState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == "" {
		return domain.TaskState{Status: domain.TaskIdle}
	}
	return s.state
}

// Orchestrator coordinates the two automation workflows. Construct with
// NewOrchestrator; the zero value is not usable.
type Orchestrator struct {
	scanner  MailboxScanner
	applyBot ApplyDispatcher
	filters  *FilterStore

	// AutoApplyEnabled is the capability flag for the auto-apply workflow.
	// When false, StartAutoApply rejects before validating anything.
	AutoApplyEnabled bool

	syncSlot  taskSlot
	applySlot taskSlot

	// afterFinish, when set, runs after a task resolves. Test seam.
	afterFinish func(domain.TaskKind)
}

// NewOrchestrator constructs an Orchestrator over the two backends and the
// filter store used by the auto-apply path.
func NewOrchestrator(scanner MailboxScanner, applyBot ApplyDispatcher, filters *FilterStore, autoApplyEnabled bool) *Orchestrator {
	o := &Orchestrator{
		scanner:          scanner,
		applyBot:         applyBot,
		filters:          filters,
		AutoApplyEnabled: autoApplyEnabled,
	}
	o.syncSlot.kind = domain.TaskSync
	o.applySlot.kind = domain.TaskAutoApply
	return o
}

// State returns the current snapshot for one task kind.
func (o *Orchestrator) State(kind domain.TaskKind) domain.TaskState {
	if kind == domain.TaskAutoApply {
		return o.applySlot.snapshot()
	}
	return o.syncSlot.snapshot()
}

// States returns snapshots for both task kinds.
func (o *Orchestrator) States() map[domain.TaskKind]domain.TaskState {
	return map[domain.TaskKind]domain.TaskState{
		domain.TaskSync:      o.syncSlot.snapshot(),
		domain.TaskAutoApply: o.applySlot.snapshot(),
	}
}

// StartSync begins one mailbox scan for identity using the stored bearer
// credential. Preconditions are checked before any state transition:
// ErrUnauthenticated without an identity, ErrMissingCredential without a
// credential, ErrAlreadyInProgress while a sync is running. On acceptance
// the state flips to Running and exactly one outbound call is dispatched;
// its terminal response resolves the state to Idle or Failed(reason).
func (o *Orchestrator) StartSync(ctx context.Context, identity, credential string) error {
	if identity == "" {
		return ErrUnauthenticated
	}
	if credential == "" {
		return ErrMissingCredential
	}
	if !o.syncSlot.begin() {
		return ErrAlreadyInProgress
	}

	// The call is not cancellable once dispatched; detach it from the
	// request context and observe only its terminal response.
	go o.run(&o.syncSlot, func(ctx context.Context) error {
		return o.scanner.Scan(ctx, credential, identity)
	}, context.WithoutCancel(ctx))

	return nil
}

// StartAutoApply validates and persists the filter, then dispatches one
// auto-apply run. Rejections (capability off, invalid filter, already
// running) happen before any dispatch and leave no state behind, except
// that a valid filter stays persisted even if the later dispatch fails:
// the criteria themselves were accepted.
func (o *Orchestrator) StartAutoApply(ctx context.Context, f domain.AutomationFilter) error {
	if !o.AutoApplyEnabled {
		return ErrAutoApplyDisabled
	}

	norm := f.Normalize()
	if err := norm.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	if !o.applySlot.begin() {
		return ErrAlreadyInProgress
	}

	// Persist inside the single-flight path so no two saves ever race.
	if err := o.filters.Save(ctx, norm); err != nil {
		o.applySlot.finish(err)
		return err
	}

	go o.run(&o.applySlot, func(ctx context.Context) error {
		msg, err := o.applyBot.Dispatch(ctx, norm)
		if err == nil && msg != "" {
			log.Info().Str("message", msg).Msg("auto-apply accepted")
		}
		return err
	}, context.WithoutCancel(ctx))

	return nil
}

// run executes the dispatched call and resolves the slot.
func (o *Orchestrator) run(slot *taskSlot, call func(context.Context) error, ctx context.Context) {
	err := call(ctx)
	if err != nil {
		log.Warn().Err(err).Str("task", string(slot.kind)).Msg("automation task failed")
	}
	slot.finish(err)
	if o.afterFinish != nil {
		o.afterFinish(slot.kind)
	}
}
