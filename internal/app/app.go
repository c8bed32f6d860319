// Package app composes the tracker core for one user session: the session
// tracker drives the live aggregator's subscription lifecycle, the
// orchestrator reads the stored credential captured at sign-in, and the
// whole state tuple (derived view, task states, session state) is exposed
// for the HTTP layer to render.
//
// Control flow: a sign-in resolves the tracker to Present, which opens the
// aggregator's subscription keyed by that identity; a sign-out (or provider
// disconnect) closes the subscription and clears the stored credential.
// Exactly one subscription is active at a time, and none across identities.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tverros/go-jobtrack-backend/internal/aggregate"
	"github.com/tverros/go-jobtrack-backend/internal/domain"
	"github.com/tverros/go-jobtrack-backend/internal/recordstore"
	"github.com/tverros/go-jobtrack-backend/internal/services"
	"github.com/tverros/go-jobtrack-backend/internal/session"
)

// App owns the composed session core. Construct with New.
type App struct {
	Tracker      *session.Tracker
	Gate         *session.Gate
	Aggregator   *aggregate.Aggregator
	Orchestrator *services.Orchestrator
	Filters      *services.FilterStore
	Credentials  *services.CredentialStore
	Records      *recordstore.Store

	dashboardCfg aggregate.Config
}

// New wires the components together. dashboardStatus selects the
// aggregator's subscription shape for the dashboard feed: empty means
// counts across all statuses, non-empty narrows the feed server-side.
func New(
	records *recordstore.Store,
	orch *services.Orchestrator,
	filters *services.FilterStore,
	creds *services.CredentialStore,
	dashboardStatus domain.Status,
) *App {
	tracker := session.NewTracker()
	a := &App{
		Tracker:      tracker,
		Gate:         session.NewGate(tracker),
		Aggregator:   aggregate.New(records),
		Orchestrator: orch,
		Filters:      filters,
		Credentials:  creds,
		Records:      records,
		dashboardCfg: aggregate.Config{Status: dashboardStatus},
	}

	// Session transitions drive the subscription lifecycle. The lifecycle
	// rules (open on sign-in, close and clear credential on sign-out) live
	// here as explicit contracts, not as side effects scattered in handlers.
	tracker.OnChange(func(st session.State) {
		switch st.Status {
		case session.StatusPresent:
			if err := a.Aggregator.Open(context.Background(), st.Identity, a.dashboardCfg); err != nil {
				log.Error().Err(err).Str("user_id", st.Identity).Msg("app: opening live feed failed")
			}
		case session.StatusAbsent:
			a.Aggregator.Close()
			if err := a.Credentials.Clear(context.Background()); err != nil {
				log.Error().Err(err).Msg("app: clearing credential failed")
			}
		}
	})

	return a
}

// SignIn records the identity provider's sign-in callback: the bearer
// credential is stored before the tracker resolves, so anything reacting
// to the Present transition already sees it.
func (a *App) SignIn(ctx context.Context, userID, credential string) error {
	if userID == "" {
		return services.ErrUnauthenticated
	}
	if err := a.Credentials.Save(ctx, credential); err != nil {
		return err
	}
	a.Tracker.SetPresent(userID)
	return nil
}

// SignOut resolves the tracker to Absent; the wired observer closes the
// live feed and clears the credential.
func (a *App) SignOut(ctx context.Context) {
	a.Tracker.SetAbsent()
}

// StartSync launches the mailbox-scan workflow for the current identity
// using the stored credential.
func (a *App) StartSync(ctx context.Context) error {
	st := a.Tracker.State()
	if st.Status != session.StatusPresent {
		return services.ErrUnauthenticated
	}
	credential, err := a.Credentials.Load(ctx)
	if err != nil {
		return err
	}
	return a.Orchestrator.StartSync(ctx, st.Identity, credential)
}

// StartAutoApply launches the auto-apply workflow with the given criteria.
func (a *App) StartAutoApply(ctx context.Context, f domain.AutomationFilter) error {
	return a.Orchestrator.StartAutoApply(ctx, f)
}

// Dashboard is the state tuple rendered by the dashboard screen.
type Dashboard struct {
	Session session.State                        `json:"session"`
	View    domain.DerivedView                   `json:"view"`
	Tasks   map[domain.TaskKind]domain.TaskState `json:"tasks"`
}

// Dashboard returns a consistent snapshot of the composed state.
func (a *App) Dashboard() Dashboard {
	return Dashboard{
		Session: a.Tracker.State(),
		View:    a.Aggregator.View(),
		Tasks:   a.Orchestrator.States(),
	}
}
