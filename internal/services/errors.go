// Package services implements the business logic of the tracker core: the
// task orchestrator for the two automation workflows, the filter store, and
// the credential store. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer. Failures of the external automation services
// themselves are not represented here; they surface as automation.ServiceError
// or automation.TransportError captured in the task state.
package services

import "errors"

var (
	// ErrUnauthenticated is returned when an operation requires an identity
	// and none is present.
	ErrUnauthenticated = errors.New("no authenticated identity")

	// ErrMissingCredential is returned when a mailbox sync is attempted
	// without a stored bearer token. The caller must sign in again to
	// refresh access; the core never mints credentials itself.
	ErrMissingCredential = errors.New("no stored access credential")

	// ErrInvalidFilter is returned when an automation filter fails
	// validation. Nothing is dispatched or persisted in that case.
	ErrInvalidFilter = errors.New("invalid automation filter")

	// ErrAlreadyInProgress is returned when a task of the same kind is
	// running. The new request is rejected, not queued.
	ErrAlreadyInProgress = errors.New("task already in progress")

	// ErrAutoApplyDisabled is returned when the auto-apply capability flag
	// is off. The guard lives here, not in the presentation layer, so it
	// holds even for callers that bypass the UI.
	ErrAutoApplyDisabled = errors.New("auto-apply is disabled")
)
