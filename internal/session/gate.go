package session

// Decision is the gate's verdict on rendering/access.
type Decision string

const (
	// DecisionPending means the identity is still resolving; callers should
	// show a loading indication, not content and not a redirect.
	DecisionPending Decision = "pending"
	// DecisionAllow grants access while an identity is present.
	DecisionAllow Decision = "allow"
	// DecisionRedirect sends the caller to sign-in.
	DecisionRedirect Decision = "redirect"
)

// Evaluate maps a session state to a gate decision. Revocation is
// synchronous: the first evaluation after a Present→Absent transition
// already yields DecisionRedirect.
func Evaluate(s State) Decision {
	switch s.Status {
	case StatusPresent:
		return DecisionAllow
	case StatusAbsent:
		return DecisionRedirect
	}
	return DecisionPending
}

// Gate composes a Tracker into an access gate.
type Gate struct {
	tracker *Tracker
}

// NewGate returns a gate over t.
func NewGate(t *Tracker) *Gate { return &Gate{tracker: t} }

// Evaluate returns the decision for the tracker's current state.
func (g *Gate) Evaluate() Decision { return Evaluate(g.tracker.State()) }
