package provider

import (
	"github.com/ghdash/internal/domain"
)

// FlowState is the state of one OAuth handshake
type FlowState string

const (
	FlowPending   FlowState = "pending"
	FlowExchanged FlowState = "exchanged"
	FlowFailed    FlowState = "failed"
)

// FlowStep names the point at which a handshake can fail
type FlowStep string

const (
	StepConsent  FlowStep = "consent"  // user denied access or provider returned an error
	StepState    FlowStep = "state"    // state parameter missing or mismatched
	StepExchange FlowStep = "exchange" // code could not be traded for a token
	StepProfile  FlowStep = "profile"  // user profile could not be fetched
	StepIdentity FlowStep = "identity" // profile lacks a required field
)

// Flow records the progress of a callback: Pending → Exchanged or Pending → Failed.
// It is terminal once it leaves Pending.
type Flow struct {
	State      FlowState
	FailedStep FlowStep
	Identity   *domain.Identity
	Err        error
}

func newFlow() *Flow {
	return &Flow{State: FlowPending}
}

func (f *Flow) fail(step FlowStep, err error) *Flow {
	if f.State != FlowPending {
		return f
	}
	f.State = FlowFailed
	f.FailedStep = step
	if step == StepIdentity {
		f.Err = err
	} else {
		f.Err = domain.WrapAuthExchange(string(step), err)
	}
	return f
}

func (f *Flow) exchanged(identity *domain.Identity) *Flow {
	if f.State != FlowPending {
		return f
	}
	f.State = FlowExchanged
	f.Identity = identity
	return f
}
