package session

import (
	"errors"
	"fmt"

	"github.com/JeffreyRichter/pixtester/internal/aids"
)

// Kind identifies an operation; each kind owns one status slot.
type Kind int

const (
	ConnectivityProbe Kind = iota
	WebhookDispatch
	PendingList
	kindCount
)

// Kinds lists every operation kind in display order.
var Kinds = []Kind{ConnectivityProbe, WebhookDispatch, PendingList}

func (k Kind) String() string {
	switch k {
	case ConnectivityProbe:
		return "probe"
	case WebhookDispatch:
		return "webhook"
	case PendingList:
		return "pending"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	return [...]string{"idle", "running", "succeeded", "failed"}[s]
}

// Status is the value of a status slot. Detail is the summary for Succeeded and the reason for
// Failed.
type Status struct {
	State  State
	Detail string
}

func (s Status) String() string {
	if s.Detail == "" {
		return s.State.String()
	}
	return s.State.String() + "(" + s.Detail + ")"
}

// ErrBusy is returned by Begin when the slot is already Running.
var ErrBusy = errors.New("operation already running")

// Status returns the current value of kind's slot.
func (s *Session) Status(kind Kind) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[kind]
}

// Begin moves kind's slot to Running. It fails with ErrBusy if an invocation is in flight.
func (s *Session) Begin(kind Kind) error {
	s.mu.Lock()
	if s.statuses[kind].State == Running {
		s.mu.Unlock()
		return ErrBusy
	}
	st := Status{State: Running}
	s.statuses[kind] = st
	s.mu.Unlock()
	s.transitioned(kind, st)
	return nil
}

// Succeed moves kind's slot from Running to Succeeded.
func (s *Session) Succeed(kind Kind, summary string) {
	s.finish(kind, Status{State: Succeeded, Detail: summary})
}

// Fail moves kind's slot from Running to Failed.
func (s *Session) Fail(kind Kind, reason string) { s.finish(kind, Status{State: Failed, Detail: reason}) }

func (s *Session) finish(kind Kind, st Status) {
	s.mu.Lock()
	prev := s.statuses[kind].State
	if prev == Running {
		s.statuses[kind] = st
	}
	s.mu.Unlock()
	aids.Assert(prev == Running, fmt.Errorf("%v: %v -> %v is not a valid transition", kind, prev, st.State))
	s.transitioned(kind, st)
}

func (s *Session) transitioned(kind Kind, st Status) {
	if s.opts.OnStatus != nil {
		s.opts.OnStatus(kind, st)
	}
	s.notify()
}
