// Package session models the interactive state of one preflight surface as
// an explicit record with well-defined transitions, instead of ambient
// mutable fields. Two invariants live here: at most one in-flight remote
// call per surface, and completions that outlive their originating context
// never mutate current state (generation-counter pattern).
package session

import (
	"errors"
	"sync"

	"print-preflight/models"
)

// Phase is the lifecycle position of a surface.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseUploaded    Phase = "uploaded"
	PhaseAnalyzing   Phase = "analyzing"
	PhaseReportReady Phase = "report-ready"
	PhaseFailed      Phase = "failed"
)

// ErrBusy is returned when a surface already has an outstanding call.
var ErrBusy = errors.New("a call is already in flight")

// State is one immutable snapshot of a surface. Transitions produce a new
// snapshot; the previous one is never mutated.
type State struct {
	Phase    Phase
	Filename string
	Report   *models.Report
	Err      error
}

// Token identifies the context that initiated an asynchronous call. A
// completion is applied only while its token is still current.
type Token uint64

// Session serializes transitions for one surface.
type Session struct {
	mu       sync.Mutex
	state    State
	gen      Token
	inFlight bool
}

// New starts a session in the idle phase.
func New() *Session {
	return &Session{state: State{Phase: PhaseIdle}}
}

// Current returns the latest snapshot.
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Upload records a new document and invalidates any outstanding call: a
// completion for the previous document must not land on this one.
func (s *Session) Upload(filename string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.inFlight = false
	s.state = State{Phase: PhaseUploaded, Filename: filename}
	return s.state
}

// Begin marks the surface busy and returns the token its completion must
// present. Fails with ErrBusy while another call is outstanding, which is
// what disables the surface's trigger.
func (s *Session) Begin() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return 0, ErrBusy
	}
	if s.state.Phase != PhaseUploaded && s.state.Phase != PhaseReportReady && s.state.Phase != PhaseFailed {
		return 0, errors.New("no document uploaded")
	}
	s.gen++
	s.inFlight = true
	s.state = State{Phase: PhaseAnalyzing, Filename: s.state.Filename}
	return s.gen, nil
}

// StartRun records an upload and begins its call in one transition, refusing
// with ErrBusy while another call is outstanding. This is the surface-trigger
// path: one request at a time, later requests wait or retry.
func (s *Session) StartRun(filename string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return 0, ErrBusy
	}
	s.gen++
	s.inFlight = true
	s.state = State{Phase: PhaseAnalyzing, Filename: filename}
	return s.gen, nil
}

// Complete applies a successful result. A stale token (the user moved on) is
// dropped silently and the current state is returned untouched.
func (s *Session) Complete(tok Token, r *models.Report) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.gen {
		return s.state
	}
	s.inFlight = false
	s.state = State{Phase: PhaseReportReady, Filename: s.state.Filename, Report: r}
	return s.state
}

// Fail applies a failed result under the same staleness rule. The surface
// becomes retryable: no automatic retry happens here or anywhere else.
func (s *Session) Fail(tok Token, err error) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.gen {
		return s.state
	}
	s.inFlight = false
	s.state = State{Phase: PhaseFailed, Filename: s.state.Filename, Err: err}
	return s.state
}

// Reset discards the document and report and returns to idle. In-flight
// completions for the old context become stale.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.inFlight = false
	s.state = State{Phase: PhaseIdle}
	return s.state
}
