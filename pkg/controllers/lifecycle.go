package controllers

import "sync"

// Request states for one submitted prompt.
const (
	StateIdle      = "idle"
	StateStreaming = "streaming"
	StateFinalized = "finalized"
	StateErrored   = "errored"
	StateCancelled = "cancelled"
)

// Lifecycle tracks the loading and error flags for the current request and
// the guard flags used to tell an intentional close from an unexpected
// drop. Transitions out of a terminal state only happen through
// BeginRequest or Reset.
type Lifecycle struct {
	mu                  sync.Mutex
	state               string
	loading             bool
	err                 string
	graphEnded          bool
	closedIntentionally bool
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateIdle}
}

// BeginRequest resets all flags for a fresh submission
func (l *Lifecycle) BeginRequest() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateStreaming
	l.loading = true
	l.err = ""
	l.graphEnded = false
	l.closedIntentionally = false
}

// FinishGraph records the authoritative end of the stream
func (l *Lifecycle) FinishGraph() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graphEnded = true
	l.loading = false
	if l.state == StateStreaming {
		l.state = StateFinalized
	}
}

// Fail records a terminal error. Ignored once the request already reached
// a terminal state, so a late failure never overwrites a clean finish.
func (l *Lifecycle) Fail(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateStreaming {
		return
	}
	l.state = StateErrored
	l.err = msg
	l.loading = false
}

// CancelRequest marks a caller-initiated close. Cancellation is not an
// error; the transcript stays as-is.
func (l *Lifecycle) CancelRequest() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closedIntentionally = true
	if l.state == StateStreaming {
		l.state = StateCancelled
		l.loading = false
	}
}

// StopLoading clears the loading flag without recording an error; used
// when a close was intentional or already accounted for.
func (l *Lifecycle) StopLoading() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
}

// Reset returns the lifecycle to idle; used when a new conversation starts
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateIdle
	l.loading = false
	l.err = ""
	l.graphEnded = false
	l.closedIntentionally = false
}

func (l *Lifecycle) State() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Lifecycle) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *Lifecycle) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Lifecycle) GraphEnded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graphEnded
}

func (l *Lifecycle) ClosedIntentionally() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closedIntentionally
}
