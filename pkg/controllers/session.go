package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/courtside/courtside/pkg/chat"
	"github.com/courtside/courtside/pkg/logger"
	"github.com/courtside/courtside/pkg/stream"
)

// Transport delivers named event frames from the agent backend.
type Transport interface {
	Connect(ctx context.Context, params stream.Params) (<-chan stream.Frame, error)
	Disconnect(final bool)
	Connected() bool
}

// SessionController owns one conversation with the reasoning agent: it
// submits prompts, consumes the resulting event stream through the router,
// and guarantees at most one live connection and one streaming assistant
// message at a time.
type SessionController struct {
	transport Transport
	store     *chat.Conversation
	thread    *chat.ThreadIdentity
	life      *Lifecycle
	router    *Router
	userID    string

	mu              sync.Mutex
	activeMessageID string
	done            chan struct{}
}

func NewSessionController(transport Transport, userID string) *SessionController {
	store := chat.NewConversation()
	thread := chat.NewThreadIdentity()
	life := NewLifecycle()
	return &SessionController{
		transport: transport,
		store:     store,
		thread:    thread,
		life:      life,
		router:    NewRouter(store, thread, life),
		userID:    userID,
	}
}

// Submit sends a prompt to the agent and starts consuming its stream. Any
// in-flight turn is torn down synchronously before the new connection is
// opened, so the old stream can never write into the new assistant message.
func (s *SessionController) Submit(ctx context.Context, prompt string) error {
	if prompt == "" {
		return fmt.Errorf("empty prompt")
	}

	s.mu.Lock()
	s.teardownLocked()

	s.store.AddUserMessage(prompt)
	s.life.BeginRequest()
	messageID := s.store.InitializeAssistantMessage()
	s.activeMessageID = messageID

	frames, err := s.transport.Connect(ctx, stream.Params{
		Query:    prompt,
		ThreadID: s.thread.CurrentID(),
		UserID:   s.userID,
	})
	if err != nil {
		s.activeMessageID = ""
		s.mu.Unlock()
		s.failTurn(messageID, fmt.Sprintf("connection failed: %v", err))
		return err
	}

	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	go s.consume(frames, messageID, done)
	return nil
}

// consume is the single reader of one stream's frame channel. It exits on
// a terminal event, a connection failure, or channel close.
func (s *SessionController) consume(frames <-chan stream.Frame, messageID string, done chan struct{}) {
	finalClose := false
	defer close(done)
	defer func() { s.transport.Disconnect(finalClose) }()

	for frame := range frames {
		if frame.Err != nil {
			s.handleConnectionFailure(messageID, frame.Err)
			return
		}

		switch s.router.Handle(frame, messageID) {
		case OutcomeFinalized:
			logger.Debug("stream finalized for message %s", messageID)
			finalClose = true
			return
		case OutcomeErrored:
			logger.Debug("stream errored for message %s", messageID)
			return
		}
	}

	// Channel closed without a terminal event. Intentional closes and
	// post-graph_end closes are silent; anything else is a dropped stream.
	if s.life.ClosedIntentionally() || s.life.GraphEnded() {
		finalClose = s.life.GraphEnded()
		s.life.StopLoading()
		s.store.Finalize(messageID)
		return
	}
	s.handleConnectionFailure(messageID, fmt.Errorf("stream closed unexpectedly"))
}

func (s *SessionController) handleConnectionFailure(messageID string, err error) {
	if s.life.ClosedIntentionally() || s.life.GraphEnded() {
		logger.Debug("ignoring connection failure after close: %v", err)
		s.life.StopLoading()
		s.store.Finalize(messageID)
		return
	}
	logger.Error("stream connection failed: %v", err)
	s.failTurn(messageID, fmt.Sprintf("connection lost: %v", err))
}

func (s *SessionController) failTurn(messageID, errMsg string) {
	s.life.Fail(errMsg)
	s.store.AppendStep(messageID, chat.NewErrorEventStep(errMsg))
	s.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
		m.Status = chat.StatusError
		m.Error = errMsg
		return m
	})
	s.store.Finalize(messageID)
}

// teardownLocked cancels the in-flight turn and waits for its consumer to
// exit. Caller holds s.mu; the consumer never takes it, so waiting here is
// safe.
func (s *SessionController) teardownLocked() {
	if s.done == nil {
		return
	}
	s.life.CancelRequest()
	s.transport.Disconnect(false)
	<-s.done
	s.done = nil
	s.activeMessageID = ""
}

// Cancel stops the in-flight turn, if any. Safe to call repeatedly.
func (s *SessionController) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

// NewConversation discards the transcript and thread identity and returns
// the provisional id of the fresh thread.
func (s *SessionController) NewConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.store.Clear()
	s.life.Reset()
	return s.thread.NewThread()
}

// Wait blocks until the current turn's consumer loop exits. Returns
// immediately when no turn is in flight.
func (s *SessionController) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *SessionController) Store() *chat.Conversation { return s.store }

func (s *SessionController) ThreadID() string { return s.thread.CurrentID() }

func (s *SessionController) Loading() bool { return s.life.Loading() }

func (s *SessionController) Err() string { return s.life.Err() }

func (s *SessionController) State() string { return s.life.State() }

func (s *SessionController) ActiveMessageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeMessageID
}
