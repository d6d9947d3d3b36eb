package controllers

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/courtside/courtside/pkg/chat"
	"github.com/courtside/courtside/pkg/stream"
)

// fakeTransport hands Submit a channel the test feeds by hand. Disconnect
// closes the live channel, mirroring the real transport's teardown.
type fakeTransport struct {
	mu         sync.Mutex
	frames     chan stream.Frame
	calls      []string
	params     []stream.Params
	connectErr error
}

func (f *fakeTransport) Connect(_ context.Context, params stream.Params) (<-chan stream.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "connect")
	f.params = append(f.params, params)
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	f.frames = make(chan stream.Frame, 32)
	return f.frames, nil
}

func (f *fakeTransport) Disconnect(final bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "disconnect")
	if f.frames != nil {
		close(f.frames)
		f.frames = nil
	}
}

func (f *fakeTransport) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames != nil
}

func (f *fakeTransport) send(event, body string) {
	f.mu.Lock()
	ch := f.frames
	f.mu.Unlock()
	ch <- stream.Frame{Event: event, Data: []byte(body), Timestamp: time.Now()}
}

func (f *fakeTransport) sendErr(err error) {
	f.mu.Lock()
	ch := f.frames
	f.mu.Unlock()
	ch <- stream.Frame{Err: err}
}

func (f *fakeTransport) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var _ = Describe("SessionController", func() {
	var (
		transport *fakeTransport
		session   *SessionController
	)

	BeforeEach(func() {
		transport = &fakeTransport{}
		session = NewSessionController(transport, "scout-7")
	})

	assistant := func() chat.Message {
		msgs := session.Store().Messages()
		Expect(msgs).NotTo(BeEmpty())
		return msgs[len(msgs)-1]
	}

	Describe("a full turn", func() {
		It("plays a complete stream into one assistant message", func() {
			Expect(session.Submit(context.Background(), "who are the top Hawks players?")).To(Succeed())
			Expect(session.Loading()).To(BeTrue())
			Expect(session.ActiveMessageID()).NotTo(BeEmpty())

			transport.send(stream.EventThoughtStream, `{"content":"Looking up the roster"}`)
			transport.send(stream.EventThoughtStream, `{"content":" for Atlanta."}`)
			transport.send(stream.EventMessage,
				`{"type":"tool_call","id":"call-1","name":"get_roster","arguments":{"team":"ATL"}}`)
			transport.send(stream.EventMessage,
				`{"type":"tool_result","tool_call_id":"call-1","name":"get_roster","content":"Young, Johnson, Daniels, Okongwu, Risacher"}`)
			transport.send(stream.EventFinalAnswer, `{"content":"The roster has 5 notable players."}`)
			transport.send(stream.EventGraphEnd, `{}`)
			session.Wait()

			msg := assistant()
			Expect(msg.IsStreaming).To(BeFalse())
			Expect(msg.Content).To(Equal("The roster has 5 notable players."))
			Expect(msg.Status).To(Equal(chat.StatusComplete))

			Expect(msg.Steps).To(HaveLen(3))
			Expect(msg.Steps[0].Kind).To(Equal(chat.StepThoughtChunk))
			Expect(msg.Steps[0].Content).To(Equal("Looking up the roster for Atlanta."))
			Expect(msg.Steps[1].Kind).To(Equal(chat.StepToolCall))
			Expect(msg.Steps[2].Kind).To(Equal(chat.StepToolResult))

			Expect(session.State()).To(Equal(StateFinalized))
			Expect(session.Loading()).To(BeFalse())
			Expect(transport.Connected()).To(BeFalse())
		})

		It("passes the prompt, thread id and user id to the transport", func() {
			Expect(session.Submit(context.Background(), "standings please")).To(Succeed())
			transport.send(stream.EventNodeUpdate, `{"thread_id":"t-42","node":"planner"}`)
			transport.send(stream.EventGraphEnd, `{}`)
			session.Wait()

			Expect(session.Submit(context.Background(), "and the west?")).To(Succeed())
			transport.send(stream.EventGraphEnd, `{}`)
			session.Wait()

			transport.mu.Lock()
			params := append([]stream.Params(nil), transport.params...)
			transport.mu.Unlock()

			Expect(params[0].Query).To(Equal("standings please"))
			Expect(params[0].ThreadID).To(BeEmpty())
			Expect(params[0].UserID).To(Equal("scout-7"))
			Expect(params[1].ThreadID).To(Equal("t-42"))
		})
	})

	Describe("a failed turn", func() {
		It("surfaces a backend error and tears the stream down", func() {
			Expect(session.Submit(context.Background(), "box score")).To(Succeed())
			transport.send(stream.EventThoughtStream, `{"content":"fetching"}`)
			transport.send(stream.EventError, `{"error":"backend timeout"}`)
			session.Wait()

			msg := assistant()
			Expect(msg.Status).To(Equal(chat.StatusError))
			Expect(msg.Error).To(Equal("backend timeout"))
			Expect(msg.IsStreaming).To(BeFalse())

			errSteps := 0
			for _, step := range msg.Steps {
				if step.Kind == chat.StepErrorEvent {
					errSteps++
				}
			}
			Expect(errSteps).To(Equal(1))

			Expect(session.State()).To(Equal(StateErrored))
			Expect(session.Err()).To(Equal("backend timeout"))
			Expect(transport.Connected()).To(BeFalse())
		})

		It("reports a connect failure on the assistant message", func() {
			transport.connectErr = errors.New("dial tcp: connection refused")
			Expect(session.Submit(context.Background(), "roster")).NotTo(Succeed())

			msg := assistant()
			Expect(msg.Status).To(Equal(chat.StatusError))
			Expect(msg.IsStreaming).To(BeFalse())
			Expect(session.State()).To(Equal(StateErrored))
			Expect(session.ActiveMessageID()).To(BeEmpty())
		})

		It("treats an unexpected stream drop as an error", func() {
			Expect(session.Submit(context.Background(), "roster")).To(Succeed())
			transport.sendErr(errors.New("read: connection reset"))
			session.Wait()

			Expect(session.State()).To(Equal(StateErrored))
			Expect(session.Err()).To(ContainSubstring("connection reset"))
			Expect(assistant().IsStreaming).To(BeFalse())
		})

		It("treats a close without graph_end as an error", func() {
			Expect(session.Submit(context.Background(), "roster")).To(Succeed())
			transport.send(stream.EventThoughtStream, `{"content":"working"}`)
			transport.Disconnect(false)
			session.Wait()

			Expect(session.State()).To(Equal(StateErrored))
			Expect(session.Err()).To(ContainSubstring("closed unexpectedly"))
		})

		It("stays silent when the drop follows graph_end", func() {
			Expect(session.Submit(context.Background(), "roster")).To(Succeed())
			transport.send(stream.EventGraphEnd, `{}`)
			session.Wait()

			Expect(session.State()).To(Equal(StateFinalized))
			Expect(session.Err()).To(BeEmpty())
		})
	})

	Describe("resubmission", func() {
		It("tears down the old stream before opening the new one", func() {
			Expect(session.Submit(context.Background(), "first")).To(Succeed())
			firstID := session.ActiveMessageID()
			transport.send(stream.EventThoughtStream, `{"content":"still going"}`)

			Expect(session.Submit(context.Background(), "second")).To(Succeed())
			secondID := session.ActiveMessageID()
			Expect(secondID).NotTo(Equal(firstID))

			calls := transport.callLog()
			lastConnect := -1
			for i, c := range calls {
				if c == "connect" {
					lastConnect = i
				}
			}
			Expect(calls[:lastConnect]).To(ContainElement("disconnect"))

			// The first message is frozen; only the new one streams.
			streaming := 0
			for _, m := range session.Store().Messages() {
				if m.IsStreaming {
					streaming++
					Expect(m.ID).To(Equal(secondID))
				}
			}
			Expect(streaming).To(Equal(1))

			transport.send(stream.EventFinalAnswer, `{"content":"second answer"}`)
			transport.send(stream.EventGraphEnd, `{}`)
			session.Wait()
			Expect(assistant().Content).To(Equal("second answer"))
		})
	})

	Describe("Cancel", func() {
		It("freezes the turn without recording an error", func() {
			Expect(session.Submit(context.Background(), "roster")).To(Succeed())
			transport.send(stream.EventThoughtStream, `{"content":"working"}`)
			session.Cancel()

			Expect(session.State()).To(Equal(StateCancelled))
			Expect(session.Err()).To(BeEmpty())
			Expect(session.Loading()).To(BeFalse())
			Expect(assistant().IsStreaming).To(BeFalse())
			Expect(assistant().Error).To(BeEmpty())
			Expect(transport.Connected()).To(BeFalse())
		})

		It("is safe to call repeatedly and when idle", func() {
			session.Cancel()
			Expect(session.Submit(context.Background(), "roster")).To(Succeed())
			session.Cancel()
			session.Cancel()
			Expect(session.State()).To(Equal(StateCancelled))
		})
	})

	Describe("NewConversation", func() {
		It("clears the transcript and issues a fresh thread id", func() {
			Expect(session.Submit(context.Background(), "first")).To(Succeed())
			transport.send(stream.EventNodeUpdate, `{"thread_id":"t-1","node":"planner"}`)
			transport.send(stream.EventGraphEnd, `{}`)
			session.Wait()
			Expect(session.ThreadID()).To(Equal("t-1"))

			fresh := session.NewConversation()
			Expect(fresh).NotTo(BeEmpty())
			Expect(fresh).NotTo(Equal("t-1"))
			Expect(session.ThreadID()).To(Equal(fresh))
			Expect(session.Store().Len()).To(BeZero())
			Expect(session.State()).To(Equal(StateIdle))
		})

		It("cancels an in-flight turn first", func() {
			Expect(session.Submit(context.Background(), "first")).To(Succeed())
			session.NewConversation()
			Expect(transport.Connected()).To(BeFalse())
			Expect(session.Store().Len()).To(BeZero())
		})
	})
})
