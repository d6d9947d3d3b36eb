package chat

import "sync"

// Conversation holds the ordered transcript and is the single source of
// truth read by callers. All protocol-driven mutation happens on the one
// goroutine consuming stream events; the lock exists so read-side callers
// (display, CLI) can take snapshots at any time.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
	subs     []func([]Message)
}

func NewConversation() *Conversation {
	return &Conversation{}
}

// Subscribe registers a callback invoked with a full transcript snapshot
// after every mutation. Callbacks run on the mutating goroutine and must
// not call back into the store's mutation methods.
func (c *Conversation) Subscribe(fn func([]Message)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// AddUserMessage appends a frozen user message and returns it
func (c *Conversation) AddUserMessage(text string) Message {
	msg := NewUserMessage(text)

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()

	c.publish()
	return msg
}

// InitializeAssistantMessage creates a new streaming assistant shell and
// returns its id. It is the sole mutation target until finalized; any
// message still marked streaming is finalized first so that at most one
// message streams at a time.
func (c *Conversation) InitializeAssistantMessage() string {
	msg := NewAssistantShell()

	c.mu.Lock()
	for i := range c.messages {
		if c.messages[i].IsStreaming {
			c.messages[i].IsStreaming = false
			closeOpenChunk(&c.messages[i])
		}
	}
	c.messages = append(c.messages, msg)
	c.mu.Unlock()

	c.publish()
	return msg.ID
}

// AppendStep appends an intermediate step to the given message. Consecutive
// thought chunks coalesce into the single open chunk; a step of any other
// kind closes it, and the next thought chunk opens a fresh one.
func (c *Conversation) AppendStep(messageID string, step IntermediateStep) {
	c.mu.Lock()
	msg := c.find(messageID)
	if msg == nil {
		c.mu.Unlock()
		return
	}

	if step.Kind == StepThoughtChunk {
		if n := len(msg.Steps); n > 0 && msg.Steps[n-1].Kind == StepThoughtChunk && msg.Steps[n-1].Open {
			msg.Steps[n-1].Content += step.Content
			c.mu.Unlock()
			c.publish()
			return
		}
		step.Open = true
	} else {
		closeOpenChunk(msg)
	}

	msg.Steps = append(msg.Steps, step)
	c.mu.Unlock()
	c.publish()
}

// UpdateMessage applies a pure transformation to the identified message
// and republishes the transcript. The updater must not retain the message.
func (c *Conversation) UpdateMessage(messageID string, update func(Message) Message) {
	c.mu.Lock()
	msg := c.find(messageID)
	if msg == nil {
		c.mu.Unlock()
		return
	}
	*msg = update(*msg)
	c.mu.Unlock()
	c.publish()
}

// Finalize irreversibly clears the streaming flag and closes any open
// thought chunk.
func (c *Conversation) Finalize(messageID string) {
	c.mu.Lock()
	msg := c.find(messageID)
	if msg == nil {
		c.mu.Unlock()
		return
	}
	msg.IsStreaming = false
	closeOpenChunk(msg)
	c.mu.Unlock()
	c.publish()
}

// Messages returns a snapshot copy of the transcript
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return snapshot(c.messages)
}

// Len returns the number of messages in the transcript
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// StreamingID returns the id of the currently streaming message, if any
func (c *Conversation) StreamingID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.messages {
		if c.messages[i].IsStreaming {
			return c.messages[i].ID, true
		}
	}
	return "", false
}

// Clear empties the transcript; used when a new conversation starts
func (c *Conversation) Clear() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
	c.publish()
}

func (c *Conversation) find(id string) *Message {
	for i := range c.messages {
		if c.messages[i].ID == id {
			return &c.messages[i]
		}
	}
	return nil
}

func (c *Conversation) publish() {
	c.mu.RLock()
	snap := snapshot(c.messages)
	subs := make([]func([]Message), len(c.subs))
	copy(subs, c.subs)
	c.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func closeOpenChunk(msg *Message) {
	if n := len(msg.Steps); n > 0 && msg.Steps[n-1].Open {
		msg.Steps[n-1].Open = false
	}
}

// snapshot deep-copies the step and tool-call slices so subscribers never
// observe in-place mutation.
func snapshot(messages []Message) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	for i := range out {
		if len(out[i].Steps) > 0 {
			steps := make([]IntermediateStep, len(out[i].Steps))
			copy(steps, out[i].Steps)
			out[i].Steps = steps
		}
		if len(out[i].ToolCalls) > 0 {
			calls := make([]ToolCall, len(out[i].ToolCalls))
			copy(calls, out[i].ToolCalls)
			out[i].ToolCalls = calls
		}
	}
	return out
}
