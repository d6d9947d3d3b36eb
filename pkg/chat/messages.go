package chat

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message status values for an assistant turn.
const (
	StatusThinking    = "thinking"
	StatusToolCalling = "tool_calling"
	StatusComplete    = "complete"
	StatusError       = "error"
)

// ToolCall records one tool invocation made by the agent during a turn.
// The paired result is attached by correlation id, never merged in place.
type ToolCall struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Status    string         `json:"status,omitempty"`
	Result    string         `json:"result,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
}

// Message is one conversational turn. Assistant messages start as an empty
// streaming shell and are mutated by the event router until a terminal
// event freezes them.
type Message struct {
	ID          string             `json:"id"`
	Role        string             `json:"role"`
	Content     string             `json:"content"`
	IsStreaming bool               `json:"is_streaming"`
	Status      string             `json:"status,omitempty"`
	Error       string             `json:"error,omitempty"`
	Steps       []IntermediateStep `json:"intermediate_steps,omitempty"`
	ToolCalls   []ToolCall         `json:"tool_calls,omitempty"`
	LLMOutput   string             `json:"llm_output,omitempty"`
	DataType    string             `json:"data_type,omitempty"`
	DataPayload json.RawMessage    `json:"data_payload,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Status:    StatusComplete,
		Timestamp: time.Now(),
	}
}

// NewAssistantShell creates the empty streaming assistant message opened
// at stream-open time.
func NewAssistantShell() Message {
	return Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		IsStreaming: true,
		Status:      StatusThinking,
		Timestamp:   time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// HasData reports whether a structured payload is attached; it takes
// display precedence over Content.
func (m Message) HasData() bool {
	return m.DataType != "" && len(m.DataPayload) > 0
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}
