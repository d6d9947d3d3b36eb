package controllers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/courtside/courtside/pkg/chat"
	"github.com/courtside/courtside/pkg/logger"
	"github.com/courtside/courtside/pkg/stream"
)

// Outcome tells the consumer loop whether an event ended the stream.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeFinalized
	OutcomeErrored
)

// Router parses raw event payloads and applies them to the conversation
// store and lifecycle. Parse failures are logged and dropped; nothing
// escapes Handle, so one malformed event never kills the consumer loop.
type Router struct {
	store  *chat.Conversation
	thread *chat.ThreadIdentity
	life   *Lifecycle
}

func NewRouter(store *chat.Conversation, thread *chat.ThreadIdentity, life *Lifecycle) *Router {
	return &Router{store: store, thread: thread, life: life}
}

// Handle dispatches one frame to its handler and reports the outcome.
func (r *Router) Handle(frame stream.Frame, messageID string) (outcome Outcome) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("event handler panic on %q: %v", frame.Event, p)
			outcome = OutcomeContinue
		}
	}()

	switch frame.Event {
	case stream.EventNodeUpdate:
		return r.handleNodeUpdate(frame.Data, messageID)
	case stream.EventMessage:
		return r.handleMessage(frame.Data, messageID)
	case stream.EventThoughtStream:
		return r.handleThought(frame.Data, messageID)
	case stream.EventFinalAnswer:
		return r.handleFinalAnswer(frame.Data, messageID)
	case stream.EventGraphEnd:
		return r.handleGraphEnd(messageID)
	case stream.EventError:
		return r.handleError(frame.Data, messageID)
	case stream.EventCustomData:
		return r.handleCustomData(frame.Data, messageID)
	default:
		logger.Debug("dropping event with unknown name %q", frame.Event)
		return OutcomeContinue
	}
}

type nodeUpdatePayload struct {
	ThreadID string `json:"thread_id"`
	Node     string `json:"node"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

func (r *Router) handleNodeUpdate(data []byte, messageID string) Outcome {
	var payload nodeUpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Warn("dropping malformed node_update payload: %v", err)
		return OutcomeContinue
	}

	if r.thread.Adopt(payload.ThreadID) {
		logger.Debug("adopted thread id %s", payload.ThreadID)
	}

	label := payload.Message
	if label == "" {
		label = payload.Status
	}
	r.store.AppendStep(messageID, chat.NewSystemEventStep(label, payload.Node))
	return OutcomeContinue
}

type messagePayload struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Arguments  map[string]any `json:"arguments"`
	Content    string         `json:"content"`
	ToolCallID string         `json:"tool_call_id"`
	IsError    *bool          `json:"is_error"`
}

func (r *Router) handleMessage(data []byte, messageID string) Outcome {
	var payload messagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Warn("dropping malformed message payload: %v", err)
		return OutcomeContinue
	}

	switch payload.Type {
	case stream.MessageToolCall:
		r.store.AppendStep(messageID, chat.NewToolCallStep(payload.ID, payload.Name, payload.Arguments))
		r.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
			m.Status = chat.StatusToolCalling
			m.ToolCalls = append(m.ToolCalls, chat.ToolCall{
				ID:        payload.ID,
				Name:      payload.Name,
				Arguments: payload.Arguments,
				Status:    "running",
			})
			return m
		})
	case stream.MessageToolResult:
		isError := resultIsError(payload)
		r.store.AppendStep(messageID, chat.NewToolResultStep(payload.ToolCallID, payload.Name, payload.Content, isError))
		r.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
			for i := range m.ToolCalls {
				if toolCallMatches(m.ToolCalls[i], payload) {
					m.ToolCalls[i].Result = payload.Content
					m.ToolCalls[i].IsError = isError
					m.ToolCalls[i].Status = "complete"
					if isError {
						m.ToolCalls[i].Status = "error"
					}
					break
				}
			}
			return m
		})
	case stream.MessageAI:
		r.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
			m.LLMOutput = payload.Content
			return m
		})
	default:
		logger.Debug("dropping message event with unknown subtype %q", payload.Type)
	}
	return OutcomeContinue
}

// toolCallMatches correlates a result with its call by id, falling back to
// the first unresolved call with the same tool name.
func toolCallMatches(call chat.ToolCall, payload messagePayload) bool {
	if payload.ToolCallID != "" {
		return call.ID == payload.ToolCallID
	}
	return call.Name == payload.Name && call.Status == "running"
}

// resultIsError derives the error flag from the explicit field when
// present, otherwise from content shape.
func resultIsError(payload messagePayload) bool {
	if payload.IsError != nil {
		return *payload.IsError
	}
	if gjson.Valid(payload.Content) && gjson.Get(payload.Content, "error").Exists() {
		return true
	}
	lower := strings.ToLower(payload.Content)
	return strings.HasPrefix(lower, "error:") || strings.HasPrefix(lower, "error -")
}

type thoughtPayload struct {
	Content string `json:"content"`
}

func (r *Router) handleThought(data []byte, messageID string) Outcome {
	var payload thoughtPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Warn("dropping malformed thought_stream payload: %v", err)
		return OutcomeContinue
	}
	if payload.Content == "" {
		return OutcomeContinue
	}

	r.store.AppendStep(messageID, chat.NewThoughtChunkStep(payload.Content))
	r.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
		m.Status = chat.StatusThinking
		return m
	})
	return OutcomeContinue
}

type finalAnswerPayload struct {
	Content string `json:"content"`
}

func (r *Router) handleFinalAnswer(data []byte, messageID string) Outcome {
	var payload finalAnswerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Warn("dropping malformed final_answer payload: %v", err)
		return OutcomeContinue
	}

	r.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
		m.Content = payload.Content
		m.Status = chat.StatusComplete
		return m
	})
	// Closes the open thought chunk and stops streaming; the stream itself
	// stays open until graph_end, which is the authoritative closer.
	r.store.Finalize(messageID)
	return OutcomeContinue
}

func (r *Router) handleGraphEnd(messageID string) Outcome {
	r.life.FinishGraph()
	r.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
		if m.Status != chat.StatusError {
			m.Status = chat.StatusComplete
		}
		return m
	})
	r.store.Finalize(messageID)
	return OutcomeFinalized
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (r *Router) handleError(data []byte, messageID string) Outcome {
	if r.life.GraphEnded() {
		logger.Warn("dropping error event received after graph_end")
		return OutcomeContinue
	}

	var payload errorPayload
	errMsg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			errMsg = payload.Error
		} else if payload.Message != "" {
			errMsg = payload.Message
		}
	}

	r.life.Fail(errMsg)
	r.store.AppendStep(messageID, chat.NewErrorEventStep(errMsg))
	r.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
		m.Status = chat.StatusError
		m.Error = errMsg
		return m
	})
	r.store.Finalize(messageID)
	return OutcomeErrored
}

// handleCustomData builds a system event from the structured
// {status, step, message} fields when present and falls back to the
// serialized payload otherwise. A data_type/data pair attaches a
// structured result to the message.
func (r *Router) handleCustomData(data []byte, messageID string) Outcome {
	if !gjson.ValidBytes(data) {
		logger.Warn("dropping malformed custom_data payload")
		return OutcomeContinue
	}

	body := gjson.ParseBytes(data)

	if dataType := body.Get("data_type"); dataType.Exists() {
		if payload := body.Get("data"); payload.Exists() {
			r.store.UpdateMessage(messageID, func(m chat.Message) chat.Message {
				m.DataType = dataType.String()
				m.DataPayload = json.RawMessage(payload.Raw)
				return m
			})
		}
	}

	var parts []string
	for _, field := range []string{"status", "step", "message"} {
		if v := body.Get(field); v.Exists() && v.String() != "" {
			parts = append(parts, v.String())
		}
	}

	label := strings.Join(parts, " | ")
	if label == "" {
		label = fmt.Sprintf("custom_data: %s", strings.TrimSpace(string(data)))
	}
	r.store.AppendStep(messageID, chat.NewSystemEventStep(label, body.Get("node").String()))
	return OutcomeContinue
}
