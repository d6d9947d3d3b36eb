package stream

import "time"

// Named event types emitted by the reasoning agent over one stream.
const (
	EventNodeUpdate    = "node_update"
	EventMessage       = "message"
	EventThoughtStream = "thought_stream"
	EventFinalAnswer   = "final_answer"
	EventGraphEnd      = "graph_end"
	EventError         = "error"
	EventCustomData    = "custom_data"
)

// Message payload subtypes carried inside a "message" event.
const (
	MessageToolCall   = "tool_call"
	MessageToolResult = "tool_result"
	MessageAI         = "ai"
)

// Frame is one named event received from the agent stream. Data holds the
// raw JSON body; parsing happens at the router boundary, not here. A frame
// with a non-nil Err reports a connection-level failure and is always the
// last frame delivered before the channel closes.
type Frame struct {
	Event     string
	Data      []byte
	Timestamp time.Time
	Err       error
}

// Params carries the per-request query parameters of a stream connection.
type Params struct {
	Query    string
	ThreadID string
	UserID   string
}
