package chat

import "time"

// Step kinds for the intermediate narration attached to an assistant turn.
const (
	StepToolCall     = "tool_call"
	StepToolResult   = "tool_result"
	StepSystemEvent  = "system_event"
	StepThoughtChunk = "thought_chunk"
	StepErrorEvent   = "error_event"
)

// IntermediateStep is one entry of an assistant turn's progress trail,
// discriminated by Kind. Steps never mutate retroactively once appended,
// with a single exception: the currently open thought chunk, which accepts
// incremental appends until a step of any other kind closes it.
type IntermediateStep struct {
	Kind      string         `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	Content   string         `json:"content,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
	ToolArgs  map[string]any `json:"tool_args,omitempty"`
	CallID    string         `json:"call_id,omitempty"`
	Node      string         `json:"node,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`

	// Open is true only on a thought chunk still accepting appends
	Open bool `json:"-"`
}

func NewToolCallStep(callID, name string, args map[string]any) IntermediateStep {
	return IntermediateStep{
		Kind:      StepToolCall,
		Timestamp: time.Now(),
		CallID:    callID,
		ToolName:  name,
		ToolArgs:  args,
	}
}

func NewToolResultStep(callID, name, content string, isError bool) IntermediateStep {
	return IntermediateStep{
		Kind:      StepToolResult,
		Timestamp: time.Now(),
		CallID:    callID,
		ToolName:  name,
		Content:   content,
		IsError:   isError,
	}
}

func NewSystemEventStep(label, node string) IntermediateStep {
	return IntermediateStep{
		Kind:      StepSystemEvent,
		Timestamp: time.Now(),
		Content:   label,
		Node:      node,
	}
}

func NewThoughtChunkStep(content string) IntermediateStep {
	return IntermediateStep{
		Kind:      StepThoughtChunk,
		Timestamp: time.Now(),
		Content:   content,
		Open:      true,
	}
}

func NewErrorEventStep(description string) IntermediateStep {
	return IntermediateStep{
		Kind:      StepErrorEvent,
		Timestamp: time.Now(),
		Content:   description,
		IsError:   true,
	}
}
