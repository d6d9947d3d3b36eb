package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/courtside/courtside/pkg/chat"
	"github.com/courtside/courtside/pkg/logger"
)

// Renderer writes the conversation to a terminal. Attached to a
// conversation it prints intermediate steps as they settle; final answers
// render through glamour as markdown.
type Renderer struct {
	mu        sync.Mutex
	w         io.Writer
	styles    *Styles
	markdown  *glamour.TermRenderer
	showSteps bool

	// steps already printed, keyed by message id
	printed map[string]int
}

func NewRenderer(w io.Writer, showSteps bool) (*Renderer, error) {
	markdown, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build markdown renderer: %w", err)
	}

	return &Renderer{
		w:         w,
		styles:    DefaultStyles(),
		markdown:  markdown,
		showSteps: showSteps,
		printed:   make(map[string]int),
	}, nil
}

// Attach subscribes the renderer to transcript snapshots so intermediate
// steps stream to the terminal while the turn is in flight.
func (r *Renderer) Attach(store *chat.Conversation) {
	store.Subscribe(r.onSnapshot)
}

func (r *Renderer) onSnapshot(messages []chat.Message) {
	if !r.showSteps {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msg := range messages {
		if !msg.IsAssistant() {
			continue
		}
		done := r.printed[msg.ID]
		for i := done; i < len(msg.Steps); i++ {
			step := msg.Steps[i]
			// An open thought chunk is still growing; hold it back until
			// it closes so it prints exactly once.
			if step.Kind == chat.StepThoughtChunk && step.Open {
				break
			}
			fmt.Fprintln(r.w, r.renderStep(step))
			r.printed[msg.ID] = i + 1
		}
	}
}

func (r *Renderer) renderStep(step chat.IntermediateStep) string {
	switch step.Kind {
	case chat.StepThoughtChunk:
		return r.styles.Thought.Render("… " + step.Content)
	case chat.StepToolCall:
		return r.styles.ToolCall.Render(fmt.Sprintf("→ %s(%s)", step.ToolName, formatArgs(step.ToolArgs)))
	case chat.StepToolResult:
		label := "✓"
		if step.IsError {
			label = "✗"
		}
		return r.styles.ToolResult.Render(fmt.Sprintf("%s %s: %s", label, step.ToolName, truncate(step.Content, 200)))
	case chat.StepErrorEvent:
		return r.styles.ErrorNote.Render("error: " + step.Content)
	default:
		label := step.Content
		if step.Node != "" {
			label = fmt.Sprintf("[%s] %s", step.Node, step.Content)
		}
		return r.styles.SystemNote.Render(label)
	}
}

// RenderUser echoes the submitted prompt.
func (r *Renderer) RenderUser(msg chat.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, r.styles.UserPrompt.Render("> "+msg.Content))
}

// RenderFinal prints the completed assistant message: the markdown answer,
// any attached data payload, and the error when the turn failed.
func (r *Renderer) RenderFinal(msg chat.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.Error != "" {
		fmt.Fprintln(r.w, r.styles.ErrorNote.Render("error: "+msg.Error))
		return
	}

	if msg.Content != "" {
		rendered, err := r.markdown.Render(msg.Content)
		if err != nil {
			logger.Warn("markdown render failed, printing raw: %v", err)
			rendered = msg.Content + "\n"
		}
		fmt.Fprint(r.w, r.styles.Answer.Render(rendered))
	}

	if msg.HasData() {
		fmt.Fprintln(r.w, r.styles.DataBlock.Render(formatData(msg.DataType, msg.DataPayload)))
	}
}

func formatData(dataType string, payload json.RawMessage) string {
	var pretty map[string]any
	if err := json.Unmarshal(payload, &pretty); err != nil {
		return fmt.Sprintf("%s: %s", dataType, string(payload))
	}
	out, err := json.MarshalIndent(pretty, "  ", "  ")
	if err != nil {
		return fmt.Sprintf("%s: %s", dataType, string(payload))
	}
	return fmt.Sprintf("%s:\n  %s", dataType, string(out))
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
