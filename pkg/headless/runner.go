package headless

import (
	"context"
	"fmt"
	"io"

	"github.com/courtside/courtside/pkg/controllers"
	"github.com/courtside/courtside/pkg/display"
	"github.com/courtside/courtside/pkg/logger"
)

// runner drives one headless turn through the session controller.
type runner struct {
	session  *controllers.SessionController
	renderer *display.Renderer
}

func newRunner(session *controllers.SessionController, out io.Writer, showSteps bool) (*runner, error) {
	renderer, err := display.NewRenderer(out, showSteps)
	if err != nil {
		return nil, err
	}
	renderer.Attach(session.Store())
	return &runner{session: session, renderer: renderer}, nil
}

func (r *runner) run(ctx context.Context, prompt string) error {
	logger.Debug("headless prompt: %s", prompt)

	if err := r.session.Submit(ctx, prompt); err != nil {
		return fmt.Errorf("failed to submit prompt: %w", err)
	}
	r.session.Wait()

	messages := r.session.Store().Messages()
	if len(messages) == 0 {
		return fmt.Errorf("no response received")
	}
	r.renderer.RenderFinal(messages[len(messages)-1])

	switch r.session.State() {
	case controllers.StateErrored:
		return fmt.Errorf("turn failed: %s", r.session.Err())
	case controllers.StateCancelled:
		return fmt.Errorf("turn cancelled")
	}
	logger.Debug("headless turn finished in state %s", r.session.State())
	return nil
}
