package headless

import (
	"context"
	"fmt"
	"os"

	"github.com/courtside/courtside/pkg/config"
	"github.com/courtside/courtside/pkg/controllers"
)

// RunHeadless executes a single prompt and exits. This is the entry point
// for scripted use: the turn streams to stdout and a failed turn surfaces
// as a non-nil error for a non-zero exit.
func RunHeadless(session *controllers.SessionController, prompt string) error {
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty in headless mode")
	}

	settings := config.Get()
	runner, err := newRunner(session, os.Stdout, settings.ShowSteps)
	if err != nil {
		return fmt.Errorf("failed to initialize headless mode: %w", err)
	}

	return runner.run(context.Background(), prompt)
}
