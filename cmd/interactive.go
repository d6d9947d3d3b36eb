package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/courtside/courtside/pkg/config"
	"github.com/courtside/courtside/pkg/controllers"
	"github.com/courtside/courtside/pkg/display"
	"github.com/courtside/courtside/pkg/league"
	"github.com/courtside/courtside/pkg/logger"
)

// runInteractive reads prompts from stdin until /quit. Slash commands hit
// the league API directly; everything else goes through the agent.
func runInteractive(session *controllers.SessionController, lookups *league.Client, firstPrompt string) error {
	settings := config.Get()
	renderer, err := display.NewRenderer(os.Stdout, settings.ShowSteps)
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}
	renderer.Attach(session.Store())

	ctx := context.Background()
	if status := lookups.CheckHealth(ctx); !status.Available {
		fmt.Fprintf(os.Stderr, "warning: league API unavailable: %v\n", status.Error)
	}

	if firstPrompt != "" {
		submitAndRender(ctx, session, renderer, firstPrompt)
	}

	fmt.Println("courtside: ask about rosters, standings, schedules or box scores.")
	fmt.Println("commands: /standings, /roster <team>, /box <game-id>, /new, /quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(ctx, session, lookups, line); quit {
				return scanner.Err()
			}
			continue
		}

		submitAndRender(ctx, session, renderer, line)
	}
	session.Cancel()
	return scanner.Err()
}

func submitAndRender(ctx context.Context, session *controllers.SessionController, renderer *display.Renderer, prompt string) {
	if err := session.Submit(ctx, prompt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	session.Wait()

	messages := session.Store().Messages()
	if len(messages) > 0 {
		renderer.RenderFinal(messages[len(messages)-1])
	}
}

// runCommand handles one slash command; returns true on /quit.
func runCommand(ctx context.Context, session *controllers.SessionController, lookups *league.Client, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		session.Cancel()
		return true

	case "/new":
		id := session.NewConversation()
		logger.Info("started new conversation %s", id)
		fmt.Println("started a new conversation")

	case "/standings":
		standings, err := lookups.Standings(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		display.RenderStandings(os.Stdout, standings)

	case "/roster":
		if len(fields) < 2 {
			fmt.Println("usage: /roster <team>")
			return false
		}
		roster, err := lookups.Roster(ctx, fields[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		display.RenderRoster(os.Stdout, roster)

	case "/box":
		if len(fields) < 2 {
			fmt.Println("usage: /box <game-id>")
			return false
		}
		box, err := lookups.BoxScore(ctx, fields[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		display.RenderBoxScore(os.Stdout, box)

	default:
		fmt.Printf("unknown command %s\n", fields[0])
	}
	return false
}
