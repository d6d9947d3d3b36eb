package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/courtside/courtside/pkg/league"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	tableRowStyle    = lipgloss.NewStyle().Foreground(colorFg)
)

// RenderStandings prints the standings as a fixed-width table.
func RenderStandings(w io.Writer, standings *league.StandingsResponse) {
	fmt.Fprintln(w, tableHeaderStyle.Render(fmt.Sprintf("%-6s %-5s %-5s %-6s %-5s %s",
		"TEAM", "W", "L", "PCT", "GB", "STRK")))
	for _, row := range standings.Rows {
		line := fmt.Sprintf("%-6s %-5d %-5d %.3f  %-5.1f %s",
			row.Team.Abbreviation, row.Wins, row.Losses, row.WinPct, row.GamesBack, row.Streak)
		fmt.Fprintln(w, tableRowStyle.Render(line))
	}
}

// RenderRoster prints a team roster with per-game averages.
func RenderRoster(w io.Writer, roster *league.RosterResponse) {
	fmt.Fprintln(w, tableHeaderStyle.Render(roster.Team.Name))
	fmt.Fprintln(w, tableHeaderStyle.Render(fmt.Sprintf("%-22s %-4s %-4s %-6s %-6s %s",
		"PLAYER", "POS", "NO", "PPG", "RPG", "APG")))
	for _, p := range roster.Players {
		line := fmt.Sprintf("%-22s %-4s %-4d %-6.1f %-6.1f %.1f",
			p.Name, p.Position, p.Number, p.PPG, p.RPG, p.APG)
		fmt.Fprintln(w, tableRowStyle.Render(line))
	}
}

// RenderBoxScore prints both teams' player lines for one game.
func RenderBoxScore(w io.Writer, box *league.BoxScoreResponse) {
	title := fmt.Sprintf("%s %d - %s %d (%s)",
		box.Game.AwayTeam, box.Game.AwayScore, box.Game.HomeTeam, box.Game.HomeScore, box.Game.Status)
	fmt.Fprintln(w, tableHeaderStyle.Render(title))

	renderLines := func(team string, lines []league.PlayerLine) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintln(w, tableHeaderStyle.Render(team))
		fmt.Fprintln(w, tableHeaderStyle.Render(fmt.Sprintf("%-22s %-7s %-5s %-5s %-5s %s",
			"PLAYER", "MIN", "PTS", "REB", "AST", "+/-")))
		for _, l := range lines {
			line := fmt.Sprintf("%-22s %-7s %-5d %-5d %-5d %+d",
				l.Player, l.Minutes, l.Points, l.Rebounds, l.Assists, l.Plus)
			fmt.Fprintln(w, tableRowStyle.Render(line))
		}
	}

	renderLines(box.Game.AwayTeam, box.AwayLines)
	renderLines(box.Game.HomeTeam, box.HomeLines)
}
