package league

// Player is one roster entry as served by the league data API.
type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Number   int     `json:"number"`
	Height   string  `json:"height"`
	PPG      float64 `json:"ppg"`
	RPG      float64 `json:"rpg"`
	APG      float64 `json:"apg"`
}

type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

type RosterResponse struct {
	Team    Team     `json:"team"`
	Players []Player `json:"players"`
}

type StandingsRow struct {
	Team       Team    `json:"team"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinPct     float64 `json:"win_pct"`
	GamesBack  float64 `json:"games_back"`
	Streak     string  `json:"streak"`
	Conference string  `json:"conference"`
}

type StandingsResponse struct {
	Season string         `json:"season"`
	Rows   []StandingsRow `json:"rows"`
}

type Game struct {
	ID        string `json:"id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Status    string `json:"status"`
	Tipoff    string `json:"tipoff"`
}

type ScheduleResponse struct {
	Team  string `json:"team"`
	Games []Game `json:"games"`
}

type PlayerLine struct {
	Player   string  `json:"player"`
	Minutes  string  `json:"minutes"`
	Points   int     `json:"points"`
	Rebounds int     `json:"rebounds"`
	Assists  int     `json:"assists"`
	Plus     int     `json:"plus_minus"`
	FGPct    float64 `json:"fg_pct"`
}

type BoxScoreResponse struct {
	Game      Game         `json:"game"`
	HomeLines []PlayerLine `json:"home_lines"`
	AwayLines []PlayerLine `json:"away_lines"`
}
