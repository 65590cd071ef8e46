package models

import "github.com/google/uuid"

// StandingsModel is one team's derived row in a league table. It is never
// stored; it is recomputed from the completed matches on every query.
type StandingsModel struct {
	Position      int       `db:"position" json:"position"`
	TeamId        uuid.UUID `db:"team_id" json:"teamId"`
	TeamName      string    `db:"team_name" json:"teamName"`
	LeagueId      uuid.UUID `db:"league_id" json:"leagueId"`
	Gp            int       `db:"gp" json:"gp"`
	W             int       `db:"w" json:"w"`
	L             int       `db:"l" json:"l"`
	D             int       `db:"d" json:"d"`
	Pts           int       `db:"pts" json:"pts"`
	Gf            int       `db:"gf" json:"gf"`
	Ga            int       `db:"ga" json:"ga"`
	Gd            int       `db:"gd" json:"gd"`
	WinPercentage float64   `db:"win_percentage" json:"winPercentage"`
}
