package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeagueModel struct {
	LeagueId uuid.UUID `db:"league_id" json:"leagueId"`
	Name     string    `db:"name" json:"name"`
	Season   string    `db:"season" json:"season"`
}

type TeamModel struct {
	TeamId     uuid.UUID       `db:"team_id" json:"teamId"`
	TeamName   string          `db:"team_name" json:"teamName"`
	LeagueId   uuid.UUID       `db:"league_id" json:"leagueId"`
	Balance    decimal.Decimal `db:"balance" json:"balance"`
	TeamPicUrl *string         `db:"team_pic_url" json:"teamPicUrl"`
}

type PlayerModel struct {
	PlayerId   uuid.UUID `db:"player_id" json:"playerId"`
	TeamId     uuid.UUID `db:"team_id" json:"teamId"`
	PlayerName string    `db:"player_name" json:"playerName"`
	Position   string    `db:"position" json:"position"`
	Rating     int       `db:"rating" json:"rating"`
	Starter    bool      `db:"starter" json:"starter"`
}

// TeamStrength is a composite roster rating used only as simulator input.
type TeamStrength struct {
	TeamId   uuid.UUID `db:"team_id" json:"teamId"`
	Strength float64   `db:"strength" json:"strength"`
}

// Snapshot is the in-memory view of persisted records the standings are
// computed from.
type Snapshot struct {
	Teams   []TeamModel
	Matches []MatchModel
}
