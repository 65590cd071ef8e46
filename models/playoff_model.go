package models

import "github.com/google/uuid"

// PlayoffsModel is one slot of a single-elimination bracket. Slots of later
// rounds are created empty and filled as winners advance.
type PlayoffsModel struct {
	PlayoffsId   uuid.UUID  `db:"playoffs_id" json:"playoffsId"`
	LeagueId     uuid.UUID  `db:"league_id" json:"leagueId"`
	FixtureRound int        `db:"fixture_round" json:"fixtureRound"`
	GameCount    int        `db:"game_count" json:"gameCount"`
	HomeTeamId   *uuid.UUID `db:"home_team_id" json:"homeTeamId"`
	HomeTeamName *string    `db:"home_team_name" json:"homeTeamName"`
	AwayTeamId   *uuid.UUID `db:"away_team_id" json:"awayTeamId"`
	AwayTeamName *string    `db:"away_team_name" json:"awayTeamName"`
	Winner       *uuid.UUID `db:"winner" json:"winner"`
}

// IsFinal reports whether the slot is the last game of a bracket with the
// given number of rounds.
func (p PlayoffsModel) IsFinal(rounds int) bool {
	return p.FixtureRound == rounds && p.GameCount == 1
}
