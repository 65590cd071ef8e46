package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchCancelled  MatchStatus = "cancelled"
)

// MaxSetsWon bounds the sets a side can take in a single match.
const MaxSetsWon = 5

func ParseMatchStatus(s string) (MatchStatus, error) {
	switch st := MatchStatus(s); st {
	case MatchScheduled, MatchInProgress, MatchCompleted, MatchCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown match status %q", s)
}

// IsTerminal reports whether the status can no longer change.
func (s MatchStatus) IsTerminal() bool {
	return s == MatchCompleted || s == MatchCancelled
}

// CanTransitionTo encodes scheduled -> in_progress -> completed and
// scheduled -> cancelled.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	switch s {
	case MatchScheduled:
		return next == MatchInProgress || next == MatchCancelled
	case MatchInProgress:
		return next == MatchCompleted
	}
	return false
}

func (s *MatchStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into MatchStatus", src)
	}
	st, err := ParseMatchStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s MatchStatus) Value() (driver.Value, error) {
	if _, err := ParseMatchStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

type MatchModel struct {
	MatchId     uuid.UUID   `db:"match_id" json:"matchId"`
	HomeTeamId  uuid.UUID   `db:"home_team_id" json:"homeTeamId"`
	AwayTeamId  uuid.UUID   `db:"away_team_id" json:"awayTeamId"`
	LeagueId    uuid.UUID   `db:"league_id" json:"leagueId"`
	MatchDate   time.Time   `db:"match_date" json:"matchDate"`
	Status      MatchStatus `db:"status" json:"status"`
	HomeScore   int         `db:"home_score" json:"homeScore"`
	AwayScore   int         `db:"away_score" json:"awayScore"`
	HomeSetsWon int         `db:"home_sets_won" json:"homeSetsWon"`
	AwaySetsWon int         `db:"away_sets_won" json:"awaySetsWon"`
}

// Validate checks the record shape the persistence layer relies on.
func (m MatchModel) Validate() error {
	if m.HomeTeamId == uuid.Nil || m.AwayTeamId == uuid.Nil {
		return &InvalidInputError{Field: "team", Reason: "home and away teams are required"}
	}
	if m.HomeTeamId == m.AwayTeamId {
		return &InvalidInputError{Field: "away_team_id", Reason: "a team cannot play itself"}
	}
	if m.LeagueId == uuid.Nil {
		return &InvalidInputError{Field: "league_id", Reason: "league is required"}
	}
	if _, err := ParseMatchStatus(string(m.Status)); err != nil {
		return &InvalidInputError{Field: "status", Reason: err.Error()}
	}
	if m.HomeScore < 0 || m.AwayScore < 0 {
		return &InvalidInputError{Field: "score", Reason: "scores must be non-negative"}
	}
	if m.HomeSetsWon < 0 || m.HomeSetsWon > MaxSetsWon || m.AwaySetsWon < 0 || m.AwaySetsWon > MaxSetsWon {
		return &InvalidInputError{Field: "sets_won", Reason: fmt.Sprintf("sets won must be between 0 and %d", MaxSetsWon)}
	}
	return nil
}
