package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type LeagueDBConnection struct {
	*sqlx.DB
}

type League interface {
	ListLeagues() ([]models.LeagueModel, error)
	ListTeams(leagueId *uuid.UUID) ([]models.TeamModel, error)
	ListCompletedMatches(leagueId *uuid.UUID) ([]models.MatchModel, error)
	LoadSnapshot(leagueId *uuid.UUID) (models.Snapshot, error)
	ListPlayers(teamId uuid.UUID) ([]models.PlayerModel, error)
	TeamStrength(teamId uuid.UUID) (*models.TeamStrength, error)
	InsertMatch(match models.MatchModel) (uuid.UUID, error)
	UpdateMatchStatus(matchId uuid.UUID, status models.MatchStatus) error
	RecordMatchResult(matchId uuid.UUID, result models.MatchModel) error
}

const (
	queryTeams = `
	SELECT team_id, team_name, league_id, balance, team_pic_url
	FROM teams
	WHERE ($1::uuid IS NULL OR league_id = $1)
	ORDER BY team_name
	`
	queryCompletedMatches = `
	SELECT match_id, home_team_id, away_team_id, league_id, match_date, status,
	home_score, away_score, home_sets_won, away_sets_won
	FROM matches
	WHERE status = 'completed'
	AND ($1::uuid IS NULL OR league_id = $1)
	ORDER BY match_date, match_id
	`
)

func (l *LeagueDBConnection) ListLeagues() ([]models.LeagueModel, error) {
	leagues := []models.LeagueModel{}
	query :=
		`
	SELECT league_id, name, season FROM leagues ORDER BY season DESC, name ASC
	`
	if err := l.DB.Select(&leagues, query); err != nil {
		log.Error().Err(err).Msg("error listing leagues")
		return nil, err
	}
	return leagues, nil
}

func (l *LeagueDBConnection) ListTeams(leagueId *uuid.UUID) ([]models.TeamModel, error) {
	return listTeams(l.DB, leagueId)
}

func (l *LeagueDBConnection) ListCompletedMatches(leagueId *uuid.UUID) ([]models.MatchModel, error) {
	return listCompletedMatches(l.DB, leagueId)
}

// LoadSnapshot reads teams and completed matches inside one transaction so
// the standings never see a match whose teams were read at another point
// in time.
func (l *LeagueDBConnection) LoadSnapshot(leagueId *uuid.UUID) (models.Snapshot, error) {
	tx, errTx := l.DB.Beginx()
	if errTx != nil {
		log.Error().Err(errTx).Msg("error creating snapshot tx")
		return models.Snapshot{}, errTx
	}
	defer func() {
		_ = tx.Rollback()
	}()

	teams, err := listTeams(tx, leagueId)
	if err != nil {
		return models.Snapshot{}, err
	}
	matches, err := listCompletedMatches(tx, leagueId)
	if err != nil {
		return models.Snapshot{}, err
	}
	if errC := tx.Commit(); errC != nil {
		log.Error().Err(errC).Msg("failed to commit snapshot tx")
		return models.Snapshot{}, errC
	}
	return models.Snapshot{Teams: teams, Matches: matches}, nil
}

func listTeams(q sqlx.Queryer, leagueId *uuid.UUID) ([]models.TeamModel, error) {
	teams := []models.TeamModel{}
	if err := sqlx.Select(q, &teams, queryTeams, leagueId); err != nil {
		log.Error().Err(err).Msg("error listing teams")
		return nil, err
	}
	return teams, nil
}

func listCompletedMatches(q sqlx.Queryer, leagueId *uuid.UUID) ([]models.MatchModel, error) {
	matches := []models.MatchModel{}
	if err := sqlx.Select(q, &matches, queryCompletedMatches, leagueId); err != nil {
		log.Error().Err(err).Msg("error listing completed matches")
		return nil, err
	}
	return matches, nil
}

// ListPlayers returns a team's roster with the starters first.
func (l *LeagueDBConnection) ListPlayers(teamId uuid.UUID) ([]models.PlayerModel, error) {
	players := []models.PlayerModel{}
	query :=
		`
	SELECT player_id, team_id, player_name, position, rating, starter
	FROM players
	WHERE team_id = $1
	ORDER BY starter DESC, rating DESC, player_name
	`
	if err := l.DB.Select(&players, query, teamId); err != nil {
		log.Error().Err(err).Str("teamId", teamId.String()).Msg("error listing players")
		return nil, err
	}
	return players, nil
}

// TeamStrength averages the starters' ratings, or the whole roster when no
// starter is picked. A team without players has no strength and yields nil.
func (l *LeagueDBConnection) TeamStrength(teamId uuid.UUID) (*models.TeamStrength, error) {
	strength := models.TeamStrength{}
	query :=
		`
	SELECT team_id,
	COALESCE(AVG(rating) FILTER (WHERE starter), AVG(rating))::float8 AS strength
	FROM players
	WHERE team_id = $1
	GROUP BY team_id
	`
	err := l.DB.Get(&strength, query, teamId)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("teamId", teamId.String()).Msg("error computing team strength")
		return nil, err
	}
	return &strength, nil
}

func (l *LeagueDBConnection) InsertMatch(match models.MatchModel) (uuid.UUID, error) {
	if err := match.Validate(); err != nil {
		return uuid.Nil, err
	}
	if match.MatchId == uuid.Nil {
		match.MatchId = uuid.New()
	}
	query :=
		`
	INSERT INTO matches
	(
	match_id,
	home_team_id,
	away_team_id,
	league_id,
	match_date,
	status,
	home_score,
	away_score,
	home_sets_won,
	away_sets_won)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := l.DB.Exec(
		query,
		match.MatchId,
		match.HomeTeamId,
		match.AwayTeamId,
		match.LeagueId,
		match.MatchDate,
		string(match.Status),
		match.HomeScore,
		match.AwayScore,
		match.HomeSetsWon,
		match.AwaySetsWon,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert match")
		return uuid.Nil, err
	}
	return match.MatchId, nil
}

// UpdateMatchStatus moves a match along its lifecycle. Completing a match
// goes through RecordMatchResult, which also stores the result.
func (l *LeagueDBConnection) UpdateMatchStatus(matchId uuid.UUID, status models.MatchStatus) error {
	if status == models.MatchCompleted {
		return &models.InvalidInputError{Field: "status", Reason: "completed matches need a result"}
	}
	tx, errTx := l.DB.Beginx()
	if errTx != nil {
		return errTx
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := checkTransition(tx, matchId, status); err != nil {
		return err
	}
	query :=
		`
	UPDATE matches SET status = $1 WHERE match_id = $2
	`
	sqlRow, err := tx.Exec(query, string(status), matchId)
	if err != nil {
		return err
	}
	row, errR := sqlRow.RowsAffected()
	if errR != nil {
		return errR
	}
	if row == 0 {
		return errors.New("failed to update the requested match")
	}
	return tx.Commit()
}

// RecordMatchResult completes an in-progress match.
func (l *LeagueDBConnection) RecordMatchResult(matchId uuid.UUID, result models.MatchModel) error {
	tx, errTx := l.DB.Beginx()
	if errTx != nil {
		return errTx
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, err := getMatch(tx, matchId)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(models.MatchCompleted) {
		return &models.InvalidInputError{
			Field:  "status",
			Reason: fmt.Sprintf("match %s cannot go from %s to %s", matchId, current.Status, models.MatchCompleted),
		}
	}
	current.Status = models.MatchCompleted
	current.HomeScore, current.AwayScore = result.HomeScore, result.AwayScore
	current.HomeSetsWon, current.AwaySetsWon = result.HomeSetsWon, result.AwaySetsWon
	if err := current.Validate(); err != nil {
		return err
	}

	query :=
		`
	UPDATE matches
	SET status = $1, home_score = $2, away_score = $3, home_sets_won = $4, away_sets_won = $5
	WHERE match_id = $6
	`
	sqlRow, err := tx.Exec(
		query,
		string(current.Status),
		current.HomeScore,
		current.AwayScore,
		current.HomeSetsWon,
		current.AwaySetsWon,
		matchId,
	)
	if err != nil {
		log.Error().Err(err).Str("matchId", matchId.String()).Msg("failed to record match result")
		return err
	}
	row, errR := sqlRow.RowsAffected()
	if errR != nil {
		return errR
	}
	if row == 0 {
		return errors.New("failed to update the requested match")
	}
	return tx.Commit()
}

func getMatch(tx *sqlx.Tx, matchId uuid.UUID) (models.MatchModel, error) {
	match := models.MatchModel{}
	query :=
		`
	SELECT match_id, home_team_id, away_team_id, league_id, match_date, status,
	home_score, away_score, home_sets_won, away_sets_won
	FROM matches WHERE match_id = $1 FOR UPDATE
	`
	err := tx.Get(&match, query, matchId)
	if errors.Is(err, sql.ErrNoRows) {
		return match, fmt.Errorf("%w: match %s does not exist", models.ErrNotFound, matchId)
	}
	return match, err
}

func checkTransition(tx *sqlx.Tx, matchId uuid.UUID, next models.MatchStatus) error {
	if _, err := models.ParseMatchStatus(string(next)); err != nil {
		return &models.InvalidInputError{Field: "status", Reason: err.Error()}
	}
	current, err := getMatch(tx, matchId)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(next) {
		return &models.InvalidInputError{
			Field:  "status",
			Reason: fmt.Sprintf("match %s cannot go from %s to %s", matchId, current.Status, next),
		}
	}
	return nil
}
