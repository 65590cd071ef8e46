package queries

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const uniqueViolation = pq.ErrorCode("23505")

type PlayoffsDBConnection struct {
	*sqlx.DB
}

type Playoffs interface {
	CreatePlayoffs(leagueId uuid.UUID, seeds []models.StandingsModel, limit int) error
	ListPlayoffs(leagueId uuid.UUID) ([][]models.PlayoffsModel, error)
	UpdatePlayoffs(playoffsId uuid.UUID, winner uuid.UUID) error
	DeletePlayoffs(leagueId uuid.UUID) error
}

// CreatePlayoffs builds a single-elimination bracket from the ranked seeds:
// the best seed meets the worst qualified one, the second best the second
// worst, and so on. Slots of later rounds are created empty.
func (p *PlayoffsDBConnection) CreatePlayoffs(leagueId uuid.UUID, seeds []models.StandingsModel, limit int) error {
	var count int
	query :=
		`
		SELECT COUNT(*) AS count FROM playoffs WHERE league_id = $1
		`
	tx, errTx := p.DB.Beginx()
	if errTx != nil {
		log.Error().Err(errTx).Msg("error creating playoffs tx")
		return errTx
	}
	defer func() {
		_ = tx.Rollback()
	}()

	err := tx.Get(&count, query, leagueId)
	if err != nil {
		log.Error().Err(err).Msg("error counting playoffs records")
		return err
	}
	if count >= 1 {
		return fmt.Errorf("%w: cannot create the requested playoffs of league %s, they already exist", models.ErrConflict, leagueId)
	}
	if limit != 2 && limit != 4 && limit != 8 && limit != 16 {
		return &models.InvalidInputError{Field: "teams", Reason: "invalid number of teams for the playoffs generator. valid numbers: (2, 4, 8, 16)"}
	}
	if len(seeds) < limit {
		return &models.InvalidInputError{
			Field:  "teams",
			Reason: "league " + leagueId.String() + " has less qualified teams of " + fmt.Sprint(len(seeds)) + " teams than the required number of " + fmt.Sprint(limit) + " teams",
		}
	}

	homeTeams := seeds[:limit/2]
	reversedAwayTeams := reverseTeam(seeds[limit/2 : limit])

	playoffsQuery :=
		`
	INSERT INTO playoffs
	(
	playoffs_id,
	league_id,
	fixture_round,
	game_count,
	home_team_id,
	home_team_name,
	away_team_id,
	away_team_name)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i := range homeTeams {
		_, err := tx.Exec(
			playoffsQuery,
			uuid.New(),
			leagueId,
			1,
			i+1,
			homeTeams[i].TeamId,
			homeTeams[i].TeamName,
			reversedAwayTeams[i].TeamId,
			reversedAwayTeams[i].TeamName,
		)
		if err != nil {
			log.Error().Err(err).Int("game", i+1).Msg("failed to INSERT first round playoffs record")
			return duplicateAsConflict(err, leagueId)
		}
	}

	playoffsQueryNextRound :=
		`
	INSERT INTO playoffs
	(playoffs_id, league_id, fixture_round, game_count)
	VALUES($1, $2, $3, $4)
	`
	fixtureRound := 2
	for games := limit / 4; games >= 1; games /= 2 {
		for i := 0; i < games; i++ {
			_, err := tx.Exec(playoffsQueryNextRound, uuid.New(), leagueId, fixtureRound, i+1)
			if err != nil {
				log.Error().Err(err).Int("round", fixtureRound).Msg("failed to INSERT playoffs record")
				return duplicateAsConflict(err, leagueId)
			}
		}
		fixtureRound++
	}

	if errC := tx.Commit(); errC != nil {
		log.Error().Err(errC).Msg("failed to commit playoffs tx")
		return errC
	}
	return nil
}

// duplicateAsConflict reports a unique violation as a conflict. It happens
// when another request created the same bracket after the count check.
func duplicateAsConflict(err error, leagueId uuid.UUID) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: playoffs of league %s were created concurrently: %v", models.ErrConflict, leagueId, err)
	}
	return err
}

func reverseTeam(teams []models.StandingsModel) []models.StandingsModel {
	reversed := slices.Clone(teams)
	slices.Reverse(reversed)
	return reversed
}

const playoffsColumns = `playoffs_id, league_id, fixture_round, game_count,
	home_team_id, home_team_name, away_team_id, away_team_name, winner`

// ListPlayoffs returns the bracket grouped by round.
func (p *PlayoffsDBConnection) ListPlayoffs(leagueId uuid.UUID) ([][]models.PlayoffsModel, error) {
	var slots []models.PlayoffsModel
	query := `SELECT ` + playoffsColumns + `
	FROM playoffs
	WHERE league_id = $1
	ORDER BY fixture_round ASC, game_count ASC
	`
	if err := p.DB.Select(&slots, query, leagueId); err != nil {
		log.Error().Err(err).Msg("error listing playoffs")
		return [][]models.PlayoffsModel{}, err
	}

	rounds := [][]models.PlayoffsModel{}
	for _, slot := range slots {
		for len(rounds) < slot.FixtureRound {
			rounds = append(rounds, []models.PlayoffsModel{})
		}
		idx := slot.FixtureRound - 1
		rounds[idx] = append(rounds[idx], slot)
	}
	return rounds, nil
}

// UpdatePlayoffs records the winner of a slot and moves it into the next
// round: odd games feed the home side, even games the away side.
func (p *PlayoffsDBConnection) UpdatePlayoffs(playoffsId uuid.UUID, winner uuid.UUID) error {
	slot := models.PlayoffsModel{}
	querySlot := `SELECT ` + playoffsColumns + `
	FROM playoffs
	WHERE playoffs_id = $1
	FOR UPDATE
	`
	query :=
		`
	UPDATE playoffs
	SET winner = $1
	WHERE playoffs_id = $2
	`
	queryUpdateNextRoundHome :=
		`
	UPDATE playoffs
	SET home_team_id = $1, home_team_name = $2
	WHERE league_id = $3
	AND fixture_round = $4
	AND game_count = $5
	`
	queryUpdateNextRoundAway :=
		`
	UPDATE playoffs
	SET away_team_id = $1, away_team_name = $2
	WHERE league_id = $3
	AND fixture_round = $4
	AND game_count = $5
	`
	tx, errTx := p.DB.Beginx()
	if errTx != nil {
		return errTx
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := tx.Get(&slot, querySlot, playoffsId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: failed to update the requested record, record does not exists", models.ErrNotFound)
		}
		return err
	}
	if slot.Winner != nil {
		return fmt.Errorf("%w: a winner is already recorded for this game", models.ErrConflict)
	}

	var winnerName *string
	switch {
	case slot.HomeTeamId != nil && *slot.HomeTeamId == winner:
		winnerName = slot.HomeTeamName
	case slot.AwayTeamId != nil && *slot.AwayTeamId == winner:
		winnerName = slot.AwayTeamName
	default:
		return &models.InvalidInputError{Field: "winner", Reason: "winner is not playing in this game"}
	}
	if slot.HomeTeamId == nil || slot.AwayTeamId == nil {
		return &models.InvalidInputError{Field: "winner", Reason: "both teams must be known before a winner is set"}
	}

	sqlRow, errU := tx.Exec(query, winner, playoffsId)
	if errU != nil {
		return errU
	}
	row, errR := sqlRow.RowsAffected()
	if errR != nil {
		return errR
	}
	if row == 0 {
		return errors.New("failed to update the requested row")
	}

	nextQuery := queryUpdateNextRoundHome
	if slot.GameCount%2 == 0 {
		nextQuery = queryUpdateNextRoundAway
	}
	sqlRow, errN := tx.Exec(nextQuery, winner, winnerName, slot.LeagueId, slot.FixtureRound+1, (slot.GameCount+1)/2)
	if errN != nil {
		return errN
	}
	if row, _ := sqlRow.RowsAffected(); row == 0 {
		log.Info().Str("leagueId", slot.LeagueId.String()).Str("winner", winner.String()).Msg("playoffs final decided")
	}

	if errC := tx.Commit(); errC != nil {
		log.Error().Err(errC).Msg("failed to commit playoffs winner tx")
		return errC
	}
	return nil
}

func (p *PlayoffsDBConnection) DeletePlayoffs(leagueId uuid.UUID) error {
	query :=
		`
	DELETE FROM playoffs WHERE league_id = $1
	`
	sqlRow, err := p.Exec(query, leagueId)
	if err != nil {
		return err
	}
	row, _ := sqlRow.RowsAffected()
	if row == 0 {
		return fmt.Errorf("%w: could not delete the requested records. Playoffs of league %s do not exist", models.ErrNotFound, leagueId)
	}
	return nil
}
