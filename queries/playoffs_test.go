package queries

import (
	"errors"
	"testing"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PlayoffsTestSuite struct {
	suite.Suite
	db   *sqlx.DB
	mock sqlmock.Sqlmock
	conn *PlayoffsDBConnection
}

// RUNS BEFORE EACH TEST
func (suite *PlayoffsTestSuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	require.NoError(suite.T(), err)

	suite.db = sqlx.NewDb(mockDB, "sqlmock")
	suite.mock = mock
	suite.conn = &PlayoffsDBConnection{DB: suite.db}
}

// runs after each test
func (suite *PlayoffsTestSuite) TearDownTest() {
	suite.db.Close()
}

func seeds(n int) []models.StandingsModel {
	rows := make([]models.StandingsModel, n)
	for i := range rows {
		rows[i] = models.StandingsModel{
			Position: i + 1,
			TeamId:   uuid.New(),
			TeamName: "Team" + string(rune('A'+i)),
			Pts:      30 - 3*i,
		}
	}
	return rows
}

var playoffsRowColumns = []string{
	"playoffs_id", "league_id", "fixture_round", "game_count",
	"home_team_id", "home_team_name", "away_team_id", "away_team_name", "winner",
}

func (suite *PlayoffsTestSuite) TestCreatePlayoffs_AlreadyExists() {
	league := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) AS count FROM playoffs WHERE league_id = \$1`).
		WithArgs(league).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	suite.mock.ExpectRollback()

	err := suite.conn.CreatePlayoffs(league, seeds(4), 4)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "they already exist")
	assert.True(suite.T(), errors.Is(err, models.ErrConflict))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestCreatePlayoffs_InvalidLimit() {
	league := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) AS count FROM playoffs WHERE league_id = \$1`).
		WithArgs(league).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectRollback()

	err := suite.conn.CreatePlayoffs(league, seeds(6), 6)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "invalid number of teams")
	assert.True(suite.T(), errors.Is(err, models.ErrInvalidInput))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestCreatePlayoffs_InsufficientTeams() {
	league := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) AS count FROM playoffs WHERE league_id = \$1`).
		WithArgs(league).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectRollback()

	err := suite.conn.CreatePlayoffs(league, seeds(3), 4)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "has less qualified teams")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestCreatePlayoffs_FourTeams_Success() {
	league := uuid.New()
	ranked := seeds(5)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) AS count FROM playoffs WHERE league_id = \$1`).
		WithArgs(league).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// 1 vs 4, 2 vs 3
	suite.mock.ExpectExec(`INSERT INTO playoffs`).
		WithArgs(sqlmock.AnyArg(), league, 1, 1, ranked[0].TeamId, ranked[0].TeamName, ranked[3].TeamId, ranked[3].TeamName).
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.mock.ExpectExec(`INSERT INTO playoffs`).
		WithArgs(sqlmock.AnyArg(), league, 1, 2, ranked[1].TeamId, ranked[1].TeamName, ranked[2].TeamId, ranked[2].TeamName).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// empty final
	suite.mock.ExpectExec(`INSERT INTO playoffs`).
		WithArgs(sqlmock.AnyArg(), league, 2, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	suite.mock.ExpectCommit()

	err := suite.conn.CreatePlayoffs(league, ranked, 4)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

// a bracket written by another request between the count and the inserts
func (suite *PlayoffsTestSuite) TestCreatePlayoffs_CreatedConcurrently() {
	league := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) AS count FROM playoffs`).
		WithArgs(league).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectExec(`INSERT INTO playoffs`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	suite.mock.ExpectRollback()

	err := suite.conn.CreatePlayoffs(league, seeds(2), 2)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, models.ErrConflict))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestCreatePlayoffs_OtherInsertErrorKept() {
	league := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) AS count FROM playoffs`).
		WithArgs(league).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectExec(`INSERT INTO playoffs`).
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign key violation"})
	suite.mock.ExpectRollback()

	err := suite.conn.CreatePlayoffs(league, seeds(2), 2)

	assert.Error(suite.T(), err)
	assert.False(suite.T(), errors.Is(err, models.ErrConflict))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestCreatePlayoffs_EightTeams_SlotCount() {
	league := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) AS count FROM playoffs`).
		WithArgs(league).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// 4 quarter finals + 2 semi finals + 1 final
	for i := 0; i < 7; i++ {
		suite.mock.ExpectExec(`INSERT INTO playoffs`).WillReturnResult(sqlmock.NewResult(1, 1))
	}
	suite.mock.ExpectCommit()

	err := suite.conn.CreatePlayoffs(league, seeds(8), 8)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestListPlayoffs_GroupsByRound() {
	league := uuid.New()
	teamA, teamB, teamC, teamD := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	rows := sqlmock.NewRows(playoffsRowColumns).
		AddRow(uuid.NewString(), league.String(), 1, 1, teamA.String(), "TeamA", teamD.String(), "TeamD", teamA.String()).
		AddRow(uuid.NewString(), league.String(), 1, 2, teamB.String(), "TeamB", teamC.String(), "TeamC", nil).
		AddRow(uuid.NewString(), league.String(), 2, 1, teamA.String(), "TeamA", nil, nil, nil)

	suite.mock.ExpectQuery(`SELECT (.+) FROM playoffs WHERE league_id = \$1`).
		WithArgs(league).
		WillReturnRows(rows)

	result, err := suite.conn.ListPlayoffs(league)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), result, 2)
	assert.Len(suite.T(), result[0], 2)
	assert.Len(suite.T(), result[1], 1)
	assert.Equal(suite.T(), teamA, *result[0][0].Winner)
	assert.Nil(suite.T(), result[0][1].Winner)
	assert.Nil(suite.T(), result[1][0].AwayTeamId)
	assert.True(suite.T(), result[1][0].IsFinal(2))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestListPlayoffs_NoRows() {
	league := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM playoffs`).
		WithArgs(league).
		WillReturnRows(sqlmock.NewRows(playoffsRowColumns))

	result, err := suite.conn.ListPlayoffs(league)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.Empty(suite.T(), result)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestListPlayoffs_DatabaseError() {
	league := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM playoffs`).
		WithArgs(league).
		WillReturnError(errors.New("database error"))

	_, err := suite.conn.ListPlayoffs(league)

	assert.ErrorContains(suite.T(), err, "database error")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestUpdatePlayoffs_AdvancesWinner() {
	league := uuid.New()
	playoffsID := uuid.New()
	home, away := uuid.New(), uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM playoffs WHERE playoffs_id = \$1 FOR UPDATE`).
		WithArgs(playoffsID).
		WillReturnRows(sqlmock.NewRows(playoffsRowColumns).
			AddRow(playoffsID.String(), league.String(), 1, 2, home.String(), "TeamB", away.String(), "TeamC", nil))
	suite.mock.ExpectExec(`UPDATE playoffs SET winner = \$1 WHERE playoffs_id = \$2`).
		WithArgs(away, playoffsID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// game 2 feeds the away side of game 1 in round 2
	suite.mock.ExpectExec(`UPDATE playoffs SET away_team_id = \$1, away_team_name = \$2`).
		WithArgs(away, "TeamC", league, 2, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.mock.ExpectCommit()

	err := suite.conn.UpdatePlayoffs(playoffsID, away)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestUpdatePlayoffs_Final() {
	league := uuid.New()
	playoffsID := uuid.New()
	home, away := uuid.New(), uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM playoffs WHERE playoffs_id = \$1`).
		WithArgs(playoffsID).
		WillReturnRows(sqlmock.NewRows(playoffsRowColumns).
			AddRow(playoffsID.String(), league.String(), 2, 1, home.String(), "TeamA", away.String(), "TeamB", nil))
	suite.mock.ExpectExec(`UPDATE playoffs SET winner = \$1`).
		WithArgs(home, playoffsID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.mock.ExpectExec(`UPDATE playoffs SET home_team_id = \$1, home_team_name = \$2`).
		WithArgs(home, "TeamA", league, 3, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectCommit()

	err := suite.conn.UpdatePlayoffs(playoffsID, home)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestUpdatePlayoffs_WinnerNotInGame() {
	league := uuid.New()
	playoffsID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM playoffs WHERE playoffs_id = \$1`).
		WithArgs(playoffsID).
		WillReturnRows(sqlmock.NewRows(playoffsRowColumns).
			AddRow(playoffsID.String(), league.String(), 1, 1, uuid.NewString(), "TeamA", uuid.NewString(), "TeamD", nil))
	suite.mock.ExpectRollback()

	err := suite.conn.UpdatePlayoffs(playoffsID, uuid.New())

	assert.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, models.ErrInvalidInput))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestUpdatePlayoffs_AlreadyDecided() {
	league := uuid.New()
	playoffsID := uuid.New()
	home := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM playoffs WHERE playoffs_id = \$1`).
		WithArgs(playoffsID).
		WillReturnRows(sqlmock.NewRows(playoffsRowColumns).
			AddRow(playoffsID.String(), league.String(), 1, 1, home.String(), "TeamA", uuid.NewString(), "TeamD", home.String()))
	suite.mock.ExpectRollback()

	err := suite.conn.UpdatePlayoffs(playoffsID, home)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already recorded")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlayoffsTestSuite) TestUpdatePlayoffs_NotFound() {
	playoffsID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT (.+) FROM playoffs WHERE playoffs_id = \$1`).
		WithArgs(playoffsID).
		WillReturnRows(sqlmock.NewRows(playoffsRowColumns))
	suite.mock.ExpectRollback()

	err := suite.conn.UpdatePlayoffs(playoffsID, uuid.New())

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "record does not exists")
	assert.True(suite.T(), errors.Is(err, models.ErrNotFound))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

// TestDeletePlayoffs_Success tests successful deletion
func (suite *PlayoffsTestSuite) TestDeletePlayoffs_Success() {
	league := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM playoffs WHERE league_id = \$1`).
		WithArgs(league).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := suite.conn.DeletePlayoffs(league)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

// TestDeletePlayoffs_NoRowsDeleted tests deletion when no records exist
func (suite *PlayoffsTestSuite) TestDeletePlayoffs_NoRowsDeleted() {
	league := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM playoffs WHERE league_id = \$1`).
		WithArgs(league).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := suite.conn.DeletePlayoffs(league)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "could not delete the requested records")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

// TestDeletePlayoffs_DatabaseError tests deletion with database error
func (suite *PlayoffsTestSuite) TestDeletePlayoffs_DatabaseError() {
	league := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM playoffs WHERE league_id = \$1`).
		WithArgs(league).
		WillReturnError(errors.New("database error"))

	err := suite.conn.DeletePlayoffs(league)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database error")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

// TESTS THE reverseTeam HELPER FUNCTION
func TestReverseTeam(t *testing.T) {
	team1 := models.StandingsModel{TeamName: "Team1"}
	team2 := models.StandingsModel{TeamName: "Team2"}
	team3 := models.StandingsModel{TeamName: "Team3"}

	input := []models.StandingsModel{team1, team2, team3}
	result := reverseTeam(input)

	assert.Equal(t, "Team3", result[0].TeamName)
	assert.Equal(t, "Team2", result[1].TeamName)
	assert.Equal(t, "Team1", result[2].TeamName)

	// Ensuring original slice is not modified
	assert.Equal(t, "Team1", input[0].TeamName)
	assert.Equal(t, "Team2", input[1].TeamName)
	assert.Equal(t, "Team3", input[2].TeamName)
}

// runs the test suite
func TestPlayoffsTestSuite(t *testing.T) {
	suite.Run(t, new(PlayoffsTestSuite))
}
