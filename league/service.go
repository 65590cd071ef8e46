package league

import (
	"fmt"
	"sync"
	"time"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/models"
	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/queries"
	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/simulator"
	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/standings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service ties the stored league records to the standings aggregator and
// the match simulator.
type Service struct {
	store        queries.League
	playoffs     queries.Playoffs
	playoffTeams int

	// guards sim, whose random source is not safe for concurrent use
	mu  sync.Mutex
	sim *simulator.Simulator
}

func NewService(store queries.League, playoffs queries.Playoffs, sim *simulator.Simulator, playoffTeams int) *Service {
	return &Service{
		store:        store,
		playoffs:     playoffs,
		sim:          sim,
		playoffTeams: playoffTeams,
	}
}

// SimulatedMatch is a simulated outcome together with the match record it
// was stored as.
type SimulatedMatch struct {
	Match  models.MatchModel `json:"match"`
	Result simulator.Result  `json:"result"`
}

func (s *Service) Leagues() ([]models.LeagueModel, error) {
	return s.store.ListLeagues()
}

// Standings ranks the teams of one league. An unknown league yields an
// empty table.
func (s *Service) Standings(leagueId uuid.UUID) ([]models.StandingsModel, error) {
	snapshot, err := s.store.LoadSnapshot(&leagueId)
	if err != nil {
		return nil, fmt.Errorf("load league %s: %w", leagueId, err)
	}
	rows, err := standings.ComputeLeague(snapshot, leagueId)
	if err != nil {
		log.Error().Err(err).Str("leagueId", leagueId.String()).Msg("inconsistent league snapshot")
		return nil, err
	}
	return rows, nil
}

func (s *Service) AllStandings() (map[uuid.UUID][]models.StandingsModel, error) {
	snapshot, err := s.store.LoadSnapshot(nil)
	if err != nil {
		return nil, fmt.Errorf("load leagues: %w", err)
	}
	tables, err := standings.Compute(snapshot)
	if err != nil {
		log.Error().Err(err).Msg("inconsistent snapshot")
		return nil, err
	}
	return tables, nil
}

// SimulateMatch plays homeId against awayId and stores the outcome as a
// completed match of the league.
func (s *Service) SimulateMatch(leagueId, homeId, awayId uuid.UUID, date time.Time) (SimulatedMatch, error) {
	if err := s.checkMembers(leagueId, homeId, awayId); err != nil {
		return SimulatedMatch{}, err
	}
	home, err := s.strength("home_team", homeId)
	if err != nil {
		return SimulatedMatch{}, err
	}
	away, err := s.strength("away_team", awayId)
	if err != nil {
		return SimulatedMatch{}, err
	}

	s.mu.Lock()
	result, err := s.sim.Simulate(home, away)
	s.mu.Unlock()
	if err != nil {
		return SimulatedMatch{}, err
	}

	match := result.Match(leagueId, date)
	if _, err := s.store.InsertMatch(match); err != nil {
		return SimulatedMatch{}, fmt.Errorf("store simulated match: %w", err)
	}
	log.Info().
		Str("matchId", match.MatchId.String()).
		Str("winner", result.Winner.String()).
		Int("homeSets", result.HomeSetsWon).
		Int("awaySets", result.AwaySetsWon).
		Float64("homeWinProbability", result.HomeWinProbability).
		Msg("match simulated")
	return SimulatedMatch{Match: match, Result: result}, nil
}

func (s *Service) checkMembers(leagueId, homeId, awayId uuid.UUID) error {
	teams, err := s.store.ListTeams(&leagueId)
	if err != nil {
		return fmt.Errorf("list teams of league %s: %w", leagueId, err)
	}
	var homeFound, awayFound bool
	for _, team := range teams {
		homeFound = homeFound || team.TeamId == homeId
		awayFound = awayFound || team.TeamId == awayId
	}
	if !homeFound {
		return &models.InvalidInputError{Field: "home_team", Reason: "team " + homeId.String() + " does not play in league " + leagueId.String()}
	}
	if !awayFound {
		return &models.InvalidInputError{Field: "away_team", Reason: "team " + awayId.String() + " does not play in league " + leagueId.String()}
	}
	return nil
}

func (s *Service) strength(field string, teamId uuid.UUID) (*models.TeamStrength, error) {
	strength, err := s.store.TeamStrength(teamId)
	if err != nil {
		return nil, fmt.Errorf("strength of team %s: %w", teamId, err)
	}
	if strength == nil {
		return nil, &models.InvalidInputError{Field: field, Reason: "team " + teamId.String() + " has no players"}
	}
	return strength, nil
}

// ScheduleMatch stores a fixture that has not been played yet.
func (s *Service) ScheduleMatch(leagueId, homeId, awayId uuid.UUID, date time.Time) (models.MatchModel, error) {
	if err := s.checkMembers(leagueId, homeId, awayId); err != nil {
		return models.MatchModel{}, err
	}
	match := models.MatchModel{
		MatchId:    uuid.New(),
		HomeTeamId: homeId,
		AwayTeamId: awayId,
		LeagueId:   leagueId,
		MatchDate:  date,
		Status:     models.MatchScheduled,
	}
	if _, err := s.store.InsertMatch(match); err != nil {
		return models.MatchModel{}, err
	}
	return match, nil
}

// Roster lists a team's players, starters first.
func (s *Service) Roster(teamId uuid.UUID) ([]models.PlayerModel, error) {
	if teamId == uuid.Nil {
		return nil, &models.InvalidInputError{Field: "team_id", Reason: "team is required"}
	}
	return s.store.ListPlayers(teamId)
}

func (s *Service) UpdateMatchStatus(matchId uuid.UUID, status models.MatchStatus) error {
	return s.store.UpdateMatchStatus(matchId, status)
}

// RecordMatchResult completes a match that is in progress.
func (s *Service) RecordMatchResult(matchId uuid.UUID, result models.MatchModel) error {
	if err := s.store.RecordMatchResult(matchId, result); err != nil {
		return err
	}
	log.Info().Str("matchId", matchId.String()).Msg("match result recorded")
	return nil
}

// CreatePlayoffs seeds a bracket from the current table. A zero limit uses
// the configured bracket size.
func (s *Service) CreatePlayoffs(leagueId uuid.UUID, limit int) ([][]models.PlayoffsModel, error) {
	if limit == 0 {
		limit = s.playoffTeams
	}
	rows, err := s.Standings(leagueId)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &models.InvalidInputError{Field: "league_id", Reason: "league " + leagueId.String() + " has no teams"}
	}
	if err := s.playoffs.CreatePlayoffs(leagueId, rows, limit); err != nil {
		return nil, err
	}
	return s.playoffs.ListPlayoffs(leagueId)
}

func (s *Service) Playoffs(leagueId uuid.UUID) ([][]models.PlayoffsModel, error) {
	return s.playoffs.ListPlayoffs(leagueId)
}

func (s *Service) DeletePlayoffs(leagueId uuid.UUID) error {
	return s.playoffs.DeletePlayoffs(leagueId)
}

func (s *Service) RecordPlayoffWinner(playoffsId, winner uuid.UUID) error {
	if winner == uuid.Nil {
		return &models.InvalidInputError{Field: "winner", Reason: "winner is required"}
	}
	return s.playoffs.UpdatePlayoffs(playoffsId, winner)
}
