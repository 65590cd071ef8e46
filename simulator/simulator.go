package simulator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/models"

	"github.com/google/uuid"
)

type Config struct {
	// Scale is the strength gap that moves the home win probability from
	// 0.5 to about 0.73.
	Scale             float64 `yaml:"scale"`
	MinStrength       float64 `yaml:"min_strength"`
	MaxStrength       float64 `yaml:"max_strength"`
	SetsToWin         int     `yaml:"sets_to_win"`
	SetPoints         int     `yaml:"set_points"`
	DecidingSetPoints int     `yaml:"deciding_set_points"`
}

func DefaultConfig() Config {
	return Config{
		Scale:             10,
		MinStrength:       1,
		MaxStrength:       100,
		SetsToWin:         3,
		SetPoints:         25,
		DecidingSetPoints: 15,
	}
}

func (c Config) Validate() error {
	if !(c.Scale > 0) || math.IsInf(c.Scale, 0) {
		return errors.New("simulator scale must be a positive number")
	}
	if math.IsNaN(c.MinStrength) || math.IsNaN(c.MaxStrength) || c.MinStrength >= c.MaxStrength {
		return errors.New("simulator strength range is empty")
	}
	if c.SetsToWin < 1 || c.SetsToWin > models.MaxSetsWon {
		return fmt.Errorf("sets to win must be between 1 and %d", models.MaxSetsWon)
	}
	if c.SetPoints < 2 || c.DecidingSetPoints < 2 {
		return errors.New("set points must be at least 2")
	}
	return nil
}

type SetScore struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type Result struct {
	HomeTeamId         uuid.UUID  `json:"homeTeamId"`
	AwayTeamId         uuid.UUID  `json:"awayTeamId"`
	Winner             uuid.UUID  `json:"winner"`
	HomeWinProbability float64    `json:"homeWinProbability"`
	HomeSetsWon        int        `json:"homeSetsWon"`
	AwaySetsWon        int        `json:"awaySetsWon"`
	HomeScore          int        `json:"homeScore"`
	AwayScore          int        `json:"awayScore"`
	Sets               []SetScore `json:"sets"`

	// matchId is drawn from the same source as the outcome so that a seeded
	// run also reproduces the record identity.
	matchId uuid.UUID
}

func (r Result) HomeWon() bool {
	return r.Winner == r.HomeTeamId
}

// Match turns the result into a completed match record.
func (r Result) Match(leagueId uuid.UUID, date time.Time) models.MatchModel {
	return models.MatchModel{
		MatchId:     r.matchId,
		HomeTeamId:  r.HomeTeamId,
		AwayTeamId:  r.AwayTeamId,
		LeagueId:    leagueId,
		MatchDate:   date,
		Status:      models.MatchCompleted,
		HomeScore:   r.HomeScore,
		AwayScore:   r.AwayScore,
		HomeSetsWon: r.HomeSetsWon,
		AwaySetsWon: r.AwaySetsWon,
	}
}

// Simulator is not safe for concurrent use; the random source it wraps isn't.
type Simulator struct {
	cfg Config
	rng *rand.Rand
}

func New(cfg Config, rng *rand.Rand) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("simulator needs a random source")
	}
	return &Simulator{cfg: cfg, rng: rng}, nil
}

func NewSeeded(cfg Config, seed int64) (*Simulator, error) {
	return New(cfg, rand.New(rand.NewSource(seed)))
}

func (s *Simulator) checkStrength(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &models.InvalidInputError{Field: field, Reason: "strength is not a finite number"}
	}
	if v < s.cfg.MinStrength || v > s.cfg.MaxStrength {
		return &models.InvalidInputError{
			Field:  field,
			Reason: fmt.Sprintf("strength %.2f outside [%.0f, %.0f]", v, s.cfg.MinStrength, s.cfg.MaxStrength),
		}
	}
	return nil
}

// HomeWinProbability is a logistic curve over the strength gap. It is 0.5
// for equal strengths and stays strictly inside (0, 1).
func (s *Simulator) HomeWinProbability(home, away float64) (float64, error) {
	if err := s.checkStrength("home_strength", home); err != nil {
		return 0, err
	}
	if err := s.checkStrength("away_strength", away); err != nil {
		return 0, err
	}
	p := 1 / (1 + math.Exp(-(home-away)/s.cfg.Scale))
	if p >= 1 {
		p = math.Nextafter(1, 0)
	} else if p <= 0 {
		p = math.SmallestNonzeroFloat64
	}
	return p, nil
}

func (s *Simulator) Simulate(home, away *models.TeamStrength) (Result, error) {
	if home == nil || home.TeamId == uuid.Nil {
		return Result{}, &models.InvalidInputError{Field: "home_team", Reason: "home team is missing"}
	}
	if away == nil || away.TeamId == uuid.Nil {
		return Result{}, &models.InvalidInputError{Field: "away_team", Reason: "away team is missing"}
	}
	if home.TeamId == away.TeamId {
		return Result{}, &models.InvalidInputError{Field: "away_team", Reason: "a team cannot play itself"}
	}
	pHome, err := s.HomeWinProbability(home.Strength, away.Strength)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		HomeTeamId:         home.TeamId,
		AwayTeamId:         away.TeamId,
		HomeWinProbability: pHome,
	}

	homeWins := s.rng.Float64() < pHome
	pLoser := 1 - pHome
	if homeWins {
		res.Winner = home.TeamId
	} else {
		res.Winner = away.TeamId
		pLoser = pHome
	}

	loserSets := 0
	for loserSets < s.cfg.SetsToWin-1 && s.rng.Float64() < pLoser {
		loserSets++
	}

	sets := s.playSets(s.cfg.SetsToWin, loserSets)
	res.Sets = make([]SetScore, len(sets))
	winnerScore, loserScore := 0, 0
	for i, set := range sets {
		winnerScore += set.winner
		loserScore += set.loser
		if homeWins {
			res.Sets[i] = SetScore{Home: set.winner, Away: set.loser}
		} else {
			res.Sets[i] = SetScore{Home: set.loser, Away: set.winner}
		}
	}

	if homeWins {
		res.HomeSetsWon, res.AwaySetsWon = s.cfg.SetsToWin, loserSets
		res.HomeScore, res.AwayScore = winnerScore, loserScore
	} else {
		res.HomeSetsWon, res.AwaySetsWon = loserSets, s.cfg.SetsToWin
		res.HomeScore, res.AwayScore = loserScore, winnerScore
	}

	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return Result{}, fmt.Errorf("generating match id: %w", err)
	}
	res.matchId = id
	return res, nil
}

// setPoints holds one set from the match winner's point of view.
type setPoints struct {
	winner, loser int
}

// playSets lays out the sets of a match the winner takes winnerSets to
// loserSets. The last set always goes to the match winner.
func (s *Simulator) playSets(winnerSets, loserSets int) []setPoints {
	total := winnerSets + loserSets
	lostAt := make(map[int]bool, loserSets)
	for _, idx := range s.rng.Perm(total - 1)[:loserSets] {
		lostAt[idx] = true
	}

	deciding := 2*s.cfg.SetsToWin - 1
	sets := make([]setPoints, total)
	for i := range sets {
		target := s.cfg.SetPoints
		if i+1 == deciding {
			target = s.cfg.DecidingSetPoints
		}
		w, l := s.rallyPoints(target)
		if lostAt[i] {
			w, l = l, w
		}
		sets[i] = setPoints{winner: w, loser: l}
	}
	return sets
}

// rallyPoints returns the points of a single set's winner and loser. The
// loser usually falls short of target-1; otherwise the set goes to deuce and
// is won by two.
func (s *Simulator) rallyPoints(target int) (int, int) {
	if s.rng.Float64() < 0.15 {
		loser := target - 1 + s.rng.Intn(4)
		return loser + 2, loser
	}
	span := target / 2
	if span < 1 {
		span = 1
	}
	loser := target - 2 - s.rng.Intn(span)
	if loser < 0 {
		loser = 0
	}
	return target, loser
}
