package standings

import (
	"math"
	"sort"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/models"

	"github.com/google/uuid"
)

const (
	pointsWin  = 3
	pointsDraw = 1
	pointsLoss = 0
)

type outcome int

const (
	loss outcome = iota
	draw
	win
)

// classify decides a match relative to one side. Only sets won count; the
// score fields feed goals for/against but never the result.
func classify(setsWon, opponentSetsWon int) outcome {
	switch {
	case setsWon > opponentSetsWon:
		return win
	case setsWon < opponentSetsWon:
		return loss
	default:
		return draw
	}
}

// Compute returns one ranked table per league found in the snapshot's teams.
// Non-completed matches are ignored.
func Compute(snapshot models.Snapshot) (map[uuid.UUID][]models.StandingsModel, error) {
	entries, err := accumulate(snapshot)
	if err != nil {
		return nil, err
	}

	tables := make(map[uuid.UUID][]models.StandingsModel)
	for _, team := range snapshot.Teams {
		tables[team.LeagueId] = append(tables[team.LeagueId], *entries[team.TeamId])
	}
	for leagueId, rows := range tables {
		rank(rows)
		tables[leagueId] = rows
	}
	return tables, nil
}

// ComputeLeague returns the ranked table of a single league. The whole
// snapshot is still checked for consistency.
func ComputeLeague(snapshot models.Snapshot, leagueId uuid.UUID) ([]models.StandingsModel, error) {
	entries, err := accumulate(snapshot)
	if err != nil {
		return nil, err
	}

	rows := []models.StandingsModel{}
	for _, team := range snapshot.Teams {
		if team.LeagueId == leagueId {
			rows = append(rows, *entries[team.TeamId])
		}
	}
	rank(rows)
	return rows, nil
}

func accumulate(snapshot models.Snapshot) (map[uuid.UUID]*models.StandingsModel, error) {
	entries := make(map[uuid.UUID]*models.StandingsModel, len(snapshot.Teams))
	for _, team := range snapshot.Teams {
		if existing, ok := entries[team.TeamId]; ok {
			if existing.LeagueId != team.LeagueId {
				return nil, models.NewDataIntegrityError("team %s appears in leagues %s and %s", team.TeamId, existing.LeagueId, team.LeagueId)
			}
			return nil, models.NewDataIntegrityError("team %s appears twice in the snapshot", team.TeamId)
		}
		entries[team.TeamId] = &models.StandingsModel{
			TeamId:   team.TeamId,
			TeamName: team.TeamName,
			LeagueId: team.LeagueId,
		}
	}

	for _, m := range snapshot.Matches {
		if m.Status != models.MatchCompleted {
			continue
		}
		if m.HomeTeamId == m.AwayTeamId {
			return nil, models.NewDataIntegrityError("match %s has team %s on both sides", m.MatchId, m.HomeTeamId)
		}
		home, ok := entries[m.HomeTeamId]
		if !ok {
			return nil, models.NewDataIntegrityError("match %s references unknown home team %s", m.MatchId, m.HomeTeamId)
		}
		away, ok := entries[m.AwayTeamId]
		if !ok {
			return nil, models.NewDataIntegrityError("match %s references unknown away team %s", m.MatchId, m.AwayTeamId)
		}
		if home.LeagueId != m.LeagueId || away.LeagueId != m.LeagueId {
			return nil, models.NewDataIntegrityError("match %s in league %s involves a team from another league", m.MatchId, m.LeagueId)
		}

		record(home, m.HomeScore, m.AwayScore, classify(m.HomeSetsWon, m.AwaySetsWon))
		record(away, m.AwayScore, m.HomeScore, classify(m.AwaySetsWon, m.HomeSetsWon))
	}

	for _, e := range entries {
		e.Gd = e.Gf - e.Ga
		e.WinPercentage = winPercentage(e.W, e.Gp)
	}
	return entries, nil
}

func record(e *models.StandingsModel, scored, conceded int, o outcome) {
	e.Gp++
	e.Gf += scored
	e.Ga += conceded
	switch o {
	case win:
		e.W++
		e.Pts += pointsWin
	case loss:
		e.L++
		e.Pts += pointsLoss
	case draw:
		e.D++
		e.Pts += pointsDraw
	}
}

// winPercentage is rounded to one decimal place.
func winPercentage(wins, played int) float64 {
	if played == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(played)*1000) / 10
}

// rank sorts by points, goal difference and wins (all descending), then by
// team name, and assigns positions.
func rank(rows []models.StandingsModel) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Pts != b.Pts {
			return a.Pts > b.Pts
		}
		if a.Gd != b.Gd {
			return a.Gd > b.Gd
		}
		if a.W != b.W {
			return a.W > b.W
		}
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		return a.TeamId.String() < b.TeamId.String()
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
}
