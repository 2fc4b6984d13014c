package matchup

import "github.com/riskibarqy/fantasy-dashboard/internal/domain/league"

const (
	TrailingWeeks     = 3
	MinHistoryWeeks   = 2
	NeutralProjection = 100.0
)

// Project estimates a roster's score for week. history holds its scores from earlier
// weeks, oldest first. Week 1 has no history and projects to 0.
func Project(week int, history []float64, roster league.Roster) float64 {
	if week <= 1 {
		return 0
	}

	if len(history) >= MinHistoryWeeks {
		recent := history
		if len(recent) > TrailingWeeks {
			recent = recent[len(recent)-TrailingWeeks:]
		}
		total := 0.0
		for _, points := range recent {
			total += points
		}
		return total / float64(len(recent))
	}

	if games := roster.GamesPlayed(); games > 0 && roster.PointsFor > 0 {
		return roster.PointsFor / float64(games)
	}

	return NeutralProjection
}

// Histories collects each roster's scored weeks from per-week matchup rows given in
// ascending week order. Pre-game rows are skipped.
func Histories(weeks [][]league.MatchupEntry) map[int][]float64 {
	out := make(map[int][]float64)
	for _, entries := range weeks {
		for _, entry := range entries {
			if entry.Points == nil {
				continue
			}
			out[entry.RosterID] = append(out[entry.RosterID], *entry.Points)
		}
	}
	return out
}

// Projections projects every roster for week.
func Projections(week int, history map[int][]float64, rosters []league.Roster) map[int]float64 {
	out := make(map[int]float64, len(rosters))
	for _, roster := range rosters {
		out[roster.ID] = Project(week, history[roster.ID], roster)
	}
	return out
}
