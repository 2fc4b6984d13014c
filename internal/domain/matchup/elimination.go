package matchup

import (
	"fmt"
	"math"
	"slices"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

type Zone string

const (
	ZoneSafe       Zone = "safe"
	ZoneNeutral    Zone = "neutral"
	ZoneDanger     Zone = "danger"
	ZoneEliminated Zone = "eliminated"
)

const (
	safeCount     = 3
	minSafety     = 5.0
	maxSafety     = 95.0
	defaultSafety = 50.0
)

// EliminationRow is one roster's place in a last-place-out week.
type EliminationRow struct {
	Rank          int
	Side          Side
	Score         float64
	Zone          Zone
	SafetyPercent float64
}

// RankElimination orders every roster by its score this week, highest first. A roster
// that has not played yet is scored by its projection; equal scores fall back to the
// lower roster id.
func RankElimination(entries []league.MatchupEntry, teams map[int]Team, projections map[int]float64) []EliminationRow {
	rows := make([]EliminationRow, 0, len(entries))
	for _, entry := range entries {
		side := newSide(lookupTeam(teams, entry.RosterID), entry.Points, projections[entry.RosterID])
		score := side.Projection
		if side.Points != nil {
			score = *side.Points
		}
		rows = append(rows, EliminationRow{Side: side, Score: score})
	}

	slices.SortFunc(rows, func(a, b EliminationRow) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return a.Side.RosterID - b.Side.RosterID
		}
	})

	maxScore := 0.0
	for _, row := range rows {
		maxScore = math.Max(maxScore, row.Score)
	}

	total := len(rows)
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Zone = ZoneFor(i+1, total)
		rows[i].SafetyPercent = safety(rows[i].Score, maxScore)
	}
	return rows
}

// ZoneFor places rank in a league of total teams. The bottom ceil(total/12) are
// eliminated, the ceil(total/4) above them are in danger, the top three are safe.
func ZoneFor(rank, total int) Zone {
	if total <= 0 || rank < 1 || rank > total {
		return ZoneNeutral
	}

	eliminated := max(1, ceilDiv(total, 12))
	danger := max(1, ceilDiv(total, 4))

	switch {
	case rank > total-eliminated:
		return ZoneEliminated
	case rank > total-eliminated-danger:
		return ZoneDanger
	case rank <= safeCount:
		return ZoneSafe
	default:
		return ZoneNeutral
	}
}

// FieldMatchups renders ranked rows as "team vs the field" cards so elimination weeks
// can share the head-to-head layout.
func FieldMatchups(rows []EliminationRow) []Processed {
	out := make([]Processed, 0, len(rows))
	for _, row := range rows {
		out = append(out, Processed{
			MatchupID: row.Rank,
			Home:      row.Side,
			Away: Side{
				TeamName: "The Field",
				Seed:     fmt.Sprintf("%d of %d", row.Rank, len(rows)),
				PreGame:  row.Side.PreGame,
			},
		})
	}
	return out
}

func safety(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return defaultSafety
	}
	pct := score / maxScore * 100
	pct = math.Max(minSafety, math.Min(maxSafety, pct))
	return math.Round(pct*10) / 10
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
