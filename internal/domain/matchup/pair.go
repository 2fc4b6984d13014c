package matchup

import (
	"errors"
	"fmt"
	"slices"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

var ErrMalformedGroup = errors.New("matchup group does not have exactly two entries")

type PairOptions struct {
	// Strict reports groups that are not exactly two entries instead of dropping them.
	Strict bool
}

// Pair groups a week's entries by matchup id into head-to-head pairings ordered by
// matchup id. Entries without a matchup id are byes and are skipped.
func Pair(entries []league.MatchupEntry, teams map[int]Team, projections map[int]float64, model ProbabilityModel, opts PairOptions) ([]Processed, error) {
	groups := make(map[int][]league.MatchupEntry)
	ids := make([]int, 0)
	for _, entry := range entries {
		if entry.MatchupID <= 0 {
			continue
		}
		if _, seen := groups[entry.MatchupID]; !seen {
			ids = append(ids, entry.MatchupID)
		}
		groups[entry.MatchupID] = append(groups[entry.MatchupID], entry)
	}
	slices.Sort(ids)

	out := make([]Processed, 0, len(ids))
	for _, id := range ids {
		group := groups[id]
		if len(group) != 2 {
			if opts.Strict {
				return nil, fmt.Errorf("%w: matchup_id=%d entries=%d", ErrMalformedGroup, id, len(group))
			}
			continue
		}

		home := newSide(lookupTeam(teams, group[0].RosterID), group[0].Points, projections[group[0].RosterID])
		away := newSide(lookupTeam(teams, group[1].RosterID), group[1].Points, projections[group[1].RosterID])
		home.WinProbability, away.WinProbability = model.Win(
			Input{Points: home.Points, Projection: home.Projection},
			Input{Points: away.Points, Projection: away.Projection},
		)

		out = append(out, Processed{MatchupID: id, Home: home, Away: away})
	}

	return out, nil
}
