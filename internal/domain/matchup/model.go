package matchup

import (
	"strconv"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/standing"
)

// Team is the display identity of a roster.
type Team struct {
	RosterID  int
	Name      string
	OwnerName string
	AvatarURL string
	Seed      string
}

// Side is one team's half of a processed matchup.
type Side struct {
	RosterID       int
	TeamName       string
	OwnerName      string
	AvatarURL      string
	Seed           string
	Points         *float64
	Projection     float64
	WinProbability *float64
	PreGame        bool
}

// Processed is a head-to-head pairing for a week.
type Processed struct {
	MatchupID int
	Home      Side
	Away      Side
}

// TeamsFromStandings builds display identities keyed by roster id, seeded by table rank.
func TeamsFromStandings(rows []standing.Row) map[int]Team {
	out := make(map[int]Team, len(rows))
	for _, row := range rows {
		out[row.RosterID] = Team{
			RosterID:  row.RosterID,
			Name:      row.TeamName,
			OwnerName: row.OwnerName,
			AvatarURL: row.AvatarURL,
			Seed:      "#" + strconv.Itoa(row.Rank),
		}
	}
	return out
}

func lookupTeam(teams map[int]Team, rosterID int) Team {
	if team, ok := teams[rosterID]; ok {
		return team
	}
	return Team{
		RosterID:  rosterID,
		Name:      standing.UnknownTeam,
		OwnerName: standing.UnknownOwner,
	}
}

func newSide(team Team, points *float64, projection float64) Side {
	return Side{
		RosterID:   team.RosterID,
		TeamName:   team.Name,
		OwnerName:  team.OwnerName,
		AvatarURL:  team.AvatarURL,
		Seed:       team.Seed,
		Points:     points,
		Projection: projection,
		PreGame:    points == nil,
	}
}
