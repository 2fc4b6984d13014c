package standing

import (
	"slices"
	"strings"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

const (
	UnknownOwner = "Unknown Owner"
	UnknownTeam  = "Unknown Team"
)

// Row is one team's line in the league table.
type Row struct {
	Rank          int
	RosterID      int
	OwnerID       string
	OwnerName     string
	TeamName      string
	AvatarID      string
	AvatarURL     string
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
}

// GamesPlayed is wins plus losses plus ties.
func (r Row) GamesPlayed() int {
	return r.Wins + r.Losses + r.Ties
}

// Derive joins rosters to their owners and sorts by wins then points-for, both
// descending. Rows tied on both keys keep their input order. Rosters whose owner
// cannot be resolved are kept under placeholder names.
func Derive(users []league.User, rosters []league.Roster) []Row {
	byID := make(map[string]league.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	rows := make([]Row, 0, len(rosters))
	for _, roster := range rosters {
		row := Row{
			RosterID:      roster.ID,
			OwnerID:       roster.OwnerID,
			OwnerName:     UnknownOwner,
			TeamName:      UnknownTeam,
			Wins:          roster.Wins,
			Losses:        roster.Losses,
			Ties:          roster.Ties,
			PointsFor:     roster.PointsFor,
			PointsAgainst: roster.PointsAgainst,
		}
		if user, ok := byID[roster.OwnerID]; ok && roster.OwnerID != "" {
			row.OwnerName = OwnerName(user)
			row.TeamName = TeamName(user)
			row.AvatarID = user.Avatar
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		if a.Wins != b.Wins {
			return b.Wins - a.Wins
		}
		switch {
		case a.PointsFor > b.PointsFor:
			return -1
		case a.PointsFor < b.PointsFor:
			return 1
		default:
			return 0
		}
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// SeasonStarted reports whether any team has a decided game or points on the board.
func SeasonStarted(rows []Row) bool {
	for _, row := range rows {
		if row.GamesPlayed() > 0 || row.PointsFor > 0 {
			return true
		}
	}
	return false
}

func OwnerName(user league.User) string {
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	if handle := strings.TrimSpace(user.Handle); handle != "" {
		return handle
	}
	return UnknownOwner
}

// TeamName prefers the custom team name and falls back to the owner's name.
func TeamName(user league.User) string {
	if name := strings.TrimSpace(user.TeamName); name != "" {
		return name
	}
	if owner := OwnerName(user); owner != UnknownOwner {
		return owner
	}
	return UnknownTeam
}

// ByRosterID indexes rows for lookups from matchup and draft views.
func ByRosterID(rows []Row) map[int]Row {
	out := make(map[int]Row, len(rows))
	for _, row := range rows {
		out[row.RosterID] = row
	}
	return out
}
