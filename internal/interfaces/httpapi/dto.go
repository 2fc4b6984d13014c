package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/matchup"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/standing"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
)

type healthDTO struct {
	Status       string `json:"status"`
	Leagues      int    `json:"leagues"`
	CacheEntries int    `json:"cacheEntries"`
	CacheHits    int64  `json:"cacheHits"`
	CacheMisses  int64  `json:"cacheMisses"`
	CircuitState string `json:"circuitState"`
	TVStatus     string `json:"tvStatus,omitempty"`
}

type leagueEntryDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Format string `json:"format"`
}

type currentWeekDTO struct {
	LeagueID string `json:"leagueId"`
	Week     int    `json:"week"`
}

type leagueDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Season       string `json:"season,omitempty"`
	Status       string `json:"status,omitempty"`
	TotalRosters int    `json:"totalRosters"`
	AvatarID     string `json:"avatarId,omitempty"`
}

type standingRowDTO struct {
	Rank          int     `json:"rank"`
	RosterID      int     `json:"rosterId"`
	OwnerID       string  `json:"ownerId,omitempty"`
	OwnerName     string  `json:"ownerName"`
	TeamName      string  `json:"teamName"`
	AvatarURL     string  `json:"avatarUrl,omitempty"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	GamesPlayed   int     `json:"gamesPlayed"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
}

type standingsDTO struct {
	LeagueID      string           `json:"leagueId"`
	SeasonStarted bool             `json:"seasonStarted"`
	Degraded      bool             `json:"degraded"`
	Rows          []standingRowDTO `json:"rows"`
}

type sideDTO struct {
	RosterID       int      `json:"rosterId"`
	TeamName       string   `json:"teamName"`
	OwnerName      string   `json:"ownerName"`
	AvatarURL      string   `json:"avatarUrl,omitempty"`
	Seed           string   `json:"seed,omitempty"`
	Points         *float64 `json:"points"`
	Projection     float64  `json:"projection"`
	WinProbability *float64 `json:"winProbability"`
	PreGame        bool     `json:"preGame"`
}

type matchupDTO struct {
	MatchupID int     `json:"matchupId"`
	Home      sideDTO `json:"home"`
	Away      sideDTO `json:"away"`
}

type weekMatchupsDTO struct {
	LeagueID string       `json:"leagueId"`
	Week     int          `json:"week"`
	Format   string       `json:"format"`
	Degraded bool         `json:"degraded"`
	Matchups []matchupDTO `json:"matchups"`
}

type eliminationRowDTO struct {
	Rank          int     `json:"rank"`
	Team          sideDTO `json:"team"`
	Score         float64 `json:"score"`
	Zone          string  `json:"zone"`
	SafetyPercent float64 `json:"safetyPercent"`
}

type eliminationDTO struct {
	LeagueID string              `json:"leagueId"`
	Week     int                 `json:"week"`
	Degraded bool                `json:"degraded"`
	Rows     []eliminationRowDTO `json:"rows"`
	Matchups []matchupDTO        `json:"matchups"`
}

type draftSlotDTO struct {
	Slot      int    `json:"slot"`
	RosterID  int    `json:"rosterId"`
	TeamName  string `json:"teamName"`
	OwnerName string `json:"ownerName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type draftPickDTO struct {
	Round      int      `json:"round"`
	PickNo     int      `json:"pickNo"`
	Slot       int      `json:"slot"`
	RosterID   int      `json:"rosterId"`
	TeamName   string   `json:"teamName"`
	OwnerName  string   `json:"ownerName"`
	AvatarURL  string   `json:"avatarUrl,omitempty"`
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Position   string   `json:"position,omitempty"`
	Team       string   `json:"team,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	IsKeeper   bool     `json:"isKeeper"`
}

type draftBoardDTO struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	Season    string         `json:"season,omitempty"`
	StartTime *time.Time     `json:"startTime,omitempty"`
	Teams     int            `json:"teams"`
	Rounds    int            `json:"rounds"`
	PickTimer int            `json:"pickTimer"`
	Order     []draftSlotDTO `json:"order"`
	Picks     []draftPickDTO `json:"picks"`
}

type dashboardDTO struct {
	League           leagueDTO           `json:"league"`
	Format           string              `json:"format"`
	Week             int                 `json:"week"`
	Standings        standingsDTO        `json:"standings"`
	Matchups         []matchupDTO        `json:"matchups"`
	Elimination      []eliminationRowDTO `json:"elimination,omitempty"`
	TransactionCount int                 `json:"transactionCount"`
	Degraded         bool                `json:"degraded"`
	GeneratedAt      time.Time           `json:"generatedAt"`
}

type tvStateDTO struct {
	Status       string        `json:"status"`
	LeagueID     string        `json:"leagueId,omitempty"`
	LeagueIndex  int           `json:"leagueIndex"`
	LeagueCount  int           `json:"leagueCount"`
	Dashboard    *dashboardDTO `json:"dashboard,omitempty"`
	Message      string        `json:"message,omitempty"`
	RetryCount   int           `json:"retryCount"`
	RetryDelayMs int64         `json:"retryDelayMs"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func leagueEntryToDTO(v league.Entry) leagueEntryDTO {
	return leagueEntryDTO{
		ID:     v.ID,
		Name:   v.Name,
		Format: string(v.Format),
	}
}

func standingsToDTO(ctx context.Context, v usecase.Standings) standingsDTO {
	ctx, span := startSpan(ctx, "httpapi.standingsToDTO")
	defer span.End()

	rows := make([]standingRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, standingRowToDTO(row))
	}

	return standingsDTO{
		LeagueID:      v.LeagueID,
		SeasonStarted: v.SeasonStarted,
		Degraded:      v.Degraded,
		Rows:          rows,
	}
}

func standingRowToDTO(v standing.Row) standingRowDTO {
	return standingRowDTO{
		Rank:          v.Rank,
		RosterID:      v.RosterID,
		OwnerID:       v.OwnerID,
		OwnerName:     v.OwnerName,
		TeamName:      v.TeamName,
		AvatarURL:     v.AvatarURL,
		Wins:          v.Wins,
		Losses:        v.Losses,
		Ties:          v.Ties,
		GamesPlayed:   v.GamesPlayed(),
		PointsFor:     v.PointsFor,
		PointsAgainst: v.PointsAgainst,
	}
}

func sideToDTO(v matchup.Side) sideDTO {
	return sideDTO{
		RosterID:       v.RosterID,
		TeamName:       v.TeamName,
		OwnerName:      v.OwnerName,
		AvatarURL:      v.AvatarURL,
		Seed:           v.Seed,
		Points:         v.Points,
		Projection:     v.Projection,
		WinProbability: v.WinProbability,
		PreGame:        v.PreGame,
	}
}

func matchupsToDTO(items []matchup.Processed) []matchupDTO {
	out := make([]matchupDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchupDTO{
			MatchupID: item.MatchupID,
			Home:      sideToDTO(item.Home),
			Away:      sideToDTO(item.Away),
		})
	}
	return out
}

func eliminationRowsToDTO(items []matchup.EliminationRow) []eliminationRowDTO {
	out := make([]eliminationRowDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eliminationRowDTO{
			Rank:          item.Rank,
			Team:          sideToDTO(item.Side),
			Score:         item.Score,
			Zone:          string(item.Zone),
			SafetyPercent: item.SafetyPercent,
		})
	}
	return out
}

func weekMatchupsToDTO(v usecase.WeekMatchups) weekMatchupsDTO {
	return weekMatchupsDTO{
		LeagueID: v.LeagueID,
		Week:     v.Week,
		Format:   string(v.Format),
		Degraded: v.Degraded,
		Matchups: matchupsToDTO(v.Matchups),
	}
}

func eliminationToDTO(v usecase.EliminationWeek) eliminationDTO {
	return eliminationDTO{
		LeagueID: v.LeagueID,
		Week:     v.Week,
		Degraded: v.Degraded,
		Rows:     eliminationRowsToDTO(v.Rows),
		Matchups: matchupsToDTO(v.Matchups),
	}
}

func draftBoardToDTO(v usecase.DraftBoard) draftBoardDTO {
	order := make([]draftSlotDTO, 0, len(v.Order))
	for _, slot := range v.Order {
		order = append(order, draftSlotDTO{
			Slot:      slot.Slot,
			RosterID:  slot.RosterID,
			TeamName:  slot.TeamName,
			OwnerName: slot.OwnerName,
			AvatarURL: slot.AvatarURL,
		})
	}

	picks := make([]draftPickDTO, 0, len(v.Picks))
	for _, pick := range v.Picks {
		picks = append(picks, draftPickDTO{
			Round:      pick.Round,
			PickNo:     pick.PickNo,
			Slot:       pick.Slot,
			RosterID:   pick.RosterID,
			TeamName:   pick.TeamName,
			OwnerName:  pick.OwnerName,
			AvatarURL:  pick.AvatarURL,
			PlayerID:   pick.PlayerID,
			PlayerName: pick.PlayerName,
			Position:   pick.Position,
			Team:       pick.Team,
			Amount:     pick.Amount,
			IsKeeper:   pick.IsKeeper,
		})
	}

	return draftBoardDTO{
		ID:        v.Draft.ID,
		Type:      string(v.Draft.Type),
		Status:    v.Draft.Status,
		Season:    v.Draft.Season,
		StartTime: v.Draft.StartTime,
		Teams:     v.Draft.Teams,
		Rounds:    v.Draft.Rounds,
		PickTimer: v.Draft.PickTimer,
		Order:     order,
		Picks:     picks,
	}
}

func dashboardToDTO(ctx context.Context, v usecase.Dashboard) dashboardDTO {
	ctx, span := startSpan(ctx, "httpapi.dashboardToDTO")
	defer span.End()

	out := dashboardDTO{
		League: leagueDTO{
			ID:           v.League.ID,
			Name:         v.League.Name,
			Season:       v.League.Season,
			Status:       v.League.Status,
			TotalRosters: v.League.TotalRosters,
			AvatarID:     v.League.Avatar,
		},
		Format:           string(v.Format),
		Week:             v.Week,
		Standings:        standingsToDTO(ctx, v.Standings),
		Matchups:         matchupsToDTO(v.Matchups),
		TransactionCount: v.TransactionCount,
		Degraded:         v.Degraded,
		GeneratedAt:      v.GeneratedAt,
	}
	if len(v.Elimination) > 0 {
		out.Elimination = eliminationRowsToDTO(v.Elimination)
	}
	return out
}

func tvStateToDTO(ctx context.Context, v usecase.TVState) tvStateDTO {
	out := tvStateDTO{
		Status:       string(v.Status),
		LeagueID:     v.LeagueID,
		LeagueIndex:  v.LeagueIndex,
		LeagueCount:  v.LeagueCount,
		Message:      v.Message,
		RetryCount:   v.RetryCount,
		RetryDelayMs: v.RetryDelay.Milliseconds(),
		UpdatedAt:    v.UpdatedAt,
	}
	if v.Dashboard != nil {
		dashboard := dashboardToDTO(ctx, *v.Dashboard)
		out.Dashboard = &dashboard
	}
	return out
}
