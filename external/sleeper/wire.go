package sleeper

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

type wireLeague struct {
	LeagueID     string  `json:"league_id" validate:"required"`
	Name         string  `json:"name"`
	Season       string  `json:"season"`
	Status       string  `json:"status"`
	TotalRosters int     `json:"total_rosters" validate:"gte=0"`
	Avatar       *string `json:"avatar"`
}

func (w wireLeague) toDomain() league.League {
	return league.League{
		ID:           w.LeagueID,
		Name:         strings.TrimSpace(w.Name),
		Season:       w.Season,
		Status:       w.Status,
		TotalRosters: w.TotalRosters,
		Avatar:       deref(w.Avatar),
	}
}

type wireUser struct {
	UserID      string  `json:"user_id" validate:"required"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Avatar      *string `json:"avatar"`
	Metadata    *struct {
		TeamName string `json:"team_name"`
	} `json:"metadata"`
}

func (w wireUser) toDomain() league.User {
	out := league.User{
		ID:          w.UserID,
		Handle:      strings.TrimSpace(w.Username),
		DisplayName: strings.TrimSpace(w.DisplayName),
		Avatar:      deref(w.Avatar),
	}
	if w.Metadata != nil {
		out.TeamName = strings.TrimSpace(w.Metadata.TeamName)
	}
	return out
}

type wireRoster struct {
	RosterID int     `json:"roster_id" validate:"gt=0"`
	OwnerID  *string `json:"owner_id"`
	Settings *struct {
		Wins               int      `json:"wins" validate:"gte=0"`
		Losses             int      `json:"losses" validate:"gte=0"`
		Ties               int      `json:"ties" validate:"gte=0"`
		Fpts               *float64 `json:"fpts"`
		FptsDecimal        *float64 `json:"fpts_decimal"`
		FptsAgainst        *float64 `json:"fpts_against"`
		FptsAgainstDecimal *float64 `json:"fpts_against_decimal"`
		Rank               *int     `json:"rank"`
	} `json:"settings"`
}

func (w wireRoster) toDomain() league.Roster {
	out := league.Roster{
		ID:      w.RosterID,
		OwnerID: deref(w.OwnerID),
	}
	if s := w.Settings; s != nil {
		out.Wins = s.Wins
		out.Losses = s.Losses
		out.Ties = s.Ties
		out.PointsFor = joinDecimal(s.Fpts, s.FptsDecimal)
		out.PointsAgainst = joinDecimal(s.FptsAgainst, s.FptsAgainstDecimal)
		if s.Rank != nil {
			out.Rank = *s.Rank
		}
	}
	return out
}

type wireMatchup struct {
	RosterID     int      `json:"roster_id" validate:"gt=0"`
	MatchupID    *int     `json:"matchup_id" validate:"omitempty,gte=0"`
	Points       *float64 `json:"points"`
	CustomPoints *float64 `json:"custom_points"`
	Starters     []string `json:"starters"`
}

func (w wireMatchup) toDomain() league.MatchupEntry {
	starters := make([]string, 0, len(w.Starters))
	for _, id := range w.Starters {
		// "0" is an empty lineup slot
		if id = strings.TrimSpace(id); id != "" && id != "0" {
			starters = append(starters, id)
		}
	}

	points := w.Points
	if w.CustomPoints != nil {
		points = w.CustomPoints
	}

	return league.MatchupEntry{
		RosterID:  w.RosterID,
		MatchupID: derefInt(w.MatchupID),
		Points:    NormalizePoints(points, starters),
		Starters:  starters,
	}
}

// NormalizePoints keeps nil for "not yet played": no starters and no non-zero score.
// Once starters are set a missing or zero score is a real zero.
func NormalizePoints(points *float64, starters []string) *float64 {
	hasScore := points != nil && *points != 0
	if len(starters) == 0 && !hasScore {
		return nil
	}

	v := 0.0
	if points != nil {
		v = *points
	}
	return &v
}

type wireTransaction struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	RosterIDs     []int  `json:"roster_ids"`
	Created       int64  `json:"created"`
	Leg           int    `json:"leg"`
}

func (w wireTransaction) toDomain() league.Transaction {
	out := league.Transaction{
		ID:        w.TransactionID,
		Type:      w.Type,
		Status:    w.Status,
		RosterIDs: w.RosterIDs,
		Week:      w.Leg,
	}
	if w.Created > 0 {
		out.CreatedAt = time.UnixMilli(w.Created).UTC()
	}
	return out
}

type wireDraft struct {
	DraftID   string `json:"draft_id" validate:"required"`
	LeagueID  string `json:"league_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Season    string `json:"season"`
	StartTime *int64 `json:"start_time"`
	Settings  *struct {
		Teams     int `json:"teams" validate:"gte=0"`
		Rounds    int `json:"rounds" validate:"gte=0"`
		PickTimer int `json:"pick_timer"`
	} `json:"settings"`
	DraftOrder     map[string]int `json:"draft_order"`
	SlotToRosterID map[string]int `json:"slot_to_roster_id"`
}

func (w wireDraft) toDomain() league.Draft {
	out := league.Draft{
		ID:             w.DraftID,
		LeagueID:       w.LeagueID,
		Type:           league.DraftType(strings.ToLower(strings.TrimSpace(w.Type))),
		Status:         w.Status,
		Season:         w.Season,
		SlotByUserID:   make(map[string]int, len(w.DraftOrder)),
		RosterIDBySlot: make(map[int]int, len(w.SlotToRosterID)),
	}
	if w.StartTime != nil && *w.StartTime > 0 {
		started := time.UnixMilli(*w.StartTime).UTC()
		out.StartTime = &started
	}
	if s := w.Settings; s != nil {
		out.Teams = s.Teams
		out.Rounds = s.Rounds
		out.PickTimer = s.PickTimer
	}
	for userID, slot := range w.DraftOrder {
		out.SlotByUserID[userID] = slot
	}
	for rawSlot, rosterID := range w.SlotToRosterID {
		slot, err := strconv.Atoi(rawSlot)
		if err != nil {
			continue
		}
		out.RosterIDBySlot[slot] = rosterID
	}
	return out
}

type wirePick struct {
	Round     int    `json:"round" validate:"gt=0"`
	PickNo    int    `json:"pick_no" validate:"gt=0"`
	DraftSlot int    `json:"draft_slot"`
	RosterID  int    `json:"roster_id"`
	PickedBy  string `json:"picked_by"`
	PlayerID  string `json:"player_id"`
	IsKeeper  *bool  `json:"is_keeper"`
	Metadata  *struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Position  string `json:"position"`
		Team      string `json:"team"`
		Amount    string `json:"amount"`
	} `json:"metadata"`
}

func (w wirePick) toDomain() league.DraftPick {
	out := league.DraftPick{
		Round:    w.Round,
		PickNo:   w.PickNo,
		Slot:     w.DraftSlot,
		RosterID: w.RosterID,
		PickedBy: w.PickedBy,
		PlayerID: w.PlayerID,
		IsKeeper: w.IsKeeper != nil && *w.IsKeeper,
	}
	if m := w.Metadata; m != nil {
		out.PlayerName = strings.TrimSpace(m.FirstName + " " + m.LastName)
		out.Position = m.Position
		out.Team = m.Team
		if amount, err := strconv.ParseFloat(strings.TrimSpace(m.Amount), 64); err == nil {
			out.Amount = &amount
		}
	}
	return out
}

// joinDecimal rebuilds a score sent as an integer part plus a two-digit fraction.
func joinDecimal(whole, fraction *float64) float64 {
	out := 0.0
	if whole != nil {
		out += *whole
	}
	if fraction != nil {
		out += *fraction / 100
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
