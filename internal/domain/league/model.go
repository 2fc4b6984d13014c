package league

import (
	"fmt"
	"strings"
	"time"
)

// Format selects how a league's weekly results are derived.
type Format string

const (
	FormatHeadToHead  Format = "h2h"
	FormatElimination Format = "elimination"
	FormatPickem      Format = "pickem"
	FormatSurvivor    Format = "survivor"
)

// ParseFormat accepts the configured format names plus a few aliases.
func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "h2h", "head_to_head", "head-to-head":
		return FormatHeadToHead, nil
	case "elimination", "guillotine":
		return FormatElimination, nil
	case "pickem", "pick_em", "pick-em":
		return FormatPickem, nil
	case "survivor":
		return FormatSurvivor, nil
	default:
		return "", fmt.Errorf("unknown league format %q", v)
	}
}

// NonStandard reports formats that do not follow the weekly scoring calendar.
func (f Format) NonStandard() bool {
	return f == FormatPickem || f == FormatSurvivor
}

// Entry is a league the dashboard is allowed to display.
type Entry struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Format Format `yaml:"format"`
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("league id is required")
	}
	if _, err := ParseFormat(string(e.Format)); err != nil {
		return err
	}

	return nil
}

// League is the upstream league record.
type League struct {
	ID           string
	Name         string
	Season       string
	Status       string
	TotalRosters int
	Avatar       string
}

// User is a league member.
type User struct {
	ID          string
	Handle      string
	DisplayName string
	Avatar      string
	TeamName    string
}

// Roster is one team's season-long record. OwnerID is empty when the slot is orphaned.
type Roster struct {
	ID            int
	OwnerID       string
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
	Rank          int
}

// GamesPlayed is the number of decided or tied games in the season record.
func (r Roster) GamesPlayed() int {
	return r.Wins + r.Losses + r.Ties
}

// MatchupEntry is one roster's row for a week. Points is nil before kickoff.
type MatchupEntry struct {
	RosterID  int
	MatchupID int
	Points    *float64
	Starters  []string
}

// Started reports whether the lineup is locked in for the week.
func (m MatchupEntry) Started() bool {
	return len(m.Starters) > 0
}

// Transaction is a waiver, trade or free-agent move.
type Transaction struct {
	ID        string
	Type      string
	Status    string
	RosterIDs []int
	CreatedAt time.Time
	Week      int
}

type DraftType string

const (
	DraftTypeSnake   DraftType = "snake"
	DraftTypeAuction DraftType = "auction"
	DraftTypeLinear  DraftType = "linear"
)

// Draft is a draft attached to a league.
type Draft struct {
	ID             string
	LeagueID       string
	Type           DraftType
	Status         string
	Season         string
	StartTime      *time.Time
	Teams          int
	Rounds         int
	PickTimer      int
	SlotByUserID   map[string]int
	RosterIDBySlot map[int]int
}

// DraftPick is a single selection in a draft.
type DraftPick struct {
	Round      int
	PickNo     int
	Slot       int
	RosterID   int
	PickedBy   string
	PlayerID   string
	PlayerName string
	Position   string
	Team       string
	Amount     *float64
	IsKeeper   bool
}
