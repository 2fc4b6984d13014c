package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/standing"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
)

type DraftBoard struct {
	Draft league.Draft
	Order []DraftSlot
	Picks []DraftPickView
}

// DraftSlot is a position in the draft order resolved to its team.
type DraftSlot struct {
	Slot      int
	RosterID  int
	TeamName  string
	OwnerName string
	AvatarURL string
}

type DraftPickView struct {
	league.DraftPick
	TeamName  string
	OwnerName string
	AvatarURL string
}

type DraftService struct {
	source    LeagueDataSource
	registry  league.Registry
	standings *StandingService
	logger    *logging.Logger
}

func NewDraftService(source LeagueDataSource, registry league.Registry, standings *StandingService, logger *logging.Logger) *DraftService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DraftService{
		source:    source,
		registry:  registry,
		standings: standings,
		logger:    logger,
	}
}

// ListByLeague returns every draft of the league with its order and picks resolved to
// team names.
func (s *DraftService) ListByLeague(ctx context.Context, leagueID string) ([]DraftBoard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ListByLeague")
	defer span.End()

	entry, err := lookupLeague(ctx, s.registry, leagueID)
	if err != nil {
		return nil, err
	}

	drafts, err := s.source.ListDrafts(ctx, entry.ID)
	if err != nil {
		if degradable(err) {
			s.logger.WarnContext(ctx, "drafts degraded to empty view", "league_id", entry.ID, "error", err)
			return []DraftBoard{}, nil
		}
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	if len(drafts) == 0 {
		return []DraftBoard{}, nil
	}

	rows, _, err := s.standings.table(ctx, entry.ID)
	if err != nil && !degradable(err) {
		return nil, err
	}
	byRoster := standing.ByRosterID(rows)
	rosterByOwner := make(map[string]int, len(rows))
	for _, row := range rows {
		if row.OwnerID != "" {
			rosterByOwner[row.OwnerID] = row.RosterID
		}
	}

	boards := make([]DraftBoard, 0, len(drafts))
	for _, draft := range drafts {
		picks, err := s.source.ListDraftPicks(ctx, draft.ID)
		if err != nil {
			if !degradable(err) {
				return nil, fmt.Errorf("list draft picks draft=%s: %w", draft.ID, err)
			}
			s.logger.WarnContext(ctx, "draft picks unavailable", "draft_id", draft.ID, "error", err)
			picks = nil
		}

		boards = append(boards, DraftBoard{
			Draft: draft,
			Order: draftOrder(draft, byRoster, rosterByOwner),
			Picks: resolvePicks(draft, picks, byRoster, rosterByOwner),
		})
	}

	return boards, nil
}

// OwnerLeague finds the configured league a draft belongs to. Drafts of leagues outside
// the registry are reported as not allowed.
func (s *DraftService) OwnerLeague(ctx context.Context, draftID string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.OwnerLeague")
	defer span.End()

	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		return "", fmt.Errorf("%w: draft id is required", ErrInvalidInput)
	}

	entries, err := s.registry.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list leagues: %w", err)
	}
	for _, entry := range entries {
		drafts, err := s.source.ListDrafts(ctx, entry.ID)
		if err != nil {
			if degradable(err) {
				continue
			}
			return "", fmt.Errorf("list drafts league=%s: %w", entry.ID, err)
		}
		for _, draft := range drafts {
			if draft.ID == draftID {
				return entry.ID, nil
			}
		}
	}

	return "", &NotAllowedError{LeagueID: "draft:" + draftID}
}

// draftOrder lists slots by number. slot_to_roster_id wins over draft_order.
func draftOrder(draft league.Draft, byRoster map[int]standing.Row, rosterByOwner map[string]int) []DraftSlot {
	rosterBySlot := make(map[int]int, len(draft.RosterIDBySlot)+len(draft.SlotByUserID))
	for userID, slot := range draft.SlotByUserID {
		if rosterID, ok := rosterByOwner[userID]; ok {
			rosterBySlot[slot] = rosterID
		}
	}
	for slot, rosterID := range draft.RosterIDBySlot {
		rosterBySlot[slot] = rosterID
	}

	out := make([]DraftSlot, 0, len(rosterBySlot))
	for slot, rosterID := range rosterBySlot {
		row := rowOrPlaceholder(byRoster, rosterID)
		out = append(out, DraftSlot{
			Slot:      slot,
			RosterID:  rosterID,
			TeamName:  row.TeamName,
			OwnerName: row.OwnerName,
			AvatarURL: row.AvatarURL,
		})
	}
	slices.SortFunc(out, func(a, b DraftSlot) int { return a.Slot - b.Slot })
	return out
}

func resolvePicks(draft league.Draft, picks []league.DraftPick, byRoster map[int]standing.Row, rosterByOwner map[string]int) []DraftPickView {
	out := make([]DraftPickView, 0, len(picks))
	for _, pick := range picks {
		rosterID := pick.RosterID
		if rosterID == 0 {
			rosterID = draft.RosterIDBySlot[pick.Slot]
		}
		if rosterID == 0 {
			rosterID = rosterByOwner[strings.TrimSpace(pick.PickedBy)]
		}
		pick.RosterID = rosterID

		row := rowOrPlaceholder(byRoster, rosterID)
		out = append(out, DraftPickView{
			DraftPick: pick,
			TeamName:  row.TeamName,
			OwnerName: row.OwnerName,
			AvatarURL: row.AvatarURL,
		})
	}
	slices.SortStableFunc(out, func(a, b DraftPickView) int { return a.PickNo - b.PickNo })
	return out
}

func rowOrPlaceholder(byRoster map[int]standing.Row, rosterID int) standing.Row {
	if row, ok := byRoster[rosterID]; ok {
		return row
	}
	return standing.Row{RosterID: rosterID, TeamName: standing.UnknownTeam, OwnerName: standing.UnknownOwner}
}
