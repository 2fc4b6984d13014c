package week

import (
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

const (
	First = 1
	Last  = 18
)

// DefaultSeasonStart is the Tuesday before the 2026 regular-season opener.
var DefaultSeasonStart = time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC)

// Provisional returns the calendar week for now: whole days since seasonStart split
// into 7-day buckets, clamped to [First, Last].
func Provisional(now, seasonStart time.Time) int {
	if now.Before(seasonStart) {
		return First
	}
	days := int(now.Sub(seasonStart).Hours() / 24)
	return Clamp(days/7 + 1)
}

func Clamp(w int) int {
	if w < First {
		return First
	}
	if w > Last {
		return Last
	}
	return w
}

// HasData reports whether a week has been populated: any positive score or any
// locked-in lineup.
func HasData(entries []league.MatchupEntry) bool {
	for _, entry := range entries {
		if entry.Points != nil && *entry.Points > 0 {
			return true
		}
		if entry.Started() {
			return true
		}
	}
	return false
}

// Fallback is the week shown when no scanned week has data.
func Fallback(format league.Format, provisional int) int {
	if format.NonStandard() {
		return First
	}
	return Clamp(provisional)
}
