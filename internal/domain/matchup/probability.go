package matchup

import (
	"math"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
)

// ProbabilityModel maps a score differential to a win probability. The curve is
// piecewise linear: SmallRate per point up to SmallBreak, MidRate up to MidBreak,
// LargeRate beyond, with the total shift from 0.5 capped at MaxShift. The result is
// clamped to [ClampMin, ClampMax].
type ProbabilityModel struct {
	LowSignalThreshold float64
	NeutralOnLowSignal bool

	SmallBreak float64
	MidBreak   float64
	SmallRate  float64
	MidRate    float64
	LargeRate  float64
	MaxShift   float64

	ProjectionRate float64

	ClampMin float64
	ClampMax float64
}

// DefaultModel is used for head-to-head leagues. MaxShift keeps every result strictly
// inside the clamp bounds; at SmallRate it is reached at 4.375 points, so the mid and
// large tiers only matter for models with a wider MaxShift.
func DefaultModel() ProbabilityModel {
	return ProbabilityModel{
		LowSignalThreshold: 10,
		SmallBreak:         5,
		MidBreak:           15,
		SmallRate:          0.08,
		MidRate:            0.012,
		LargeRate:          0.005,
		MaxShift:           0.35,
		ProjectionRate:     0.01,
		ClampMin:           0.10,
		ClampMax:           0.90,
	}
}

// NeutralModel shows an even 50/50 while the scoreboard is too thin to read.
func NeutralModel() ProbabilityModel {
	m := DefaultModel()
	m.NeutralOnLowSignal = true
	m.MaxShift = 0.30
	m.ClampMin = 0.15
	m.ClampMax = 0.85
	return m
}

func ModelForFormat(format league.Format) ProbabilityModel {
	if format.NonStandard() {
		return NeutralModel()
	}
	return DefaultModel()
}

// Input is what the model needs from one side.
type Input struct {
	Points     *float64
	Projection float64
}

// Win returns the probabilities for a and b. Both are nil when there is not enough
// signal; otherwise pb is exactly 1 - pa.
func (m ProbabilityModel) Win(a, b Input) (pa, pb *float64) {
	p, ok := m.probability(a, b)
	if !ok {
		return nil, nil
	}
	other := 1 - p
	return &p, &other
}

func (m ProbabilityModel) probability(a, b Input) (float64, bool) {
	if a.Points == nil && b.Points == nil {
		return 0, false
	}

	if a.Points != nil && b.Points != nil {
		pointsA, pointsB := *a.Points, *b.Points
		if pointsA <= 0 && pointsB <= 0 {
			return 0, false
		}
		if pointsA+pointsB < m.LowSignalThreshold {
			if m.NeutralOnLowSignal {
				return 0.5, true
			}
			return 0, false
		}
		return m.clamp(0.5 + m.signedShift(pointsA-pointsB, m.curve)), true
	}

	if a.Projection > 0 && b.Projection > 0 {
		return m.clamp(0.5 + m.signedShift(a.Projection-b.Projection, m.linear)), true
	}
	return 0, false
}

func (m ProbabilityModel) signedShift(diff float64, shape func(float64) float64) float64 {
	shift := math.Min(shape(math.Abs(diff)), m.MaxShift)
	if diff < 0 {
		return -shift
	}
	return shift
}

func (m ProbabilityModel) curve(diff float64) float64 {
	switch {
	case diff < m.SmallBreak:
		return diff * m.SmallRate
	case diff < m.MidBreak:
		return m.SmallBreak*m.SmallRate + (diff-m.SmallBreak)*m.MidRate
	default:
		return m.SmallBreak*m.SmallRate + (m.MidBreak-m.SmallBreak)*m.MidRate + (diff-m.MidBreak)*m.LargeRate
	}
}

func (m ProbabilityModel) linear(diff float64) float64 {
	return diff * m.ProjectionRate
}

func (m ProbabilityModel) clamp(p float64) float64 {
	return math.Max(m.ClampMin, math.Min(m.ClampMax, p))
}
