package game

import (
	"math"

	"github.com/user/vida-loka-geracoes/internal/types"
)

// coreBands are checked from the top down; below the last threshold gains
// apply at the full rate.
var coreBands = []struct {
	threshold  int
	multiplier float64
}{
	{98, 0.1},
	{95, 0.2},
	{90, 0.3},
	{80, 0.5},
	{60, 0.75},
}

var reputationBands = []struct {
	threshold  int
	multiplier float64
}{
	{90, 0.2},
	{75, 0.4},
	{50, 0.6},
	{25, 0.8},
}

const (
	highImpactMinMultiplier = 0.25
	highStatThreshold       = 95
	otherHighStatPenalty    = 0.5
	finalGapThreshold       = 99
)

// ScaledCoreStatDelta softens a positive change to a core stat based on how
// high the stat already is. Losses pass through unchanged.
func ScaledCoreStatDelta(currentValue int, rawDelta float64, isHighImpactEvent bool, otherHighStatsCount int) int {
	if rawDelta <= 0 {
		return int(math.Floor(rawDelta))
	}

	multiplier := 1.0
	for _, band := range coreBands {
		if currentValue >= band.threshold {
			multiplier = band.multiplier
			break
		}
	}
	if isHighImpactEvent && currentValue >= highStatThreshold {
		multiplier = math.Max(multiplier, highImpactMinMultiplier)
	}
	for i := 0; i < otherHighStatsCount; i++ {
		multiplier *= otherHighStatPenalty
	}

	// Ordinary events cannot close the final gap to 100.
	if currentValue >= finalGapThreshold && !isHighImpactEvent {
		return 0
	}

	scaled := int(math.Round(rawDelta * multiplier))
	if isHighImpactEvent && scaled == 0 {
		return 1
	}
	return scaled
}

// ScaledReputationDelta dampens reputation gains by the absolute distance
// from neutral. Losses pass through unchanged.
func ScaledReputationDelta(currentValue int, rawDelta float64) int {
	if rawDelta <= 0 {
		return int(math.Floor(rawDelta))
	}

	abs := currentValue
	if abs < 0 {
		abs = -abs
	}
	multiplier := 1.0
	for _, band := range reputationBands {
		if abs >= band.threshold {
			multiplier = band.multiplier
			break
		}
	}
	return int(math.Round(rawDelta * multiplier))
}

// otherHighStats counts the core stats other than stat that are at or above 95.
func otherHighStats(c *types.Character, stat string) int {
	count := 0
	for _, name := range types.CoreStats {
		if name == stat {
			continue
		}
		if *c.IntStat(name) >= highStatThreshold {
			count++
		}
	}
	return count
}

// LegacyPoints scores a finished life. Money is scored logarithmically so no
// single axis dominates.
func LegacyPoints(c *types.Character) int {
	if c == nil {
		return 0
	}

	points := moneyPoints(c.Wealth) + moneyPoints(c.Investments)
	points += float64(c.Intelligence+c.Charisma+c.Creativity+c.Discipline) / 20
	if c.Age > 95 {
		points += float64(2 * (c.Age - 95))
	}
	points += float64(len(c.Assets))
	points += 0.5 * float64(len(c.Memories))
	for _, g := range c.LifeGoals {
		if g.Completed {
			points += 25
		}
	}
	points += float64(c.CareerLevel) / 10
	points += math.Abs(float64(c.Fame)) / 10
	points += math.Abs(float64(c.Influence)) / 10
	for _, r := range c.Relationships {
		if r.Intimacy > 80 {
			points += 3
		}
	}

	if points < 0 {
		return 0
	}
	return int(math.Floor(points))
}

// moneyPoints awards 10 points per order of magnitude.
func moneyPoints(amount int64) float64 {
	if amount <= 1 {
		return 0
	}
	return 10 * math.Log10(float64(amount))
}
