package game

import (
	"fmt"
	"math"

	"github.com/user/vida-loka-geracoes/internal/types"
)

const (
	// MonthsPerYear is the in-year time budget.
	MonthsPerYear = 12

	// DefaultEconomyRollChance is the yearly chance of re-rolling the climate.
	DefaultEconomyRollChance = 0.25

	happinessBaseline = 60
	yearStartEnergy   = 40
)

var climates = []types.EconomicClimate{types.ClimateBoom, types.ClimateRecession, types.ClimateStable}

// AdvanceResult is the outcome of spending time in the current year
type AdvanceResult struct {
	NextMonthsRemaining int
	RolledOver          bool
	Character           *types.Character
	LifeEnded           bool
	Climate             types.EconomicClimate
	Narrations          []string
}

// YearCycle is the turn engine. It is the only place where aging, economic
// phase shifts and end-of-life detection happen.
type YearCycle struct {
	rules  *LifecycleRules
	roller Roller

	// EconomyRollChance is the probability of rolling a new climate at rollover.
	EconomyRollChance float64
}

// NewYearCycle creates a year cycle sharing roller with its lifecycle rules
func NewYearCycle(roller Roller) *YearCycle {
	return &YearCycle{
		rules:             NewLifecycleRules(roller),
		roller:            roller,
		EconomyRollChance: DefaultEconomyRollChance,
	}
}

// Advance consumes monthsCost from the year. When the year runs out it
// processes exactly one rollover. Callers must not call Advance again once
// LifeEnded is set.
func (yc *YearCycle) Advance(c *types.Character, climate types.EconomicClimate, monthsRemaining, monthsCost int) AdvanceResult {
	remainder := monthsRemaining - monthsCost
	if remainder > 0 {
		return AdvanceResult{
			NextMonthsRemaining: remainder,
			Character:           c,
			Climate:             climate,
		}
	}

	result := AdvanceResult{RolledOver: true, Climate: climate}

	next := ageOneYear(c)
	next = applyPassiveDrift(next)
	next, result.Climate, result.Narrations = yc.rollEconomy(next, climate)

	next, penalties := yc.rules.ApplyCriticalStatPenalties(next)
	result.Narrations = append(result.Narrations, penalties...)

	if next.Age > 40 {
		decline := max(1, (next.Age-40)/10)
		next, _ = ApplyDelta(next, &types.Choice{
			StatChanges: map[string]float64{types.StatHealth: -float64(decline)},
		}, false)
	}

	next, narration := yc.rules.CheckForNewHealthConditions(next)
	if narration != "" {
		result.Narrations = append(result.Narrations, narration)
	}

	if next.Health <= 0 || next.Age >= TerminalAge {
		next.CauseOfDeath = DetermineCauseOfDeath(next)
		result.Character = next
		result.LifeEnded = true
		return result
	}

	result.Character = next
	result.NextMonthsRemaining = clamp(MonthsPerYear+remainder, 1, MonthsPerYear)
	return result
}

// ageOneYear is the only place the character's age changes.
func ageOneYear(c *types.Character) *types.Character {
	next := c.Clone()
	next.Age++
	for i := range next.Relationships {
		if age := next.Relationships[i].Age; age != nil {
			aged := *age + 1
			next.Relationships[i].Age = &aged
		}
	}
	return next
}

func applyPassiveDrift(c *types.Character) *types.Character {
	changes := map[string]float64{}
	happiness := 0.0
	if c.Stress > 75 {
		changes[types.StatHealth] = -2
		happiness -= 5
	}
	if c.Stress < 50 {
		changes[types.StatStress] = -3
	}
	happiness += math.Round(float64(happinessBaseline-c.Happiness) / 10)
	if happiness != 0 {
		changes[types.StatHappiness] = happiness
	}
	// An exhausted character skips recovery so the burnout rule still fires.
	if c.Energy > 0 {
		changes[types.StatEnergy] = yearStartEnergy
	}

	next, _ := ApplyDelta(c, &types.Choice{StatChanges: changes}, false)
	return next
}

func (yc *YearCycle) rollEconomy(c *types.Character, climate types.EconomicClimate) (*types.Character, types.EconomicClimate, []string) {
	if !Chance(yc.roller, yc.EconomyRollChance) {
		return c, climate, nil
	}
	rolled := climates[yc.roller.Intn(len(climates))]
	if rolled == climate {
		return c, climate, nil
	}

	delta := &types.Choice{StatChanges: map[string]float64{}}
	var narrations []string
	switch rolled {
	case types.ClimateRecession:
		delta.StatChanges[types.StatInvestments] = -math.Round(float64(c.Investments) * Between(yc.roller, 0.05, 0.15))
		delta.StatChanges[types.StatWealth] = -math.Round(float64(c.Wealth) * 0.01)
		narrations = append(narrations, "A economia entrou em recessão. Seus investimentos encolheram.")
		if c.Employed() && Chance(yc.roller, 0.05) {
			delta.CareerChange = &types.CareerChange{}
			narrations = append(narrations, fmt.Sprintf("Com a crise, você foi demitido do cargo de %s.", c.Profession))
		}
	case types.ClimateStable:
		delta.StatChanges[types.StatInvestments] = math.Round(float64(c.Investments) * Between(yc.roller, -0.01, 0.05))
		narrations = append(narrations, "A economia se estabilizou.")
	case types.ClimateBoom:
		delta.StatChanges[types.StatInvestments] = math.Round(float64(c.Investments) * Between(yc.roller, 0.05, 0.20))
		delta.StatChanges[types.StatWealth] = math.Round(float64(c.Wealth) * 0.02)
		narrations = append(narrations, "A economia está em expansão! Seus investimentos valorizaram.")
		if c.Employed() && Chance(yc.roller, 0.10) {
			delta.CareerChange = &types.CareerChange{Profession: c.Profession, JobTitle: c.JobTitle, CareerLevelDelta: 5}
			narrations = append(narrations, "O bom momento rendeu uma promoção no trabalho.")
		}
	}

	next, _ := ApplyDelta(c, delta, false)
	return next, rolled, narrations
}
