package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vida-loka-geracoes/internal/types"
)

func quietCycle() *YearCycle {
	yc := NewYearCycle(quietRoller)
	yc.EconomyRollChance = 0
	return yc
}

func adult() *types.Character {
	return &types.Character{
		Name:      "Ana",
		Age:       30,
		Health:    80,
		Happiness: 60,
		Energy:    50,
		Stress:    30,
		Wealth:    5000,
	}
}

func TestAdvanceWithinYear(t *testing.T) {
	yc := quietCycle()
	c := adult()

	result := yc.Advance(c, types.ClimateStable, 12, 3)
	assert.False(t, result.RolledOver)
	assert.Equal(t, 9, result.NextMonthsRemaining)
	assert.Same(t, c, result.Character)
	assert.Equal(t, types.ClimateStable, result.Climate)
}

func TestAdvanceRollover(t *testing.T) {
	// Setup
	yc := quietCycle()
	c := adult()
	c.Relationships = []types.Relationship{{Name: "Lia", Age: new(int)}}

	// Test case 1: Overspent months carry into the next year
	result := yc.Advance(c, types.ClimateStable, 2, 5)
	require.True(t, result.RolledOver)
	assert.False(t, result.LifeEnded)
	assert.Equal(t, 9, result.NextMonthsRemaining)
	assert.Equal(t, 31, result.Character.Age)
	assert.Equal(t, 1, *result.Character.Relationships[0].Age)
	assert.Equal(t, 27, result.Character.Stress)
	assert.Equal(t, 90, result.Character.Energy)
	assert.Equal(t, 30, c.Age)

	// Test case 2: Exactly spending the year starts a full one
	result = yc.Advance(c, types.ClimateStable, 4, 4)
	require.True(t, result.RolledOver)
	assert.Equal(t, 12, result.NextMonthsRemaining)

	// Test case 3: A huge overspend still leaves a month
	result = yc.Advance(c, types.ClimateStable, 1, 12)
	assert.Equal(t, 1, result.NextMonthsRemaining)
}

func TestAdvanceRolloverLeavesInputIntact(t *testing.T) {
	// Setup
	yc := quietCycle()
	c := adult()
	c.Profession = "Engenheiro"
	c.JobTitle = "Pleno"
	c.JobSatisfaction = 50
	c.Investments = 2000
	c.Relationships = []types.Relationship{{Name: "Lia", Type: "Irmã", Intimacy: 70, Age: new(int), History: []string{"Nasceu"}}}
	c.Traits = []types.Trait{{Name: "Curiosa", Level: 1}}
	c.Skills = []types.Skill{{Name: "Violão", Level: 20}}
	c.Assets = []string{"Bicicleta"}
	c.Memories = []types.Memory{{Description: "Primeiro emprego"}}
	c.LifeGoals = []types.Goal{{Description: "Viajar"}}
	before := c.Clone()

	result := yc.Advance(c, types.ClimateStable, 1, 1)
	require.True(t, result.RolledOver)
	assert.NotSame(t, c, result.Character)
	assert.Equal(t, before, c)
}

func TestAdvanceBurnout(t *testing.T) {
	// Setup
	yc := quietCycle()
	c := adult()
	c.Energy = 0
	c.Profession = "Engenheiro"
	c.JobTitle = "Pleno"
	c.JobSatisfaction = 50
	c.CareerLevel = 10

	// Test case 1: An exhausted worker burns out at year end
	result := yc.Advance(c, types.ClimateStable, 1, 1)
	require.False(t, result.LifeEnded)
	assert.Equal(t, 25, result.Character.Energy)
	assert.Equal(t, 35, result.Character.JobSatisfaction)
	assert.Equal(t, 8, result.Character.CareerLevel)
	assert.Equal(t, "Engenheiro", result.Character.Profession)
	assert.Equal(t, 75, result.Character.Health)
	assert.Equal(t, 50, result.Character.Happiness)
	require.NotEmpty(t, result.Narrations)
	assert.Contains(t, result.Narrations[0], "exaustão")
	assert.Contains(t, result.Narrations[0], "desempenho no trabalho")

	// Test case 2: Any energy left means a normal recovery
	c.Energy = 1
	result = yc.Advance(c, types.ClimateStable, 1, 1)
	assert.Equal(t, 41, result.Character.Energy)
	assert.Equal(t, 50, result.Character.JobSatisfaction)
	assert.Empty(t, result.Narrations)
}

func TestAdvanceHealthDeath(t *testing.T) {
	// Setup
	yc := quietCycle()
	c := adult()
	c.Age = 60
	c.Health = 1
	c.Stress = 80

	// Test case 1: Drift and illness push health to zero
	result := yc.Advance(c, types.ClimateStable, 3, 3)
	require.True(t, result.LifeEnded)
	assert.Equal(t, 0, result.Character.Health)
	require.NotNil(t, result.Character.HealthCondition)
	assert.Equal(t, "Insuficiência cardiorrespiratória", result.Character.CauseOfDeath)
	assert.Zero(t, result.NextMonthsRemaining)

	// Test case 2: Zero health ends a young, calm life too
	c = adult()
	c.Health = 0
	c.Stress = 10
	result = yc.Advance(c, types.ClimateStable, 1, 1)
	require.True(t, result.LifeEnded)
	assert.Equal(t, 31, result.Character.Age)
	require.NotNil(t, result.Character.HealthCondition)
	assert.NotEmpty(t, result.Character.CauseOfDeath)
	assert.Equal(t, "Insuficiência cardiorrespiratória", result.Character.CauseOfDeath)
}

func TestAdvanceTerminalAge(t *testing.T) {
	yc := quietCycle()
	c := adult()
	c.Stress = 10

	// Test case 1: Turning 104 is survivable
	c.Age = 103
	result := yc.Advance(c, types.ClimateStable, 1, 1)
	assert.False(t, result.LifeEnded)
	assert.Equal(t, 104, result.Character.Age)

	// Test case 2: Turning 105 is not
	result = yc.Advance(result.Character, types.ClimateStable, 1, 1)
	assert.True(t, result.LifeEnded)
	assert.Equal(t, TerminalAge, result.Character.Age)
	assert.Equal(t, "Velhice, após uma vida extraordinariamente longa", result.Character.CauseOfDeath)
}

func TestAdvanceAgeDecline(t *testing.T) {
	yc := quietCycle()
	c := adult()
	c.Age = 69
	c.Health = 80

	result := yc.Advance(c, types.ClimateStable, 1, 1)
	require.False(t, result.LifeEnded)
	assert.Equal(t, 77, result.Character.Health)
}

func TestAdvanceEconomyRoll(t *testing.T) {
	// Setup
	yc := NewYearCycle(fixedRoller{f: 0.5, n: 1})
	yc.EconomyRollChance = 1
	c := adult()
	c.Investments = 10000

	// Test case 1: A recession shrinks savings
	result := yc.Advance(c, types.ClimateStable, 1, 1)
	assert.Equal(t, types.ClimateRecession, result.Climate)
	assert.Equal(t, int64(9000), result.Character.Investments)
	assert.Equal(t, int64(4950), result.Character.Wealth)
	require.NotEmpty(t, result.Narrations)
	assert.Contains(t, result.Narrations[0], "recessão")

	// Test case 2: Rolling the current climate changes nothing
	result = yc.Advance(c, types.ClimateRecession, 1, 1)
	assert.Equal(t, types.ClimateRecession, result.Climate)
	assert.Equal(t, int64(10000), result.Character.Investments)
}
