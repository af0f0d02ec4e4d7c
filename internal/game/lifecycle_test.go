package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vida-loka-geracoes/internal/types"
)

func TestApplyCriticalStatPenaltiesBurnout(t *testing.T) {
	// Setup
	rules := NewLifecycleRules(quietRoller)
	c := &types.Character{
		Age:             35,
		Health:          60,
		Happiness:       50,
		Energy:          0,
		Stress:          20,
		JobSatisfaction: 50,
		Profession:      "Engenheiro",
		JobTitle:        "Pleno",
		CareerLevel:     10,
	}

	// Test case 1: Exhaustion resets energy and hurts the career
	next, narrations := rules.ApplyCriticalStatPenalties(c)
	require.Len(t, narrations, 1)
	assert.Contains(t, narrations[0], "exaustão")
	assert.Equal(t, 25, next.Energy)
	assert.Equal(t, 55, next.Health)
	assert.Equal(t, 40, next.Happiness)
	assert.Equal(t, 35, next.JobSatisfaction)
	assert.Equal(t, 8, next.CareerLevel)
	assert.Equal(t, "Engenheiro", next.Profession)
	assert.Equal(t, "Pleno", next.JobTitle)

	// Test case 2: The input is not modified
	assert.Equal(t, 0, c.Energy)
}

func TestApplyCriticalStatPenaltiesCollapse(t *testing.T) {
	// Setup
	rules := NewLifecycleRules(quietRoller)
	c := &types.Character{
		Age:       40,
		Health:    60,
		Happiness: 50,
		Energy:    50,
		Stress:    96,
		Fame:      10,
		Relationships: []types.Relationship{
			{Name: "Carla", Intimacy: 50},
		},
	}

	// Test case 1: A breakdown strains the first relationship
	next, narrations := rules.ApplyCriticalStatPenalties(c)
	require.Len(t, narrations, 1)
	assert.Contains(t, narrations[0], "Carla")
	assert.Equal(t, 76, next.Stress)
	assert.Equal(t, 20, next.Happiness)
	assert.Equal(t, 5, next.Fame)
	assert.Equal(t, 20, next.Relationships[0].Intimacy)
	assert.Len(t, next.Relationships[0].History, 1)
}

func TestApplyCriticalStatPenaltiesIllness(t *testing.T) {
	rules := NewLifecycleRules(quietRoller)
	c := &types.Character{Age: 40, Health: 5, Happiness: 50, Energy: 50, Stress: 10}

	next, narrations := rules.ApplyCriticalStatPenalties(c)
	require.Len(t, narrations, 1)
	require.NotNil(t, next.HealthCondition)
	assert.Equal(t, "Pneumonia", next.HealthCondition.Name)
	assert.Equal(t, 25, next.Happiness)
	assert.Equal(t, 20, next.Energy)

	// Test case 2: An existing condition is not replaced
	again, narrations := rules.ApplyCriticalStatPenalties(next)
	assert.Empty(t, narrations)
	assert.Equal(t, next, again)
}

func TestNewConditionChance(t *testing.T) {
	assert.InDelta(t, 0.0, NewConditionChance(&types.Character{Age: 30, Health: 80, Stress: 20}), 1e-9)
	assert.InDelta(t, 0.30, NewConditionChance(&types.Character{Age: 55, Health: 45, Stress: 20}), 1e-9)
	assert.InDelta(t, 0.80, NewConditionChance(&types.Character{Age: 75, Health: 20, Stress: 90}), 1e-9)
}

func TestCheckForNewHealthConditions(t *testing.T) {
	// Setup
	rules := NewLifecycleRules(fixedRoller{f: 0, n: 0})
	elderly := &types.Character{Age: 75, Health: 60, Happiness: 50, Stress: 20}

	// Test case 1: The elderly pool is used past 70
	next, narration := rules.CheckForNewHealthConditions(elderly)
	require.NotNil(t, next.HealthCondition)
	assert.Equal(t, "Doença cardíaca", next.HealthCondition.Name)
	assert.Equal(t, 45, next.Health)
	assert.Equal(t, 30, next.Happiness)
	assert.Equal(t, 30, next.Stress)
	assert.NotEmpty(t, narration)

	// Test case 2: No risk, no roll
	young := &types.Character{Age: 20, Health: 90, Stress: 10}
	same, narration := rules.CheckForNewHealthConditions(young)
	assert.Same(t, young, same)
	assert.Empty(t, narration)
}

func TestDetermineCauseOfDeath(t *testing.T) {
	tests := []struct {
		name string
		c    types.Character
		want string
	}{
		{"terminal age wins", types.Character{Age: 105, Health: 0, HealthCondition: &types.HealthCondition{Name: "Câncer"}}, "Velhice, após uma vida extraordinariamente longa"},
		{"alive means peaceful", types.Character{Age: 60, Health: 40}, "Causas naturais, em paz"},
		{"cancer", types.Character{Age: 60, HealthCondition: &types.HealthCondition{Name: "Câncer de pulmão"}}, "Perdeu a batalha contra o câncer"},
		{"mental health", types.Character{Age: 60, HealthCondition: &types.HealthCondition{Name: "Depressão"}}, "Sucumbiu a uma longa luta contra a saúde mental"},
		{"cardiorespiratory", types.Character{Age: 60, HealthCondition: &types.HealthCondition{Name: "Doença cardíaca"}}, "Insuficiência cardiorrespiratória"},
		{"other condition", types.Character{Age: 60, HealthCondition: &types.HealthCondition{Name: "Lúpus"}}, "Complicações de Lúpus"},
		{"addiction", types.Character{Age: 60, Stress: 80, Happiness: 20, Traits: []types.Trait{{Name: "Viciado em jogo"}}}, "Overdose após anos de dependência"},
		{"criminal", types.Character{Age: 60, Morality: -70, Happiness: 50, Traits: []types.Trait{{Name: "Criminoso"}}}, "Assassinado em um acerto de contas"},
		{"impulsive", types.Character{Age: 60, Discipline: 10, Happiness: 50, Traits: []types.Trait{{Name: "Impulsivo"}}}, "Acidente fatal causado por uma decisão impulsiva"},
		{"fragile", types.Character{Age: 60, Happiness: 50, Traits: []types.Trait{{Name: "Frágil"}}}, "A saúde frágil finalmente cedeu"},
		{"stress", types.Character{Age: 60, Stress: 96, Happiness: 50}, "Infarto fulminante causado pelo estresse"},
		{"sadness", types.Character{Age: 60, Happiness: 2}, "Definhou em profunda tristeza"},
		{"young", types.Character{Age: 30, Happiness: 50}, "Morte súbita e inesperada"},
		{"middle age", types.Character{Age: 65, Happiness: 50}, "Falência de órgãos"},
		{"old age", types.Character{Age: 80, Happiness: 50}, "Causas naturais, em paz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineCauseOfDeath(&tt.c))
		})
	}
}

func TestCatastrophicEventChance(t *testing.T) {
	// Test case 1: Baseline
	assert.InDelta(t, 0.01, CatastrophicEventChance(&types.Character{Age: 30, Health: 80}), 1e-9)

	// Test case 2: Every risk factor stacks
	risky := &types.Character{
		Age:        80,
		Health:     10,
		Stress:     95,
		Fame:       -70,
		Profession: "Policial",
		Traits:     []types.Trait{{Name: "Temerário"}},
	}
	assert.InDelta(t, 0.22, CatastrophicEventChance(risky), 1e-9)

	// Test case 3: Clamped at both ends
	for i := 0; i < 20; i++ {
		risky.Traits = append(risky.Traits, types.Trait{Name: "Aventureiro"})
	}
	assert.InDelta(t, 0.4, CatastrophicEventChance(risky), 1e-9)
	careful := &types.Character{Age: 20, Health: 80, Traits: []types.Trait{{Name: "Cautelosa"}, {Name: "Prudente"}}}
	assert.Zero(t, CatastrophicEventChance(careful))
}
