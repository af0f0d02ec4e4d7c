package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStateClone(t *testing.T) {
	// Setup
	age := 7
	state := GameState{
		Phase: PhaseInProgress,
		Character: &Character{
			Name:          "Ana",
			Relationships: []Relationship{{Name: "Rui", Age: &age, History: []string{"Nasceu"}}},
			Assets:        []string{"Casa"},
		},
		Lineage:          &Lineage{LastName: "Prado", Favors: []string{"Um favor"}},
		CurrentEvent:     &Event{Choices: []Choice{{ChoiceText: "Sim", StatChanges: map[string]float64{"happiness": 1}}}},
		YearLog:          []string{"2000"},
		WorldEvents:      []WorldEvent{{Title: "Copa", Effects: map[string]float64{"happiness": 5}}},
		PurchasedBonuses: map[string]int{"heranca": 1},
		LastError:        &GameError{Kind: "quota"},
	}

	// Test case 1: Mutating the clone leaves the original intact
	clone := state.Clone()
	clone.Character.Assets[0] = "Carro"
	*clone.Character.Relationships[0].Age = 8
	clone.Character.Relationships[0].History[0] = "Outro"
	clone.Lineage.Favors[0] = "Outro"
	clone.CurrentEvent.Choices[0].StatChanges["happiness"] = 9
	clone.YearLog[0] = "2001"
	clone.WorldEvents[0].Effects["happiness"] = 0
	clone.PurchasedBonuses["heranca"] = 3
	clone.LastError.Kind = "timeout"

	assert.Equal(t, "Casa", state.Character.Assets[0])
	assert.Equal(t, 7, *state.Character.Relationships[0].Age)
	assert.Equal(t, "Nasceu", state.Character.Relationships[0].History[0])
	assert.Equal(t, "Um favor", state.Lineage.Favors[0])
	assert.Equal(t, 1.0, state.CurrentEvent.Choices[0].StatChanges["happiness"])
	assert.Equal(t, "2000", state.YearLog[0])
	assert.Equal(t, 5.0, state.WorldEvents[0].Effects["happiness"])
	assert.Equal(t, 1, state.PurchasedBonuses["heranca"])
	assert.Equal(t, "quota", state.LastError.Kind)

	// Test case 2: Empty state
	empty := GameState{}.Clone()
	assert.Nil(t, empty.Character)
	assert.Nil(t, empty.CurrentEvent)
}

func TestSummarize(t *testing.T) {
	// Setup
	c := &Character{
		Name:        "Ana",
		LastName:    "Prado",
		Age:         40,
		Health:      80,
		Stress:      30,
		Wealth:      1500,
		Profession:  "Médica",
		Traits:      []Trait{{Name: "Curiosa"}},
		Skills:      []Skill{{Name: "Violão", Level: 20}},
		LifeGoals:   []Goal{{Description: "Viajar", Completed: true}, {Description: "Escrever"}},
		Memories:    []Memory{{Description: "1"}, {Description: "2"}, {Description: "3"}, {Description: "4"}, {Description: "5"}, {Description: "6"}},
		Investments: 10,
	}

	s := Summarize(c)

	assert.Equal(t, "Ana Prado", s.Name)
	assert.Equal(t, 80, s.Stats[StatHealth])
	assert.Equal(t, 30, s.Stats[StatStress])
	assert.NotContains(t, s.Stats, StatWealth)
	assert.Len(t, s.Stats, 13)
	assert.Equal(t, int64(1500), s.Wealth)
	assert.Equal(t, []string{"Curiosa"}, s.Traits)
	assert.Equal(t, []string{"Violão (20)"}, s.Skills)
	assert.Equal(t, []string{"Escrever"}, s.Goals)
	require.Len(t, s.RecentMemories, 5)
	assert.Equal(t, "2", s.RecentMemories[0])
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, BandCore, BandOf(StatHealth))
	assert.Equal(t, BandVital, BandOf(StatLuck))
	assert.Equal(t, BandFinancial, BandOf(StatInvestments))
	assert.Equal(t, BandReputation, BandOf(StatFame))
	assert.Equal(t, BandUnknown, BandOf("beleza"))
}
