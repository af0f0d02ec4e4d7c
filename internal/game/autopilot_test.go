package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/vida-loka-geracoes/internal/types"
)

func TestChooseEventOption(t *testing.T) {
	// Setup
	engine := NewDecisionEngine(quietRoller)
	c := testCharacter()
	flu := "Gripe"

	// Test case 1: The best trade-off wins
	event := &types.Event{Choices: []types.Choice{
		{ChoiceText: "Virar a noite", StatChanges: map[string]float64{"stress": 20, "wealth": 2000}},
		{ChoiceText: "Descansar", StatChanges: map[string]float64{"happiness": 10, "health": 5}},
		{ChoiceText: "Partir para sempre", StatChanges: map[string]float64{"happiness": 100}, SpecialEnding: "Sumiu no mundo"},
	}}
	assert.Equal(t, 1, engine.ChooseEventOption(c, event))

	// Test case 2: Losing the job and getting sick are avoided
	event = &types.Event{Choices: []types.Choice{
		{ChoiceText: "Pedir demissão", StatChanges: map[string]float64{"happiness": 10}, CareerChange: &types.CareerChange{}},
		{ChoiceText: "Trabalhar doente", StatChanges: map[string]float64{"happiness": 10}, HealthConditionChange: &flu},
		{ChoiceText: "Ficar quieto", StatChanges: map[string]float64{}},
	}}
	assert.Equal(t, 2, engine.ChooseEventOption(c, event))

	// Test case 3: Health matters more when it is low
	c.Health = 20
	event = &types.Event{Choices: []types.Choice{
		{ChoiceText: "Festa", StatChanges: map[string]float64{"happiness": 20}},
		{ChoiceText: "Médico", StatChanges: map[string]float64{"health": 5}},
	}}
	assert.Equal(t, 1, engine.ChooseEventOption(c, event))

	// Test case 4: Nothing to choose from
	assert.Equal(t, -1, engine.ChooseEventOption(c, &types.Event{}))
	assert.Equal(t, -1, engine.ChooseEventOption(c, nil))
}

func TestFreeformAnswer(t *testing.T) {
	engine := NewDecisionEngine(quietRoller)
	c := testCharacter()

	assert.NotEmpty(t, engine.FreeformAnswer(c))

	c.Discipline = 80
	assert.Equal(t, "Faço o que é mais seguro no momento.", engine.FreeformAnswer(c))
}
