package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vida-loka-geracoes/internal/types"
)

func TestFoundLineage(t *testing.T) {
	factory := NewCharacterFactory(DefaultCatalog(), quietRoller)

	// Test case 1: A rolled name and founder traits
	lineage := factory.FoundLineage("  ")
	assert.Equal(t, "Silva", lineage.LastName)
	assert.Equal(t, 1, lineage.Generation)
	assert.Equal(t, "Leão", lineage.Crest)
	require.NotNil(t, lineage.FounderTraits)
	assert.Equal(t, "preto", lineage.FounderTraits.HairColor)
	assert.NotEmpty(t, lineage.ID)

	// Test case 2: A chosen name is kept
	assert.Equal(t, "Prado", factory.FoundLineage(" Prado ").LastName)
}

func TestNewCharacter(t *testing.T) {
	// Setup
	factory := NewCharacterFactory(DefaultCatalog(), quietRoller)
	lineage := factory.FoundLineage("Prado")

	// Test case 1: Background profile and defaults
	c := factory.NewCharacter(lineage, CharacterSeed{Background: types.BackgroundWealthy, Year: 2000}, types.LegacyBonuses{})
	assert.Equal(t, "João", c.Name)
	assert.Equal(t, "male", c.Gender)
	assert.Equal(t, "Prado", c.LastName)
	assert.Equal(t, StartingAge, c.Age)
	assert.Equal(t, 1982, c.BirthYear)
	assert.Equal(t, "São Paulo", c.Birthplace)
	assert.Equal(t, c.Birthplace, c.CurrentLocation)
	assert.Equal(t, int64(50000), c.Wealth)
	assert.Equal(t, int64(20000), c.Investments)
	assert.Equal(t, []string{"Casa da família"}, c.Assets)
	assert.Equal(t, 70, c.Health)
	assert.Equal(t, 33, c.Charisma)
	assert.Equal(t, 25, c.Discipline)
	assert.Equal(t, 65, c.Happiness)
	assert.Equal(t, lineage.FounderTraits, c.FounderTraits)
	assert.NotSame(t, lineage.FounderTraits, c.FounderTraits)
	assert.Contains(t, c.Backstory, "primeiro de sua linhagem")

	// Test case 2: Bonuses apply once on top
	bonuses := types.LegacyBonuses{
		StatChanges:     map[string]float64{"wealth": 5000, "health": 5},
		Assets:          []string{"Casa ancestral"},
		InheritedSecret: "Um mapa escondido",
	}
	lineage.Generation = 2
	heir := factory.NewCharacter(lineage, CharacterSeed{Name: "Lia", Gender: "female", Background: "NOBRE", Birthplace: "Recife", Year: 2040}, bonuses)
	assert.Equal(t, "Lia", heir.Name)
	assert.Equal(t, types.BackgroundMiddleClass, heir.FamilyBackground)
	assert.Equal(t, int64(6000), heir.Wealth)
	assert.Equal(t, 74, heir.Health)
	assert.Equal(t, []string{"Casa ancestral"}, heir.Assets)
	assert.Equal(t, "Um mapa escondido", heir.InheritedSecret)
	assert.Equal(t, 2, heir.Generation)
	assert.Contains(t, heir.Backstory, "2ª geração")
}

func TestHeir(t *testing.T) {
	c := &types.Character{Relationships: []types.Relationship{
		{Name: "Carla", Type: "Cônjuge", Intimacy: 99},
		{Name: "Lia", Type: childRelationshipType, Intimacy: 60},
		{Name: "Rui", Type: childRelationshipType, Intimacy: 85},
	}}

	heir, ok := Heir(c)
	require.True(t, ok)
	assert.Equal(t, "Rui", heir.Name)

	_, ok = Heir(&types.Character{})
	assert.False(t, ok)
}

func TestWealthTier(t *testing.T) {
	assert.Equal(t, types.BackgroundPoor, WealthTier(&types.Character{Wealth: 4999}))
	assert.Equal(t, types.BackgroundMiddleClass, WealthTier(&types.Character{Wealth: 3000, Investments: 2000}))
	assert.Equal(t, types.BackgroundWealthy, WealthTier(&types.Character{Investments: 200000}))
	assert.Equal(t, types.BackgroundPoor, WealthTier(&types.Character{Wealth: -10000}))
}

func TestBuildAncestor(t *testing.T) {
	// Setup
	c := testCharacter()
	c.Age = 81
	c.CauseOfDeath = "Causas naturais, em paz"
	c.Relationships = []types.Relationship{
		{Name: "A", Intimacy: 10},
		{Name: "B", Intimacy: 90},
		{Name: "C", Intimacy: 50},
		{Name: "D", Intimacy: 70},
	}
	c.LifeGoals = []types.Goal{{Description: "Viajar", Completed: true}, {Description: "Escrever"}}
	c.Memories = []types.Memory{{Description: "★ Ganhou a loteria", IsEpic: true}, {Description: "Almoço"}}
	legacy := types.LegacyResult{Points: 120, ChallengesCompleted: []string{"Centenário"}}

	// Test case 1: The record keeps the closest relationships and achievements
	ancestor := BuildAncestor(c, legacy, 2051)
	assert.Equal(t, "Ana", ancestor.Name)
	assert.Equal(t, 2051, ancestor.DeathYear)
	assert.Equal(t, 81, ancestor.AgeAtDeath)
	assert.Equal(t, 120, ancestor.LegacyPoints)
	assert.Equal(t, int64(1000), ancestor.FinalWealth)
	require.Len(t, ancestor.KeyRelationships, 3)
	assert.Equal(t, "B", ancestor.KeyRelationships[0].Name)
	assert.Equal(t, "C", ancestor.KeyRelationships[2].Name)
	assert.Equal(t, []string{"Centenário", "Viajar", "★ Ganhou a loteria"}, ancestor.Achievements)
	assert.Contains(t, ancestor.Summary, "Engenheira")

	// Test case 2: The character's relationships are untouched
	assert.Equal(t, "A", c.Relationships[0].Name)
}
