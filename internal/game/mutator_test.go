package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vida-loka-geracoes/internal/types"
)

func testCharacter() *types.Character {
	return &types.Character{
		Name:            "Ana",
		LastName:        "Moreira",
		Age:             30,
		BirthYear:       1970,
		Health:          50,
		Intelligence:    50,
		Charisma:        50,
		Creativity:      50,
		Discipline:      50,
		Happiness:       50,
		Energy:          50,
		Stress:          50,
		Luck:            50,
		JobSatisfaction: 50,
		Wealth:          1000,
		Profession:      "Engenheira",
		JobTitle:        "Pleno",
		CareerLevel:     10,
		Relationships: []types.Relationship{
			{Name: "Carla", Type: "Amiga", Intimacy: 50},
		},
		Skills: []types.Skill{{Name: "Violão", Level: 20}},
		Traits: []types.Trait{{Name: "Curiosa"}},
	}
}

func TestApplyDeltaClampsStats(t *testing.T) {
	// Setup
	c := testCharacter()

	// Test case 1: Absurd values land inside the bands
	next, ignored := ApplyDelta(c, &types.Choice{
		StatChanges: map[string]float64{
			"health":    99999,
			"stress":    -99999,
			"fame":      99999,
			"morality":  -99999,
			"wealth":    -5000,
			"happiness": 12.9,
		},
	}, false)
	assert.Empty(t, ignored)
	assert.Equal(t, 100, next.Health)
	assert.Equal(t, 0, next.Stress)
	assert.Equal(t, 100, next.Fame)
	assert.Equal(t, -100, next.Morality)
	assert.Equal(t, int64(-4000), next.Wealth)
	assert.Equal(t, 62, next.Happiness)

	// Test case 2: The input character is untouched
	assert.Equal(t, 50, c.Health)
	assert.Equal(t, int64(1000), c.Wealth)
}

func TestApplyDeltaIgnoresUnknownFields(t *testing.T) {
	c := testCharacter()

	next, ignored := ApplyDelta(c, &types.Choice{
		StatChanges: map[string]float64{"mana": 10, "luck": 5},
		RelationshipChanges: &types.RelationshipChanges{
			Update: []types.RelationshipUpdate{{Name: "Zé", IntimacyDelta: 10}},
		},
		AssetChanges: &types.AssetChanges{Remove: []string{"Iate"}},
	}, false)

	assert.Equal(t, 55, next.Luck)
	assert.Contains(t, ignored, "stat_changes.mana: unknown stat")
	assert.Contains(t, ignored, `relationship_changes.update: "Zé" not found`)
	assert.Contains(t, ignored, `asset_changes.remove: "Iate" not owned`)
}

func TestApplyDeltaRelationships(t *testing.T) {
	// Setup
	c := testCharacter()
	status := "Casados"

	// Test case 1: First write wins on add, updates clamp intimacy
	next, _ := ApplyDelta(c, &types.Choice{
		RelationshipChanges: &types.RelationshipChanges{
			Add: []types.Relationship{
				{Name: "Carla", Type: "Inimiga", Intimacy: -90},
				{Name: "Rui", Type: "Cônjuge", Intimacy: 70},
			},
			Update:  []types.RelationshipUpdate{{Name: "Rui", IntimacyDelta: 50, Status: &status}},
			History: []types.RelationshipHistory{{Name: "Rui", Entry: "Casamento"}},
		},
	}, false)
	require.Len(t, next.Relationships, 2)
	assert.Equal(t, "Amiga", next.Relationships[0].Type)
	assert.Equal(t, 100, next.Relationships[1].Intimacy)
	assert.Equal(t, "Casados", next.Relationships[1].Status)
	assert.Equal(t, []string{"Casamento"}, next.Relationships[1].History)
	assert.Len(t, c.Relationships, 1)

	// Test case 2: History keeps only the latest entries
	for i := 0; i < 7; i++ {
		next, _ = ApplyDelta(next, &types.Choice{
			RelationshipChanges: &types.RelationshipChanges{
				History: []types.RelationshipHistory{{Name: "Carla", Entry: string(rune('a' + i))}},
			},
		}, false)
	}
	assert.Equal(t, []string{"c", "d", "e", "f", "g"}, next.Relationships[0].History)

	// Test case 3: Removal
	next, ignored := ApplyDelta(next, &types.Choice{
		RelationshipChanges: &types.RelationshipChanges{Remove: []string{"Carla"}},
	}, false)
	assert.Empty(t, ignored)
	require.Len(t, next.Relationships, 1)
	assert.Equal(t, "Rui", next.Relationships[0].Name)
}

func TestApplyDeltaCareer(t *testing.T) {
	// Setup
	c := testCharacter()

	// Test case 1: Promotion
	next, _ := ApplyDelta(c, &types.Choice{
		CareerChange: &types.CareerChange{Profession: "Engenheira", JobTitle: "Sênior", CareerLevelDelta: 5},
	}, false)
	assert.Equal(t, "Sênior", next.JobTitle)
	assert.Equal(t, 15, next.CareerLevel)

	// Test case 2: An empty profession is a job loss
	next, _ = ApplyDelta(next, &types.Choice{CareerChange: &types.CareerChange{CareerLevelDelta: -3}}, false)
	assert.False(t, next.Employed())
	assert.Empty(t, next.JobTitle)
	assert.Zero(t, next.JobSatisfaction)
	assert.Equal(t, 12, next.CareerLevel)
}

func TestApplyDeltaHealthCondition(t *testing.T) {
	c := testCharacter()
	flu := "Gripe"
	none := ""

	next, _ := ApplyDelta(c, &types.Choice{HealthConditionChange: &flu}, false)
	require.NotNil(t, next.HealthCondition)
	assert.Equal(t, "Gripe", next.HealthCondition.Name)
	assert.Equal(t, 30, next.HealthCondition.OnsetAge)

	next, _ = ApplyDelta(next, &types.Choice{HealthConditionChange: &none}, false)
	assert.Nil(t, next.HealthCondition)
}

func TestApplyDeltaSkillsAndTraits(t *testing.T) {
	c := testCharacter()

	next, ignored := ApplyDelta(c, &types.Choice{
		SkillChanges: &types.SkillChanges{
			Add: []types.Skill{{Name: "Violão", Level: 90}, {Name: "Xadrez", Level: 150}},
			Update: []types.SkillUpdate{
				{Name: "Violão", LevelDelta: 30, NewName: "Violão Avançado"},
				{Name: "Culinária", LevelDelta: 10},
			},
		},
		TraitChanges: &types.TraitChanges{
			Add:    []types.Trait{{Name: "Teimosa"}},
			Update: []types.TraitUpdate{{Name: "Curiosa"}},
			Remove: []string{"Preguiçosa"},
		},
	}, false)

	assert.Equal(t, []types.Skill{
		{Name: "Violão Avançado", Level: 50},
		{Name: "Xadrez", Level: 100},
		{Name: "Culinária", Level: 10},
	}, next.Skills)
	require.Len(t, next.Traits, 2)
	assert.Equal(t, 2, next.Traits[0].Level)
	assert.Equal(t, []string{`trait_changes.remove: "Preguiçosa" not found`}, ignored)
}

func TestApplyDeltaSkillRenameCollision(t *testing.T) {
	// Setup
	c := testCharacter()
	c.Skills = []types.Skill{{Name: "Culinária", Level: 40}, {Name: "Chef", Level: 10}}

	// Test case 1: Renaming onto an existing skill merges them at the higher level
	next, ignored := ApplyDelta(c, &types.Choice{SkillChanges: &types.SkillChanges{
		Update: []types.SkillUpdate{{Name: "Culinária", LevelDelta: 5, NewName: "Chef"}},
	}}, false)
	assert.Empty(t, ignored)
	assert.Equal(t, []types.Skill{{Name: "Chef", Level: 45}}, next.Skills)

	// Test case 2: Creating a missing skill under a taken name is skipped
	next, ignored = ApplyDelta(c, &types.Choice{SkillChanges: &types.SkillChanges{
		Update: []types.SkillUpdate{{Name: "Pintura", LevelDelta: 5, NewName: "Chef"}},
	}}, false)
	assert.Equal(t, []types.Skill{{Name: "Culinária", Level: 40}, {Name: "Chef", Level: 10}}, next.Skills)
	require.Len(t, ignored, 1)
	assert.Contains(t, ignored[0], "Chef already exists")

	// Test case 3: The input keeps both skills
	assert.Len(t, c.Skills, 2)
}

func TestApplyDeltaFractionalVitalStats(t *testing.T) {
	c := testCharacter()

	next, _ := ApplyDelta(c, &types.Choice{StatChanges: map[string]float64{
		"stress": -0.5,
		"energy": 0.5,
		"luck":   -2.2,
	}}, false)
	assert.Equal(t, 49, next.Stress)
	assert.Equal(t, 50, next.Energy)
	assert.Equal(t, 47, next.Luck)
}

func TestApplyDeltaGoalsPlotsAndItems(t *testing.T) {
	c := testCharacter()

	next, _ := ApplyDelta(c, &types.Choice{
		GoalChanges:        &types.GoalChanges{Add: []string{"Viajar", "Viajar"}},
		PlotChanges:        &types.PlotChanges{Add: []string{"O sumiço do tio"}},
		CraftedItemChanges: &types.CraftedItemChanges{Add: []types.CraftedItem{{Name: "Cadeira"}, {Name: "Cadeira"}}},
	}, false)
	assert.Len(t, next.LifeGoals, 1)
	assert.Len(t, next.CraftedItems, 2)

	next, _ = ApplyDelta(next, &types.Choice{
		GoalChanges:        &types.GoalChanges{Complete: []string{"Viajar"}},
		PlotChanges:        &types.PlotChanges{Complete: []string{"O sumiço do tio"}},
		CraftedItemChanges: &types.CraftedItemChanges{Remove: []string{"Cadeira"}},
	}, false)
	assert.True(t, next.LifeGoals[0].Completed)
	assert.True(t, next.OngoingPlots[0].Completed)
	assert.Empty(t, next.CraftedItems)
}

func TestApplyDeltaChildBirth(t *testing.T) {
	// Setup
	c := testCharacter()
	c.IsPregnant = true

	// Test case 1: A newborn joins the family
	next, ignored := ApplyDelta(c, &types.Choice{ChildBorn: &types.ChildBirth{Name: "Lia"}}, false)
	assert.Empty(t, ignored)
	require.Len(t, next.Relationships, 2)
	child := next.Relationships[1]
	assert.Equal(t, childRelationshipType, child.Type)
	assert.Equal(t, 80, child.Intimacy)
	require.NotNil(t, child.Age)
	assert.Zero(t, *child.Age)
	assert.Equal(t, []string{"Nasceu em 2000"}, child.History)
	assert.False(t, next.IsPregnant)

	// Test case 2: A name already in use is skipped
	_, ignored = ApplyDelta(next, &types.Choice{ChildBorn: &types.ChildBirth{Name: "Lia"}}, false)
	assert.Len(t, ignored, 1)
}

func TestApplyDeltaEpicMemory(t *testing.T) {
	c := testCharacter()

	next, _ := ApplyDelta(c, &types.Choice{MemoryGained: "Sobreviveu ao naufrágio"}, true)
	require.Len(t, next.Memories, 1)
	assert.True(t, next.Memories[0].IsEpic)
	assert.Equal(t, "★ Sobreviveu ao naufrágio", next.Memories[0].Description)

	next, _ = ApplyDelta(next, &types.Choice{MemoryGained: "Almoço de domingo"}, false)
	assert.False(t, next.Memories[1].IsEpic)
}

func TestApplyDeltaMiscFields(t *testing.T) {
	c := testCharacter()
	pregnant := true
	contribution := "Guardou a carta"

	next, _ := ApplyDelta(c, &types.Choice{
		LocationChange:   "Recife",
		IsPregnantChange: &pregnant,
		PlotContribution: &contribution,
		SpecialEnding:    "Partiu para Marte",
		AssetChanges:     &types.AssetChanges{Add: []string{"Moto", "Moto"}},
	}, false)

	assert.Equal(t, "Recife", next.CurrentLocation)
	assert.True(t, next.IsPregnant)
	assert.Equal(t, "Guardou a carta", next.PlotContribution)
	assert.Equal(t, "Partiu para Marte", next.SpecialEnding)
	assert.Equal(t, []string{"Moto"}, next.Assets)
}

func TestApplyDeltaNil(t *testing.T) {
	next, ignored := ApplyDelta(testCharacter(), nil, false)
	assert.NotNil(t, next)
	assert.Empty(t, ignored)

	next, ignored = ApplyDelta(nil, &types.Choice{}, false)
	assert.Nil(t, next)
	assert.Len(t, ignored, 1)
}
