package game

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/vida-loka-geracoes/internal/types"
)

// StartingAge is the age at which every playable life begins.
const StartingAge = 18

const (
	middleClassNetWorth = 5000
	wealthyNetWorth     = 200000
)

// CharacterFactory rolls new lineages and characters from the catalog
type CharacterFactory struct {
	catalog *Catalog
	roller  Roller
	now     func() time.Time
}

// NewCharacterFactory creates a factory drawing names and traits from catalog
func NewCharacterFactory(catalog *Catalog, roller Roller) *CharacterFactory {
	return &CharacterFactory{
		catalog: catalog,
		roller:  roller,
		now:     time.Now,
	}
}

// FoundLineage starts a new family line with freshly rolled founder traits
func (cf *CharacterFactory) FoundLineage(lastName string) *types.Lineage {
	if strings.TrimSpace(lastName) == "" {
		lastName = Pick(cf.roller, cf.catalog.LastNames)
	}
	pool := cf.catalog.Founder
	return &types.Lineage{
		ID:         uuid.NewString(),
		LastName:   strings.TrimSpace(lastName),
		Generation: 1,
		Crest:      Pick(cf.roller, cf.catalog.Crests),
		FounderTraits: &types.FounderTraits{
			HairColor: Pick(cf.roller, pool.HairColors),
			EyeColor:  Pick(cf.roller, pool.EyeColors),
			SkinTone:  Pick(cf.roller, pool.SkinTones),
			Build:     Pick(cf.roller, pool.Builds),
		},
		FoundedAt: cf.now(),
	}
}

// CharacterSeed describes who is being born
type CharacterSeed struct {
	Name       string
	Gender     string
	Background types.FamilyBackground
	Birthplace string
	Year       int
}

// NewCharacter rolls a character of the lineage's current generation who is
// StartingAge years old in seed.Year. Bonuses are applied once on top.
func (cf *CharacterFactory) NewCharacter(lineage *types.Lineage, seed CharacterSeed, bonuses types.LegacyBonuses) *types.Character {
	gender := seed.Gender
	if gender == "" {
		gender = Pick(cf.roller, []string{"male", "female"})
	}
	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = Pick(cf.roller, cf.catalog.Names[gender])
	}
	background := seed.Background
	if _, ok := cf.catalog.Backgrounds[background]; !ok {
		background = types.BackgroundMiddleClass
	}
	birthplace := seed.Birthplace
	if birthplace == "" {
		birthplace = Pick(cf.roller, cf.catalog.Locations)
	}

	c := &types.Character{
		Name:             name,
		LastName:         lineage.LastName,
		Gender:           gender,
		Generation:       max(1, lineage.Generation),
		BirthYear:        seed.Year - StartingAge,
		Age:              StartingAge,
		Birthplace:       birthplace,
		CurrentLocation:  birthplace,
		FamilyBackground: background,

		Health:       cf.roll(70, 90),
		Intelligence: cf.roll(30, 60),
		Charisma:     cf.roll(30, 60),
		Creativity:   cf.roll(30, 60),
		Discipline:   cf.roll(30, 60),

		Happiness: 60,
		Energy:    80,
		Stress:    20,
		Luck:      cf.roll(40, 60),

		Traits:        []types.Trait{},
		Relationships: []types.Relationship{},
		Skills:        []types.Skill{},
		LifeGoals:     []types.Goal{},
		OngoingPlots:  []types.Plot{},
		Memories:      []types.Memory{},
		CraftedItems:  []types.CraftedItem{},
		Assets:        []string{},
	}
	if lineage.FounderTraits != nil {
		ft := *lineage.FounderTraits
		c.FounderTraits = &ft
	}
	c.Favors = slices.Clone(lineage.Favors)
	c.Backstory = backstory(c, lineage)

	profile := cf.catalog.Backgrounds[background]
	c.Wealth = profile.Wealth
	c.Investments = profile.Investments
	start := &types.Choice{StatChanges: profile.StatChanges}
	if len(profile.Assets) > 0 {
		start.AssetChanges = &types.AssetChanges{Add: profile.Assets}
	}
	c, _ = ApplyDelta(c, start, false)

	c, _ = ApplyDelta(c, BonusesToDelta(bonuses), false)
	if bonuses.InheritedSecret != "" {
		c.InheritedSecret = bonuses.InheritedSecret
	}
	return c
}

func (cf *CharacterFactory) roll(lo, hi int) int {
	return lo + cf.roller.Intn(hi-lo+1)
}

func backstory(c *types.Character, lineage *types.Lineage) string {
	origin := map[types.FamilyBackground]string{
		types.BackgroundPoor:        "uma família humilde",
		types.BackgroundMiddleClass: "uma família de classe média",
		types.BackgroundWealthy:     "uma família rica",
	}[c.FamilyBackground]
	if lineage.Generation <= 1 {
		return fmt.Sprintf("%s nasceu em %s, em %s, e é o primeiro de sua linhagem.", c.FullName(), c.Birthplace, origin)
	}
	return fmt.Sprintf("%s nasceu em %s, em %s, herdeiro da %dª geração dos %s.", c.FullName(), c.Birthplace, origin, lineage.Generation, lineage.LastName)
}

// Heir picks the closest living child of c, if any.
func Heir(c *types.Character) (types.Relationship, bool) {
	var heir types.Relationship
	found := false
	for _, r := range c.Relationships {
		if r.Type != childRelationshipType {
			continue
		}
		if !found || r.Intimacy > heir.Intimacy {
			heir, found = r, true
		}
	}
	return heir, found
}

// WealthTier maps net worth onto a family background.
func WealthTier(c *types.Character) types.FamilyBackground {
	worth := c.Wealth + c.Investments
	switch {
	case worth >= wealthyNetWorth:
		return types.BackgroundWealthy
	case worth >= middleClassNetWorth:
		return types.BackgroundMiddleClass
	default:
		return types.BackgroundPoor
	}
}

// BuildAncestor freezes a finished life into the family record
func BuildAncestor(c *types.Character, legacy types.LegacyResult, deathYear int) types.Ancestor {
	rels := make([]types.Relationship, 0, len(c.Relationships))
	for _, r := range c.Relationships {
		rels = append(rels, r.Clone())
	}
	slices.SortStableFunc(rels, func(a, b types.Relationship) int {
		return cmp.Compare(b.Intimacy, a.Intimacy)
	})
	if len(rels) > 3 {
		rels = rels[:3]
	}

	achievements := slices.Clone(legacy.ChallengesCompleted)
	for _, g := range c.LifeGoals {
		if g.Completed {
			achievements = append(achievements, g.Description)
		}
	}
	for _, m := range c.Memories {
		if m.IsEpic {
			achievements = append(achievements, m.Description)
		}
	}

	return types.Ancestor{
		ID:               uuid.NewString(),
		Name:             c.Name,
		LastName:         c.LastName,
		Generation:       c.Generation,
		BirthYear:        c.BirthYear,
		DeathYear:        deathYear,
		AgeAtDeath:       c.Age,
		CauseOfDeath:     c.CauseOfDeath,
		SpecialEnding:    c.SpecialEnding,
		Profession:       c.Profession,
		FinalWealth:      c.Wealth + c.Investments,
		Fame:             c.Fame,
		Morality:         c.Morality,
		Summary:          ancestorSummary(c),
		Achievements:     achievements,
		KeyRelationships: rels,
		LegacyPoints:     legacy.Points,
	}
}

func ancestorSummary(c *types.Character) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s viveu %d anos", c.FullName(), c.Age)
	if c.Profession != "" {
		fmt.Fprintf(&sb, " e trabalhou como %s", c.Profession)
	}
	fmt.Fprintf(&sb, ". %s.", c.CauseOfDeath)
	switch {
	case c.Fame >= 60:
		sb.WriteString(" Foi uma figura célebre.")
	case c.Fame <= -60:
		sb.WriteString(" Deixou um nome temido.")
	}
	if worth := c.Wealth + c.Investments; worth > 0 {
		fmt.Fprintf(&sb, " Deixou um patrimônio de %d.", worth)
	}
	return sb.String()
}
