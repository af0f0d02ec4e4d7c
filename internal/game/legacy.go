package game

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/user/vida-loka-geracoes/internal/types"
)

// SpecialEndingBonus is added to the legacy of a life that ended on a special ending.
const SpecialEndingBonus = 100

var (
	ErrMaxTier            = errors.New("item already at maximum tier")
	ErrInsufficientPoints = errors.New("not enough legacy points")
)

// Requirement is a single comparison against a character field
type Requirement struct {
	Field string  `yaml:"field" json:"field"`
	Op    string  `yaml:"op" json:"op"`
	Value float64 `yaml:"value" json:"value"`
}

// ChallengeDefinition rewards legacy points when its predicate holds for the final character
type ChallengeDefinition struct {
	ID           string        `yaml:"id" json:"id"`
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description" json:"description"`
	Reward       int           `yaml:"reward" json:"reward"`
	Requirements []Requirement `yaml:"requirements" json:"requirements"`

	// Predicate overrides Requirements when set.
	Predicate func(*types.Character) bool `yaml:"-" json:"-"`
}

// Matches reports whether the challenge is completed by c.
func (cd ChallengeDefinition) Matches(c *types.Character) bool {
	if cd.Predicate != nil {
		return cd.Predicate(c)
	}
	if len(cd.Requirements) == 0 {
		return false
	}
	for _, req := range cd.Requirements {
		if !req.Holds(c) {
			return false
		}
	}
	return true
}

// Holds evaluates the requirement. Unknown fields never hold.
func (r Requirement) Holds(c *types.Character) bool {
	v, ok := fieldValue(c, r.Field)
	if !ok {
		return false
	}
	switch r.Op {
	case ">=":
		return v >= r.Value
	case ">":
		return v > r.Value
	case "<=":
		return v <= r.Value
	case "<":
		return v < r.Value
	case "==", "=":
		return v == r.Value
	case "!=":
		return v != r.Value
	}
	return false
}

func fieldValue(c *types.Character, field string) (float64, bool) {
	if p := c.IntStat(field); p != nil {
		return float64(*p), true
	}
	if p := c.MoneyStat(field); p != nil {
		return float64(*p), true
	}
	switch field {
	case "age":
		return float64(c.Age), true
	case "generation":
		return float64(c.Generation), true
	case "career_level":
		return float64(c.CareerLevel), true
	case "net_worth":
		return float64(c.Wealth + c.Investments), true
	case "assets":
		return float64(len(c.Assets)), true
	case "memories":
		return float64(len(c.Memories)), true
	case "skills":
		return float64(len(c.Skills)), true
	case "traits":
		return float64(len(c.Traits)), true
	case "crafted_items":
		return float64(len(c.CraftedItems)), true
	case "relationships":
		return float64(len(c.Relationships)), true
	case "close_relationships":
		n := 0
		for _, r := range c.Relationships {
			if r.Intimacy > 80 {
				n++
			}
		}
		return float64(n), true
	case "children":
		n := 0
		for _, r := range c.Relationships {
			if r.Type == childRelationshipType {
				n++
			}
		}
		return float64(n), true
	case "completed_goals":
		n := 0
		for _, g := range c.LifeGoals {
			if g.Completed {
				n++
			}
		}
		return float64(n), true
	case "completed_plots":
		n := 0
		for _, p := range c.OngoingPlots {
			if p.Completed {
				n++
			}
		}
		return float64(n), true
	case "max_skill":
		top := 0
		for _, s := range c.Skills {
			top = max(top, s.Level)
		}
		return float64(top), true
	}
	return 0, false
}

// ComputeEndOfLifeLegacy sums challenge rewards, the life's legacy score and
// the special ending bonus.
func ComputeEndOfLifeLegacy(c *types.Character, challenges []ChallengeDefinition) types.LegacyResult {
	result := types.LegacyResult{ChallengesCompleted: []string{}}
	for _, ch := range challenges {
		if ch.Matches(c) {
			result.Points += ch.Reward
			result.ChallengesCompleted = append(result.ChallengesCompleted, ch.Name)
		}
	}
	result.Points += LegacyPoints(c)
	if c.SpecialEnding != "" {
		result.Points += SpecialEndingBonus
	}
	return result
}

// MergeBonuses combines two bonus sets. Scalars add, lists concatenate in a
// canonical order so the merge is associative and commutative. The inherited
// secret is the exception: b wins when both are set.
func MergeBonuses(a, b types.LegacyBonuses) types.LegacyBonuses {
	out := types.LegacyBonuses{
		InheritedSecret: a.InheritedSecret,
	}
	if b.InheritedSecret != "" {
		out.InheritedSecret = b.InheritedSecret
	}

	if len(a.StatChanges)+len(b.StatChanges) > 0 {
		out.StatChanges = make(map[string]float64, len(a.StatChanges)+len(b.StatChanges))
		for k, v := range a.StatChanges {
			out.StatChanges[k] += v
		}
		for k, v := range b.StatChanges {
			out.StatChanges[k] += v
		}
	}

	out.Traits = mergeSorted(a.Traits, b.Traits, func(x, y types.Trait) int {
		return cmp.Or(strings.Compare(x.Name, y.Name), cmp.Compare(x.Level, y.Level), strings.Compare(x.Description, y.Description))
	})
	out.Skills = mergeSorted(a.Skills, b.Skills, func(x, y types.Skill) int {
		return cmp.Or(strings.Compare(x.Name, y.Name), cmp.Compare(x.Level, y.Level))
	})
	out.Assets = mergeSorted(a.Assets, b.Assets, strings.Compare)
	out.Relationships = mergeSorted(a.Relationships, b.Relationships, func(x, y types.Relationship) int {
		return cmp.Or(
			strings.Compare(x.Name, y.Name),
			strings.Compare(x.Type, y.Type),
			cmp.Compare(x.Intimacy, y.Intimacy),
			strings.Compare(x.Status, y.Status),
			strings.Compare(x.Title, y.Title),
			compareAge(x.Age, y.Age),
			slices.Compare(x.History, y.History),
		)
	})
	return out
}

// compareAge orders an unknown age before any known one.
func compareAge(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

func mergeSorted[T any](a, b []T, compare func(T, T) int) []T {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.SortStableFunc(out, compare)
	return out
}

// BonusesToDelta turns merged bonuses into the delta applied once at
// character creation. The inherited secret is set by the caller.
func BonusesToDelta(b types.LegacyBonuses) *types.Choice {
	delta := &types.Choice{StatChanges: map[string]float64{}}
	for k, v := range b.StatChanges {
		delta.StatChanges[k] = v
	}
	if len(b.Traits) > 0 {
		delta.TraitChanges = &types.TraitChanges{Add: slices.Clone(b.Traits)}
	}
	if len(b.Skills) > 0 {
		delta.SkillChanges = &types.SkillChanges{Add: slices.Clone(b.Skills)}
	}
	if len(b.Assets) > 0 {
		delta.AssetChanges = &types.AssetChanges{Add: slices.Clone(b.Assets)}
	}
	if len(b.Relationships) > 0 {
		rels := make([]types.Relationship, len(b.Relationships))
		for i, r := range b.Relationships {
			rels[i] = r.Clone()
		}
		delta.RelationshipChanges = &types.RelationshipChanges{Add: rels}
	}
	return delta
}

// ResolvePurchase reports whether an item costing itemCost fits the budget.
func ResolvePurchase(pointsAvailable, alreadySpent, itemCost int) bool {
	return alreadySpent+itemCost <= pointsAvailable
}

// ShopItem is a legacy bonus purchasable between generations. Unique items
// have a single cost; stackable items have one cost per tier.
type ShopItem struct {
	ID          string              `yaml:"id" json:"id"`
	Name        string              `yaml:"name" json:"name"`
	Description string              `yaml:"description" json:"description"`
	Stackable   bool                `yaml:"stackable" json:"stackable"`
	Costs       []int               `yaml:"costs" json:"costs"`
	Bonus       types.LegacyBonuses `yaml:"bonus" json:"bonus"`
}

// MaxTier is the number of times the item can be bought.
func (si ShopItem) MaxTier() int {
	if !si.Stackable {
		return min(1, len(si.Costs))
	}
	return len(si.Costs)
}

// NextCost returns the cost of buying the tier after currentTier.
func (si ShopItem) NextCost(currentTier int) (int, error) {
	if currentTier >= si.MaxTier() {
		return 0, ErrMaxTier
	}
	return si.Costs[currentTier], nil
}

// Validate checks the tier cost schedule.
func (si ShopItem) Validate() error {
	if si.ID == "" {
		return errors.New("shop item without id")
	}
	if len(si.Costs) == 0 {
		return fmt.Errorf("shop item %s: no costs", si.ID)
	}
	for i := 1; i < len(si.Costs); i++ {
		if si.Costs[i] < si.Costs[i-1] {
			return fmt.Errorf("shop item %s: tier %d cost decreases", si.ID, i+1)
		}
	}
	return nil
}

// PurchaseItem checks a purchase of the next tier and returns its cost.
func PurchaseItem(item ShopItem, currentTier, pointsAvailable, alreadySpent int) (int, error) {
	cost, err := item.NextCost(currentTier)
	if err != nil {
		return 0, err
	}
	if !ResolvePurchase(pointsAvailable, alreadySpent, cost) {
		return 0, ErrInsufficientPoints
	}
	return cost, nil
}

// TitleDefinition is a lineage title earned by a high-scoring life
type TitleDefinition struct {
	Name      string              `yaml:"name" json:"name"`
	MinPoints int                 `yaml:"min_points" json:"min_points"`
	Bonus     types.LegacyBonuses `yaml:"bonus" json:"bonus"`
}

// AwardTitle returns the best title reachable with points.
func AwardTitle(titles []TitleDefinition, points int) (TitleDefinition, bool) {
	var best TitleDefinition
	found := false
	for _, t := range titles {
		if points >= t.MinPoints && (!found || t.MinPoints > best.MinPoints) {
			best = t
			found = true
		}
	}
	return best, found
}
