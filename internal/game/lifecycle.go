package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/user/vida-loka-geracoes/internal/types"
)

// TerminalAge is the age at which every life ends.
const TerminalAge = 105

const maxCatastropheChance = 0.4

var (
	criticalIllnesses = []string{"Pneumonia", "Anemia severa", "Infecção generalizada", "Exaustão crônica"}
	elderlyIllnesses  = []string{"Doença cardíaca", "Câncer", "Alzheimer", "Artrite severa"}
	stressIllnesses   = []string{"Depressão", "Ansiedade crônica", "Burnout", "Hipertensão"}
	commonIllnesses   = []string{"Diabetes", "Enxaqueca crônica", "Hérnia de disco", "Pneumonia"}

	riskTraitKeywords       = []string{"imprudente", "aventureir", "impulsiv", "temerári", "reckless", "adventurous", "impulsive", "daredevil"}
	protectiveTraitKeywords = []string{"cautelos", "prudente", "saudável", "atlétic", "cautious", "careful", "healthy", "athletic"}
	riskyProfessions        = []string{"policial", "bombeir", "soldad", "militar", "piloto", "mineir", "dublê", "traficante", "segurança", "police", "firefighter", "soldier", "pilot", "miner", "stunt"}

	addictionKeywords = []string{"vici", "addict", "dependente"}
	criminalKeywords  = []string{"crimin", "bandid", "criminal"}
	impulsiveKeywords = []string{"impulsiv", "impulsive"}
	fragileKeywords   = []string{"frágil", "fragil", "doente", "sickly"}
)

// LifecycleRules holds the age and health rules evaluated at year end.
type LifecycleRules struct {
	roller Roller
}

// NewLifecycleRules creates lifecycle rules drawing randomness from roller
func NewLifecycleRules(roller Roller) *LifecycleRules {
	return &LifecycleRules{roller: roller}
}

// ApplyCriticalStatPenalties evaluates the health, energy and stress
// triggers in that order. Each trigger that fires adds one narration.
func (lr *LifecycleRules) ApplyCriticalStatPenalties(c *types.Character) (*types.Character, []string) {
	var narrations []string
	next := c

	if next.Health < 10 && next.HealthCondition == nil {
		illness := Pick(lr.roller, criticalIllnesses)
		next, _ = ApplyDelta(next, &types.Choice{
			StatChanges:           map[string]float64{types.StatHappiness: -25, types.StatEnergy: -30},
			HealthConditionChange: &illness,
		}, false)
		narrations = append(narrations, fmt.Sprintf("Seu corpo cobrou o preço do descuido: você foi diagnosticado com %s.", illness))
	}

	if next.Energy <= 0 {
		delta := &types.Choice{
			StatChanges: map[string]float64{
				types.StatEnergy:    float64(25 - next.Energy),
				types.StatHealth:    -5,
				types.StatHappiness: -10,
			},
		}
		if next.Employed() {
			delta.StatChanges[types.StatJobSatisfaction] = -15
			delta.CareerChange = &types.CareerChange{
				Profession:       next.Profession,
				JobTitle:         next.JobTitle,
				CareerLevelDelta: -2,
			}
		}
		next, _ = ApplyDelta(next, delta, false)
		narration := "Você chegou ao limite da exaustão e precisou parar para se recuperar."
		if next.Employed() {
			narration += " Seu desempenho no trabalho sofreu."
		}
		narrations = append(narrations, narration)
	}

	if next.Stress >= 95 {
		delta := &types.Choice{
			StatChanges: map[string]float64{
				types.StatStress:    -20,
				types.StatHappiness: -30,
				types.StatInfluence: -5,
				types.StatFame:      -5,
			},
		}
		consequences := []string{}
		if len(next.Relationships) > 0 {
			rel := next.Relationships[lr.roller.Intn(len(next.Relationships))]
			delta.RelationshipChanges = &types.RelationshipChanges{
				Update:  []types.RelationshipUpdate{{Name: rel.Name, IntimacyDelta: -30}},
				History: []types.RelationshipHistory{{Name: rel.Name, Entry: fmt.Sprintf("Afastou-se durante uma crise de estresse aos %d anos", next.Age)}},
			}
			consequences = append(consequences, fmt.Sprintf("sua relação com %s ficou abalada", rel.Name))
		}
		if next.Employed() && Chance(lr.roller, 0.2) {
			delta.CareerChange = &types.CareerChange{CareerLevelDelta: -10}
			consequences = append(consequences, fmt.Sprintf("você perdeu o emprego de %s", next.Profession))
		}
		next, _ = ApplyDelta(next, delta, false)
		narration := "O estresse extremo levou você a um colapso nervoso."
		if len(consequences) > 0 {
			narration += " Como consequência, " + strings.Join(consequences, " e ") + "."
		}
		narrations = append(narrations, narration)
	}

	return next, narrations
}

// NewConditionChance is the yearly probability of a new health condition.
// Age and health each contribute only their highest matching band.
func NewConditionChance(c *types.Character) float64 {
	chance := 0.0
	switch {
	case c.Age > 70:
		chance += 0.25
	case c.Age > 50:
		chance += 0.15
	}
	switch {
	case c.Health < 25:
		chance += 0.30
	case c.Health < 50:
		chance += 0.15
	}
	if c.Stress > 80 {
		chance += 0.25
	}
	return chance
}

// CheckForNewHealthConditions rolls once for a new condition. The narration
// is empty when nothing happened.
func (lr *LifecycleRules) CheckForNewHealthConditions(c *types.Character) (*types.Character, string) {
	if c.HealthCondition != nil {
		return c, ""
	}
	if !Chance(lr.roller, NewConditionChance(c)) {
		return c, ""
	}

	pool := commonIllnesses
	switch {
	case c.Age > 70:
		pool = elderlyIllnesses
	case c.Stress > 80:
		pool = stressIllnesses
	}
	illness := Pick(lr.roller, pool)
	next, _ := ApplyDelta(c, &types.Choice{
		StatChanges: map[string]float64{
			types.StatHealth:    -15,
			types.StatHappiness: -20,
			types.StatStress:    10,
		},
		HealthConditionChange: &illness,
	}, false)
	return next, fmt.Sprintf("Uma notícia difícil: você foi diagnosticado com %s.", illness)
}

// DetermineCauseOfDeath resolves the cause of death; the first matching rule wins.
func DetermineCauseOfDeath(c *types.Character) string {
	if c.Age >= TerminalAge {
		return "Velhice, após uma vida extraordinariamente longa"
	}
	if c.Health > 0 {
		return "Causas naturais, em paz"
	}
	if c.HealthCondition != nil {
		name := strings.ToLower(c.HealthCondition.Name)
		switch {
		case containsAny(name, "câncer", "cancer"):
			return "Perdeu a batalha contra o câncer"
		case containsAny(name, "depress", "ansiedade", "anxiety"):
			return "Sucumbiu a uma longa luta contra a saúde mental"
		case containsAny(name, "pneumonia", "cardí", "coração", "heart", "cardiac"):
			return "Insuficiência cardiorrespiratória"
		default:
			return "Complicações de " + c.HealthCondition.Name
		}
	}
	switch {
	case hasTrait(c, addictionKeywords) && c.Stress > 70 && c.Happiness < 30:
		return "Overdose após anos de dependência"
	case hasTrait(c, criminalKeywords) && c.Morality < -60:
		return "Assassinado em um acerto de contas"
	case hasTrait(c, impulsiveKeywords) && c.Discipline < 20:
		return "Acidente fatal causado por uma decisão impulsiva"
	case hasTrait(c, fragileKeywords):
		return "A saúde frágil finalmente cedeu"
	}
	if c.Stress > 95 {
		return "Infarto fulminante causado pelo estresse"
	}
	if c.Happiness < 5 {
		return "Definhou em profunda tristeza"
	}
	switch {
	case c.Age < 40:
		return "Morte súbita e inesperada"
	case c.Age <= 65:
		return "Falência de órgãos"
	default:
		return "Causas naturais, em paz"
	}
}

// CatastrophicEventChance is the yearly probability of an engine-gated
// catastrophe, clamped to [0, 0.4].
func CatastrophicEventChance(c *types.Character) float64 {
	chance := 0.01
	if c.Age > 50 {
		chance += 0.002 * float64(c.Age-50)
	}
	if c.Age > 75 {
		chance += 0.003 * float64(c.Age-75)
	}
	for _, t := range c.Traits {
		name := strings.ToLower(t.Name)
		// "imprudente" contains "prudente"; a risk match excludes a protective one.
		if containsAny(name, riskTraitKeywords...) {
			chance += 0.025
		} else if containsAny(name, protectiveTraitKeywords...) {
			chance -= 0.01
		}
	}
	if c.Health < 20 {
		chance += 0.04
	}
	if c.Stress > 90 {
		chance += 0.03
	}
	if c.Fame < -60 {
		chance += 0.02
	}
	if c.Employed() && containsAny(strings.ToLower(c.Profession), riskyProfessions...) {
		chance += 0.02
	}
	return math.Max(0, math.Min(maxCatastropheChance, chance))
}

func hasTrait(c *types.Character, keywords []string) bool {
	for _, t := range c.Traits {
		if containsAny(strings.ToLower(t.Name), keywords...) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
