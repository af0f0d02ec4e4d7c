package game

import (
	"github.com/user/vida-loka-geracoes/internal/types"
)

// DecisionEngine picks choices on the player's behalf
type DecisionEngine struct {
	roller Roller
}

// NewDecisionEngine creates a new decision engine
func NewDecisionEngine(roller Roller) *DecisionEngine {
	return &DecisionEngine{
		roller: roller,
	}
}

// ChooseEventOption returns the index of the best-scoring choice for the
// character, or -1 when the event has none.
func (de *DecisionEngine) ChooseEventOption(c *types.Character, event *types.Event) int {
	if event == nil || len(event.Choices) == 0 {
		return -1
	}

	best, bestScore := -1, 0.0
	for i, choice := range event.Choices {
		score := de.scoreChoice(c, &choice)

		// Add some randomness
		score += float64(de.roller.Intn(10))

		if best == -1 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// scoreChoice weighs stat changes by how much the character needs them.
// Stress counts against, and anything that ends the life is avoided.
func (de *DecisionEngine) scoreChoice(c *types.Character, choice *types.Choice) float64 {
	if choice.SpecialEnding != "" {
		return -1000
	}

	score := 0.0
	for stat, delta := range choice.StatChanges {
		switch types.BandOf(stat) {
		case types.BandCore:
			weight := 1.0
			if stat == types.StatHealth && c.Health < 30 {
				weight = 3
			}
			score += delta * weight
		case types.BandVital:
			if stat == types.StatStress {
				score -= delta
			} else {
				score += delta * 0.5
			}
		case types.BandReputation:
			score += delta * 0.3
		case types.BandFinancial:
			// One point per thousand, capped at 20 either way
			score += max(-20, min(20, delta/1000))
		}
	}

	if choice.CareerChange != nil && choice.CareerChange.Profession == "" && c.Employed() {
		score -= 15
	}
	if choice.HealthConditionChange != nil && *choice.HealthConditionChange != "" {
		score -= 20
	}
	return score
}

// FreeformAnswer is the text sent when autopilot faces an open question.
func (de *DecisionEngine) FreeformAnswer(c *types.Character) string {
	answers := []string{
		"Respiro fundo e sigo meu coração.",
		"Penso na minha família antes de decidir.",
		"Faço o que é mais seguro no momento.",
		"Arrisco tudo, a vida é uma só.",
	}
	if c.Discipline > 60 {
		return answers[2]
	}
	return Pick(de.roller, answers)
}
