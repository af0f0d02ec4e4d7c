package types

// Stat names as they appear in stat_changes payloads
const (
	StatHealth          = "health"
	StatIntelligence    = "intelligence"
	StatCharisma        = "charisma"
	StatCreativity      = "creativity"
	StatDiscipline      = "discipline"
	StatHappiness       = "happiness"
	StatEnergy          = "energy"
	StatStress          = "stress"
	StatLuck            = "luck"
	StatJobSatisfaction = "job_satisfaction"
	StatWealth          = "wealth"
	StatInvestments     = "investments"
	StatMorality        = "morality"
	StatFame            = "fame"
	StatInfluence       = "influence"
)

// StatBand classifies how a stat grows and where it is clamped.
type StatBand int

const (
	BandUnknown StatBand = iota
	BandCore
	BandVital
	BandFinancial
	BandReputation
)

// CoreStats lists the diminishing-returns stats in a fixed order.
var CoreStats = []string{StatHealth, StatIntelligence, StatCharisma, StatCreativity, StatDiscipline}

// AllStats lists every stat name accepted in stat_changes.
var AllStats = []string{
	StatHealth, StatIntelligence, StatCharisma, StatCreativity, StatDiscipline,
	StatHappiness, StatEnergy, StatStress, StatLuck, StatJobSatisfaction,
	StatWealth, StatInvestments,
	StatMorality, StatFame, StatInfluence,
}

var statBands = map[string]StatBand{
	StatHealth:          BandCore,
	StatIntelligence:    BandCore,
	StatCharisma:        BandCore,
	StatCreativity:      BandCore,
	StatDiscipline:      BandCore,
	StatHappiness:       BandVital,
	StatEnergy:          BandVital,
	StatStress:          BandVital,
	StatLuck:            BandVital,
	StatJobSatisfaction: BandVital,
	StatWealth:          BandFinancial,
	StatInvestments:     BandFinancial,
	StatMorality:        BandReputation,
	StatFame:            BandReputation,
	StatInfluence:       BandReputation,
}

// BandOf returns the band of a stat name, or BandUnknown.
func BandOf(stat string) StatBand {
	return statBands[stat]
}

// IntStat returns a pointer to the named bounded stat, or nil for
// financial or unknown names.
func (c *Character) IntStat(stat string) *int {
	switch stat {
	case StatHealth:
		return &c.Health
	case StatIntelligence:
		return &c.Intelligence
	case StatCharisma:
		return &c.Charisma
	case StatCreativity:
		return &c.Creativity
	case StatDiscipline:
		return &c.Discipline
	case StatHappiness:
		return &c.Happiness
	case StatEnergy:
		return &c.Energy
	case StatStress:
		return &c.Stress
	case StatLuck:
		return &c.Luck
	case StatJobSatisfaction:
		return &c.JobSatisfaction
	case StatMorality:
		return &c.Morality
	case StatFame:
		return &c.Fame
	case StatInfluence:
		return &c.Influence
	}
	return nil
}

// MoneyStat returns a pointer to the named financial stat, or nil.
func (c *Character) MoneyStat(stat string) *int64 {
	switch stat {
	case StatWealth:
		return &c.Wealth
	case StatInvestments:
		return &c.Investments
	}
	return nil
}

// StatMap returns every bounded stat keyed by name.
func (c *Character) StatMap() map[string]int {
	out := make(map[string]int, len(statBands))
	for name, band := range statBands {
		if band == BandFinancial {
			continue
		}
		out[name] = *c.IntStat(name)
	}
	return out
}
