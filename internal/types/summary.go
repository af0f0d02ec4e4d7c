package types

import "fmt"

const recentMemoryCount = 5

// Summarize builds the compact view sent to the content generator.
func Summarize(c *Character) CharacterSummary {
	s := CharacterSummary{
		Name:            c.FullName(),
		Age:             c.Age,
		Gender:          c.Gender,
		Generation:      c.Generation,
		Location:        c.CurrentLocation,
		Background:      string(c.FamilyBackground),
		Profession:      c.Profession,
		JobTitle:        c.JobTitle,
		Stats:           c.StatMap(),
		Wealth:          c.Wealth,
		Investments:     c.Investments,
		InheritedSecret: c.InheritedSecret,
	}
	for _, t := range c.Traits {
		s.Traits = append(s.Traits, t.Name)
	}
	for _, sk := range c.Skills {
		s.Skills = append(s.Skills, fmt.Sprintf("%s (%d)", sk.Name, sk.Level))
	}
	for _, r := range c.Relationships {
		s.Relationships = append(s.Relationships, fmt.Sprintf("%s, %s, intimidade %d", r.Name, r.Type, r.Intimacy))
	}
	for _, g := range c.LifeGoals {
		if !g.Completed {
			s.Goals = append(s.Goals, g.Description)
		}
	}
	for _, p := range c.OngoingPlots {
		if !p.Completed {
			s.Plots = append(s.Plots, p.Description)
		}
	}
	if c.HealthCondition != nil {
		s.HealthCondition = c.HealthCondition.Name
	}
	start := max(0, len(c.Memories)-recentMemoryCount)
	for _, m := range c.Memories[start:] {
		s.RecentMemories = append(s.RecentMemories, m.Description)
	}
	return s
}
