package types

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of the character. Nil slices stay nil.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Traits = slices.Clone(c.Traits)
	out.Relationships = cloneRelationships(c.Relationships)
	out.Skills = slices.Clone(c.Skills)
	out.LifeGoals = slices.Clone(c.LifeGoals)
	out.OngoingPlots = slices.Clone(c.OngoingPlots)
	out.Memories = slices.Clone(c.Memories)
	out.CraftedItems = slices.Clone(c.CraftedItems)
	out.Assets = slices.Clone(c.Assets)
	out.Favors = slices.Clone(c.Favors)
	if c.HealthCondition != nil {
		hc := *c.HealthCondition
		out.HealthCondition = &hc
	}
	if c.FounderTraits != nil {
		ft := *c.FounderTraits
		out.FounderTraits = &ft
	}
	return &out
}

// Clone returns a deep copy of the relationship.
func (r Relationship) Clone() Relationship {
	out := r
	if r.Age != nil {
		age := *r.Age
		out.Age = &age
	}
	out.History = slices.Clone(r.History)
	return out
}

func cloneRelationships(in []Relationship) []Relationship {
	if in == nil {
		return nil
	}
	out := make([]Relationship, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// Clone returns a deep copy of the lineage.
func (l *Lineage) Clone() *Lineage {
	if l == nil {
		return nil
	}
	out := *l
	if l.FounderTraits != nil {
		ft := *l.FounderTraits
		out.FounderTraits = &ft
	}
	out.Favors = slices.Clone(l.Favors)
	return &out
}

// Clone returns a deep copy of the ancestor record.
func (a Ancestor) Clone() Ancestor {
	out := a
	out.Achievements = slices.Clone(a.Achievements)
	out.KeyRelationships = cloneRelationships(a.KeyRelationships)
	return out
}

// Clone returns a deep copy of the choice.
func (c Choice) Clone() Choice {
	out := c
	out.StatChanges = maps.Clone(c.StatChanges)
	if c.AssetChanges != nil {
		ac := AssetChanges{Add: slices.Clone(c.AssetChanges.Add), Remove: slices.Clone(c.AssetChanges.Remove)}
		out.AssetChanges = &ac
	}
	if c.RelationshipChanges != nil {
		rc := RelationshipChanges{
			Add:     cloneRelationships(c.RelationshipChanges.Add),
			Update:  slices.Clone(c.RelationshipChanges.Update),
			Remove:  slices.Clone(c.RelationshipChanges.Remove),
			History: slices.Clone(c.RelationshipChanges.History),
		}
		out.RelationshipChanges = &rc
	}
	if c.CareerChange != nil {
		cc := *c.CareerChange
		out.CareerChange = &cc
	}
	if c.TraitChanges != nil {
		tc := TraitChanges{
			Add:    slices.Clone(c.TraitChanges.Add),
			Remove: slices.Clone(c.TraitChanges.Remove),
			Update: slices.Clone(c.TraitChanges.Update),
		}
		out.TraitChanges = &tc
	}
	if c.HealthConditionChange != nil {
		s := *c.HealthConditionChange
		out.HealthConditionChange = &s
	}
	if c.GoalChanges != nil {
		gc := GoalChanges{Add: slices.Clone(c.GoalChanges.Add), Complete: slices.Clone(c.GoalChanges.Complete)}
		out.GoalChanges = &gc
	}
	if c.CraftedItemChanges != nil {
		ci := CraftedItemChanges{Add: slices.Clone(c.CraftedItemChanges.Add), Remove: slices.Clone(c.CraftedItemChanges.Remove)}
		out.CraftedItemChanges = &ci
	}
	if c.SkillChanges != nil {
		sc := SkillChanges{Add: slices.Clone(c.SkillChanges.Add), Update: slices.Clone(c.SkillChanges.Update)}
		out.SkillChanges = &sc
	}
	if c.PlotChanges != nil {
		pc := PlotChanges{
			Add:      slices.Clone(c.PlotChanges.Add),
			Complete: slices.Clone(c.PlotChanges.Complete),
			Remove:   slices.Clone(c.PlotChanges.Remove),
		}
		out.PlotChanges = &pc
	}
	if c.ChildBorn != nil {
		cb := *c.ChildBorn
		out.ChildBorn = &cb
	}
	if c.IsPregnantChange != nil {
		b := *c.IsPregnantChange
		out.IsPregnantChange = &b
	}
	if c.PlotContribution != nil {
		s := *c.PlotContribution
		out.PlotContribution = &s
	}
	return out
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	out := *e
	if e.Choices != nil {
		out.Choices = make([]Choice, len(e.Choices))
		for i, ch := range e.Choices {
			out.Choices[i] = ch.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the game state.
func (s GameState) Clone() GameState {
	out := s
	out.Character = s.Character.Clone()
	out.Lineage = s.Lineage.Clone()
	if s.Ancestors != nil {
		out.Ancestors = make([]Ancestor, len(s.Ancestors))
		for i, a := range s.Ancestors {
			out.Ancestors[i] = a.Clone()
		}
	}
	out.CurrentEvent = s.CurrentEvent.Clone()
	out.YearLog = slices.Clone(s.YearLog)
	if s.WorldEvents != nil {
		out.WorldEvents = make([]WorldEvent, len(s.WorldEvents))
		for i, w := range s.WorldEvents {
			w.Effects = maps.Clone(w.Effects)
			out.WorldEvents[i] = w
		}
	}
	out.PurchasedBonuses = maps.Clone(s.PurchasedBonuses)
	if s.LastLegacy != nil {
		lr := LegacyResult{Points: s.LastLegacy.Points, ChallengesCompleted: slices.Clone(s.LastLegacy.ChallengesCompleted)}
		out.LastLegacy = &lr
	}
	if s.LastError != nil {
		ge := *s.LastError
		out.LastError = &ge
	}
	return out
}
