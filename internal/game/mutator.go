package game

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/user/vida-loka-geracoes/internal/types"
)

const (
	relationshipHistoryLimit = 5
	childIntimacy            = 80
	epicMemoryPrefix         = "★ "
	childRelationshipType    = "Filho(a)"

	// Raw deltas are bounded before integer conversion so absurd payloads
	// still clamp cleanly.
	maxStatDelta  = 1e6
	maxMoneyDelta = 1e15
)

// ApplyDelta is the single entry point for character mutation. It never
// mutates c and never fails: sub-fields that reference missing entities or
// carry unusable values are skipped and reported in the returned list.
func ApplyDelta(c *types.Character, delta *types.Choice, isHighImpactEvent bool) (*types.Character, []string) {
	if c == nil {
		return nil, []string{"character: nil"}
	}
	next := c.Clone()
	if delta == nil {
		clampCharacter(next)
		return next, nil
	}

	m := &mutation{before: c, next: next, epic: isHighImpactEvent}
	m.applyStats(delta.StatChanges)
	m.applyAssets(delta.AssetChanges)
	m.applyMemory(delta.MemoryGained)
	m.applyRelationships(delta.RelationshipChanges)
	m.applySkills(delta.SkillChanges)
	m.applyCareer(delta.CareerChange)
	m.applyTraits(delta.TraitChanges)
	m.applyGoals(delta.GoalChanges)
	m.applyCraftedItems(delta.CraftedItemChanges)
	m.applyHealthCondition(delta.HealthConditionChange)
	if delta.LocationChange != "" {
		next.CurrentLocation = delta.LocationChange
	}
	m.applyPlots(delta.PlotChanges)
	if delta.IsPregnantChange != nil {
		next.IsPregnant = *delta.IsPregnantChange
	}
	m.applyChildBirth(delta.ChildBorn)
	if delta.PlotContribution != nil {
		next.PlotContribution = *delta.PlotContribution
	}
	if delta.SpecialEnding != "" {
		next.SpecialEnding = delta.SpecialEnding
	}

	clampCharacter(next)
	return next, m.ignored
}

type mutation struct {
	before  *types.Character
	next    *types.Character
	epic    bool
	ignored []string
}

func (m *mutation) ignore(format string, args ...any) {
	m.ignored = append(m.ignored, fmt.Sprintf(format, args...))
}

func (m *mutation) applyStats(changes map[string]float64) {
	// Map order is random; sort so the ignored list is stable.
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := changes[name]
		if math.IsNaN(raw) {
			m.ignore("stat_changes.%s: not a number", name)
			continue
		}
		band := types.BandOf(name)
		if band == types.BandFinancial {
			raw = math.Max(-maxMoneyDelta, math.Min(maxMoneyDelta, raw))
		} else {
			raw = math.Max(-maxStatDelta, math.Min(maxStatDelta, raw))
		}
		switch band {
		case types.BandCore:
			current := *m.before.IntStat(name)
			others := otherHighStats(m.before, name)
			*m.next.IntStat(name) += ScaledCoreStatDelta(current, raw, m.epic, others)
		case types.BandReputation:
			current := *m.before.IntStat(name)
			*m.next.IntStat(name) += ScaledReputationDelta(current, raw)
		case types.BandVital:
			*m.next.IntStat(name) += int(math.Floor(raw))
		case types.BandFinancial:
			*m.next.MoneyStat(name) += int64(raw)
		default:
			m.ignore("stat_changes.%s: unknown stat", name)
		}
	}
}

func (m *mutation) applyAssets(changes *types.AssetChanges) {
	if changes == nil {
		return
	}
	for _, asset := range changes.Add {
		if asset == "" {
			m.ignore("asset_changes.add: empty label")
			continue
		}
		if containsString(m.next.Assets, asset) {
			continue
		}
		m.next.Assets = append(m.next.Assets, asset)
	}
	for _, asset := range changes.Remove {
		if !containsString(m.next.Assets, asset) {
			m.ignore("asset_changes.remove: %q not owned", asset)
			continue
		}
		m.next.Assets = removeString(m.next.Assets, asset)
	}
}

func (m *mutation) applyMemory(text string) {
	if text == "" {
		return
	}
	if m.epic {
		text = epicMemoryPrefix + text
	}
	m.next.Memories = append(m.next.Memories, types.Memory{
		Description: text,
		Age:         m.next.Age,
		IsEpic:      m.epic,
	})
}

func (m *mutation) applyRelationships(changes *types.RelationshipChanges) {
	if changes == nil {
		return
	}
	for _, rel := range changes.Add {
		if rel.Name == "" {
			m.ignore("relationship_changes.add: empty name")
			continue
		}
		// First write wins.
		if findRelationship(m.next.Relationships, rel.Name) >= 0 {
			continue
		}
		m.next.Relationships = append(m.next.Relationships, rel.Clone())
	}
	for _, upd := range changes.Update {
		idx := findRelationship(m.next.Relationships, upd.Name)
		if idx < 0 {
			m.ignore("relationship_changes.update: %q not found", upd.Name)
			continue
		}
		rel := &m.next.Relationships[idx]
		rel.Intimacy = clamp(rel.Intimacy+upd.IntimacyDelta, -100, 100)
		if upd.Status != nil {
			rel.Status = *upd.Status
		}
		if upd.Title != nil {
			rel.Title = *upd.Title
		}
	}
	for _, name := range changes.Remove {
		idx := findRelationship(m.next.Relationships, name)
		if idx < 0 {
			m.ignore("relationship_changes.remove: %q not found", name)
			continue
		}
		m.next.Relationships = append(m.next.Relationships[:idx], m.next.Relationships[idx+1:]...)
	}
	for _, h := range changes.History {
		idx := findRelationship(m.next.Relationships, h.Name)
		if idx < 0 || h.Entry == "" {
			m.ignore("relationship_changes.history: %q not applicable", h.Name)
			continue
		}
		appendRelationshipHistory(&m.next.Relationships[idx], h.Entry)
	}
}

func appendRelationshipHistory(rel *types.Relationship, entry string) {
	rel.History = append(rel.History, entry)
	if len(rel.History) > relationshipHistoryLimit {
		rel.History = append([]string(nil), rel.History[len(rel.History)-relationshipHistoryLimit:]...)
	}
}

func (m *mutation) applySkills(changes *types.SkillChanges) {
	if changes == nil {
		return
	}
	for _, skill := range changes.Add {
		if skill.Name == "" {
			m.ignore("skill_changes.add: empty name")
			continue
		}
		if findSkill(m.next.Skills, skill.Name) >= 0 {
			continue
		}
		skill.Level = clamp(skill.Level, 0, 100)
		m.next.Skills = append(m.next.Skills, skill)
	}
	for _, upd := range changes.Update {
		if upd.Name == "" {
			m.ignore("skill_changes.update: empty name")
			continue
		}
		idx := findSkill(m.next.Skills, upd.Name)
		if idx < 0 {
			name := upd.Name
			if upd.NewName != "" {
				name = upd.NewName
			}
			if findSkill(m.next.Skills, name) >= 0 {
				m.ignore("skill_changes.update.%s: %s already exists", upd.Name, name)
				continue
			}
			m.next.Skills = append(m.next.Skills, types.Skill{Name: name, Level: clamp(upd.LevelDelta, 0, 100)})
			continue
		}
		skill := &m.next.Skills[idx]
		skill.Level = clamp(skill.Level+upd.LevelDelta, 0, 100)
		if upd.NewName == "" || upd.NewName == skill.Name {
			continue
		}
		// Renaming onto an existing skill merges the two, keeping the higher level.
		if target := findSkill(m.next.Skills, upd.NewName); target >= 0 {
			m.next.Skills[target].Level = max(m.next.Skills[target].Level, skill.Level)
			m.next.Skills = slices.Delete(m.next.Skills, idx, idx+1)
			continue
		}
		skill.Name = upd.NewName
	}
}

func (m *mutation) applyCareer(change *types.CareerChange) {
	if change == nil {
		return
	}
	if isNullSentinel(change.Profession) {
		m.next.Profession = ""
		m.next.JobTitle = ""
		m.next.JobSatisfaction = 0
	} else {
		m.next.Profession = change.Profession
		m.next.JobTitle = change.JobTitle
	}
	m.next.CareerLevel = clamp(m.next.CareerLevel+change.CareerLevelDelta, 0, 100)
}

func (m *mutation) applyTraits(changes *types.TraitChanges) {
	if changes == nil {
		return
	}
	for _, trait := range changes.Add {
		if trait.Name == "" {
			m.ignore("trait_changes.add: empty name")
			continue
		}
		if findTrait(m.next.Traits, trait.Name) >= 0 {
			continue
		}
		m.next.Traits = append(m.next.Traits, trait)
	}
	for _, name := range changes.Remove {
		idx := findTrait(m.next.Traits, name)
		if idx < 0 {
			m.ignore("trait_changes.remove: %q not found", name)
			continue
		}
		m.next.Traits = append(m.next.Traits[:idx], m.next.Traits[idx+1:]...)
	}
	for _, upd := range changes.Update {
		idx := findTrait(m.next.Traits, upd.Name)
		if idx < 0 {
			m.ignore("trait_changes.update: %q not found", upd.Name)
			continue
		}
		trait := &m.next.Traits[idx]
		level := trait.Level
		if level == 0 {
			level = 1
		}
		step := upd.LevelDelta
		if step == 0 {
			step = 1
		}
		trait.Level = level + step
		if upd.Description != "" {
			trait.Description = upd.Description
		}
	}
}

func (m *mutation) applyGoals(changes *types.GoalChanges) {
	if changes == nil {
		return
	}
	for _, desc := range changes.Add {
		if desc == "" || findGoal(m.next.LifeGoals, desc) >= 0 {
			continue
		}
		m.next.LifeGoals = append(m.next.LifeGoals, types.Goal{Description: desc})
	}
	for _, desc := range changes.Complete {
		matched := false
		for i := range m.next.LifeGoals {
			if m.next.LifeGoals[i].Description == desc {
				m.next.LifeGoals[i].Completed = true
				matched = true
			}
		}
		if !matched {
			m.ignore("goal_changes.complete: %q not found", desc)
		}
	}
}

func (m *mutation) applyCraftedItems(changes *types.CraftedItemChanges) {
	if changes == nil {
		return
	}
	for _, item := range changes.Add {
		if item.Name == "" {
			m.ignore("crafted_item_changes.add: empty name")
			continue
		}
		m.next.CraftedItems = append(m.next.CraftedItems, item)
	}
	for _, name := range changes.Remove {
		kept := m.next.CraftedItems[:0:0]
		for _, item := range m.next.CraftedItems {
			if item.Name != name {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(m.next.CraftedItems) {
			m.ignore("crafted_item_changes.remove: %q not found", name)
			continue
		}
		m.next.CraftedItems = kept
	}
}

func (m *mutation) applyHealthCondition(change *string) {
	if change == nil {
		return
	}
	if isNullSentinel(*change) {
		m.next.HealthCondition = nil
		return
	}
	m.next.HealthCondition = &types.HealthCondition{Name: *change, OnsetAge: m.next.Age}
}

func (m *mutation) applyPlots(changes *types.PlotChanges) {
	if changes == nil {
		return
	}
	for _, desc := range changes.Add {
		if desc == "" || findPlot(m.next.OngoingPlots, desc) >= 0 {
			continue
		}
		m.next.OngoingPlots = append(m.next.OngoingPlots, types.Plot{Description: desc})
	}
	for _, desc := range changes.Complete {
		matched := false
		for i := range m.next.OngoingPlots {
			if m.next.OngoingPlots[i].Description == desc {
				m.next.OngoingPlots[i].Completed = true
				matched = true
			}
		}
		if !matched {
			m.ignore("plot_changes.complete: %q not found", desc)
		}
	}
	for _, desc := range changes.Remove {
		idx := findPlot(m.next.OngoingPlots, desc)
		if idx < 0 {
			m.ignore("plot_changes.remove: %q not found", desc)
			continue
		}
		m.next.OngoingPlots = append(m.next.OngoingPlots[:idx], m.next.OngoingPlots[idx+1:]...)
	}
}

func (m *mutation) applyChildBirth(child *types.ChildBirth) {
	if child == nil {
		return
	}
	if child.Name == "" || findRelationship(m.next.Relationships, child.Name) >= 0 {
		m.ignore("child_born: %q unusable", child.Name)
		return
	}
	age := 0
	year := m.next.BirthYear + m.next.Age
	m.next.Relationships = append(m.next.Relationships, types.Relationship{
		Name:     child.Name,
		Type:     childRelationshipType,
		Intimacy: childIntimacy,
		Age:      &age,
		History:  []string{fmt.Sprintf("Nasceu em %d", year)},
	})
	m.next.IsPregnant = false
}

// clampCharacter forces every bounded field back into its band.
func clampCharacter(c *types.Character) {
	for _, name := range types.CoreStats {
		p := c.IntStat(name)
		*p = clamp(*p, 0, 100)
	}
	for _, name := range []string{types.StatHappiness, types.StatEnergy, types.StatStress, types.StatLuck, types.StatJobSatisfaction} {
		p := c.IntStat(name)
		*p = clamp(*p, 0, 100)
	}
	for _, name := range []string{types.StatMorality, types.StatFame, types.StatInfluence} {
		p := c.IntStat(name)
		*p = clamp(*p, -100, 100)
	}
	c.CareerLevel = clamp(c.CareerLevel, 0, 100)
	if c.Profession == "" {
		c.JobTitle = ""
	}
	for i := range c.Relationships {
		c.Relationships[i].Intimacy = clamp(c.Relationships[i].Intimacy, -100, 100)
	}
	for i := range c.Skills {
		c.Skills[i].Level = clamp(c.Skills[i].Level, 0, 100)
	}
	for i := range c.Traits {
		if c.Traits[i].Level < 0 {
			c.Traits[i].Level = 0
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isNullSentinel treats empty and literal "null"/"none" strings as an absent value.
func isNullSentinel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "none", "nil":
		return true
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func findRelationship(list []types.Relationship, name string) int {
	for i, r := range list {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func findSkill(list []types.Skill, name string) int {
	for i, s := range list {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func findTrait(list []types.Trait, name string) int {
	for i, t := range list {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func findGoal(list []types.Goal, desc string) int {
	for i, g := range list {
		if g.Description == desc {
			return i
		}
	}
	return -1
}

func findPlot(list []types.Plot, desc string) int {
	for i, p := range list {
		if p.Description == desc {
			return i
		}
	}
	return -1
}
