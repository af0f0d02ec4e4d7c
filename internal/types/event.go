package types

// EventType is the interaction style of an event
type EventType string

const (
	EventMultipleChoice EventType = "MULTIPLE_CHOICE"
	EventOpenResponse   EventType = "OPEN_RESPONSE"
	EventMiniGame       EventType = "MINI_GAME"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventMultipleChoice, EventOpenResponse, EventMiniGame:
		return true
	}
	return false
}

// Event is the content generator's next scene for the character
type Event struct {
	EventText       string    `json:"event_text"`
	Type            EventType `json:"type"`
	Choices         []Choice  `json:"choices"`
	IsEpic          bool      `json:"is_epic,omitempty"`
	IsWorldEvent    bool      `json:"is_world_event,omitempty"`
	MiniGameType    string    `json:"mini_game_type,omitempty"`
	TimeCostInUnits int       `json:"time_cost_in_units,omitempty"`
}

// Choice is the canonical Delta consumed by the character mutator.
// Only ChoiceText, OutcomeText and StatChanges are required on the wire.
type Choice struct {
	ChoiceText  string             `json:"choice_text"`
	OutcomeText string             `json:"outcome_text"`
	StatChanges map[string]float64 `json:"stat_changes"`

	AssetChanges          *AssetChanges        `json:"asset_changes,omitempty"`
	RelationshipChanges   *RelationshipChanges `json:"relationship_changes,omitempty"`
	CareerChange          *CareerChange        `json:"career_change,omitempty"`
	MemoryGained          string               `json:"memory_gained,omitempty"`
	TraitChanges          *TraitChanges        `json:"trait_changes,omitempty"`
	HealthConditionChange *string              `json:"health_condition_change,omitempty"`
	GoalChanges           *GoalChanges         `json:"goal_changes,omitempty"`
	CraftedItemChanges    *CraftedItemChanges  `json:"crafted_item_changes,omitempty"`
	SkillChanges          *SkillChanges        `json:"skill_changes,omitempty"`
	PlotChanges           *PlotChanges         `json:"plot_changes,omitempty"`
	ChildBorn             *ChildBirth          `json:"child_born,omitempty"`
	IsPregnantChange      *bool                `json:"is_pregnant_change,omitempty"`
	PlotContribution      *string              `json:"plot_contribution,omitempty"`
	SpecialEnding         string               `json:"special_ending,omitempty"`
	TimeCostInUnits       int                  `json:"time_cost_in_units,omitempty"`
	LocationChange        string               `json:"location_change,omitempty"`
}

// AssetChanges adds or removes asset labels
type AssetChanges struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// RelationshipChanges groups every kind of relationship edit
type RelationshipChanges struct {
	Add     []Relationship        `json:"add,omitempty"`
	Update  []RelationshipUpdate  `json:"update,omitempty"`
	Remove  []string              `json:"remove,omitempty"`
	History []RelationshipHistory `json:"history,omitempty"`
}

// RelationshipUpdate edits an existing relationship by name
type RelationshipUpdate struct {
	Name          string  `json:"name"`
	IntimacyDelta int     `json:"intimacy_delta,omitempty"`
	Status        *string `json:"status,omitempty"`
	Title         *string `json:"title,omitempty"`
}

// RelationshipHistory appends a line to a relationship's rolling log
type RelationshipHistory struct {
	Name  string `json:"name"`
	Entry string `json:"entry"`
}

// CareerChange sets or clears the character's job.
// An empty Profession means the character lost their job.
type CareerChange struct {
	Profession       string `json:"profession,omitempty"`
	JobTitle         string `json:"job_title,omitempty"`
	CareerLevelDelta int    `json:"career_level_delta,omitempty"`
}

// TraitChanges adds, removes or levels up traits
type TraitChanges struct {
	Add    []Trait       `json:"add,omitempty"`
	Remove []string      `json:"remove,omitempty"`
	Update []TraitUpdate `json:"update,omitempty"`
}

// TraitUpdate increments a trait's level
type TraitUpdate struct {
	Name        string `json:"name"`
	LevelDelta  int    `json:"level_delta,omitempty"`
	Description string `json:"description,omitempty"`
}

// GoalChanges adds or completes life goals
type GoalChanges struct {
	Add      []string `json:"add,omitempty"`
	Complete []string `json:"complete,omitempty"`
}

// CraftedItemChanges adds or removes crafted items
type CraftedItemChanges struct {
	Add    []CraftedItem `json:"add,omitempty"`
	Remove []string      `json:"remove,omitempty"`
}

// SkillChanges adds new skills or upserts existing ones
type SkillChanges struct {
	Add    []Skill       `json:"add,omitempty"`
	Update []SkillUpdate `json:"update,omitempty"`
}

// SkillUpdate adjusts a skill level and may rename it to a new tier
type SkillUpdate struct {
	Name       string `json:"name"`
	LevelDelta int    `json:"level_delta,omitempty"`
	NewName    string `json:"new_name,omitempty"`
}

// PlotChanges mirrors GoalChanges for ongoing plots
type PlotChanges struct {
	Add      []string `json:"add,omitempty"`
	Complete []string `json:"complete,omitempty"`
	Remove   []string `json:"remove,omitempty"`
}

// ChildBirth describes a newborn added to the family
type ChildBirth struct {
	Name   string `json:"name"`
	Gender string `json:"gender,omitempty"`
}

// CharacterSummary is the compact view of a character sent to the content generator
type CharacterSummary struct {
	Name            string         `json:"name"`
	Age             int            `json:"age"`
	Gender          string         `json:"gender"`
	Generation      int            `json:"generation"`
	Location        string         `json:"location"`
	Background      string         `json:"background"`
	Profession      string         `json:"profession,omitempty"`
	JobTitle        string         `json:"job_title,omitempty"`
	Stats           map[string]int `json:"stats"`
	Wealth          int64          `json:"wealth"`
	Investments     int64          `json:"investments"`
	Traits          []string       `json:"traits,omitempty"`
	Skills          []string       `json:"skills,omitempty"`
	Relationships   []string       `json:"relationships,omitempty"`
	Goals           []string       `json:"goals,omitempty"`
	Plots           []string       `json:"plots,omitempty"`
	HealthCondition string         `json:"health_condition,omitempty"`
	RecentMemories  []string       `json:"recent_memories,omitempty"`
	InheritedSecret string         `json:"inherited_secret,omitempty"`
}

// EventFacts is the game context sent alongside a character summary
type EventFacts struct {
	Year            int             `json:"year"`
	MonthsRemaining int             `json:"months_remaining"`
	Climate         EconomicClimate `json:"economic_climate"`
	Focus           string          `json:"focus,omitempty"`
	LineageName     string          `json:"lineage_name,omitempty"`
	LineageTitle    string          `json:"lineage_title,omitempty"`
	RecentLog       []string        `json:"recent_log,omitempty"`
	WorldEvents     []string        `json:"world_events,omitempty"`
	Ancestors       []string        `json:"ancestors,omitempty"`
}
