package types

import "time"

// GamePhase is the orchestrator's top-level state.
type GamePhase string

const (
	PhaseNotStarted        GamePhase = "NOT_STARTED"
	PhaseRoutinePlanning   GamePhase = "ROUTINE_PLANNING"
	PhaseInProgress        GamePhase = "IN_PROGRESS"
	PhaseYearEndProcessing GamePhase = "YEAR_END_PROCESSING"
	PhaseGameOver          GamePhase = "GAME_OVER"
	PhaseLegacy            GamePhase = "LEGACY"
)

// FamilyBackground is the wealth tier a character is born into.
type FamilyBackground string

const (
	BackgroundPoor        FamilyBackground = "POOR"
	BackgroundMiddleClass FamilyBackground = "MIDDLE_CLASS"
	BackgroundWealthy     FamilyBackground = "WEALTHY"
)

// EconomicClimate is the macro-economic phase of the current year.
type EconomicClimate string

const (
	ClimateBoom      EconomicClimate = "BOOM"
	ClimateRecession EconomicClimate = "RECESSION"
	ClimateStable    EconomicClimate = "STABLE"
)

// Character is the mutable root entity for one playthrough
type Character struct {
	Name             string           `json:"name"`
	LastName         string           `json:"last_name"`
	Gender           string           `json:"gender"`
	Generation       int              `json:"generation"`
	BirthYear        int              `json:"birth_year"`
	Age              int              `json:"age"`
	Birthplace       string           `json:"birthplace"`
	CurrentLocation  string           `json:"current_location"`
	FamilyBackground FamilyBackground `json:"family_background"`
	Backstory        string           `json:"backstory"`

	// Core stats, 0-100 with diminishing returns
	Health       int `json:"health"`
	Intelligence int `json:"intelligence"`
	Charisma     int `json:"charisma"`
	Creativity   int `json:"creativity"`
	Discipline   int `json:"discipline"`

	// Vitals, 0-100 linear
	Happiness       int `json:"happiness"`
	Energy          int `json:"energy"`
	Stress          int `json:"stress"`
	Luck            int `json:"luck"`
	JobSatisfaction int `json:"job_satisfaction"`

	// Financial, unbounded
	Wealth      int64 `json:"wealth"`
	Investments int64 `json:"investments"`

	// Reputation, -100..100
	Morality  int `json:"morality"`
	Fame      int `json:"fame"`
	Influence int `json:"influence"`

	Traits        []Trait        `json:"traits"`
	Relationships []Relationship `json:"relationships"`
	Skills        []Skill        `json:"skills"`
	LifeGoals     []Goal         `json:"life_goals"`
	OngoingPlots  []Plot         `json:"ongoing_plots"`
	Memories      []Memory       `json:"memories"`
	CraftedItems  []CraftedItem  `json:"crafted_items"`
	Assets        []string       `json:"assets"`

	HealthCondition *HealthCondition `json:"health_condition,omitempty"`
	SpecialEnding   string           `json:"special_ending,omitempty"`
	CauseOfDeath    string           `json:"cause_of_death,omitempty"`
	IsPregnant      bool             `json:"is_pregnant"`

	FounderTraits   *FounderTraits `json:"founder_traits,omitempty"`
	Favors          []string       `json:"favors,omitempty"`
	InheritedSecret string         `json:"inherited_secret,omitempty"`

	// Empty Profession means unemployed; JobTitle is only meaningful with a Profession.
	Profession  string `json:"profession,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	CareerLevel int    `json:"career_level"`

	PlotContribution string `json:"plot_contribution,omitempty"`
}

// Employed reports whether the character currently holds a profession.
func (c *Character) Employed() bool {
	return c.Profession != ""
}

// FullName returns the character's first and last name.
func (c *Character) FullName() string {
	if c.LastName == "" {
		return c.Name
	}
	return c.Name + " " + c.LastName
}

// Trait represents a personality or physical trait
type Trait struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Level       int    `json:"level,omitempty"`
}

// Relationship represents a person in the character's life
type Relationship struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Intimacy int      `json:"intimacy"`
	Status   string   `json:"status,omitempty"`
	Title    string   `json:"title,omitempty"`
	Age      *int     `json:"age,omitempty"`
	History  []string `json:"history,omitempty"`
}

// Skill represents a learned ability
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Goal represents a life goal
type Goal struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Plot represents an ongoing storyline in the character's life
type Plot struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Memory is an append-only record tagged with the age it happened at
type Memory struct {
	Description string `json:"description"`
	Age         int    `json:"age"`
	IsEpic      bool   `json:"is_epic,omitempty"`
}

// CraftedItem represents something the character made
type CraftedItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HealthCondition is the single active illness of a character
type HealthCondition struct {
	Name     string `json:"name"`
	OnsetAge int    `json:"onset_age"`
}

// FounderTraits is the appearance seed shared by a lineage
type FounderTraits struct {
	HairColor string `json:"hair_color"`
	EyeColor  string `json:"eye_color"`
	SkinTone  string `json:"skin_tone"`
	Build     string `json:"build"`
}

// Lineage persists across playthroughs
type Lineage struct {
	ID                  string           `json:"id"`
	LastName            string           `json:"last_name"`
	Generation          int              `json:"generation"`
	Crest               string           `json:"crest"`
	Title               string           `json:"title,omitempty"`
	FounderTraits       *FounderTraits   `json:"founder_traits,omitempty"`
	LastKnownLocation   string           `json:"last_known_location,omitempty"`
	LastKnownWealthTier FamilyBackground `json:"last_known_wealth_tier,omitempty"`
	Favors              []string         `json:"favors,omitempty"`
	FoundedAt           time.Time        `json:"founded_at"`
}

// Ancestor is an immutable record of a finished life
type Ancestor struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	LastName         string         `json:"last_name"`
	Generation       int            `json:"generation"`
	BirthYear        int            `json:"birth_year"`
	DeathYear        int            `json:"death_year"`
	AgeAtDeath       int            `json:"age_at_death"`
	CauseOfDeath     string         `json:"cause_of_death"`
	SpecialEnding    string         `json:"special_ending,omitempty"`
	Profession       string         `json:"profession,omitempty"`
	FinalWealth      int64          `json:"final_wealth"`
	Fame             int            `json:"fame"`
	Morality         int            `json:"morality"`
	Summary          string         `json:"summary"`
	Achievements     []string       `json:"achievements,omitempty"`
	KeyRelationships []Relationship `json:"key_relationships,omitempty"`
	LegacyPoints     int            `json:"legacy_points"`
}

// Checkpoint is an immutable full-state snapshot
type Checkpoint struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	State     GameState `json:"state"`
}

// LegacyBonuses is a mergeable adjustment applied once to a new character.
type LegacyBonuses struct {
	StatChanges     map[string]float64 `json:"stat_changes,omitempty" yaml:"stat_changes,omitempty"`
	Traits          []Trait            `json:"traits,omitempty" yaml:"traits,omitempty"`
	Skills          []Skill            `json:"skills,omitempty" yaml:"skills,omitempty"`
	Assets          []string           `json:"assets,omitempty" yaml:"assets,omitempty"`
	Relationships   []Relationship     `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	InheritedSecret string             `json:"inherited_secret,omitempty" yaml:"inherited_secret,omitempty"`
}

// LegacyResult is the end-of-life legacy computation
type LegacyResult struct {
	Points              int      `json:"points"`
	ChallengesCompleted []string `json:"challenges_completed"`
}

// WorldEvent is a year-level event affecting everyone
type WorldEvent struct {
	Year        int                `json:"year"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Effects     map[string]float64 `json:"effects,omitempty"`
}

// GameError is the user-visible failure of the last action
type GameError struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// GameState is the full live state owned by the orchestrator
type GameState struct {
	Phase           GamePhase       `json:"phase"`
	Character       *Character      `json:"character,omitempty"`
	Lineage         *Lineage        `json:"lineage,omitempty"`
	Ancestors       []Ancestor      `json:"ancestors"`
	CurrentYear     int             `json:"current_year"`
	MonthsRemaining int             `json:"months_remaining"`
	EconomicClimate EconomicClimate `json:"economic_climate"`
	CurrentFocus    string          `json:"current_focus,omitempty"`
	CurrentEvent    *Event          `json:"current_event,omitempty"`
	LastOutcome     string          `json:"last_outcome,omitempty"`
	YearLog         []string        `json:"year_log"`
	WorldEvents     []WorldEvent    `json:"world_events"`

	LegacyPoints      int            `json:"legacy_points"`
	LegacyPointsSpent int            `json:"legacy_points_spent"`
	PurchasedBonuses  map[string]int `json:"purchased_bonuses"`
	LastLegacy        *LegacyResult  `json:"last_legacy,omitempty"`

	LastError *GameError `json:"last_error,omitempty"`
}

// SaveData is the single blob stored in the save slot
type SaveData struct {
	Version     int          `json:"version"`
	SavedAt     time.Time    `json:"saved_at"`
	State       GameState    `json:"state"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

// NewGameOptions are the player's picks when founding a lineage
type NewGameOptions struct {
	Name       string           `json:"name"`
	LastName   string           `json:"last_name"`
	Gender     string           `json:"gender"`
	Background FamilyBackground `json:"background"`
	Birthplace string           `json:"birthplace"`
}
