package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/vida-loka-geracoes/internal/gateway"
	"github.com/user/vida-loka-geracoes/internal/interfaces"
	"github.com/user/vida-loka-geracoes/internal/types"
)

const recentLogSize = 5

// GameManager owns the live game state and drives every phase transition.
// Gateway calls run without the lock held; while one is in flight every
// other state-affecting action fails with ErrRequestPending.
type GameManager struct {
	state     types.GameState
	stateLock sync.RWMutex
	pending   bool

	gateway     interfaces.ContentGateway
	store       interfaces.SaveStore
	catalog     *Catalog
	checkpoints *CheckpointStore
	cycle       *YearCycle
	factory     *CharacterFactory
	decisions   *DecisionEngine
	roller      Roller
	opts        Options

	Logger *zap.Logger
}

// Ensure GameManager satisfies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// NewGameManager creates a new game manager. store may be nil, in which case
// nothing is persisted.
func NewGameManager(opts Options, gw interfaces.ContentGateway, store interfaces.SaveStore, catalog *Catalog, roller Roller) *GameManager {
	opts = opts.normalized()
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if roller == nil {
		roller = NewDiceRoller()
	}

	cycle := NewYearCycle(roller)
	cycle.EconomyRollChance = opts.EconomyRollChance

	return &GameManager{
		state:       emptyState(),
		gateway:     gw,
		store:       store,
		catalog:     catalog,
		checkpoints: NewCheckpointStore(opts.MaxCheckpoints),
		cycle:       cycle,
		factory:     NewCharacterFactory(catalog, roller),
		decisions:   NewDecisionEngine(roller),
		roller:      roller,
		opts:        opts,
		Logger:      zap.NewNop(), // Will be set by the server
	}
}

func emptyState() types.GameState {
	state := types.GameState{}
	normalizeState(&state)
	return state
}

// State returns a copy of the live state
func (gm *GameManager) State() types.GameState {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.state.Clone()
}

// Catalog returns the content catalog in use
func (gm *GameManager) Catalog() *Catalog {
	return gm.catalog
}

// Checkpoints lists the rollback points, newest first
func (gm *GameManager) Checkpoints() []types.Checkpoint {
	return gm.checkpoints.List()
}

// lockIdle takes the write lock and fails if a gateway request is in flight.
// On success the caller must unlock.
func (gm *GameManager) lockIdle() error {
	gm.stateLock.Lock()
	if gm.pending {
		gm.stateLock.Unlock()
		return ErrRequestPending
	}
	return nil
}

func requirePhase(state *types.GameState, phases ...types.GamePhase) error {
	if state.Character == nil {
		return ErrNoCharacter
	}
	if !slices.Contains(phases, state.Phase) {
		return fmt.Errorf("%w: %s", ErrInvalidPhase, state.Phase)
	}
	return nil
}

// NewGame founds a new lineage and creates its first character. Any game in
// progress is discarded.
func (gm *GameManager) NewGame(ctx context.Context, opts types.NewGameOptions) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}

	lineage := gm.factory.FoundLineage(opts.LastName)
	character := gm.factory.NewCharacter(lineage, CharacterSeed{
		Name:       opts.Name,
		Gender:     opts.Gender,
		Background: opts.Background,
		Birthplace: opts.Birthplace,
		Year:       gm.opts.StartYear,
	}, types.LegacyBonuses{})

	gm.state = emptyState()
	gm.state.Lineage = lineage
	gm.state.Character = character
	gm.state.CurrentYear = gm.opts.StartYear
	gm.state.MonthsRemaining = MonthsPerYear
	gm.state.EconomicClimate = types.ClimateStable
	gm.state.Phase = types.PhaseRoutinePlanning
	gm.checkpoints.Clear()

	gm.Logger.Info("New lineage founded",
		zap.String("lineage", lineage.LastName),
		zap.String("character", character.FullName()),
		zap.String("background", string(character.FamilyBackground)))

	state := gm.state.Clone()
	gm.stateLock.Unlock()

	gm.autosave(ctx)
	return state, nil
}

// PlanRoutine applies the chosen yearly focus and starts the year
func (gm *GameManager) PlanRoutine(ctx context.Context, focusID string) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	defer gm.unlockAndSave(ctx)

	if err := requirePhase(&gm.state, types.PhaseRoutinePlanning); err != nil {
		return gm.state.Clone(), err
	}
	focus, ok := gm.catalog.Focus(focusID)
	if !ok {
		return gm.state.Clone(), fmt.Errorf("%w: %s", ErrUnknownFocus, focusID)
	}

	gm.checkpoints.Push(gm.state, fmt.Sprintf("%d: rotina %s", gm.state.CurrentYear, focus.Name))

	next, ignored := ApplyDelta(gm.state.Character, &types.Choice{StatChanges: focus.StatChanges}, false)
	gm.logIgnored("routine", ignored)
	gm.state.Character = next
	gm.state.CurrentFocus = focus.ID
	gm.state.Phase = types.PhaseInProgress
	gm.state.LastError = nil
	gm.state.YearLog = append(gm.state.YearLog, fmt.Sprintf("%d: %s", gm.state.CurrentYear, focus.Name))
	return gm.state.Clone(), nil
}

// NextEvent asks the gateway for the next event. A pending event is
// returned as is.
func (gm *GameManager) NextEvent(ctx context.Context) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	if err := requirePhase(&gm.state, types.PhaseInProgress); err != nil {
		defer gm.stateLock.Unlock()
		return gm.state.Clone(), err
	}
	if gm.state.CurrentEvent != nil {
		defer gm.stateLock.Unlock()
		return gm.state.Clone(), nil
	}
	gm.pending = true
	summary := types.Summarize(gm.state.Character)
	facts := gm.eventFacts()
	gm.stateLock.Unlock()

	event, err := gm.gateway.RequestEvent(ctx, summary, facts)

	gm.stateLock.Lock()
	gm.pending = false
	if err != nil {
		gm.recordGatewayError("request_event", err)
		state := gm.state.Clone()
		gm.stateLock.Unlock()
		return state, fmt.Errorf("request event: %w", err)
	}
	gm.state.CurrentEvent = event
	gm.state.LastError = nil
	gm.stateLock.Unlock()
	return gm.State(), nil
}

// ChooseOption resolves one of the pending event's choices
func (gm *GameManager) ChooseOption(ctx context.Context, index int) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	if err := requirePhase(&gm.state, types.PhaseInProgress); err != nil {
		defer gm.stateLock.Unlock()
		return gm.state.Clone(), err
	}
	event := gm.state.CurrentEvent
	if event == nil {
		defer gm.stateLock.Unlock()
		return gm.state.Clone(), ErrNoEvent
	}
	if index < 0 || index >= len(event.Choices) {
		defer gm.stateLock.Unlock()
		return gm.state.Clone(), fmt.Errorf("%w: %d", ErrInvalidChoice, index)
	}

	choice := event.Choices[index].Clone()
	gm.checkpoints.Push(gm.state, fmt.Sprintf("%d, %d anos: %s", gm.state.CurrentYear, gm.state.Character.Age, choice.ChoiceText))
	yearEnd := gm.resolveChoice(&choice, event)
	gm.stateLock.Unlock()

	if yearEnd {
		gm.processYearEnd(ctx)
	}
	gm.autosave(ctx)
	return gm.State(), nil
}

// RespondFreeform sends the player's own answer to the gateway for judgement
func (gm *GameManager) RespondFreeform(ctx context.Context, text string) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	if err := requirePhase(&gm.state, types.PhaseInProgress); err != nil {
		defer gm.stateLock.Unlock()
		return gm.state.Clone(), err
	}
	if gm.state.CurrentEvent == nil {
		defer gm.stateLock.Unlock()
		return gm.state.Clone(), ErrNoEvent
	}
	if strings.TrimSpace(text) == "" {
		defer gm.stateLock.Unlock()
		return gm.state.Clone(), fmt.Errorf("%w: empty response", ErrInvalidChoice)
	}

	gm.pending = true
	before := gm.state.Clone()
	summary := types.Summarize(gm.state.Character)
	eventText := gm.state.CurrentEvent.EventText
	gm.stateLock.Unlock()

	choice, err := gm.gateway.EvaluateFreeformResponse(ctx, summary, eventText, text)

	gm.stateLock.Lock()
	gm.pending = false
	if err != nil {
		gm.recordGatewayError("evaluate_response", err)
		state := gm.state.Clone()
		gm.stateLock.Unlock()
		return state, fmt.Errorf("evaluate response: %w", err)
	}

	// The state has not moved while the request was pending, so the
	// snapshot taken before dispatch is the pre-action state.
	gm.checkpoints.Push(before, fmt.Sprintf("%d, %d anos: %s", before.CurrentYear, before.Character.Age, truncate(text, 40)))
	yearEnd := gm.resolveChoice(choice, before.CurrentEvent)
	gm.stateLock.Unlock()

	if yearEnd {
		gm.processYearEnd(ctx)
	}
	gm.autosave(ctx)
	return gm.State(), nil
}

// resolveChoice applies a choice and spends its time. It reports whether a
// year rolled over and the year-end requests still have to run, in which
// case the request is left pending. Must be called with the lock held.
func (gm *GameManager) resolveChoice(choice *types.Choice, event *types.Event) bool {
	epic := event != nil && event.IsEpic
	next, ignored := ApplyDelta(gm.state.Character, choice, epic)
	gm.logIgnored("choice", ignored)

	gm.state.Character = next
	gm.state.CurrentEvent = nil
	gm.state.LastError = nil
	gm.state.LastOutcome = choice.OutcomeText
	if choice.OutcomeText != "" {
		gm.state.YearLog = append(gm.state.YearLog, choice.OutcomeText)
	}

	if lifeOver(next) {
		gm.endLife()
		return false
	}

	result := gm.cycle.Advance(next, gm.state.EconomicClimate, gm.state.MonthsRemaining, gm.timeCost(choice, event))
	gm.state.Character = result.Character
	if !result.RolledOver {
		gm.state.MonthsRemaining = result.NextMonthsRemaining
		return false
	}

	gm.state.CurrentYear++
	if result.Climate != gm.state.EconomicClimate {
		gm.Logger.Info("Economic climate changed",
			zap.String("from", string(gm.state.EconomicClimate)),
			zap.String("to", string(result.Climate)))
	}
	gm.state.EconomicClimate = result.Climate
	gm.state.YearLog = append(gm.state.YearLog, result.Narrations...)

	if result.LifeEnded {
		gm.endLife()
		return false
	}
	gm.state.MonthsRemaining = result.NextMonthsRemaining
	gm.state.Phase = types.PhaseYearEndProcessing
	gm.pending = true
	return true
}

func (gm *GameManager) timeCost(choice *types.Choice, event *types.Event) int {
	switch {
	case choice.TimeCostInUnits > 0:
		return clamp(choice.TimeCostInUnits, 1, MonthsPerYear)
	case event != nil && event.TimeCostInUnits > 0:
		return clamp(event.TimeCostInUnits, 1, MonthsPerYear)
	default:
		return gm.opts.DefaultTimeCost
	}
}

// processYearEnd runs the engine-gated year-end requests: an optional
// catastrophe and an optional world event. Their failures are logged and
// skipped since the year has already turned.
func (gm *GameManager) processYearEnd(ctx context.Context) {
	gm.stateLock.Lock()
	snapshot := gm.state.Clone()
	wantCatastrophe := Chance(gm.roller, CatastrophicEventChance(snapshot.Character))
	wantWorld := Chance(gm.roller, gm.opts.WorldEventChance)
	gm.stateLock.Unlock()

	var catastrophe *types.Choice
	var world *types.WorldEvent
	var err error
	if wantWorld {
		world, err = gm.gateway.RequestWorldEvent(ctx, snapshot.CurrentYear, snapshot.EconomicClimate)
		if err != nil {
			gm.Logger.Warn("World event request failed", zap.Int("year", snapshot.CurrentYear), zap.Error(err))
		}
	}
	if wantCatastrophe {
		catastrophe, err = gm.gateway.RequestCatastrophicEvent(ctx, types.Summarize(snapshot.Character))
		if err != nil {
			gm.Logger.Warn("Catastrophic event request failed", zap.Int("year", snapshot.CurrentYear), zap.Error(err))
		}
	}

	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()
	gm.pending = false

	if world != nil {
		world.Year = snapshot.CurrentYear
		gm.state.WorldEvents = append(gm.state.WorldEvents, *world)
		gm.state.YearLog = append(gm.state.YearLog, fmt.Sprintf("%d: %s", world.Year, world.Title))
		if len(world.Effects) > 0 {
			next, ignored := ApplyDelta(gm.state.Character, &types.Choice{StatChanges: world.Effects}, false)
			gm.logIgnored("world_event", ignored)
			gm.state.Character = next
		}
	}
	if catastrophe != nil {
		next, ignored := ApplyDelta(gm.state.Character, catastrophe, true)
		gm.logIgnored("catastrophe", ignored)
		gm.state.Character = next
		gm.state.LastOutcome = catastrophe.OutcomeText
		gm.state.YearLog = append(gm.state.YearLog, catastrophe.OutcomeText)
		gm.Logger.Info("Catastrophe struck",
			zap.String("character", next.FullName()),
			zap.String("event", catastrophe.ChoiceText))
	}

	if lifeOver(gm.state.Character) {
		gm.endLife()
		return
	}
	gm.state.CurrentFocus = ""
	gm.state.Phase = types.PhaseRoutinePlanning
}

func lifeOver(c *types.Character) bool {
	return c.Health <= 0 || c.Age >= TerminalAge || c.SpecialEnding != ""
}

// endLife turns the character into an ancestor, scores the life and moves
// to GAME_OVER. Must be called with the lock held.
func (gm *GameManager) endLife() {
	c := gm.state.Character.Clone()
	if c.SpecialEnding != "" && c.Health > 0 && c.Age < TerminalAge {
		c.CauseOfDeath = c.SpecialEnding
	} else {
		c.CauseOfDeath = DetermineCauseOfDeath(c)
	}

	legacy := ComputeEndOfLifeLegacy(c, gm.catalog.Challenges)
	ancestor := BuildAncestor(c, legacy, gm.state.CurrentYear)

	gm.state.Character = c
	gm.state.Ancestors = append(gm.state.Ancestors, ancestor)
	gm.state.LegacyPoints += legacy.Points
	gm.state.LastLegacy = &legacy
	gm.state.CurrentEvent = nil
	gm.state.CurrentFocus = ""
	gm.state.Phase = types.PhaseGameOver

	if lineage := gm.state.Lineage; lineage != nil {
		lineage.LastKnownLocation = c.CurrentLocation
		lineage.LastKnownWealthTier = WealthTier(c)
		lineage.Favors = slices.Clone(c.Favors)
		if title, ok := AwardTitle(gm.catalog.Titles, legacy.Points); ok && gm.titleRank(title.Name) > gm.titleRank(lineage.Title) {
			lineage.Title = title.Name
			gm.state.YearLog = append(gm.state.YearLog, fmt.Sprintf("A família %s conquistou o título \"%s\".", lineage.LastName, title.Name))
		}
	}

	gm.Logger.Info("Life ended",
		zap.String("character", c.FullName()),
		zap.Int("age", c.Age),
		zap.String("cause", c.CauseOfDeath),
		zap.Int("legacy_points", legacy.Points))
}

// titleRank orders titles by their threshold; unknown titles rank lowest.
func (gm *GameManager) titleRank(name string) int {
	for _, t := range gm.catalog.Titles {
		if t.Name == name {
			return t.MinPoints
		}
	}
	return -1
}

// AutoPlay takes one step on the player's behalf
func (gm *GameManager) AutoPlay(ctx context.Context) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	state := &gm.state
	var step func() (types.GameState, error)
	switch {
	case state.Phase == types.PhaseNotStarted || state.Character == nil:
		gm.stateLock.Unlock()
		return gm.State(), ErrNoCharacter
	case state.Phase == types.PhaseRoutinePlanning:
		focus := gm.catalog.Focuses[gm.roller.Intn(len(gm.catalog.Focuses))]
		step = func() (types.GameState, error) { return gm.PlanRoutine(ctx, focus.ID) }
	case state.Phase == types.PhaseInProgress && state.CurrentEvent == nil:
		step = func() (types.GameState, error) { return gm.NextEvent(ctx) }
	case state.Phase == types.PhaseInProgress && len(state.CurrentEvent.Choices) > 0:
		index := gm.decisions.ChooseEventOption(state.Character, state.CurrentEvent)
		step = func() (types.GameState, error) { return gm.ChooseOption(ctx, index) }
	case state.Phase == types.PhaseInProgress:
		answer := gm.decisions.FreeformAnswer(state.Character)
		step = func() (types.GameState, error) { return gm.RespondFreeform(ctx, answer) }
	case state.Phase == types.PhaseGameOver || state.Phase == types.PhaseLegacy:
		step = func() (types.GameState, error) { return gm.ContinueLineage(ctx) }
	default:
		phase := state.Phase
		gm.stateLock.Unlock()
		return gm.State(), fmt.Errorf("%w: %s", ErrInvalidPhase, phase)
	}
	gm.stateLock.Unlock()
	return step()
}

// Rollback restores a checkpoint and drops every newer one
func (gm *GameManager) Rollback(ctx context.Context, checkpointID string) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	defer gm.unlockAndSave(ctx)

	restored, err := gm.checkpoints.Restore(checkpointID)
	if err != nil {
		return gm.state.Clone(), err
	}
	gm.state = restored
	gm.state.LastError = nil
	gm.Logger.Info("Rolled back", zap.String("checkpoint", checkpointID), zap.Int("year", restored.CurrentYear))
	return gm.state.Clone(), nil
}

// PurchaseBonus buys the next tier of a legacy shop item
func (gm *GameManager) PurchaseBonus(ctx context.Context, itemID string) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	defer gm.unlockAndSave(ctx)

	if err := requirePhase(&gm.state, types.PhaseGameOver, types.PhaseLegacy); err != nil {
		return gm.state.Clone(), err
	}
	item, ok := gm.catalog.ShopItem(itemID)
	if !ok {
		return gm.state.Clone(), fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	tier := gm.state.PurchasedBonuses[item.ID]
	cost, err := PurchaseItem(item, tier, gm.state.LegacyPoints, gm.state.LegacyPointsSpent)
	if err != nil {
		return gm.state.Clone(), err
	}

	gm.checkpoints.Push(gm.state, "Legado: "+item.Name)
	gm.state.LegacyPointsSpent += cost
	gm.state.PurchasedBonuses[item.ID] = tier + 1
	gm.state.Phase = types.PhaseLegacy
	gm.state.LastError = nil
	return gm.state.Clone(), nil
}

// PendingBonuses merges the lineage title bonus with every purchased tier
func (gm *GameManager) PendingBonuses(state *types.GameState) types.LegacyBonuses {
	var bonuses types.LegacyBonuses
	if state.Lineage != nil {
		for _, t := range gm.catalog.Titles {
			if t.Name == state.Lineage.Title {
				bonuses = MergeBonuses(bonuses, t.Bonus)
			}
		}
	}

	ids := make([]string, 0, len(state.PurchasedBonuses))
	for id := range state.PurchasedBonuses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		item, ok := gm.catalog.ShopItem(id)
		if !ok {
			continue
		}
		for range state.PurchasedBonuses[id] {
			bonuses = MergeBonuses(bonuses, item.Bonus)
		}
	}
	return bonuses
}

// ContinueLineage spends the purchases and starts the next generation
func (gm *GameManager) ContinueLineage(ctx context.Context) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	defer gm.unlockAndSave(ctx)

	if err := requirePhase(&gm.state, types.PhaseGameOver, types.PhaseLegacy); err != nil {
		return gm.state.Clone(), err
	}
	lineage := gm.state.Lineage
	if lineage == nil {
		return gm.state.Clone(), ErrNoCharacter
	}

	bonuses := gm.PendingBonuses(&gm.state)
	previous := gm.state.Character
	seed := CharacterSeed{
		Background: lineage.LastKnownWealthTier,
		Birthplace: lineage.LastKnownLocation,
		Year:       gm.state.CurrentYear,
	}
	if heir, ok := Heir(previous); ok {
		seed.Name = heir.Name
	}

	lineage.Generation++
	next := gm.factory.NewCharacter(lineage, seed, bonuses)

	gm.state.Character = next
	gm.state.LegacyPoints -= gm.state.LegacyPointsSpent
	gm.state.LegacyPointsSpent = 0
	gm.state.PurchasedBonuses = make(map[string]int)
	gm.state.LastLegacy = nil
	gm.state.LastOutcome = ""
	gm.state.LastError = nil
	gm.state.CurrentEvent = nil
	gm.state.CurrentFocus = ""
	gm.state.YearLog = []string{next.Backstory}
	gm.state.MonthsRemaining = MonthsPerYear
	gm.state.Phase = types.PhaseRoutinePlanning
	gm.checkpoints.Clear()

	gm.Logger.Info("Lineage continued",
		zap.String("lineage", lineage.LastName),
		zap.Int("generation", lineage.Generation),
		zap.String("character", next.FullName()))
	return gm.state.Clone(), nil
}

// ResetLineage discards the lineage, its ancestors and every checkpoint
func (gm *GameManager) ResetLineage(ctx context.Context) (types.GameState, error) {
	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	gm.state = emptyState()
	gm.checkpoints.Clear()
	state := gm.state.Clone()
	gm.stateLock.Unlock()

	if gm.store != nil {
		if err := gm.store.Delete(ctx, gm.opts.SaveKey); err != nil {
			gm.Logger.Error("Failed to delete save slot", zap.Error(err))
		}
	}
	gm.Logger.Info("Lineage reset")
	return state, nil
}

// ShareCard returns the text encoded in the lineage QR card
func (gm *GameManager) ShareCard() (string, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	lineage := gm.state.Lineage
	if lineage == nil {
		return "", ErrNoCharacter
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Família %s", lineage.LastName)
	if lineage.Title != "" {
		fmt.Fprintf(&sb, " (%s)", lineage.Title)
	}
	fmt.Fprintf(&sb, "\nBrasão: %s\nGeração: %d", lineage.Crest, lineage.Generation)
	for _, a := range gm.state.Ancestors {
		fmt.Fprintf(&sb, "\n%s %s (%d-%d): %d pontos", a.Name, a.LastName, a.BirthYear, a.DeathYear, a.LegacyPoints)
	}
	if c := gm.state.Character; c != nil && gm.state.Phase != types.PhaseGameOver && gm.state.Phase != types.PhaseLegacy {
		fmt.Fprintf(&sb, "\nAtual: %s, %d anos", c.FullName(), c.Age)
	}
	return sb.String(), nil
}

// Save writes the live state and checkpoints to the save slot
func (gm *GameManager) Save(ctx context.Context) error {
	if gm.store == nil {
		return ErrNoSaveStore
	}
	gm.stateLock.RLock()
	data := types.SaveData{
		SavedAt:     time.Now(),
		State:       gm.state.Clone(),
		Checkpoints: gm.checkpoints.List(),
	}
	gm.stateLock.RUnlock()

	blob, err := EncodeSave(data)
	if err != nil {
		return err
	}
	if err := gm.store.Save(ctx, gm.opts.SaveKey, blob); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

// Load replaces the live state with the save slot contents
func (gm *GameManager) Load(ctx context.Context) (types.GameState, error) {
	if gm.store == nil {
		return gm.State(), ErrNoSaveStore
	}
	blob, err := gm.store.Load(ctx, gm.opts.SaveKey)
	if err != nil {
		return gm.State(), err
	}
	data, err := DecodeSave(blob)
	if err != nil {
		return gm.State(), err
	}

	if err := gm.lockIdle(); err != nil {
		return gm.State(), err
	}
	defer gm.stateLock.Unlock()

	// A save taken mid-request resumes before the request
	if data.State.Phase == types.PhaseYearEndProcessing {
		data.State.Phase = types.PhaseRoutinePlanning
	}
	gm.state = data.State
	gm.checkpoints.Replace(data.Checkpoints)
	gm.Logger.Info("Game loaded", zap.Int("year", gm.state.CurrentYear), zap.String("phase", string(gm.state.Phase)))
	return gm.state.Clone(), nil
}

func (gm *GameManager) unlockAndSave(ctx context.Context) {
	gm.stateLock.Unlock()
	gm.autosave(ctx)
}

// autosave persists after every action; failures only get logged.
func (gm *GameManager) autosave(ctx context.Context) {
	if gm.store == nil {
		return
	}
	if err := gm.Save(ctx); err != nil {
		gm.Logger.Error("Failed to autosave", zap.Error(err))
	}
}

func (gm *GameManager) recordGatewayError(op string, err error) {
	kind := gateway.KindOf(err)
	message := failureMessage
	if kind == gateway.KindQuota {
		message = quotaMessage
	}
	gm.state.LastError = &types.GameError{
		Kind:      string(kind),
		Message:   message,
		Retryable: kind.Retryable(),
	}
	gm.Logger.Error("Gateway request failed",
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.Error(err))
}

func (gm *GameManager) logIgnored(source string, ignored []string) {
	if len(ignored) == 0 {
		return
	}
	gm.Logger.Debug("Ignored delta fields", zap.String("source", source), zap.Strings("fields", ignored))
}

// eventFacts gathers the context sent with an event request. Must be called
// with the lock held.
func (gm *GameManager) eventFacts() types.EventFacts {
	facts := types.EventFacts{
		Year:            gm.state.CurrentYear,
		MonthsRemaining: gm.state.MonthsRemaining,
		Climate:         gm.state.EconomicClimate,
	}
	if focus, ok := gm.catalog.Focus(gm.state.CurrentFocus); ok {
		facts.Focus = focus.Name
	}
	if lineage := gm.state.Lineage; lineage != nil {
		facts.LineageName = lineage.LastName
		facts.LineageTitle = lineage.Title
	}
	logStart := max(0, len(gm.state.YearLog)-recentLogSize)
	facts.RecentLog = slices.Clone(gm.state.YearLog[logStart:])
	worldStart := max(0, len(gm.state.WorldEvents)-3)
	for _, w := range gm.state.WorldEvents[worldStart:] {
		facts.WorldEvents = append(facts.WorldEvents, fmt.Sprintf("%d: %s", w.Year, w.Title))
	}
	for _, a := range gm.state.Ancestors {
		facts.Ancestors = append(facts.Ancestors, fmt.Sprintf("%s %s (%d-%d): %s", a.Name, a.LastName, a.BirthYear, a.DeathYear, a.CauseOfDeath))
	}
	return facts
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}

// IsGatewayError reports whether err came from the content gateway.
func IsGatewayError(err error) bool {
	var gerr *gateway.Error
	return errors.As(err, &gerr)
}
