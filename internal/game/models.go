package game

import (
	"errors"

	"github.com/user/vida-loka-geracoes/config"
)

var (
	ErrNoCharacter    = errors.New("no active character")
	ErrInvalidPhase   = errors.New("action not allowed in the current phase")
	ErrRequestPending = errors.New("a request is already in progress")
	ErrNoEvent        = errors.New("no pending event")
	ErrInvalidChoice  = errors.New("invalid choice")
	ErrUnknownItem    = errors.New("unknown shop item")
	ErrUnknownFocus   = errors.New("unknown focus")
	ErrNoSaveStore    = errors.New("no save store configured")
)

const (
	quotaMessage   = "O narrador atingiu o limite de uso. Aguarde alguns minutos antes de tentar de novo."
	failureMessage = "O narrador não respondeu. Tente novamente ou volte a um ponto anterior."
)

// Options tunes the orchestrator
type Options struct {
	StartYear         int
	DefaultTimeCost   int
	MaxCheckpoints    int
	WorldEventChance  float64
	EconomyRollChance float64
	SaveKey           string
}

// OptionsFromConfig extracts the orchestrator options from the app config
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		StartYear:         cfg.Game.StartYear,
		DefaultTimeCost:   cfg.Game.DefaultTimeCost,
		MaxCheckpoints:    cfg.Game.MaxCheckpoints,
		WorldEventChance:  cfg.Game.WorldEventChance,
		EconomyRollChance: cfg.Game.EconomyRollChance,
		SaveKey:           cfg.Storage.SaveKey,
	}
}

func (o Options) normalized() Options {
	def := OptionsFromConfig(config.DefaultConfig())
	if o.StartYear == 0 {
		o.StartYear = def.StartYear
	}
	if o.DefaultTimeCost <= 0 {
		o.DefaultTimeCost = def.DefaultTimeCost
	}
	o.DefaultTimeCost = clamp(o.DefaultTimeCost, 1, MonthsPerYear)
	if o.MaxCheckpoints <= 0 {
		o.MaxCheckpoints = MaxCheckpoints
	}
	if o.SaveKey == "" {
		o.SaveKey = def.SaveKey
	}
	return o
}
