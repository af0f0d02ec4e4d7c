package interfaces

import (
	"context"
	"errors"

	"github.com/user/vida-loka-geracoes/internal/types"
)

// ErrSaveNotFound is returned by a SaveStore when the key holds no save.
var ErrSaveNotFound = errors.New("save not found")

// ContentGateway is the boundary to the external narrative generator.
// Implementations validate payloads before returning them.
type ContentGateway interface {
	RequestEvent(ctx context.Context, summary types.CharacterSummary, facts types.EventFacts) (*types.Event, error)
	EvaluateFreeformResponse(ctx context.Context, summary types.CharacterSummary, eventText, playerText string) (*types.Choice, error)
	RequestWorldEvent(ctx context.Context, year int, climate types.EconomicClimate) (*types.WorldEvent, error)
	RequestCatastrophicEvent(ctx context.Context, summary types.CharacterSummary) (*types.Choice, error)
}

// SaveStore is an opaque key-value blob store for save slots
type SaveStore interface {
	Save(ctx context.Context, key string, blob []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// GameManager defines the game operations exposed to the HTTP surface
type GameManager interface {
	State() types.GameState
	NewGame(ctx context.Context, opts types.NewGameOptions) (types.GameState, error)
	PlanRoutine(ctx context.Context, focusID string) (types.GameState, error)
	NextEvent(ctx context.Context) (types.GameState, error)
	ChooseOption(ctx context.Context, index int) (types.GameState, error)
	RespondFreeform(ctx context.Context, text string) (types.GameState, error)
	AutoPlay(ctx context.Context) (types.GameState, error)
	Checkpoints() []types.Checkpoint
	Rollback(ctx context.Context, checkpointID string) (types.GameState, error)
	PurchaseBonus(ctx context.Context, itemID string) (types.GameState, error)
	ContinueLineage(ctx context.Context) (types.GameState, error)
	ResetLineage(ctx context.Context) (types.GameState, error)
	ShareCard() (string, error)
	Save(ctx context.Context) error
	Load(ctx context.Context) (types.GameState, error)
}
