package game

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/vida-loka-geracoes/internal/types"
)

// MaxCheckpoints is the default number of snapshots kept.
const MaxCheckpoints = 10

var ErrCheckpointNotFound = errors.New("checkpoint not found")

// CheckpointStore is a bounded stack of full-state snapshots, newest first.
type CheckpointStore struct {
	mu          sync.RWMutex
	max         int
	checkpoints []types.Checkpoint
	now         func() time.Time
}

// NewCheckpointStore creates a store keeping at most max snapshots
func NewCheckpointStore(max int) *CheckpointStore {
	if max <= 0 {
		max = MaxCheckpoints
	}
	return &CheckpointStore{
		max: max,
		now: time.Now,
	}
}

// Push snapshots state under label. The oldest checkpoint is evicted when
// the store is full.
func (cs *CheckpointStore) Push(state types.GameState, label string) types.Checkpoint {
	cp := types.Checkpoint{
		ID:        uuid.NewString(),
		Label:     label,
		CreatedAt: cs.now(),
		State:     state.Clone(),
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.checkpoints = slices.Insert(cs.checkpoints, 0, cp)
	if len(cs.checkpoints) > cs.max {
		cs.checkpoints = cs.checkpoints[:cs.max]
	}
	return cp
}

// Restore returns a copy of the snapshot with the given id and discards every
// checkpoint newer than it. The target itself is kept.
func (cs *CheckpointStore) Restore(id string) (types.GameState, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	idx := slices.IndexFunc(cs.checkpoints, func(cp types.Checkpoint) bool {
		return cp.ID == id
	})
	if idx < 0 {
		return types.GameState{}, ErrCheckpointNotFound
	}
	cs.checkpoints = slices.Clone(cs.checkpoints[idx:])
	return cs.checkpoints[0].State.Clone(), nil
}

// List returns the checkpoints, newest first. States are not copied; callers
// must treat them as read-only.
func (cs *CheckpointStore) List() []types.Checkpoint {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return slices.Clone(cs.checkpoints)
}

// Len returns the number of stored checkpoints.
func (cs *CheckpointStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.checkpoints)
}

// Replace swaps the whole stack, used when loading a save slot.
func (cs *CheckpointStore) Replace(checkpoints []types.Checkpoint) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.checkpoints = make([]types.Checkpoint, 0, min(len(checkpoints), cs.max))
	for i, cp := range checkpoints {
		if i >= cs.max {
			break
		}
		cp.State = cp.State.Clone()
		cs.checkpoints = append(cs.checkpoints, cp)
	}
}

// Clear drops every checkpoint.
func (cs *CheckpointStore) Clear() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.checkpoints = nil
}
