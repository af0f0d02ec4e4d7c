package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/user/vida-loka-geracoes/internal/interfaces"
	"github.com/user/vida-loka-geracoes/internal/types"
)

// SaveVersion is the current save blob format.
const SaveVersion = 1

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid save key %q", key)
	}
	return nil
}

// FileSaveStore keeps one JSON file per save key
type FileSaveStore struct {
	dir       string
	stateLock sync.RWMutex
}

// NewFileSaveStore creates a file store rooted at dir
func NewFileSaveStore(dir string) (*FileSaveStore, error) {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileSaveStore{dir: dir}, nil
}

func (fs *FileSaveStore) path(key string) string {
	return filepath.Join(fs.dir, key+".json")
}

// Save writes blob under key, replacing any previous save
func (fs *FileSaveStore) Save(_ context.Context, key string, blob []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	// Write to a temp file first so a crash never leaves half a save
	tmp := fs.path(key) + ".tmp"
	if err := os.WriteFile(tmp, blob, 0644); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := os.Rename(tmp, fs.path(key)); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// Load reads the blob stored under key
func (fs *FileSaveStore) Load(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	fs.stateLock.RLock()
	defer fs.stateLock.RUnlock()

	data, err := os.ReadFile(fs.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, interfaces.ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return data, nil
}

// Delete removes the save under key. Deleting a missing key is not an error.
func (fs *FileSaveStore) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	if err := os.Remove(fs.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

// SQLiteSaveStore keeps save slots in a SQLite key/value table
type SQLiteSaveStore struct {
	conn *sqlx.DB
}

// OpenSQLiteSaveStore opens or creates the database at path
func OpenSQLiteSaveStore(path string) (*SQLiteSaveStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	store := &SQLiteSaveStore{conn: conn}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (ss *SQLiteSaveStore) Close() error {
	return ss.conn.Close()
}

func (ss *SQLiteSaveStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS save_slots (
		key TEXT PRIMARY KEY,
		blob BLOB NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := ss.conn.Exec(schema)
	return err
}

// Save writes blob under key, replacing any previous save
func (ss *SQLiteSaveStore) Save(ctx context.Context, key string, blob []byte) error {
	_, err := ss.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO save_slots (key, blob, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		key, blob)
	if err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// Load reads the blob stored under key
func (ss *SQLiteSaveStore) Load(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := ss.conn.GetContext(ctx, &blob, "SELECT blob FROM save_slots WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return blob, nil
}

// Delete removes the save under key
func (ss *SQLiteSaveStore) Delete(ctx context.Context, key string) error {
	if _, err := ss.conn.ExecContext(ctx, "DELETE FROM save_slots WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

// EncodeSave serializes the live state and its checkpoints
func EncodeSave(data types.SaveData) ([]byte, error) {
	data.Version = SaveVersion
	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save: %w", err)
	}
	return blob, nil
}

// DecodeSave parses a save blob and fills in any missing field
func DecodeSave(blob []byte) (types.SaveData, error) {
	var data types.SaveData
	if err := json.Unmarshal(blob, &data); err != nil {
		return types.SaveData{}, fmt.Errorf("failed to parse save: %w", err)
	}
	normalizeState(&data.State)
	for i := range data.Checkpoints {
		normalizeState(&data.Checkpoints[i].State)
	}
	if len(data.Checkpoints) > MaxCheckpoints {
		data.Checkpoints = data.Checkpoints[:MaxCheckpoints]
	}
	return data, nil
}

// normalizeState defaults fields an older or partial save may lack.
func normalizeState(state *types.GameState) {
	if state.Phase == "" {
		state.Phase = types.PhaseNotStarted
	}
	if state.Character != nil && state.Phase == types.PhaseNotStarted {
		state.Phase = types.PhaseRoutinePlanning
	}
	if state.EconomicClimate == "" {
		state.EconomicClimate = types.ClimateStable
	}
	if state.MonthsRemaining <= 0 || state.MonthsRemaining > MonthsPerYear {
		state.MonthsRemaining = MonthsPerYear
	}
	if state.Ancestors == nil {
		state.Ancestors = []types.Ancestor{}
	}
	if state.YearLog == nil {
		state.YearLog = []string{}
	}
	if state.WorldEvents == nil {
		state.WorldEvents = []types.WorldEvent{}
	}
	if state.PurchasedBonuses == nil {
		state.PurchasedBonuses = make(map[string]int)
	}
	if c := state.Character; c != nil {
		if c.Generation < 1 {
			c.Generation = 1
		}
		if c.Profession == "" {
			c.JobTitle = ""
		}
		clampCharacter(c)
	}
	if state.Lineage != nil && state.Lineage.Generation < 1 {
		state.Lineage.Generation = 1
	}
}
