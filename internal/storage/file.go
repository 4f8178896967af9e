package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"nexusSwap/internal/model"
)

const recordVersion = 0

// FileStore keeps the wallet record in a local JSON file. Writes go to a
// temporary file that is renamed over the target.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileRecord struct {
	Name      string             `json:"name"`
	State     model.WalletRecord `json:"state"`
	Version   int                `json:"version"`
	UpdatedAt string             `json:"updated_at"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the record stored under name. A missing file, or a file
// holding another record, reports false.
func (s *FileStore) Load(ctx context.Context, name string) (model.WalletRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.WalletRecord{}, false, nil
		}
		return model.WalletRecord{}, false, fmt.Errorf("stat wallet storage: %w", err)
	}
	if stat.IsDir() {
		return model.WalletRecord{}, false, fmt.Errorf("wallet storage path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.WalletRecord{}, false, fmt.Errorf("read wallet storage: %w", err)
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.WalletRecord{}, false, fmt.Errorf("parse wallet storage: %w", err)
	}
	if rec.Name != name {
		return model.WalletRecord{}, false, nil
	}
	return rec.State, true, nil
}

func (s *FileStore) Save(ctx context.Context, name string, state model.WalletRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create wallet storage dir: %w", err)
		}
	}

	if state.Transactions == nil {
		state.Transactions = []model.Transaction{}
	}
	rec := fileRecord{
		Name:      name,
		State:     state,
		Version:   recordVersion,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wallet storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write wallet storage tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename wallet storage: %w", err)
	}
	return nil
}
