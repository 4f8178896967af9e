package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"nexusSwap/internal/model"
)

// TransactionFilter selects transactions for export. Zero fields match
// everything. Since is unix milliseconds, inclusive.
type TransactionFilter struct {
	ChainID uint64
	Status  model.TransactionStatus
	Type    model.TransactionType
	Since   int64
}

func (f TransactionFilter) Match(tx model.Transaction) bool {
	switch {
	case f.ChainID != 0 && tx.ChainID != f.ChainID:
		return false
	case f.Status != "" && tx.Status != f.Status:
		return false
	case f.Type != "" && tx.Type != f.Type:
		return false
	case f.Since != 0 && tx.Timestamp < f.Since:
		return false
	}
	return true
}

// JSONLExporter streams transactions into a JSONL file. Transactions whose
// ID is already present in the file are skipped, so repeated exports of
// the same log only append what is new.
type JSONLExporter struct {
	path   string
	filter TransactionFilter

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewJSONLExporter(path string, filter TransactionFilter) *JSONLExporter {
	return &JSONLExporter{path: path, filter: filter}
}

func (e *JSONLExporter) PutTransactions(txs []model.Transaction) error {
	_, err := e.Export(txs)
	return err
}

// Export appends the matching, not yet exported transactions and returns
// how many lines were written.
func (e *JSONLExporter) Export(txs []model.Transaction) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.seen == nil {
		seen, err := readExportedIDs(e.path)
		if err != nil {
			return 0, err
		}
		e.seen = seen
	}

	pending := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !e.filter.Match(tx) {
			continue
		}
		if _, dup := e.seen[tx.ID]; dup {
			continue
		}
		pending = append(pending, tx)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create export dir: %w", err)
		}
	}
	file, err := os.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open export file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, tx := range pending {
		if err := enc.Encode(tx); err != nil {
			return 0, fmt.Errorf("encode transaction %s: %w", tx.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("flush export: %w", err)
	}
	for _, tx := range pending {
		e.seen[tx.ID] = struct{}{}
	}
	return len(pending), nil
}

// ReadTransactions decodes every line of a JSONL export.
func ReadTransactions(path string) ([]model.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer file.Close()

	var txs []model.Transaction
	dec := json.NewDecoder(bufio.NewReader(file))
	for dec.More() {
		var tx model.Transaction
		if err := dec.Decode(&tx); err != nil {
			return nil, fmt.Errorf("decode export line %d: %w", len(txs)+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func readExportedIDs(path string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})
	txs, err := ReadTransactions(path)
	if errors.Is(err, fs.ErrNotExist) {
		return seen, nil
	}
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		seen[tx.ID] = struct{}{}
	}
	return seen, nil
}
