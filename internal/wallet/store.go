package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexusSwap/internal/chains"
	"nexusSwap/internal/model"
)

const (
	DefaultStorageName = "nexus-wallet-storage"
	DefaultRetention   = 7 * 24 * time.Hour
	idSuffixLen        = 9
)

// Storage persists the wallet record under a name.
type Storage interface {
	Load(ctx context.Context, name string) (model.WalletRecord, bool, error)
	Save(ctx context.Context, name string, rec model.WalletRecord) error
}

type Config struct {
	StorageName string
	Retention   time.Duration
	Now         func() time.Time
}

// TransactionInput is a transaction before the store assigns its id and
// timestamp.
type TransactionInput struct {
	Hash        string
	Status      model.TransactionStatus
	Type        model.TransactionType
	Description string
	ChainID     uint64
	From        string
}

// TransactionPatch updates selected fields of a transaction.
type TransactionPatch struct {
	Status      *model.TransactionStatus
	Description *string
}

// Store holds the connection state and the transaction log. The log is
// ordered most recent first. Only the log is persisted, and the persisted
// copy is pruned to the retention window on every write.
type Store struct {
	cfg     Config
	storage Storage
	logger  *zap.Logger

	mu    sync.Mutex
	state model.WalletState
	txs   []model.Transaction

	persistMu sync.Mutex
}

func NewStore(cfg Config, storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StorageName == "" {
		cfg.StorageName = DefaultStorageName
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{cfg: cfg, storage: storage, logger: logger}
}

// Hydrate loads the persisted log, dropping expired entries.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	rec, ok, err := s.storage.Load(ctx, s.cfg.StorageName)
	if err != nil {
		return fmt.Errorf("load wallet storage %q: %w", s.cfg.StorageName, err)
	}
	if !ok {
		return nil
	}
	s.mu.Lock()
	s.txs = Prune(rec.Transactions, s.cfg.Now(), s.cfg.Retention)
	count := len(s.txs)
	s.mu.Unlock()
	s.logger.Debug("wallet storage loaded", zap.String("name", s.cfg.StorageName), zap.Int("transactions", count))
	return nil
}

// State returns the connection state.
func (s *Store) State() model.WalletState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transactions returns a copy of the log, most recent first.
func (s *Store) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.txs...)
}

func (s *Store) Connect(address string, chainID uint64, provider any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = model.WalletState{
		Address:     address,
		ChainID:     chainID,
		IsConnected: true,
		Provider:    provider,
	}
}

func (s *Store) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = model.WalletState{}
}

func (s *Store) SetConnecting(connecting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsConnecting = connecting
}

// SwitchChain changes the active chain. Unknown chains are ignored.
func (s *Store) SwitchChain(chainID uint64) bool {
	if !chains.IsSupported(chainID) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChainID = chainID
	return true
}

// IsSupportedChain reports whether the active chain is in the registry.
func (s *Store) IsSupportedChain() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ChainID != 0 && chains.IsSupported(s.state.ChainID)
}

// CurrentChain resolves the active chain.
func (s *Store) CurrentChain() (model.Chain, bool) {
	s.mu.Lock()
	id := s.state.ChainID
	s.mu.Unlock()
	return chains.ChainByID(id)
}

// AddTransaction prepends a new transaction and persists the log.
func (s *Store) AddTransaction(ctx context.Context, in TransactionInput) model.Transaction {
	now := s.cfg.Now()
	tx := model.Transaction{
		ID:          newTransactionID(now),
		Hash:        in.Hash,
		Status:      in.Status,
		Type:        in.Type,
		Description: in.Description,
		Timestamp:   now.UnixMilli(),
		ChainID:     in.ChainID,
		From:        in.From,
	}

	s.mu.Lock()
	s.txs = append([]model.Transaction{tx}, s.txs...)
	s.mu.Unlock()

	s.persist(ctx)
	return tx
}

// UpdateTransaction merges patch into the transaction with hash. It
// reports false when no transaction matches.
func (s *Store) UpdateTransaction(ctx context.Context, hash string, patch TransactionPatch) bool {
	s.mu.Lock()
	found := false
	for i := range s.txs {
		if s.txs[i].Hash != hash {
			continue
		}
		found = true
		if patch.Status != nil {
			s.txs[i].Status = *patch.Status
		}
		if patch.Description != nil {
			s.txs[i].Description = *patch.Description
		}
	}
	s.mu.Unlock()

	if found {
		s.persist(ctx)
	}
	return found
}

func (s *Store) ClearTransactions(ctx context.Context) {
	s.mu.Lock()
	s.txs = nil
	s.mu.Unlock()
	s.persist(ctx)
}

// LatestTransaction returns the most recently added transaction.
func (s *Store) LatestTransaction() (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.txs) == 0 {
		return model.Transaction{}, false
	}
	return s.txs[0], true
}

func (s *Store) persist(ctx context.Context) {
	if s.storage == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	rec := model.WalletRecord{Transactions: Prune(s.txs, s.cfg.Now(), s.cfg.Retention)}
	s.mu.Unlock()

	if err := s.storage.Save(ctx, s.cfg.StorageName, rec); err != nil {
		s.logger.Warn("persist wallet storage",
			zap.String("name", s.cfg.StorageName),
			zap.Int("transactions", len(rec.Transactions)),
			zap.Error(err),
		)
	}
}

// Prune drops transactions older than retention, keeping order.
func Prune(txs []model.Transaction, now time.Time, retention time.Duration) []model.Transaction {
	cutoff := now.UnixMilli() - retention.Milliseconds()
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Timestamp < cutoff {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func newTransactionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}
