package model

// TransactionStatus is the lifecycle state of a submitted transaction.
type TransactionStatus string

const (
	TxPending TransactionStatus = "pending"
	TxSuccess TransactionStatus = "success"
	TxError   TransactionStatus = "error"
)

// TransactionType classifies what a transaction did.
type TransactionType string

const (
	TxSwap            TransactionType = "swap"
	TxAddLiquidity    TransactionType = "addLiquidity"
	TxRemoveLiquidity TransactionType = "removeLiquidity"
	TxApprove         TransactionType = "approve"
)

// Transaction is an entry of the wallet's transaction log.
// Timestamp is unix milliseconds.
type Transaction struct {
	ID          string            `json:"id"`
	Hash        string            `json:"hash"`
	Status      TransactionStatus `json:"status"`
	Type        TransactionType   `json:"type"`
	Description string            `json:"description"`
	Timestamp   int64             `json:"timestamp"`
	ChainID     uint64            `json:"chain_id"`
	From        string            `json:"from"`
}

// WalletState is the connection portion of the wallet store.
// Provider is owned by the caller; the store never closes it.
type WalletState struct {
	Address      string `json:"address"`
	ChainID      uint64 `json:"chain_id"`
	IsConnected  bool   `json:"is_connected"`
	IsConnecting bool   `json:"is_connecting"`
	Provider     any    `json:"-"`
}

// WalletRecord is the persisted part of the wallet store.
type WalletRecord struct {
	Transactions []Transaction `json:"transactions"`
}
