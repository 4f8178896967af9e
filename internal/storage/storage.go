package storage

import "nexusSwap/internal/model"

// TransactionSink receives exported transactions.
type TransactionSink interface {
	PutTransactions(txs []model.Transaction) error
}
