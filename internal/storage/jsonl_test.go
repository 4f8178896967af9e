package storage

import (
	"os"
	"path/filepath"
	"testing"

	"nexusSwap/internal/model"
)

func TestJSONLExporterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "transactions.jsonl")
	var sink TransactionSink = NewJSONLExporter(path, TransactionFilter{})

	first := []model.Transaction{
		{ID: "1-a", Hash: "0x1", Status: model.TxSuccess, Type: model.TxSwap},
		{ID: "2-b", Hash: "0x2", Status: model.TxPending, Type: model.TxApprove},
	}
	if err := sink.PutTransactions(first); err != nil {
		t.Fatalf("first export: %v", err)
	}
	if err := sink.PutTransactions(nil); err != nil {
		t.Fatalf("empty export: %v", err)
	}
	if err := sink.PutTransactions([]model.Transaction{{ID: "3-c", Hash: "0x3"}}); err != nil {
		t.Fatalf("second export: %v", err)
	}

	txs, err := ReadTransactions(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(txs) != 3 || txs[0].ID != "1-a" || txs[2].ID != "3-c" {
		t.Fatalf("unexpected exported transactions: %+v", txs)
	}
}

func TestJSONLExporterSkipsExported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.jsonl")
	txs := []model.Transaction{
		{ID: "1-a", Hash: "0x1", Status: model.TxSuccess, Type: model.TxSwap},
		{ID: "2-b", Hash: "0x2", Status: model.TxSuccess, Type: model.TxSwap},
	}
	if _, err := NewJSONLExporter(path, TransactionFilter{}).Export(txs[:1]); err != nil {
		t.Fatalf("first export: %v", err)
	}

	// A fresh exporter picks up the IDs already in the file.
	n, err := NewJSONLExporter(path, TransactionFilter{}).Export(txs)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 new line, got %d", n)
	}

	got, err := ReadTransactions(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(got) != 2 || got[1].ID != "2-b" {
		t.Fatalf("unexpected exported transactions: %+v", got)
	}
}

func TestJSONLExporterFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.jsonl")
	txs := []model.Transaction{
		{ID: "1-a", ChainID: 1, Status: model.TxSuccess, Type: model.TxSwap, Timestamp: 1000},
		{ID: "2-b", ChainID: 137, Status: model.TxSuccess, Type: model.TxSwap, Timestamp: 2000},
		{ID: "3-c", ChainID: 1, Status: model.TxError, Type: model.TxSwap, Timestamp: 3000},
		{ID: "4-d", ChainID: 1, Status: model.TxSuccess, Type: model.TxApprove, Timestamp: 4000},
		{ID: "5-e", ChainID: 1, Status: model.TxSuccess, Type: model.TxSwap, Timestamp: 5000},
	}
	filter := TransactionFilter{ChainID: 1, Status: model.TxSuccess, Type: model.TxSwap, Since: 2000}

	n, err := NewJSONLExporter(path, filter).Export(txs)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 matching transaction, got %d", n)
	}
	got, err := ReadTransactions(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(got) != 1 || got[0].ID != "5-e" {
		t.Fatalf("unexpected exported transactions: %+v", got)
	}
}

func TestJSONLExporterNothingMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.jsonl")
	filter := TransactionFilter{Status: model.TxError}
	n, err := NewJSONLExporter(path, filter).Export([]model.Transaction{{ID: "1-a", Status: model.TxSuccess}})
	if err != nil || n != 0 {
		t.Fatalf("expected no export, got n=%d err=%v", n, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be created, stat err=%v", err)
	}
}
