package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"nexusSwap/internal/model"
	"nexusSwap/internal/swap"
)

func TestFindPool(t *testing.T) {
	pools := []model.Pool{
		{ID: "1-0xa-0xb", Token0: model.Token{Symbol: "WETH"}, Token1: model.Token{Symbol: "USDC"}},
		{ID: "1-0xc-0xd", Token0: model.Token{Symbol: "WBTC"}, Token1: model.Token{Symbol: "WETH"}},
	}

	p, err := findPool(pools, "1-0xc-0xd")
	if err != nil || p.ID != "1-0xc-0xd" {
		t.Fatalf("find by id: %v %v", p.ID, err)
	}
	p, err = findPool(pools, "usdc/weth")
	if err != nil || p.ID != "1-0xa-0xb" {
		t.Fatalf("find by reversed pair: %v %v", p.ID, err)
	}
	if _, err := findPool(pools, "DAI/USDT"); err == nil {
		t.Fatalf("expected missing pair error")
	}
	if _, err := findPool(pools, ""); err == nil {
		t.Fatalf("expected empty ref error")
	}
}

func TestResolveToken(t *testing.T) {
	tok, err := resolveToken(1, "usdc")
	if err != nil {
		t.Fatalf("resolve symbol: %v", err)
	}
	byAddr, err := resolveToken(1, strings.ToLower(tok.Address))
	if err != nil {
		t.Fatalf("resolve address: %v", err)
	}
	if byAddr.Symbol != "USDC" {
		t.Fatalf("unexpected token: %s", byAddr.Symbol)
	}
	if _, err := resolveToken(1, "NOPE"); err == nil {
		t.Fatalf("expected unknown token error")
	}
}

func TestPrintTradeWithoutTrade(t *testing.T) {
	var buf bytes.Buffer
	printTrade(&buf, swap.State{})
	if !strings.Contains(buf.String(), "enter an amount") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestHoldsPool(t *testing.T) {
	positions := []model.LiquidityPosition{{PoolID: "a"}, {PoolID: "b"}}
	if !holdsPool(positions, "b") || holdsPool(positions, "c") {
		t.Fatalf("unexpected holdsPool result")
	}
}

func TestExportFilter(t *testing.T) {
	export, _, err := newTxCmd().Find([]string{"export"})
	if err != nil {
		t.Fatalf("find export: %v", err)
	}
	if err := export.ParseFlags([]string{"--chain", "137", "--status", "success", "--type", "swap", "--since", "1h"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	now := time.UnixMilli(10_000_000)
	filter, err := exportFilter(export, now)
	if err != nil {
		t.Fatalf("export filter: %v", err)
	}
	if filter.ChainID != 137 || filter.Status != model.TxSuccess || filter.Type != model.TxSwap {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if want := now.Add(-time.Hour).UnixMilli(); filter.Since != want {
		t.Fatalf("since = %d, want %d", filter.Since, want)
	}

	bad, _, _ := newTxCmd().Find([]string{"export"})
	if err := bad.ParseFlags([]string{"--status", "done"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := exportFilter(bad, now); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	}
}
