package redis

import (
	"testing"
	"time"
)

func TestPoolsKeyIsPerChain(t *testing.T) {
	if got := poolsKey(1); got != "1.pools" {
		t.Fatalf("unexpected key: %s", got)
	}
	if poolsKey(1) == poolsKey(137) {
		t.Fatalf("expected distinct keys per chain")
	}
}

func TestNewPoolCacheRequiresAddr(t *testing.T) {
	if _, err := NewPoolCache("", time.Minute); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
