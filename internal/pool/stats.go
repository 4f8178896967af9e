package pool

import (
	"fmt"
	"sort"

	"nexusSwap/internal/model"
)

// Summary aggregates a pool list for the analytics overview.
type Summary struct {
	Count          int
	TotalTVL       float64
	TotalVolume24h float64
	TotalFees24h   float64
	AverageAPR     float64
}

func Summarize(pools []model.Pool) Summary {
	var s Summary
	var aprSum float64
	for _, p := range pools {
		s.TotalTVL += p.TVL
		s.TotalVolume24h += p.Volume24h
		s.TotalFees24h += p.Fees24h
		aprSum += p.APR
	}
	s.Count = len(pools)
	if s.Count > 0 {
		s.AverageAPR = aprSum / float64(s.Count)
	}
	return s
}

// SortField names a sortable pool column.
type SortField string

const (
	SortTVL    SortField = "tvl"
	SortVolume SortField = "volume24h"
	SortFees   SortField = "fees24h"
	SortAPR    SortField = "apr"
)

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortTVL, SortVolume, SortFees, SortAPR:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// SortBy returns a sorted copy of pools.
func SortBy(pools []model.Pool, field SortField, ascending bool) []model.Pool {
	out := append([]model.Pool(nil), pools...)
	key := func(p model.Pool) float64 {
		switch field {
		case SortVolume:
			return p.Volume24h
		case SortFees:
			return p.Fees24h
		case SortAPR:
			return p.APR
		default:
			return p.TVL
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return key(out[i]) < key(out[j])
		}
		return key(out[i]) > key(out[j])
	})
	return out
}
