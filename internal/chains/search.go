package chains

import (
	"sort"
	"strings"

	"nexusSwap/internal/model"
)

// SearchTokens filters the chain's token list for a selector.
// The exclude token (the one already picked on the other side) is never returned.
func SearchTokens(chainID uint64, query string, exclude *model.Token) []model.Token {
	tokens := TokensForChain(chainID)
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]model.Token, 0, len(tokens))
	for _, t := range tokens {
		if exclude != nil && strings.EqualFold(exclude.Address, t.Address) {
			continue
		}
		if query == "" ||
			strings.Contains(strings.ToLower(t.Symbol), query) ||
			strings.Contains(strings.ToLower(t.Name), query) ||
			strings.ToLower(t.Address) == query {
			out = append(out, t)
		}
	}
	return out
}

// SortFavorites moves favorite addresses to the front, keeping relative order.
func SortFavorites(tokens []model.Token, favorites []string) []model.Token {
	fav := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		fav[strings.ToLower(f)] = struct{}{}
	}
	out := make([]model.Token, len(tokens))
	copy(out, tokens)
	sort.SliceStable(out, func(i, j int) bool {
		_, fi := fav[strings.ToLower(out[i].Address)]
		_, fj := fav[strings.ToLower(out[j].Address)]
		return fi && !fj
	})
	return out
}
