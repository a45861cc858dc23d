package graph

import (
	"cmp"
	"slices"
)

// rankCategories counts non-empty categories, orders them by descending count
// with ties broken by first occurrence, and colors the first len(palette).
func rankCategories(nodes []*Node, palette []string, neutral string) []CategoryRank {
	counts := make(map[string]int)
	var order []string
	for _, n := range nodes {
		if n.Category == "" {
			continue
		}
		if _, seen := counts[n.Category]; !seen {
			order = append(order, n.Category)
		}
		counts[n.Category]++
	}

	ranked := make([]CategoryRank, len(order))
	for i, c := range order {
		ranked[i] = CategoryRank{Category: c, Count: counts[c], Color: neutral}
	}
	// Stable sort keeps first-occurrence order among equal counts.
	slices.SortStableFunc(ranked, func(a, b CategoryRank) int {
		return cmp.Compare(b.Count, a.Count)
	})

	for i := range ranked {
		if i < len(palette) {
			ranked[i].Color = palette[i]
		}
	}
	return ranked
}
