package opt

import "sort"

// ratio is value per unit cost; free items rank as 0.
func ratio(it Item) float64 {
	if it.Cost > 0 {
		return it.Value / it.Cost
	}
	return 0
}

// KnapsackGreedy ranks items by value/cost, highest first with ties kept in
// input order, and admits each one that still fits the remaining budget,
// weight and category cap. Skipped items are never reconsidered.
func KnapsackGreedy(items []Item, lim Limits) (Selection, error) {
	if err := lim.Validate(); err != nil {
		return Selection{}, err
	}
	if err := validateItems(items); err != nil {
		return Selection{}, err
	}

	order := identityRoute(len(items))
	sort.SliceStable(order, func(a, b int) bool {
		return ratio(items[order[a]]) > ratio(items[order[b]])
	})

	picked := []int{}
	var cost, weight float64
	counts := map[string]int{}
	for _, idx := range order {
		it := items[idx]
		if cost+it.Cost > lim.Budget || weight+it.Weight > lim.MaxWeight {
			continue
		}
		if capN, ok := lim.CategoryLimit[it.Category]; ok && it.Category != "" && counts[it.Category] >= capN {
			continue
		}
		picked = append(picked, idx)
		cost += it.Cost
		weight += it.Weight
		if it.Category != "" {
			counts[it.Category]++
		}
	}
	return selectionOf(items, picked), nil
}
