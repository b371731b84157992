package opt

import "math"

// Item is a candidate for selection. Items are never mutated by the solvers.
type Item struct {
	Name     string  `json:"name" yaml:"name"`
	Value    float64 `json:"value" yaml:"value"`
	Weight   float64 `json:"weight" yaml:"weight"`
	Cost     float64 `json:"cost" yaml:"cost"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
}

// Limits are upper bounds on a selection. CategoryLimit caps the number of
// selected items per category; categories absent from the map are unbounded.
// The empty category is always unbounded, so a "" key is ignored.
type Limits struct {
	Budget        float64        `json:"budget" yaml:"budget"`
	MaxWeight     float64        `json:"max_weight" yaml:"max_weight"`
	CategoryLimit map[string]int `json:"category_limit,omitempty" yaml:"category_limit,omitempty"`
}

// Validate rejects negative, non-numeric or unscalable bounds.
func (l Limits) Validate() error {
	if math.IsNaN(l.Budget) || l.Budget < 0 {
		return invalidf("budget must be >= 0, got %v", l.Budget)
	}
	if math.IsNaN(l.MaxWeight) || l.MaxWeight < 0 {
		return invalidf("max weight must be >= 0, got %v", l.MaxWeight)
	}
	if !fitsScaled(l.Budget) {
		return invalidf("budget %v exceeds %v", l.Budget, MaxAmount)
	}
	if !fitsScaled(l.MaxWeight) {
		return invalidf("max weight %v exceeds %v", l.MaxWeight, MaxAmount)
	}
	for cat, n := range l.CategoryLimit {
		if n < 0 {
			return invalidf("category %q limit must be >= 0, got %d", cat, n)
		}
	}
	return nil
}

// Selection is the result of a knapsack run. Items and Indices are in the
// order the solver discovered them.
type Selection struct {
	Items       []Item  `json:"items"`
	Indices     []int   `json:"indices"`
	TotalValue  float64 `json:"total_value"`
	TotalCost   float64 `json:"total_cost"`
	TotalWeight float64 `json:"total_weight"`
}

func validateItems(items []Item) error {
	for i, it := range items {
		if math.IsNaN(it.Value) || math.IsNaN(it.Cost) || math.IsNaN(it.Weight) {
			return invalidf("item %d has a non-numeric field", i)
		}
		if it.Cost < 0 || it.Weight < 0 {
			return invalidf("item %d has negative cost or weight", i)
		}
		if !fitsScaled(it.Cost) || !fitsScaled(it.Weight) {
			return invalidf("item %d cost or weight exceeds %v", i, MaxAmount)
		}
	}
	return nil
}

func selectionOf(items []Item, indices []int) Selection {
	sel := Selection{Items: make([]Item, 0, len(indices)), Indices: indices}
	for _, idx := range indices {
		it := items[idx]
		sel.Items = append(sel.Items, it)
		sel.TotalValue += it.Value
		sel.TotalCost += it.Cost
		sel.TotalWeight += it.Weight
	}
	return sel
}

// scaled truncates x*100 to an integer: amounts are quantized to hundredths,
// so costs closer than 0.005 apart may compare equal.
func scaled(x float64) int64 {
	return int64(x * 100)
}

// MaxAmount is the largest cost, weight or bound whose scaled value fits in
// an int64.
const MaxAmount = math.MaxInt64 / 100

// fitsScaled reports whether x*100 is representable as an int64. Infinities
// fail too.
func fitsScaled(x float64) bool {
	return x*100 < float64(math.MaxInt64)
}

type stateKey struct {
	budget, weight int64
}

// dpNode is one entry of a back-pointer chain. Nodes are immutable once
// created, so a state overwritten later never alters chains that pass
// through its previous node.
type dpNode struct {
	value float64
	item  int
	prev  *dpNode
}

// stateTable is a sparse (budget, weight) -> node map that remembers the
// order in which keys were first inserted.
type stateTable struct {
	nodes map[stateKey]*dpNode
	order []stateKey
}

func (t *stateTable) put(k stateKey, n *dpNode) {
	if _, ok := t.nodes[k]; !ok {
		t.order = append(t.order, k)
	}
	t.nodes[k] = n
}

// KnapsackDP selects the value-maximizing subset of items under the budget
// and weight limits with a dynamic program over scaled (spent budget, spent
// weight) states.
//
// For each item only the states that existed before the item was considered
// are extended, so an item contributes at most once. A transition replaces a
// state only when it yields strictly more value; ties keep the earlier state.
// The best state is the first maximum in insertion order.
//
// Category limits are applied afterwards as a filter over the traced
// selection: items past their category cap are dropped and never replaced,
// so the result can under-use the budget. Totals are recomputed from the
// filtered selection.
func KnapsackDP(items []Item, lim Limits) (Selection, error) {
	if err := lim.Validate(); err != nil {
		return Selection{}, err
	}
	if err := validateItems(items); err != nil {
		return Selection{}, err
	}

	budgetInt := scaled(lim.Budget)
	weightInt := scaled(lim.MaxWeight)

	origin := stateKey{}
	table := &stateTable{nodes: map[stateKey]*dpNode{origin: {item: -1}}, order: []stateKey{origin}}

	type entry struct {
		key  stateKey
		node *dpNode
	}
	snapshot := make([]entry, 0, 64)
	for i, it := range items {
		costInt := scaled(it.Cost)
		wInt := scaled(it.Weight)

		snapshot = snapshot[:0]
		for _, k := range table.order {
			snapshot = append(snapshot, entry{key: k, node: table.nodes[k]})
		}
		for _, e := range snapshot {
			// compared as remaining capacity so the sum never overflows
			if costInt > budgetInt-e.key.budget || wInt > weightInt-e.key.weight {
				continue
			}
			next := stateKey{budget: e.key.budget + costInt, weight: e.key.weight + wInt}
			v := e.node.value + it.Value
			if cur, ok := table.nodes[next]; ok && v <= cur.value {
				continue
			}
			table.put(next, &dpNode{value: v, item: i, prev: e.node})
		}
	}

	best := table.nodes[origin]
	for _, k := range table.order {
		if n := table.nodes[k]; n.value > best.value {
			best = n
		}
	}

	picked := []int{}
	for n := best; n != nil && n.item >= 0; n = n.prev {
		picked = append(picked, n.item)
	}
	for l, r := 0, len(picked)-1; l < r; l, r = l+1, r-1 {
		picked[l], picked[r] = picked[r], picked[l]
	}

	if len(lim.CategoryLimit) > 0 {
		picked = filterCategories(items, picked, lim.CategoryLimit)
	}
	return selectionOf(items, picked), nil
}

// filterCategories keeps indices in order while their category is under its
// cap. Uncategorized items are always kept.
func filterCategories(items []Item, indices []int, limit map[string]int) []int {
	counts := map[string]int{}
	kept := make([]int, 0, len(indices))
	for _, idx := range indices {
		cat := items[idx].Category
		if capN, ok := limit[cat]; ok && cat != "" {
			if counts[cat] >= capN {
				continue
			}
			counts[cat]++
		}
		kept = append(kept, idx)
	}
	return kept
}
