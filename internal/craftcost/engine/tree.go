package engine

import (
	"sort"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// CraftingTree builds the recursive acquisition breakdown for an item: the
// effective mode and per-unit price at every level, with reagent children
// wherever the effective source is crafting. Child counts are scaled by the
// whole-batch craft actions needed for the requested count, matching the
// shopping list expansion. Returns nil for unknown items. The table is
// acyclic by construction, so the recursion terminates.
func CraftingTree(table craftcost.PriceTable, overrides craftcost.Overrides, item string, count int) *craftcost.TreeNode {
	rec := table[item]
	if rec == nil {
		return nil
	}

	kind := Source(table, overrides, item)
	node := &craftcost.TreeNode{
		Item:   item,
		Count:  count,
		Mode:   EffectiveMode(table, overrides, item),
		Source: kind.String(),
		Price:  finitePtr(ItemPrice(table, item, overrides)),
	}

	if kind != SourceCrafted {
		return node
	}

	node.RequiredMoney = rec.RequiredMoney
	numCraft := (count + rec.CraftMin - 1) / rec.CraftMin

	reagents := make([]string, 0, len(rec.Reagents))
	for reagent := range rec.Reagents {
		reagents = append(reagents, reagent)
	}
	sort.Strings(reagents)

	node.Children = make([]craftcost.TreeNode, 0, len(reagents))
	for _, reagent := range reagents {
		child := CraftingTree(table, overrides, reagent, rec.Reagents[reagent]*numCraft)
		if child != nil {
			node.Children = append(node.Children, *child)
		}
	}

	return node
}
