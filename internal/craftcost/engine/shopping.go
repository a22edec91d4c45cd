package engine

import (
	"math"
	"sort"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// MoneyItem is the pseudo-item accumulating money required by craft actions,
// kept distinct from the cost of buying items.
const MoneyItem = "money"

// Shopping list sort ranks: free items first, then unpriceable ones (surfaced
// prominently rather than hidden), market buys, vendor buys, money last.
const (
	rankFree = iota
	rankUnobtainable
	rankMarket
	rankVendor
	rankMoney
)

// ShoppingLine is one leaf purchase of a priced shopping list. Cost is +Inf
// when the item has no known price source. Lines are produced fresh on every
// aggregation pass and never persisted.
type ShoppingLine struct {
	Item  string
	Count float64
	Cost  float64
	Rank  int
}

// BuildShoppingList flattens a set of (item, count) requests into the raw
// purchases needed to realize them under the current overrides. Items whose
// effective source is crafting are expanded into their reagents, scaled by
// the number of craft actions; everything else becomes a direct purchase.
// Quantities for the same item sum across branches and requests. Requested
// items absent from the table contribute nothing.
func BuildShoppingList(table craftcost.PriceTable, overrides craftcost.Overrides, requests map[string]int) map[string]float64 {
	list := make(map[string]float64)
	for item, count := range requests {
		if _, ok := table[item]; !ok {
			continue
		}
		expand(list, table, overrides, item, count)
	}
	return list
}

func expand(list map[string]float64, table craftcost.PriceTable, overrides craftcost.Overrides, item string, count int) {
	if Source(table, overrides, item) != SourceCrafted {
		list[item] += float64(count)
		return
	}

	rec := table[item]
	// Craft actions always go in whole batches of the minimum yield.
	numCraft := (count + rec.CraftMin - 1) / rec.CraftMin
	for reagent, qty := range rec.Reagents {
		expand(list, table, overrides, reagent, qty*numCraft)
	}
	if rec.RequiredMoney > 0 {
		list[MoneyItem] += rec.RequiredMoney * float64(numCraft)
	}
}

// PriceShoppingList prices every entry of a flattened shopping list and
// orders the result: ascending by rank, and within a rank most expensive
// first, so the biggest-ticket purchases surface. The returned total sums
// only finite line costs; an unpriceable line stays visible but does not
// poison the estimate.
func PriceShoppingList(table craftcost.PriceTable, list map[string]float64) ([]ShoppingLine, float64) {
	lines := make([]ShoppingLine, 0, len(list))
	for item, count := range list {
		if count <= 0 {
			continue
		}
		lines = append(lines, priceLine(table, item, count))
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Rank != lines[j].Rank {
			return lines[i].Rank < lines[j].Rank
		}
		if lines[i].Cost != lines[j].Cost {
			return lines[i].Cost > lines[j].Cost
		}
		return lines[i].Item < lines[j].Item
	})

	total := 0.0
	for _, line := range lines {
		if !math.IsInf(line.Cost, 1) {
			total += line.Cost
		}
	}

	return lines, total
}

func priceLine(table craftcost.PriceTable, item string, count float64) ShoppingLine {
	line := ShoppingLine{Item: item, Count: count}
	if item == MoneyItem {
		line.Cost = count
		line.Rank = rankMoney
		return line
	}

	rec := table[item]
	if rec == nil {
		line.Cost = math.Inf(1)
		line.Rank = rankUnobtainable
		return line
	}

	switch purchaseSource(rec) {
	case SourceVendor:
		line.Cost = rec.VendorPrice * count
		line.Rank = rankVendor
	case SourceFree:
		line.Cost = 0
		line.Rank = rankFree
	case SourceMarket:
		line.Cost = rec.MarketValue * count
		line.Rank = rankMarket
	default:
		line.Cost = math.Inf(1)
		line.Rank = rankUnobtainable
	}
	return line
}
