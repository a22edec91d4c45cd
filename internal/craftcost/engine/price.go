package engine

import (
	"math"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// SourceKind is the single acquisition decision for an item under the current
// overrides. Both the pricing functions and the shopping list expansion
// branch on it, so the two can never disagree on how an item is obtained.
type SourceKind int

const (
	// SourceVendor: fixed vendor price, always wins when present.
	SourceVendor SourceKind = iota
	// SourceMarket: bought on the auction house at market value.
	SourceMarket
	// SourceCrafted: crafted from reagents.
	SourceCrafted
	// SourceFree: bind-on-pickup, farmed rather than bought.
	SourceFree
	// SourceUnobtainable: no known way to acquire the item.
	SourceUnobtainable
)

// String returns the source name used in tool responses.
func (k SourceKind) String() string {
	switch k {
	case SourceVendor:
		return "vendor"
	case SourceMarket:
		return "market"
	case SourceCrafted:
		return "crafting"
	case SourceFree:
		return "free"
	default:
		return "unobtainable"
	}
}

// EffectiveMode returns the acquisition mode for item. An explicit override
// always wins; otherwise crafting is chosen iff the item is craftable and
// either has no market listing or crafts cheaper than it trades.
func EffectiveMode(table craftcost.PriceTable, overrides craftcost.Overrides, item string) craftcost.Mode {
	if mode, ok := overrides[item]; ok {
		return mode
	}
	rec := table[item]
	if rec != nil && rec.Craftable() && (rec.MarketValue == 0 || rec.CraftingPrice < rec.MarketValue) {
		return craftcost.ModeCrafting
	}
	return craftcost.ModeMarket
}

// Source decides how an item is acquired under the current overrides.
func Source(table craftcost.PriceTable, overrides craftcost.Overrides, item string) SourceKind {
	rec := table[item]
	if rec == nil {
		return SourceUnobtainable
	}
	if rec.VendorPrice == 0 && rec.Craftable() && EffectiveMode(table, overrides, item) == craftcost.ModeCrafting {
		return SourceCrafted
	}
	return purchaseSource(rec)
}

// purchaseSource classifies an item as a direct purchase, ignoring any
// crafting recipe. This is the leaf decision shared with the shopping list.
func purchaseSource(rec *craftcost.PriceRecord) SourceKind {
	switch {
	case rec.VendorPrice > 0:
		return SourceVendor
	case rec.BindOnPickup:
		return SourceFree
	case rec.MarketValue > 0:
		return SourceMarket
	default:
		return SourceUnobtainable
	}
}

// ItemPrice returns the per-unit acquisition cost of item, honoring overrides
// at every level of the crafting tree. A vendor price always wins. Returns
// +Inf when the item cannot be obtained at all; the infinity propagates
// arithmetically through enclosing crafting costs.
func ItemPrice(table craftcost.PriceTable, item string, overrides craftcost.Overrides) float64 {
	rec := table[item]
	switch Source(table, overrides, item) {
	case SourceVendor:
		return rec.VendorPrice
	case SourceCrafted:
		return CraftingPrice(table, item, overrides) / rec.AmountCrafted
	case SourceFree:
		return 0
	case SourceMarket:
		return rec.MarketValue
	default:
		return math.Inf(1)
	}
}

// CraftingPrice returns the total cost of one craft action for item: required
// money plus the override-honoring price of every reagent. Callers divide by
// AmountCrafted to treat it as a per-unit price.
func CraftingPrice(table craftcost.PriceTable, item string, overrides craftcost.Overrides) float64 {
	rec := table[item]
	total := rec.RequiredMoney
	for reagent, qty := range rec.Reagents {
		total += ItemPrice(table, reagent, overrides) * float64(qty)
	}
	return total
}
