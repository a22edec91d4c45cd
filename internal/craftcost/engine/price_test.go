package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// potionTable resolves a small two-level alchemy database:
// Flask <- 2x Elixir <- (2x Herb + 1x Vial).
func potionTable(t *testing.T) craftcost.PriceTable {
	t.Helper()
	db := craftcost.Database{
		"Herb":   {ID: 1},
		"Vial":   {ID: 2, VendorPrice: 20},
		"Elixir": {ID: 3, Reagents: map[string]int{"Herb": 2, "Vial": 1}},
		"Flask":  {ID: 4, Reagents: map[string]int{"Elixir": 2}, RequiredMoney: 10},
	}
	snap := craftcost.Snapshot{
		1: {Quantity: 500, MarketValue: 30},
		3: {Quantity: 12, MarketValue: 200},
		4: {Quantity: 2, MarketValue: 400},
	}
	table, err := Resolve(db, snap)
	require.NoError(t, err)
	return table
}

func TestEffectiveModeDefault(t *testing.T) {
	table := potionTable(t)

	// Elixir: crafting 2*30+20 = 80 < market 200 -> crafting
	require.Equal(t, craftcost.ModeCrafting, EffectiveMode(table, nil, "Elixir"))
	// Herb: not craftable -> market
	require.Equal(t, craftcost.ModeMarket, EffectiveMode(table, nil, "Herb"))
}

func TestEffectiveModeOverrideWins(t *testing.T) {
	table := potionTable(t)
	overrides := craftcost.Overrides{"Elixir": craftcost.ModeMarket}

	require.Equal(t, craftcost.ModeMarket, EffectiveMode(table, overrides, "Elixir"))
	require.Equal(t, 200.0, ItemPrice(table, "Elixir", overrides))
}

func TestEffectiveModeDefaultsToMarketWhenCheaper(t *testing.T) {
	db := craftcost.Database{
		"Gem":  {ID: 1, VendorPrice: 100},
		"Ring": {ID: 2, Reagents: map[string]int{"Gem": 3}},
	}
	snap := craftcost.Snapshot{
		2: {Quantity: 8, MarketValue: 250}, // crafting would cost 300
	}
	table, err := Resolve(db, snap)
	require.NoError(t, err)

	require.Equal(t, craftcost.ModeMarket, EffectiveMode(table, nil, "Ring"))
	require.Equal(t, 250.0, ItemPrice(table, "Ring", nil))
}

func TestItemPriceVendorFloor(t *testing.T) {
	// A vendor price wins even when the item is craftable and the user
	// forces crafting mode.
	db := craftcost.Database{
		"Thread": {VendorPrice: 50},
		"Cloth":  {ID: 1},
		"Shirt":  {VendorPrice: 30, Reagents: map[string]int{"Cloth": 1, "Thread": 1}},
	}
	snap := craftcost.Snapshot{1: {Quantity: 10, MarketValue: 2}}
	table, err := Resolve(db, snap)
	require.NoError(t, err)

	require.Equal(t, 30.0, ItemPrice(table, "Shirt", nil))
	require.Equal(t, 30.0, ItemPrice(table, "Shirt", craftcost.Overrides{"Shirt": craftcost.ModeCrafting}))
	require.Equal(t, 30.0, ItemPrice(table, "Shirt", craftcost.Overrides{"Shirt": craftcost.ModeMarket}))
}

func TestItemPriceHonorsOverridesPerItem(t *testing.T) {
	table := potionTable(t)

	// Default: Flask crafts from crafted Elixirs: 10 + 2*80 = 170.
	require.Equal(t, 170.0, ItemPrice(table, "Flask", nil))

	// Forcing Elixir to market only changes the Elixir level of the tree:
	// 10 + 2*200 = 410. Flask's own default still compares the resolved
	// crafting price (170) against its market value, so it keeps crafting.
	overrides := craftcost.Overrides{"Elixir": craftcost.ModeMarket}
	require.Equal(t, 410.0, CraftingPrice(table, "Flask", overrides))
	require.Equal(t, 410.0, ItemPrice(table, "Flask", overrides))

	// Forcing Flask to market on top buys it outright instead.
	overrides["Flask"] = craftcost.ModeMarket
	require.Equal(t, 400.0, ItemPrice(table, "Flask", overrides))
}

func TestItemPriceBindOnPickup(t *testing.T) {
	db := craftcost.Database{
		"Quest Gem": {BindOnPickup: true},
	}
	table, err := Resolve(db, craftcost.Snapshot{})
	require.NoError(t, err)

	require.Equal(t, 0.0, ItemPrice(table, "Quest Gem", nil))
	require.Equal(t, SourceFree, Source(table, nil, "Quest Gem"))
}

func TestItemPriceUnobtainable(t *testing.T) {
	db := craftcost.Database{
		"Lost Page": {ID: 7},
	}
	table, err := Resolve(db, craftcost.Snapshot{})
	require.NoError(t, err)

	require.True(t, math.IsInf(ItemPrice(table, "Lost Page", nil), 1))
	require.Equal(t, SourceUnobtainable, Source(table, nil, "Lost Page"))
}

func TestItemPriceDividesByYield(t *testing.T) {
	db := craftcost.Database{
		"Powder": {VendorPrice: 12},
		"Batch":  {Reagents: map[string]int{"Powder": 5}, CraftMin: 2, CraftMax: 2},
	}
	table, err := Resolve(db, craftcost.Snapshot{})
	require.NoError(t, err)

	// One craft costs 60 and yields 2, so the per-unit price is 30.
	require.Equal(t, 60.0, CraftingPrice(table, "Batch", nil))
	require.Equal(t, 30.0, ItemPrice(table, "Batch", nil))
}
