package market

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

func TestMergeFactionsBothSides(t *testing.T) {
	alliance := craftcost.Snapshot{
		1: {Quantity: 10, MarketValue: 100},
		2: {Quantity: 3, MarketValue: 900},
	}
	horde := craftcost.Snapshot{
		1: {Quantity: 4, MarketValue: 250},
		2: {Quantity: 7, MarketValue: 600},
	}

	merged := MergeFactions(alliance, horde)
	require.Len(t, merged, 2)

	// Quantities sum; the cheaper side wins the price and the tag.
	require.Equal(t, craftcost.MarketEntry{
		Quantity: 14, MarketValue: 100, Faction: craftcost.FactionAlliance,
	}, merged[1])
	require.Equal(t, craftcost.MarketEntry{
		Quantity: 10, MarketValue: 600, Faction: craftcost.FactionHorde,
	}, merged[2])
}

func TestMergeFactionsTieGoesToHorde(t *testing.T) {
	alliance := craftcost.Snapshot{1: {Quantity: 2, MarketValue: 500}}
	horde := craftcost.Snapshot{1: {Quantity: 3, MarketValue: 500}}

	merged := MergeFactions(alliance, horde)
	require.Equal(t, craftcost.FactionHorde, merged[1].Faction)
	require.Equal(t, 500.0, merged[1].MarketValue)
}

func TestMergeFactionsSingleSided(t *testing.T) {
	alliance := craftcost.Snapshot{1: {Quantity: 5, MarketValue: 80}}
	horde := craftcost.Snapshot{2: {Quantity: 9, MarketValue: 40}}

	merged := MergeFactions(alliance, horde)
	require.Len(t, merged, 2)
	require.Equal(t, craftcost.FactionAlliance, merged[1].Faction)
	require.Equal(t, craftcost.FactionHorde, merged[2].Faction)
}

func TestMergeFactionsEmptyInputs(t *testing.T) {
	require.Empty(t, MergeFactions(nil, nil))

	horde := craftcost.Snapshot{7: {Quantity: 1, MarketValue: 12}}
	merged := MergeFactions(craftcost.Snapshot{}, horde)
	require.Len(t, merged, 1)
	require.Equal(t, craftcost.FactionHorde, merged[7].Faction)
}
