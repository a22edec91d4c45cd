package market

import "github.com/wowcraft/craftcost-server/pkg/craftcost"

// MergeFactions combines alliance and horde snapshots into a "both" snapshot.
// For items listed on both auction houses the quantities sum and the lower
// market value wins, tagged with the winning faction; single-sided items are
// tagged with their own faction. Pure function; never a partial merge.
func MergeFactions(alliance, horde craftcost.Snapshot) craftcost.Snapshot {
	merged := make(craftcost.Snapshot, len(alliance)+len(horde))

	for id, a := range alliance {
		h, ok := horde[id]
		if !ok {
			a.Faction = craftcost.FactionAlliance
			merged[id] = a
			continue
		}
		winner := craftcost.FactionHorde
		value := h.MarketValue
		if a.MarketValue < h.MarketValue {
			winner = craftcost.FactionAlliance
			value = a.MarketValue
		}
		merged[id] = craftcost.MarketEntry{
			Quantity:    a.Quantity + h.Quantity,
			MarketValue: value,
			Faction:     winner,
		}
	}

	for id, h := range horde {
		if _, ok := alliance[id]; ok {
			continue
		}
		h.Faction = craftcost.FactionHorde
		merged[id] = h
	}

	return merged
}
