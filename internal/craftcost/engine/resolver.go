// Package engine contains the price resolution and shopping list logic.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

var (
	// ErrItemNotFound means a reagent or requested item has no database entry.
	ErrItemNotFound = errors.New("item not found")
	// ErrCyclicalDependency means an item's reagent chain loops back to itself.
	ErrCyclicalDependency = errors.New("cyclical dependency")
)

type resolveStatus int

const (
	statusUnvisited resolveStatus = iota
	statusInProgress
	statusDone
)

type resolver struct {
	db       craftcost.Database
	snapshot craftcost.Snapshot
	status   map[string]resolveStatus
	table    craftcost.PriceTable
}

// Resolve builds a PriceRecord for every item in the database against the
// given market snapshot. It is a pure function of its inputs: resolving the
// same database and snapshot twice yields structurally identical tables.
// A missing reagent or a cycle in the reagent graph fails the whole
// resolution; no partial table is returned.
func Resolve(db craftcost.Database, snapshot craftcost.Snapshot) (craftcost.PriceTable, error) {
	r := &resolver{
		db:       db,
		snapshot: snapshot,
		status:   make(map[string]resolveStatus, len(db)),
		table:    make(craftcost.PriceTable, len(db)),
	}

	for name := range db {
		if _, err := r.resolve(name); err != nil {
			return nil, err
		}
	}

	return r.table, nil
}

// resolve computes the record for item (memoized) and returns its acquisition
// price, which steers the traversal of items that use it as a reagent.
func (r *resolver) resolve(item string) (float64, error) {
	switch r.status[item] {
	case statusInProgress:
		return 0, fmt.Errorf("%w: %s", ErrCyclicalDependency, item)
	case statusDone:
		return acquisitionPrice(r.table[item]), nil
	}

	entry, ok := r.db[item]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrItemNotFound, item)
	}
	r.status[item] = statusInProgress

	rec := &craftcost.PriceRecord{
		ID:       entry.ID,
		Quality:  entry.Quality,
		Icon:     entry.Icon,
		Category: entry.Category,
	}

	if entry.ID != 0 {
		if m, ok := r.snapshot[entry.ID]; ok {
			rec.Quantity = m.Quantity
			rec.MarketValue = m.MarketValue
			rec.Faction = m.Faction
		}
	}
	if entry.VendorPrice > 0 {
		rec.VendorPrice = entry.VendorPrice
	}
	// A crafting recipe takes precedence over the bind-on-pickup flag: a
	// craftable item is priced by its reagents, never treated as free.
	switch {
	case entry.Craftable():
		rec.Reagents = entry.Reagents
		rec.RequiredMoney = entry.RequiredMoney
		craftMin := entry.CraftMin
		if craftMin == 0 {
			craftMin = 1
		}
		craftMax := entry.CraftMax
		if craftMax == 0 {
			craftMax = 1
		}
		rec.CraftMin = craftMin
		rec.AmountCrafted = float64(craftMin+craftMax) / 2

		total := rec.RequiredMoney
		for reagent, qty := range entry.Reagents {
			price, err := r.resolve(reagent)
			if err != nil {
				return 0, err
			}
			total += price * float64(qty)
		}
		rec.CraftingPrice = total / rec.AmountCrafted

	case entry.BindOnPickup:
		rec.BindOnPickup = true
	}

	r.table[item] = rec
	r.status[item] = statusDone

	return acquisitionPrice(rec), nil
}

// acquisitionPrice is the minimum over the record's available price sources.
// Unavailable sources are excluded, not treated as zero; a bind-on-pickup
// item floors at 0 since it is farmed rather than bought. Returns +Inf when
// no source exists. Used only internally; callers price items through
// ItemPrice, which honors modes and overrides.
func acquisitionPrice(rec *craftcost.PriceRecord) float64 {
	best := math.Inf(1)
	if rec.BindOnPickup {
		best = 0
	}
	if rec.VendorPrice > 0 && rec.VendorPrice < best {
		best = rec.VendorPrice
	}
	if rec.MarketValue > 0 && rec.MarketValue < best {
		best = rec.MarketValue
	}
	if rec.Craftable() && rec.CraftingPrice < best {
		best = rec.CraftingPrice
	}
	return best
}
