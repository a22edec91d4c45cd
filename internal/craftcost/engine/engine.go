package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/wowcraft/craftcost-server/internal/craftcost/db"
	"github.com/wowcraft/craftcost-server/internal/craftcost/itemdb"
	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// ErrNoRealmSelected means a pricing tool was called before select_realm.
var ErrNoRealmSelected = errors.New("no realm selected")

// Fixed preference keys for the persisted realm selection.
const (
	prefServerKey  = "last_server"
	prefFactionKey = "last_faction"
)

// PriceSource loads a market snapshot for a (server, faction) pair.
type PriceSource interface {
	Load(ctx context.Context, server string, faction craftcost.Faction) (craftcost.Snapshot, error)
}

// ServerLister lists the known realms.
type ServerLister interface {
	ListServers(ctx context.Context) ([]craftcost.Server, error)
}

// Engine owns the static item database and the price table for the currently
// selected realm. The table is immutable once committed; realm changes
// replace it wholesale. Overrides and shopping requests arrive per call and
// are never stored.
type Engine struct {
	items   craftcost.Database
	servers ServerLister
	prices  PriceSource
	store   *db.DB // optional preference persistence
	logger  *slog.Logger

	mu      sync.Mutex
	gen     uint64
	table   craftcost.PriceTable
	server  string
	faction craftcost.Faction
}

// New creates an Engine. store may be nil to disable preference persistence.
func New(items craftcost.Database, servers ServerLister, prices PriceSource, store *db.DB, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		items:   items,
		servers: servers,
		prices:  prices,
		store:   store,
		logger:  logger,
	}
}

// ListServers returns the realm list, ordered by region then name.
func (e *Engine) ListServers(ctx context.Context) (*craftcost.ListServersResponse, error) {
	servers, err := e.servers.ListServers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(servers, func(i, j int) bool {
		if servers[i].Region != servers[j].Region {
			return servers[i].Region < servers[j].Region
		}
		return servers[i].Name < servers[j].Name
	})
	return &craftcost.ListServersResponse{Servers: servers}, nil
}

// SelectRealm loads the snapshot for (server, faction), resolves the full
// price table and commits it. Selections race under last-request-wins: a
// resolution that finishes after a newer selection started is discarded and
// reported as stale rather than overwriting the newer table.
func (e *Engine) SelectRealm(ctx context.Context, req craftcost.SelectRealmRequest) (*craftcost.SelectRealmResponse, error) {
	if req.Server == "" {
		return nil, errors.New("server is required")
	}
	if !req.Faction.IsValid() {
		return nil, fmt.Errorf("invalid faction: %q", req.Faction)
	}

	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	snapshot, err := e.prices.Load(ctx, req.Server, req.Faction)
	if err != nil {
		return nil, fmt.Errorf("loading prices for %s-%s: %w", req.Server, req.Faction, err)
	}

	table, err := Resolve(e.items, snapshot)
	if err != nil {
		return nil, fmt.Errorf("resolving prices for %s-%s: %w", req.Server, req.Faction, err)
	}

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		e.logger.Info("discarding stale price table",
			"server", req.Server, "faction", req.Faction)
		return &craftcost.SelectRealmResponse{
			Server: req.Server, Faction: req.Faction,
			Items: len(table), Stale: true,
		}, nil
	}
	e.table = table
	e.server = req.Server
	e.faction = req.Faction
	e.mu.Unlock()

	e.persistRealm(ctx, req.Server, req.Faction)
	e.logger.Info("price table resolved",
		"server", req.Server, "faction", req.Faction, "items", len(table))

	return &craftcost.SelectRealmResponse{
		Server: req.Server, Faction: req.Faction, Items: len(table),
	}, nil
}

// RestoreLastRealm re-selects the realm persisted by a previous run, if any.
func (e *Engine) RestoreLastRealm(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	server, err := e.store.GetPreference(ctx, prefServerKey)
	if err != nil {
		return err
	}
	faction, err := e.store.GetPreference(ctx, prefFactionKey)
	if err != nil {
		return err
	}
	if server == "" || faction == "" {
		return nil
	}

	_, err = e.SelectRealm(ctx, craftcost.SelectRealmRequest{
		Server:  server,
		Faction: craftcost.Faction(faction),
	})
	return err
}

func (e *Engine) persistRealm(ctx context.Context, server string, faction craftcost.Faction) {
	if e.store == nil {
		return
	}
	if err := e.store.SetPreference(ctx, prefServerKey, server); err != nil {
		e.logger.Warn("failed to persist server preference", "error", err)
		return
	}
	if err := e.store.SetPreference(ctx, prefFactionKey, string(faction)); err != nil {
		e.logger.Warn("failed to persist faction preference", "error", err)
	}
}

// currentTable returns the committed price table, or ErrNoRealmSelected.
func (e *Engine) currentTable() (craftcost.PriceTable, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.table == nil {
		return nil, ErrNoRealmSelected
	}
	return e.table, nil
}

// ItemPrice prices a single item under the given overrides.
func (e *Engine) ItemPrice(ctx context.Context, req craftcost.ItemPriceRequest) (*craftcost.ItemPriceResponse, error) {
	table, err := e.currentTable()
	if err != nil {
		return nil, err
	}
	rec := table[req.Item]
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, req.Item)
	}

	resp := &craftcost.ItemPriceResponse{
		Item:         req.Item,
		Mode:         EffectiveMode(table, req.Overrides, req.Item),
		Source:       Source(table, req.Overrides, req.Item).String(),
		Price:        finitePtr(ItemPrice(table, req.Item, req.Overrides)),
		Quantity:     rec.Quantity,
		Faction:      rec.Faction,
		BindOnPickup: rec.BindOnPickup,
	}
	if rec.VendorPrice > 0 {
		resp.VendorPrice = &rec.VendorPrice
	}
	if rec.MarketValue > 0 {
		resp.MarketValue = &rec.MarketValue
	}
	if rec.Craftable() {
		resp.CraftingPrice = finitePtr(CraftingPrice(table, req.Item, req.Overrides))
		resp.AmountCrafted = rec.AmountCrafted
	}

	return resp, nil
}

// CraftingTree returns the recursive acquisition breakdown for an item.
func (e *Engine) CraftingTree(ctx context.Context, req craftcost.CraftingTreeRequest) (*craftcost.TreeNode, error) {
	table, err := e.currentTable()
	if err != nil {
		return nil, err
	}
	count := req.Count
	if count <= 0 {
		count = 1
	}
	node := CraftingTree(table, req.Overrides, req.Item, count)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, req.Item)
	}
	return node, nil
}

// ShoppingList expands the requested items into a priced, ordered list of
// leaf purchases.
func (e *Engine) ShoppingList(ctx context.Context, req craftcost.ShoppingListRequest) (*craftcost.ShoppingListResponse, error) {
	table, err := e.currentTable()
	if err != nil {
		return nil, err
	}

	list := BuildShoppingList(table, req.Overrides, req.Items)
	lines, total := PriceShoppingList(table, list)

	resp := &craftcost.ShoppingListResponse{
		Lines: make([]craftcost.PurchaseLine, 0, len(lines)),
		Total: total,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, craftcost.PurchaseLine{
			Item:   line.Item,
			Count:  line.Count,
			Cost:   finitePtr(line.Cost),
			Source: lineSource(line.Rank),
		})
	}

	return resp, nil
}

// ListItems returns the craftable items grouped by category.
func (e *Engine) ListItems(ctx context.Context) (*craftcost.ListItemsResponse, error) {
	grouped := itemdb.Categories(e.items)

	resp := &craftcost.ListItemsResponse{
		Categories: make([]craftcost.ItemCategory, 0, len(grouped)),
	}
	for category, items := range grouped {
		sort.Strings(items)
		resp.Categories = append(resp.Categories, craftcost.ItemCategory{
			Category: itemdb.CategoryName(category),
			Items:    items,
		})
	}
	sort.Slice(resp.Categories, func(i, j int) bool {
		return resp.Categories[i].Category < resp.Categories[j].Category
	})

	return resp, nil
}

func lineSource(rank int) string {
	switch rank {
	case rankFree:
		return SourceFree.String()
	case rankUnobtainable:
		return SourceUnobtainable.String()
	case rankMarket:
		return SourceMarket.String()
	case rankVendor:
		return SourceVendor.String()
	default:
		return MoneyItem
	}
}

// finitePtr returns a pointer to v, or nil when v is not finite.
func finitePtr(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
