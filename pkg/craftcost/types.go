// Package craftcost contains the core types for the crafting cost server.
package craftcost

// ============================================
// STATIC ITEM DATABASE
// ============================================

// RecipeEntry is the static database record for one item, keyed by item name.
// An entry with Reagents is craftable; one with a VendorPrice is purchasable
// from an NPC vendor; a BindOnPickup entry can never be bought on the auction
// house and is only obtainable by play.
type RecipeEntry struct {
	ID            int            `json:"id,omitempty"`
	Quality       int            `json:"quality,omitempty"`
	Icon          string         `json:"icon,omitempty"`
	Category      string         `json:"category,omitempty"`
	VendorPrice   float64        `json:"vendor,omitempty"`
	BindOnPickup  bool           `json:"bindOnPickup,omitempty"`
	Reagents      map[string]int `json:"reagents,omitempty"`
	RequiredMoney float64        `json:"requiredMoney,omitempty"`
	CraftMin      int            `json:"craftMin,omitempty"`
	CraftMax      int            `json:"craftMax,omitempty"`
}

// Craftable reports whether the entry has a crafting recipe.
func (e RecipeEntry) Craftable() bool {
	return len(e.Reagents) > 0
}

// Database is the immutable static item database, item name -> entry.
type Database map[string]RecipeEntry

// ============================================
// MARKET DATA
// ============================================

// Faction identifies which auction house a snapshot was taken from.
type Faction string

const (
	FactionAlliance Faction = "alliance"
	FactionHorde    Faction = "horde"
	FactionBoth     Faction = "both"
)

// IsValid checks if the faction is a known valid faction.
func (f Faction) IsValid() bool {
	switch f {
	case FactionAlliance, FactionHorde, FactionBoth:
		return true
	}
	return false
}

// MarketEntry is the auction-house listing data for one item.
// Faction is only set on entries produced by a cross-faction merge and names
// the faction whose (lower) price won.
type MarketEntry struct {
	Quantity    int     `json:"quantity"`
	MarketValue float64 `json:"marketValue"`
	Faction     Faction `json:"faction,omitempty"`
}

// Snapshot is a market price snapshot for one server+faction, keyed by item id.
type Snapshot map[int]MarketEntry

// Server describes one realm returned by the market data source.
type Server struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// ============================================
// PRICE TABLE
// ============================================

// PriceRecord is the resolved pricing data for one item. Records are built
// once per (server, faction) snapshot and are immutable afterwards.
// CraftingPrice is only meaningful when Reagents is non-nil and is the
// expected per-unit cost of crafting: (RequiredMoney + reagent costs) divided
// by AmountCrafted. It may be +Inf when a reagent has no price source.
type PriceRecord struct {
	ID       int
	Quality  int
	Icon     string
	Category string

	VendorPrice float64 // 0 means no vendor source
	MarketValue float64 // 0 means no market listing
	Quantity    int
	Faction     Faction

	BindOnPickup bool

	Reagents      map[string]int // nil means not craftable
	RequiredMoney float64
	AmountCrafted float64
	CraftMin      int
	CraftingPrice float64
}

// Craftable reports whether the record carries a crafting recipe.
func (r *PriceRecord) Craftable() bool {
	return r.Reagents != nil
}

// PriceTable maps item names to their resolved price records.
type PriceTable map[string]*PriceRecord

// ============================================
// MODES & OVERRIDES
// ============================================

// Mode is the acquisition strategy chosen for an item.
type Mode string

const (
	ModeMarket   Mode = "market"
	ModeCrafting Mode = "crafting"
)

// IsValid checks if the mode is a known valid mode.
func (m Mode) IsValid() bool {
	return m == ModeMarket || m == ModeCrafting
}

// Overrides maps item names to a user-forced mode. Caller-owned; an entry
// always wins over the automatic default, even when it is more expensive.
type Overrides map[string]Mode

// ============================================
// TOOL REQUEST/RESPONSE TYPES
// ============================================

// ListServersResponse is the output for the list_servers tool.
type ListServersResponse struct {
	Servers []Server `json:"servers"`
}

// SelectRealmRequest is the input for the select_realm tool.
type SelectRealmRequest struct {
	Server  string  `json:"server"`
	Faction Faction `json:"faction"`
}

// SelectRealmResponse is the output for the select_realm tool.
type SelectRealmResponse struct {
	Server  string  `json:"server"`
	Faction Faction `json:"faction"`
	Items   int     `json:"items"`
	Stale   bool    `json:"stale,omitempty"`
}

// ItemPriceRequest is the input for the item_price tool.
type ItemPriceRequest struct {
	Item      string    `json:"item"`
	Overrides Overrides `json:"overrides,omitempty"`
}

// ItemPriceResponse is the output for the item_price tool.
// Price is nil when the item is unobtainable.
type ItemPriceResponse struct {
	Item          string   `json:"item"`
	Mode          Mode     `json:"mode"`
	Source        string   `json:"source"`
	Price         *float64 `json:"price,omitempty"`
	VendorPrice   *float64 `json:"vendor_price,omitempty"`
	MarketValue   *float64 `json:"market_value,omitempty"`
	Quantity      int      `json:"quantity,omitempty"`
	Faction       Faction  `json:"faction,omitempty"`
	CraftingPrice *float64 `json:"crafting_price,omitempty"`
	AmountCrafted float64  `json:"amount_crafted,omitempty"`
	BindOnPickup  bool     `json:"bind_on_pickup,omitempty"`
}

// CraftingTreeRequest is the input for the crafting_tree tool.
type CraftingTreeRequest struct {
	Item      string    `json:"item"`
	Count     int       `json:"count"`
	Overrides Overrides `json:"overrides,omitempty"`
}

// TreeNode is one node of a recursive crafting breakdown. Children are only
// present when the node's effective source is crafting.
type TreeNode struct {
	Item          string     `json:"item"`
	Count         int        `json:"count"`
	Mode          Mode       `json:"mode"`
	Source        string     `json:"source"`
	Price         *float64   `json:"price,omitempty"`
	RequiredMoney float64    `json:"required_money,omitempty"`
	Children      []TreeNode `json:"children,omitempty"`
}

// ShoppingListRequest is the input for the shopping_list tool.
type ShoppingListRequest struct {
	Items     map[string]int `json:"items"`
	Overrides Overrides      `json:"overrides,omitempty"`
}

// PurchaseLine is one leaf purchase in a priced shopping list.
// Cost is nil for items with no known price source; such lines are shown but
// excluded from the list total.
type PurchaseLine struct {
	Item   string   `json:"item"`
	Count  float64  `json:"count"`
	Cost   *float64 `json:"cost,omitempty"`
	Source string   `json:"source"`
}

// ShoppingListResponse is the output for the shopping_list tool.
type ShoppingListResponse struct {
	Lines []PurchaseLine `json:"lines"`
	Total float64        `json:"total"`
}

// ItemCategory groups craftable items under one category for list_items.
type ItemCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// ListItemsResponse is the output for the list_items tool.
type ListItemsResponse struct {
	Categories []ItemCategory `json:"categories"`
}
