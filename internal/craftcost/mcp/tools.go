package mcp

import (
	"context"
	"encoding/json"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// ToolDefinition describes an MCP tool.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// JSONSchema is a simplified JSON Schema representation.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a schema property.
type Property struct {
	Type                 string              `json:"type,omitempty"`
	Description          string              `json:"description,omitempty"`
	Default              any                 `json:"default,omitempty"`
	Enum                 []string            `json:"enum,omitempty"`
	Minimum              *float64            `json:"minimum,omitempty"`
	Maximum              *float64            `json:"maximum,omitempty"`
	Items                *Property           `json:"items,omitempty"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *Property           `json:"additionalProperties,omitempty"`
}

// GetToolDefinitions returns all tool definitions.
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		listServersTool(),
		selectRealmTool(),
		itemPriceTool(),
		craftingTreeTool(),
		shoppingListTool(),
		listItemsTool(),
	}
}

// overridesProperty is shared by every tool that honors per-item mode
// overrides.
func overridesProperty() Property {
	return Property{
		Type:        "object",
		Description: "Per-item mode overrides (item name -> mode). An override always wins over the automatic choice.",
		AdditionalProperties: &Property{
			Type: "string",
			Enum: []string{"market", "crafting"},
		},
	}
}

func listServersTool() ToolDefinition {
	return ToolDefinition{
		Name:        "list_servers",
		Description: "List all known realms with their region, for use with select_realm.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

func selectRealmTool() ToolDefinition {
	return ToolDefinition{
		Name:        "select_realm",
		Description: "Load the market snapshot for a server and faction and resolve the full price table. Must be called before any pricing tool.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"server": {
					Type:        "string",
					Description: "Server slug from list_servers",
				},
				"faction": {
					Type:        "string",
					Description: "Which auction house to price against",
					Enum:        []string{"alliance", "horde", "both"},
				},
			},
			Required: []string{"server", "faction"},
		},
	}
}

func itemPriceTool() ToolDefinition {
	return ToolDefinition{
		Name:        "item_price",
		Description: "Price a single item: effective mode, acquisition source, and per-unit cost, honoring overrides through the whole crafting tree. Price is omitted when the item is unobtainable.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"item": {
					Type:        "string",
					Description: "Item name",
				},
				"overrides": overridesProperty(),
			},
			Required: []string{"item"},
		},
	}
}

func craftingTreeTool() ToolDefinition {
	minCount := 1.0

	return ToolDefinition{
		Name:        "crafting_tree",
		Description: "Recursive acquisition breakdown for an item: the chosen mode and price at every level, with reagent children wherever the item would be crafted.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"item": {
					Type:        "string",
					Description: "Item name",
				},
				"count": {
					Type:        "integer",
					Description: "How many are wanted",
					Default:     1,
					Minimum:     &minCount,
				},
				"overrides": overridesProperty(),
			},
			Required: []string{"item"},
		},
	}
}

func shoppingListTool() ToolDefinition {
	return ToolDefinition{
		Name:        "shopping_list",
		Description: "Expand a set of item requests into the flattened list of purchases needed to craft them: raw reagents, vendor buys, and required money, priced and ordered with the biggest purchases first.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"items": {
					Type:        "object",
					Description: "Requested items (item name -> desired count)",
					AdditionalProperties: &Property{Type: "integer"},
				},
				"overrides": overridesProperty(),
			},
			Required: []string{"items"},
		},
	}
}

func listItemsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "list_items",
		Description: "List all craftable items grouped by profession category.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

// Tool handlers

func (s *Server) toolListServers(ctx context.Context, args json.RawMessage) (any, error) {
	return s.engine.ListServers(ctx)
}

func (s *Server) toolSelectRealm(ctx context.Context, args json.RawMessage) (any, error) {
	var req craftcost.SelectRealmRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	return s.engine.SelectRealm(ctx, req)
}

func (s *Server) toolItemPrice(ctx context.Context, args json.RawMessage) (any, error) {
	var req craftcost.ItemPriceRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	return s.engine.ItemPrice(ctx, req)
}

func (s *Server) toolCraftingTree(ctx context.Context, args json.RawMessage) (any, error) {
	var req craftcost.CraftingTreeRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	return s.engine.CraftingTree(ctx, req)
}

func (s *Server) toolShoppingList(ctx context.Context, args json.RawMessage) (any, error) {
	var req craftcost.ShoppingListRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	return s.engine.ShoppingList(ctx, req)
}

func (s *Server) toolListItems(ctx context.Context, args json.RawMessage) (any, error) {
	return s.engine.ListItems(ctx)
}
