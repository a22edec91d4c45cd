// Package itemdb loads the static profession item database.
package itemdb

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// Load reads the item database from a JSON file: a single object mapping
// item names to their recipe entries.
func Load(path string) (craftcost.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item database: %w", err)
	}

	var db craftcost.Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parsing item database: %w", err)
	}

	if err := Validate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Validate checks referential integrity: every reagent of every recipe must
// itself have a database entry. The resolver would reject a dangling
// reference anyway, but failing at load time names the bad data up front.
func Validate(db craftcost.Database) error {
	for name, entry := range db {
		for reagent := range entry.Reagents {
			if _, ok := db[reagent]; !ok {
				return fmt.Errorf("item %q references unknown reagent %q", name, reagent)
			}
		}
	}
	return nil
}

// categoryNames maps category slugs from the item data to display names.
var categoryNames = map[string]string{
	"alchemy":        "Alchemy",
	"blacksmithing":  "Blacksmithing",
	"cooking":        "Cooking",
	"enchanting":     "Enchanting",
	"engineering":    "Engineering",
	"firstaid":       "First Aid",
	"leatherworking": "Leatherworking",
	"tailoring":      "Tailoring",
	"mining":         "Mining",
	"quest":          "Quests",
	"tierset":        "Item Sets",
	"":               "Misc",
}

// CategoryName returns the display name for a category slug. Unknown slugs
// pass through unchanged.
func CategoryName(slug string) string {
	if name, ok := categoryNames[slug]; ok {
		return name
	}
	return slug
}

// Categories groups craftable item names by category slug, for item listings.
func Categories(db craftcost.Database) map[string][]string {
	categories := make(map[string][]string)
	for name, entry := range db {
		if !entry.Craftable() {
			continue
		}
		categories[entry.Category] = append(categories[entry.Category], name)
	}
	return categories
}
