// Package memory provides an in-memory Catalog implementation. It is
// populated once by an importer or by hand and then shared read-only
// across resolutions.
package memory

import (
	"github.com/vsinha/factoratio/pkg/plan"
)

// Catalog is an in-memory recipe database. The zero value is not
// usable; use New. Lookup results preserve insertion order, which is
// what makes FirstMatch selection reproducible.
type Catalog struct {
	items    map[plan.ItemID]plan.Item
	itemIDs  []plan.ItemID
	recipes  map[plan.RecipeID]plan.Recipe
	byOutput map[plan.ItemID][]plan.RecipeID
	machines map[plan.RecipeID][]plan.Machine
	fuels    map[string]plan.Fuel
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		items:    make(map[plan.ItemID]plan.Item),
		recipes:  make(map[plan.RecipeID]plan.Recipe),
		byOutput: make(map[plan.ItemID][]plan.RecipeID),
		machines: make(map[plan.RecipeID][]plan.Machine),
		fuels:    make(map[string]plan.Fuel),
	}
}

// AddItem registers an item. Re-adding an ID replaces the entry.
func (c *Catalog) AddItem(item plan.Item) {
	if _, exists := c.items[item.ID]; !exists {
		c.itemIDs = append(c.itemIDs, item.ID)
	}
	c.items[item.ID] = item
}

// AddRecipe registers a recipe as a producer of each of its outputs.
// Re-adding an ID replaces the entry, dropping the old registrations.
func (c *Catalog) AddRecipe(r plan.Recipe) {
	if old, exists := c.recipes[r.ID]; exists {
		for _, out := range old.Outputs {
			c.byOutput[out.Item] = withoutRecipe(c.byOutput[out.Item], r.ID)
		}
	}
	c.recipes[r.ID] = r
	for _, out := range r.Outputs {
		c.byOutput[out.Item] = append(c.byOutput[out.Item], r.ID)
	}
}

func withoutRecipe(ids []plan.RecipeID, id plan.RecipeID) []plan.RecipeID {
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}

// AssignMachine makes a machine kind eligible for the given recipes.
func (c *Catalog) AssignMachine(m plan.Machine, recipes ...plan.RecipeID) {
	for _, id := range recipes {
		c.machines[id] = append(c.machines[id], m)
	}
}

// AddFuel registers a fuel for lookup by burner machine definitions.
func (c *Catalog) AddFuel(f plan.Fuel) {
	c.fuels[f.ID] = f
}

// Item implements plan.Catalog.
func (c *Catalog) Item(id plan.ItemID) (plan.Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// RecipesProducing implements plan.Catalog.
func (c *Catalog) RecipesProducing(item plan.ItemID) []plan.Recipe {
	ids := c.byOutput[item]
	recipes := make([]plan.Recipe, 0, len(ids))
	for _, id := range ids {
		recipes = append(recipes, c.recipes[id])
	}
	return recipes
}

// MachinesFor implements plan.Catalog.
func (c *Catalog) MachinesFor(recipe plan.RecipeID) []plan.Machine {
	return c.machines[recipe]
}

// Fuel returns a registered fuel by ID.
func (c *Catalog) Fuel(id string) (plan.Fuel, bool) {
	f, ok := c.fuels[id]
	return f, ok
}

// Items returns all registered items in insertion order.
func (c *Catalog) Items() []plan.Item {
	items := make([]plan.Item, 0, len(c.itemIDs))
	for _, id := range c.itemIDs {
		items = append(items, c.items[id])
	}
	return items
}

// Recipe returns a registered recipe by ID.
func (c *Catalog) Recipe(id plan.RecipeID) (plan.Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}
