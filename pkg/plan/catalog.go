package plan

// Catalog is the read-only recipe database consumed by the builder. It
// is owned by the host process and shared across resolutions; lookups
// must be in-memory and non-blocking.
type Catalog interface {
	// Item returns the item with the given ID.
	Item(id ItemID) (Item, bool)
	// RecipesProducing returns every recipe with the item among its
	// outputs, in a stable catalog order.
	RecipesProducing(item ItemID) []Recipe
	// MachinesFor returns the machine kinds able to craft the recipe,
	// in a stable catalog order. An empty result means the builder
	// assumes DefaultMachine.
	MachinesFor(recipe RecipeID) []Machine
}

// SelectionPolicy picks the producing recipe for an item from the
// catalog's candidates. It must be a total deterministic function over
// its domain; returning false marks the selection as unresolved and
// fails the build with AmbiguousSelectionError.
type SelectionPolicy func(item Item, candidates []Recipe) (Recipe, bool)

// MachinePolicy picks the machine kind a recipe node runs in. Same
// determinism contract as SelectionPolicy.
type MachinePolicy func(recipe Recipe, candidates []Machine) (Machine, bool)

// FirstMatch selects the first candidate recipe in catalog order.
func FirstMatch() SelectionPolicy {
	return func(_ Item, candidates []Recipe) (Recipe, bool) {
		if len(candidates) == 0 {
			return Recipe{}, false
		}
		return candidates[0], true
	}
}

// Prefer selects the named recipe for items present in choices and
// falls back to the first catalog match for everything else. A choice
// naming a recipe that is not among the candidates leaves the item
// unresolved rather than silently picking another recipe.
func Prefer(choices map[ItemID]RecipeID) SelectionPolicy {
	first := FirstMatch()
	return func(item Item, candidates []Recipe) (Recipe, bool) {
		want, ok := choices[item.ID]
		if !ok {
			return first(item, candidates)
		}
		for _, r := range candidates {
			if r.ID == want {
				return r, true
			}
		}
		return Recipe{}, false
	}
}

// FirstMachine selects the first candidate machine in catalog order.
func FirstMachine() MachinePolicy {
	return func(_ Recipe, candidates []Machine) (Machine, bool) {
		if len(candidates) == 0 {
			return Machine{}, false
		}
		return candidates[0], true
	}
}
