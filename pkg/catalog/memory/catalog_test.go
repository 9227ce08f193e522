package memory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoratio/pkg/plan"
)

func TestCatalog_ItemLookup(t *testing.T) {
	cat := New()
	cat.AddItem(plan.Item{ID: "iron-plate", Type: "item"})

	item, ok := cat.Item("iron-plate")
	if !ok {
		t.Fatal("expected item to be found")
	}
	if item.Type != "item" {
		t.Errorf("unexpected type %q", item.Type)
	}

	if _, ok := cat.Item("missing"); ok {
		t.Error("expected lookup miss for unknown item")
	}
}

func TestCatalog_RecipesProducingPreservesOrder(t *testing.T) {
	cat := New()
	first := plan.Recipe{
		ID:       "basic-oil",
		Outputs:  []plan.Ingredient{{Item: "petroleum", Amount: decimal.NewFromInt(45)}},
		Duration: decimal.NewFromInt(5),
	}
	second := plan.Recipe{
		ID:       "advanced-oil",
		Outputs:  []plan.Ingredient{{Item: "petroleum", Amount: decimal.NewFromInt(55)}},
		Duration: decimal.NewFromInt(5),
	}
	cat.AddRecipe(first)
	cat.AddRecipe(second)

	recipes := cat.RecipesProducing("petroleum")
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].ID != "basic-oil" || recipes[1].ID != "advanced-oil" {
		t.Errorf("catalog order not preserved: %s, %s", recipes[0].ID, recipes[1].ID)
	}
}

func TestCatalog_MultiOutputRecipeIsIndexedPerOutput(t *testing.T) {
	cat := New()
	cat.AddRecipe(plan.Recipe{
		ID: "oil-processing",
		Outputs: []plan.Ingredient{
			{Item: "heavy-oil", Amount: decimal.NewFromInt(25)},
			{Item: "light-oil", Amount: decimal.NewFromInt(45)},
		},
		Duration: decimal.NewFromInt(5),
	})

	for _, item := range []plan.ItemID{"heavy-oil", "light-oil"} {
		recipes := cat.RecipesProducing(item)
		if len(recipes) != 1 || recipes[0].ID != "oil-processing" {
			t.Errorf("expected oil-processing to produce %s", item)
		}
	}
}

func TestCatalog_ReaddRecipeReplacesRegistrations(t *testing.T) {
	cat := New()
	cat.AddRecipe(plan.Recipe{
		ID:       "smelt",
		Outputs:  []plan.Ingredient{{Item: "iron-plate", Amount: decimal.NewFromInt(1)}},
		Duration: decimal.NewFromFloat(3.2),
	})
	cat.AddRecipe(plan.Recipe{
		ID:       "smelt",
		Outputs:  []plan.Ingredient{{Item: "steel-plate", Amount: decimal.NewFromInt(1)}},
		Duration: decimal.NewFromInt(16),
	})

	if recipes := cat.RecipesProducing("iron-plate"); len(recipes) != 0 {
		t.Errorf("stale producer registration survived re-add: %d recipes", len(recipes))
	}
	recipes := cat.RecipesProducing("steel-plate")
	if len(recipes) != 1 {
		t.Fatalf("expected 1 producer of steel-plate, got %d", len(recipes))
	}
	if !recipes[0].Duration.Equal(decimal.NewFromInt(16)) {
		t.Error("re-add did not replace the recipe entry")
	}
}

func TestCatalog_MachineAssignment(t *testing.T) {
	cat := New()
	furnace := plan.Machine{ID: "stone-furnace", CraftSpeed: decimal.NewFromInt(1)}
	electric := plan.Machine{ID: "electric-furnace", CraftSpeed: decimal.NewFromInt(2)}
	cat.AssignMachine(furnace, "iron-plate", "copper-plate")
	cat.AssignMachine(electric, "iron-plate")

	machines := cat.MachinesFor("iron-plate")
	if len(machines) != 2 {
		t.Fatalf("expected 2 machines, got %d", len(machines))
	}
	if machines[0].ID != "stone-furnace" {
		t.Errorf("assignment order not preserved: %s", machines[0].ID)
	}
	if len(cat.MachinesFor("copper-plate")) != 1 {
		t.Error("expected furnace on copper-plate")
	}
	if len(cat.MachinesFor("unassigned")) != 0 {
		t.Error("expected no machines for unassigned recipe")
	}
}

func TestCatalog_ItemsInsertionOrder(t *testing.T) {
	cat := New()
	for _, id := range []plan.ItemID{"c", "a", "b"} {
		cat.AddItem(plan.Item{ID: id})
	}
	// Re-adding must not duplicate.
	cat.AddItem(plan.Item{ID: "a", Type: "fluid"})

	items := cat.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []plan.ItemID{"c", "a", "b"}
	for i, item := range items {
		if item.ID != want[i] {
			t.Errorf("items[%d] = %s, want %s", i, item.ID, want[i])
		}
	}
	if item, _ := cat.Item("a"); item.Type != "fluid" {
		t.Error("re-adding an item should replace the entry")
	}
}

func TestCatalog_FuelAndRecipeLookup(t *testing.T) {
	cat := New()
	cat.AddFuel(plan.Fuel{ID: "coal"})
	cat.AddRecipe(plan.Recipe{
		ID:       "iron-plate",
		Outputs:  []plan.Ingredient{{Item: "iron-plate", Amount: decimal.NewFromInt(1)}},
		Duration: decimal.NewFromFloat(3.2),
	})

	if _, ok := cat.Fuel("coal"); !ok {
		t.Error("expected coal fuel")
	}
	if _, ok := cat.Fuel("wood"); ok {
		t.Error("expected lookup miss for unknown fuel")
	}
	if r, ok := cat.Recipe("iron-plate"); !ok || len(r.Outputs) != 1 {
		t.Error("expected iron-plate recipe")
	}
}

func TestCatalog_ImplementsPlanCatalog(t *testing.T) {
	var _ plan.Catalog = New()
}
