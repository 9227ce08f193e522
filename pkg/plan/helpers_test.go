package plan

import (
	"testing"

	"github.com/shopspring/decimal"
)

// testCatalog is a minimal in-memory Catalog for tests in this package.
type testCatalog struct {
	items    map[ItemID]Item
	byOutput map[ItemID][]Recipe
	machines map[RecipeID][]Machine
}

func newTestCatalog() *testCatalog {
	return &testCatalog{
		items:    make(map[ItemID]Item),
		byOutput: make(map[ItemID][]Recipe),
		machines: make(map[RecipeID][]Machine),
	}
}

func (c *testCatalog) addItem(id ItemID) {
	c.items[id] = Item{ID: id}
}

func (c *testCatalog) addRecipe(r Recipe) {
	for _, out := range r.Outputs {
		c.addItem(out.Item)
		c.byOutput[out.Item] = append(c.byOutput[out.Item], r)
	}
	for _, in := range r.Inputs {
		c.addItem(in.Item)
	}
}

func (c *testCatalog) assignMachine(m Machine, recipes ...RecipeID) {
	for _, id := range recipes {
		c.machines[id] = append(c.machines[id], m)
	}
}

func (c *testCatalog) Item(id ItemID) (Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *testCatalog) RecipesProducing(item ItemID) []Recipe {
	return c.byOutput[item]
}

func (c *testCatalog) MachinesFor(recipe RecipeID) []Machine {
	return c.machines[recipe]
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func ing(item ItemID, amount float64) Ingredient {
	return Ingredient{Item: item, Amount: dec(amount)}
}

func testRecipe(id RecipeID, duration float64, inputs, outputs []Ingredient) Recipe {
	return Recipe{ID: id, Duration: dec(duration), Inputs: inputs, Outputs: outputs}
}

// gearCatalog is the worked example used across the solver tests: one
// gear consumes one plate over 0.5s; plates take 3.2s to produce from
// nothing.
func gearCatalog() *testCatalog {
	cat := newTestCatalog()
	cat.addRecipe(testRecipe("plate", 3.2,
		nil,
		[]Ingredient{ing("plate", 1)}))
	cat.addRecipe(testRecipe("gear", 0.5,
		[]Ingredient{ing("plate", 1)},
		[]Ingredient{ing("gear", 1)}))
	return cat
}

// loopCatalog builds a feedback loop: refine consumes one residue and
// yields two fuel; reprocess consumes one fuel and yields one residue.
func loopCatalog() *testCatalog {
	cat := newTestCatalog()
	cat.addRecipe(testRecipe("refine", 1,
		[]Ingredient{ing("residue", 1)},
		[]Ingredient{ing("fuel", 2)}))
	cat.addRecipe(testRecipe("reprocess", 1,
		[]Ingredient{ing("fuel", 1)},
		[]Ingredient{ing("residue", 1)}))
	return cat
}

func mustBuild(t *testing.T, target Demand, cat Catalog, cfg BuildConfig) *FlowGraph {
	t.Helper()
	graph, err := Build(target, cat, cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return graph
}

func mustSolve(t *testing.T, graph *FlowGraph) *ResolutionResult {
	t.Helper()
	result, err := Solve(graph)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	return result
}
